package command

import (
	"vocalis/internal/inference"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type VerifyModelsHandler struct {
	logger   *zap.Logger
	registry *inference.Registry
}

func NewVerifyModelsHandler(logger *zap.Logger, registry *inference.Registry) *VerifyModelsHandler {
	return &VerifyModelsHandler{
		logger:   logger,
		registry: registry,
	}
}

// Verify 載入全部模型資產；任何一個壞掉就直接報錯離開
func (handler *VerifyModelsHandler) Verify(cmd *cobra.Command, args []string) {
	bundle, err := handler.registry.Bundle()
	if err != nil {
		cmd.PrintErrln("model bundle load failed:", err)
		return
	}

	cmd.Println("model bundle OK")
	cmd.Printf("  features: %d\n", len(bundle.FeatureList))
	cmd.Printf("  gender scorers: %d\n", len(bundle.GenderScorers))
	for _, scorer := range bundle.GenderScorers {
		cmd.Printf("    - %s\n", scorer.Name())
	}
	cmd.Printf("  age stage-1 classes: %d\n", len(bundle.Step1Decoder))
	cmd.Printf("  age stage-2 classes: %d\n", len(bundle.Step2Decoder))
}
