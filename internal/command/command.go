package command

import (
	commandHandler "vocalis/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewVerifyModelsHandler)

type Command struct {
	verifyModelsHandler *commandHandler.VerifyModelsHandler
}

// NewCommand .
func NewCommand(
	verifyModelsHandler *commandHandler.VerifyModelsHandler,
) *Command {
	return &Command{
		verifyModelsHandler: verifyModelsHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "verify-models",
			Short: "載入模型資產並列出摘要，部署前驗證用",
			Run: func(cmd *cobra.Command, args []string) {
				command, cleanup, err := newCmd()
				if err != nil {
					panic(err)
				}
				defer cleanup()

				command.verifyModelsHandler.Verify(cmd, args)
			},
		},
	)
}
