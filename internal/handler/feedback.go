package handler

import (
	"time"

	"vocalis/internal/core"
	"vocalis/internal/dto"
	"vocalis/internal/middleware"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/pkg/response"
	"vocalis/internal/service"
	"vocalis/internal/telemetry"
	"vocalis/utils/validate"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	trace             *telemetry.Trace
	predictionService *service.PredictionService
}

func NewFeedbackHandler(trace *telemetry.Trace, predictionService *service.PredictionService) *FeedbackHandler {
	return &FeedbackHandler{trace: trace, predictionService: predictionService}
}

// Submit 提交預測回饋
// @Summary 回報預測結果正確與否，可附更正標籤
// @Tags Feedback
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.FeedbackDto true "回饋內容"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	identity, idErr := middleware.IdentityFrom(c)
	if idErr != nil {
		response.AbortWithError(c, idErr)
		return
	}

	var req dto.FeedbackDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	if err := h.predictionService.Feedback(ctx, identity, &req); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "feedback recorded")
}

func dayKeyNow() string {
	return core.DayKey(time.Now())
}

func cErrInternal(err error) *cErr.Error {
	return cErr.InternalServer(err.Error())
}
