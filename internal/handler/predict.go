package handler

import (
	"fmt"

	"vocalis/config"
	"vocalis/internal/middleware"
	"vocalis/internal/pkg/response"
	"vocalis/internal/service"
	"vocalis/internal/telemetry"
	"vocalis/utils/validate"

	"github.com/gin-gonic/gin"
)

type PredictHandler struct {
	trace             *telemetry.Trace
	conf              *config.Configuration
	predictionService *service.PredictionService
	quotaService      *service.QuotaService
}

func NewPredictHandler(
	trace *telemetry.Trace,
	conf *config.Configuration,
	predictionService *service.PredictionService,
	quotaService *service.QuotaService,
) *PredictHandler {
	return &PredictHandler{
		trace:             trace,
		conf:              conf,
		predictionService: predictionService,
		quotaService:      quotaService,
	}
}

// Predict 聲音性別／年齡推論
// @Summary 上傳音檔並取得性別與年齡區間預測
// @Tags Predict
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "WAV 音檔"
// @Success 200 {object} dto.PredictResponseDto
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/v1/predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)
	defer end(nil)

	identity, idErr := middleware.IdentityFrom(c)
	if idErr != nil {
		response.AbortWithError(c, idErr)
		return
	}

	requestID := fmt.Sprintf("%x", span.SpanContext().TraceID())

	// 缺檔與格式錯誤都交給 service 在扣抵配額「之後」判定，
	// 一次呼叫就是一次扣抵，這裡只負責落地暫存檔。
	fileName, filePath := "", ""
	if fileHeader, fileErr := c.FormFile("audio"); fileErr == nil && fileHeader != nil {
		fileName = fileHeader.Filename
		savedPath, saveErr := saveUpload(fileHeader, h.conf.Models.UploadDir, c.Request.Header)
		if saveErr != nil {
			end(saveErr)
			response.AbortWithError(c, cErrInternal(saveErr))
			return
		}
		filePath = savedPath
	}

	result, err := h.predictionService.Predict(ctx, identity, requestID, fileName, filePath)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, result)
}

// Get 讀取單筆預測紀錄
// @Summary 讀取預測紀錄（含回饋狀態）
// @Tags Predict
// @Security BearerAuth
// @Produce json
// @Param id path int true "Prediction ID"
// @Success 200 {object} dto.PredictionRecordDto
// @Failure 404 {object} map[string]string
// @Router /api/v1/predictions/{id} [get]
func (h *PredictHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	identity, idErr := middleware.IdentityFrom(c)
	if idErr != nil {
		response.AbortWithError(c, idErr)
		return
	}

	id, cause, respErr := validate.ParseInt64Param(c, "id")
	if respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	record, err := h.predictionService.GetPrediction(ctx, identity, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, record)
}

// Quota 查詢當日剩餘配額
// @Summary 查詢當日剩餘配額（無限制方案回傳 -1）
// @Tags Predict
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/v1/quota [get]
func (h *PredictHandler) Quota(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	identity, idErr := middleware.IdentityFrom(c)
	if idErr != nil {
		response.AbortWithError(c, idErr)
		return
	}

	remaining, err := h.quotaService.Remaining(ctx, identity, dayKeyNow())
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"remaining": remaining})
}
