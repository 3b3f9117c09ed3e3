package handler

import (
	"strconv"

	"vocalis/internal/dto"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/pkg/response"
	"vocalis/internal/service"
	"vocalis/internal/telemetry"
	"vocalis/utils/validate"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type AdminUserHandler struct {
	trace             *telemetry.Trace
	userService       *service.UserService
	quotaService      *service.QuotaService
	predictionService *service.PredictionService
}

func NewAdminUserHandler(
	trace *telemetry.Trace,
	userService *service.UserService,
	quotaService *service.QuotaService,
	predictionService *service.PredictionService,
) *AdminUserHandler {
	return &AdminUserHandler{
		trace:             trace,
		userService:       userService,
		quotaService:      quotaService,
		predictionService: predictionService,
	}
}

// List 用戶列表
// @Summary 取得用戶列表
// @Tags Admin-User
// @Security BearerAuth
// @Produce json
// @Param page query int false "頁碼"
// @Param size query int false "每頁筆數"
// @Param plan query string false "方案"
// @Param status query string false "狀態"
// @Success 200 {array} dto.UserResponseDto
// @Failure 500 {object} map[string]string
// @Router /admin/users [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	page := getInt64Query(c, "page", 0)
	size := getInt64Query(c, "size", 20)
	plan := c.Query("plan")
	status := c.Query("status")

	filter := bson.M{}
	if plan != "" {
		filter["plan"] = plan
	}
	if status != "" {
		filter["status"] = status
	}

	users, err := h.userService.ListUsers(ctx, filter, page, size)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, users)
}

// Get 取得用戶
// @Summary 取得單一用戶資訊
// @Tags Admin-User
// @Security BearerAuth
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponseDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{userID} [get]
func (h *AdminUserHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "userID")
	if respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	user, err := h.userService.GetUserByID(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, user)
}

// Create 新增用戶
// @Summary 新增用戶並簽發 API Key（只回傳這一次）
// @Tags Admin-User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateUserDto true "用戶資訊"
// @Success 201 {object} dto.UserResponseDto
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/users [post]
func (h *AdminUserHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.CreateUserDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if !validate.IsValidPlan(string(req.Plan)) {
		response.AbortWithError(c, cErr.BadRequestParams("invalid plan"))
		return
	}
	if req.Role != "" && !validate.IsValidRole(string(req.Role)) {
		response.AbortWithError(c, cErr.BadRequestParams("invalid role"))
		return
	}

	res, err := h.userService.Register(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, res)
}

// UpdateStatus 更新用戶狀態
// @Summary 更新用戶狀態
// @Tags Admin-User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body dto.UpdateUserStatusDto true "狀態資訊"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{userID}/status [patch]
func (h *AdminUserHandler) UpdateStatus(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "userID")
	if respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	var req dto.UpdateUserStatusDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if !validate.IsValidStatus(string(req.Status)) {
		response.AbortWithError(c, cErr.BadRequestParams("invalid status"))
		return
	}

	if err := h.userService.UpdateStatus(ctx, id, req.Status); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "user status updated successfully")
}

// UpdatePlan 更新用戶方案
// @Summary 更新用戶方案
// @Tags Admin-User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body dto.UpdateUserPlanDto true "方案資訊"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{userID}/plan [patch]
func (h *AdminUserHandler) UpdatePlan(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "userID")
	if respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	var req dto.UpdateUserPlanDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if !validate.IsValidPlan(string(req.Plan)) {
		response.AbortWithError(c, cErr.BadRequestParams("invalid plan"))
		return
	}

	if err := h.userService.UpdatePlan(ctx, id, req.Plan); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "user plan updated successfully")
}

// Usage 用戶每日使用量
// @Summary 取得用戶每日使用量（最新日期在前）
// @Tags Admin-User
// @Security BearerAuth
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "最多回傳天數"
// @Success 200 {array} dto.UsageResponseDto
// @Failure 400 {object} map[string]string
// @Router /admin/users/{userID}/usage [get]
func (h *AdminUserHandler) Usage(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "userID")
	if respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	limit := getInt64Query(c, "limit", 30)

	items, err := h.quotaService.ListUsage(ctx, id, limit)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, items)
}

// Feedback 已標記回饋列表
// @Summary 取得已回饋的預測紀錄（訓練資料回收用）
// @Tags Admin-Feedback
// @Security BearerAuth
// @Produce json
// @Param page query int false "頁碼"
// @Param size query int false "每頁筆數"
// @Success 200 {array} dto.PredictionRecordDto
// @Failure 500 {object} map[string]string
// @Router /admin/feedback [get]
func (h *AdminUserHandler) Feedback(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	page := getInt64Query(c, "page", 0)
	size := getInt64Query(c, "size", 50)

	records, err := h.predictionService.ListFeedback(ctx, page, size)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, records)
}

func getInt64Query(c *gin.Context, key string, defaultVal int64) int64 {
	if v := c.Query(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
