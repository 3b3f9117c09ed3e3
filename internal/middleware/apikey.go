package middleware

import (
	"fmt"
	"strings"

	"vocalis/internal/core"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/pkg/response"
	"vocalis/internal/service"
	"vocalis/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextIdentityKey = "identity"

type APIKey struct {
	logger      *zap.Logger
	trace       *telemetry.Trace
	userService *service.UserService
}

func NewAPIKey(
	logger *zap.Logger,
	trace *telemetry.Trace,
	userService *service.UserService,
) *APIKey {
	return &APIKey{
		logger:      logger,
		trace:       trace,
		userService: userService,
	}
}

// Handler 驗證 API Key 並解析呼叫者身份（id + plan + role），
// adminOnly 時額外要求 admin 角色。
func (middleware *APIKey) Handler(adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanAPIKeyMiddleware))
		var cause error = nil
		apiKey, from := middleware.readPlatformKey(c)
		meta := core.TraceAPIKeyMiddlewareMeta{
			Where:    from,
			ClientIP: c.ClientIP(),
		}

		if apiKey == "" {
			meta.Status = "missing_api_key"
			middleware.trace.ApplyTraceAttributes(span, meta)
			cause = cErr.MissingApiKey("Missing API Key")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		identity, err := middleware.userService.ValidateAPIKey(ctx, apiKey)
		if err != nil {
			meta.Status = "invalid_api_key"
			middleware.trace.ApplyTraceAttributes(span, meta)
			response.AbortWithError(c, cErr.UnauthorizedApiKey("Invalid API Key"))
			end(err)
			return
		}

		if adminOnly && identity.Role != core.RoleAdmin {
			meta.UserID = identity.UserID.Hex()
			meta.Status = "forbidden_role"
			middleware.trace.ApplyTraceAttributes(span, meta)
			cause = cErr.Forbidden("forbidden: admin role required")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		meta.UserID = identity.UserID.Hex()
		meta.Plan = string(identity.Plan)
		meta.Status = "success"
		middleware.trace.ApplyTraceAttributes(span, meta)
		// 記錄授權成功的日誌
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()
		middleware.logger.Info("[APIKey Authenticated]",
			zap.String("userID", identity.UserID.Hex()),
			zap.String("plan", string(identity.Plan)),
			zap.String("from", from),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		end(cause)

		// 設定給下游（quota、handler 會用到）
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

func (middleware *APIKey) readPlatformKey(c *gin.Context) (key string, from string) {
	// 1) Authorization: Bearer <platform_key>
	if auth := strings.TrimSpace(c.GetHeader("Authorization")); auth != "" {
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			tok := strings.TrimSpace(auth[len("Bearer "):])
			return tok, "bearer"
		}
	}

	// 2) X-API-Key
	if x := strings.TrimSpace(c.GetHeader("X-API-Key")); x != "" {
		return x, "x-api-key"
	}
	return "", ""
}

// IdentityFrom 取出 middleware 設定的身份；預期一定存在
func IdentityFrom(c *gin.Context) (*core.Identity, *cErr.Error) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, cErr.Unauthorized("missing identity")
	}
	identity, ok := raw.(*core.Identity)
	if !ok {
		return nil, cErr.InternalServer("invalid identity data")
	}
	return identity, nil
}
