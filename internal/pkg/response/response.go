package response

import (
	"net/http"

	cErr "vocalis/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

// Response 統一回應信封；成功路徑由 response middleware 包裝輸出
type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// popMessage 取出 gin.H 內自帶的 message 欄位（非字串或缺漏回傳 fallback）
func popMessage(data any, fallback string) string {
	if m, ok := data.(gin.H); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			delete(m, "message")
			return s
		}
	}
	return fallback
}

// Create 201 成功路徑；實際輸出交給 response middleware
func Create(c *gin.Context, data any) {
	c.Set("data", data)
	c.Set("message", popMessage(data, "Create Success"))
	c.Status(http.StatusCreated)
	c.Abort()
}

func Success(c *gin.Context, data any) {
	c.Set("data", data)
	c.Set("message", popMessage(data, "Request Success"))
	c.Abort()
}

// AbortWithError 把錯誤交給 recovery middleware 統一輸出
func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, RequestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, Response{
		RequestID:   RequestID,
		Code:        errorCode,
		Data:        nil,
		Message:     msg,
		Description: desc,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, RequestID string, err error) {
	if v, ok := err.(*cErr.Error); ok {
		Fail(c, RequestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc())
		return
	}
	Fail(c, RequestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, err.Error(), "internal error")
}
