package router

import (
	"vocalis/internal/handler"
	"vocalis/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	predictHandler  *handler.PredictHandler
	feedbackHandler *handler.FeedbackHandler
	apiKey          *middleware.APIKey
}

func NewApiRouter(
	predictHandler *handler.PredictHandler,
	feedbackHandler *handler.FeedbackHandler,
	apiKey *middleware.APIKey,
) *ApiRouter {
	return &ApiRouter{
		predictHandler:  predictHandler,
		feedbackHandler: feedbackHandler,
		apiKey:          apiKey,
	}
}

func (ar *ApiRouter) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.Use(ar.apiKey.Handler(false))
	{
		api.POST("/predict", ar.predictHandler.Predict)
		api.GET("/predictions/:id", ar.predictHandler.Get)
		api.GET("/quota", ar.predictHandler.Quota)
		api.POST("/feedback", ar.feedbackHandler.Submit)
	}
}
