package router

import (
	"vocalis/internal/handler"
	"vocalis/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	userHandler *handler.AdminUserHandler
	apiKey      *middleware.APIKey
}

func NewAdminRouter(
	userHandler *handler.AdminUserHandler,
	apiKey *middleware.APIKey,
) *AdminRouter {
	return &AdminRouter{
		userHandler: userHandler,
		apiKey:      apiKey,
	}
}

func (ar *AdminRouter) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(ar.apiKey.Handler(true))
	{
		admin.GET("/users", ar.userHandler.List)
		admin.GET("/users/:userID", ar.userHandler.Get)
		admin.POST("/users", ar.userHandler.Create)
		admin.PATCH("/users/:userID/status", ar.userHandler.UpdateStatus)
		admin.PATCH("/users/:userID/plan", ar.userHandler.UpdatePlan)
		admin.GET("/users/:userID/usage", ar.userHandler.Usage)
		admin.GET("/feedback", ar.userHandler.Feedback)
	}
}
