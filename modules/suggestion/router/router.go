package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/suggestion/controller"

	"github.com/labstack/echo/v4"
)

// SuggestionRouter handles suggestion routes
type SuggestionRouter struct {
	SuggestionController *controller.SuggestionController
}

func NewSuggestionRouter(suggestionController *controller.SuggestionController) *SuggestionRouter {
	return &SuggestionRouter{SuggestionController: suggestionController}
}

// Setup registers suggestion routes
func (r *SuggestionRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private", mw.AuthMiddleware())

	suggestions := privateRoutes.Group("/hangouts/:id/suggestions")
	suggestions.POST("", r.SuggestionController.Create)
	suggestions.GET("", r.SuggestionController.List)
	suggestions.PUT("/:suggestionId", r.SuggestionController.Update)
	suggestions.DELETE("/:suggestionId", r.SuggestionController.Delete)
	suggestions.POST("/:suggestionId/like", r.SuggestionController.Like)
	suggestions.DELETE("/:suggestionId/like", r.SuggestionController.Unlike)
}
