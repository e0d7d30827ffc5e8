package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/hangout/controller"

	"github.com/labstack/echo/v4"
)

// HangoutRouter handles hangout routes
type HangoutRouter struct {
	HangoutController *controller.HangoutController
}

func NewHangoutRouter(hangoutController *controller.HangoutController) *HangoutRouter {
	return &HangoutRouter{HangoutController: hangoutController}
}

// Setup registers hangout routes
func (r *HangoutRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private", mw.AuthMiddleware())

	hangouts := privateRoutes.Group("/hangouts")
	hangouts.POST("", r.HangoutController.Create)
	hangouts.GET("", r.HangoutController.ListMine)
	hangouts.GET("/:id", r.HangoutController.Get)
	hangouts.DELETE("/:id", r.HangoutController.Delete)

	// Stage state machine
	hangouts.PUT("/:id/periods", r.HangoutController.EditPeriods)
	hangouts.POST("/:id/advance", r.HangoutController.Advance)
	hangouts.GET("/:id/conclusion", r.HangoutController.Conclusion)

	// Membership
	hangouts.POST("/:id/join", r.HangoutController.Join)
	hangouts.POST("/:id/leave", r.HangoutController.Leave)
	hangouts.DELETE("/:id/members/:memberId", r.HangoutController.Kick)
	hangouts.POST("/:id/claim-leadership", r.HangoutController.ClaimLeadership)

	privateRoutes.PUT("/members/display-name", r.HangoutController.RefreshDisplayName)
}
