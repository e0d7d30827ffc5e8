package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// SlotRouter handles availability slot routes
type SlotRouter struct {
	SlotController *controller.SlotController
}

func NewSlotRouter(slotController *controller.SlotController) *SlotRouter {
	return &SlotRouter{SlotController: slotController}
}

// Setup registers availability routes
func (r *SlotRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private", mw.AuthMiddleware())

	slots := privateRoutes.Group("/hangouts/:id/slots")
	slots.POST("", r.SlotController.Create)
	slots.GET("", r.SlotController.ListAll)
	slots.GET("/mine", r.SlotController.ListMine)
	slots.PUT("/:slotId", r.SlotController.Update)
	slots.DELETE("/:slotId", r.SlotController.Delete)
}
