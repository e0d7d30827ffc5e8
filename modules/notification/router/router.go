package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event feed routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

// Setup registers event feed routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private", mw.AuthMiddleware())

	privateRoutes.GET("/hangouts/:id/events", r.EventController.List)
}
