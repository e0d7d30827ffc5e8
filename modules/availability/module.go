package availability

import (
	"hangout-api/core/database"
	"hangout-api/core/middleware"
	"hangout-api/modules/availability/controller"
	"hangout-api/modules/availability/repository"
	"hangout-api/modules/availability/router"
	"hangout-api/modules/availability/service"
	hangoutService "hangout-api/modules/hangout/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, loader *hangoutService.ContextLoader, sink hangoutService.EventSink) {
	svc := service.NewSlotService(db, db.Queryer(), repository.NewSlotRepository(), loader, sink)
	ctrl := controller.NewSlotController(svc)
	rtr := router.NewSlotRouter(ctrl)
	rtr.Setup(e, mw)
}
