package vote

import (
	"hangout-api/core/database"
	"hangout-api/core/middleware"
	slotRepo "hangout-api/modules/availability/repository"
	hangoutService "hangout-api/modules/hangout/service"
	suggestionRepo "hangout-api/modules/suggestion/repository"
	"hangout-api/modules/vote/controller"
	"hangout-api/modules/vote/repository"
	"hangout-api/modules/vote/router"
	"hangout-api/modules/vote/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the vote module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, loader *hangoutService.ContextLoader, sink hangoutService.EventSink) {
	svc := service.NewVoteService(
		db,
		db.Queryer(),
		repository.NewVoteRepository(),
		suggestionRepo.NewSuggestionRepository(),
		slotRepo.NewSlotRepository(),
		loader,
		sink,
	)
	ctrl := controller.NewVoteController(svc)
	rtr := router.NewVoteRouter(ctrl)
	rtr.Setup(e, mw)
}
