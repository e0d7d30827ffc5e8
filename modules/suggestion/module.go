package suggestion

import (
	"hangout-api/core/database"
	"hangout-api/core/middleware"
	hangoutService "hangout-api/modules/hangout/service"
	"hangout-api/modules/suggestion/controller"
	"hangout-api/modules/suggestion/repository"
	"hangout-api/modules/suggestion/router"
	"hangout-api/modules/suggestion/service"
	voteRepo "hangout-api/modules/vote/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the suggestion module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, loader *hangoutService.ContextLoader, sink hangoutService.EventSink) {
	svc := service.NewSuggestionService(
		db,
		db.Queryer(),
		repository.NewSuggestionRepository(),
		voteRepo.NewVoteRepository(),
		loader,
		sink,
	)
	ctrl := controller.NewSuggestionController(svc)
	rtr := router.NewSuggestionRouter(ctrl)
	rtr.Setup(e, mw)
}
