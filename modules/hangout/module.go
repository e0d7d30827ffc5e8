package hangout

import (
	"context"

	"hangout-api/core/config"
	"hangout-api/core/database"
	"hangout-api/core/middleware"
	"hangout-api/core/tasks"
	"hangout-api/modules/availability/repository"
	"hangout-api/modules/hangout/controller"
	hangoutRepo "hangout-api/modules/hangout/repository"
	"hangout-api/modules/hangout/router"
	"hangout-api/modules/hangout/service"
	suggestionRepo "hangout-api/modules/suggestion/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the hangout module, registers routes and the stage
// follow-up task handlers.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, mux *asynq.ServeMux, sink service.EventSink, tc *tasks.Client) service.HangoutServiceInterface {
	svc := service.NewHangoutService(
		db,
		db.Queryer(),
		hangoutRepo.NewHangoutRepository(),
		hangoutRepo.NewMemberRepository(),
		repository.NewSlotRepository(),
		suggestionRepo.NewSuggestionRepository(),
		sink,
		tc,
		config.Get().Auth.PasswordSecret,
	)
	ctrl := controller.NewHangoutController(svc)
	rtr := router.NewHangoutRouter(ctrl)
	rtr.Setup(e, mw)

	mux.HandleFunc(tasks.TypeStalePrune, func(ctx context.Context, t *asynq.Task) error {
		payload, err := tasks.ParsePrunePayload(t)
		if err != nil {
			return err
		}
		return svc.PruneStale(ctx, payload.HangoutID)
	})
	mux.HandleFunc(tasks.TypeConcludeOverdue, func(ctx context.Context, t *asynq.Task) error {
		return svc.ConcludeOverdue(ctx)
	})

	return svc
}
