package notification

import (
	"context"

	"hangout-api/core/database"
	"hangout-api/core/middleware"
	"hangout-api/core/tasks"
	hangoutRepo "hangout-api/modules/hangout/repository"
	"hangout-api/modules/notification/controller"
	"hangout-api/modules/notification/repository"
	"hangout-api/modules/notification/router"
	"hangout-api/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Init initializes the notification module, registers the event feed routes
// and the push task handler, and returns the event sink the other modules
// publish through.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, mux *asynq.ServeMux, rdb *redis.Client, tc *tasks.Client) *service.EventService {
	svc := service.NewEventService(
		db.Queryer(),
		repository.NewEventRepository(),
		hangoutRepo.NewMemberRepository(),
		rdb,
		tc,
	)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)
	rtr.Setup(e, mw)

	mux.HandleFunc(tasks.TypePush, func(ctx context.Context, t *asynq.Task) error {
		payload, err := tasks.ParsePushPayload(t)
		if err != nil {
			return err
		}
		return svc.DeliverPush(ctx, payload)
	})

	return svc
}
