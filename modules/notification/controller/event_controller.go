package controller

import (
	"strconv"

	"hangout-api/core/constants"
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/utils"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// EventController handles event feed HTTP requests.
type EventController struct {
	controller.BaseController
	EventService *service.EventService
}

func NewEventController(svc *service.EventService) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func ownerFromContext(ctx echo.Context) (entity.Owner, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return entity.Owner{}, false
	}
	return entity.Owner{Kind: claims.OwnerKind, ID: claims.OwnerID}, true
}

// List handles GET /hangouts/:id/events
// @Summary Recent hangout events
// @Tags Events
// @Security BearerAuth
// @Param limit query int false "Max events to return"
// @Success 200 {array} dto.EventResponse
// @Router /private/hangouts/{id}/events [get]
func (c *EventController) List(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	result, appErr := c.EventService.List(ctx.Request().Context(), ctx.Param("id"), owner, limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
