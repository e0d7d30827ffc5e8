package controller

import (
	"hangout-api/core/constants"
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/utils"
	"hangout-api/modules/availability/dto"
	"hangout-api/modules/availability/service"
	"hangout-api/modules/hangout/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SlotController handles availability slot HTTP requests.
type SlotController struct {
	controller.BaseController
	SlotService service.SlotServiceInterface
}

func NewSlotController(svc service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		SlotService:    svc,
	}
}

func ownerFromContext(ctx echo.Context) (entity.Owner, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return entity.Owner{}, false
	}
	return entity.Owner{Kind: claims.OwnerKind, ID: claims.OwnerID}, true
}

// Create handles POST /hangouts/:id/slots
// @Summary Declare an availability slot
// @Tags Availability
// @Security BearerAuth
// @Param request body dto.SlotRequest true "Slot interval"
// @Success 200 {object} dto.SlotResponse
// @Router /private/hangouts/{id}/slots [post]
func (c *SlotController) Create(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	var req dto.SlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.SlotService.Create(ctx.Request().Context(), ctx.Param("id"), owner, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Slot created")
}

// Update handles PUT /hangouts/:id/slots/:slotId
func (c *SlotController) Update(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	slotID, err := uuid.Parse(ctx.Param("slotId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid slot ID")
	}

	var req dto.SlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.SlotService.Update(ctx.Request().Context(), ctx.Param("id"), owner, slotID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Slot updated")
}

// Delete handles DELETE /hangouts/:id/slots/:slotId
func (c *SlotController) Delete(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	slotID, err := uuid.Parse(ctx.Param("slotId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid slot ID")
	}

	if appErr := c.SlotService.Delete(ctx.Request().Context(), ctx.Param("id"), owner, slotID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Slot deleted")
}

// ListMine handles GET /hangouts/:id/slots/mine
func (c *SlotController) ListMine(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.SlotService.ListMine(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ListAll handles GET /hangouts/:id/slots
func (c *SlotController) ListAll(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.SlotService.ListAll(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
