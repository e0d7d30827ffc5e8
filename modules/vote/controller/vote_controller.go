package controller

import (
	"hangout-api/core/constants"
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/utils"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/vote/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VoteController handles voting HTTP requests.
type VoteController struct {
	controller.BaseController
	VoteService service.VoteServiceInterface
}

func NewVoteController(svc service.VoteServiceInterface) *VoteController {
	return &VoteController{
		BaseController: controller.NewBaseController(),
		VoteService:    svc,
	}
}

func ownerFromContext(ctx echo.Context) (entity.Owner, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return entity.Owner{}, false
	}
	return entity.Owner{Kind: claims.OwnerKind, ID: claims.OwnerID}, true
}

// Cast handles POST /hangouts/:id/suggestions/:suggestionId/vote
// @Summary Vote for a suggestion
// @Tags Votes
// @Security BearerAuth
// @Success 200
// @Router /private/hangouts/{id}/suggestions/{suggestionId}/vote [post]
func (c *VoteController) Cast(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("suggestionId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid suggestion ID")
	}

	if appErr := c.VoteService.Cast(ctx.Request().Context(), ctx.Param("id"), owner, suggestionID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Vote recorded")
}

// Retract handles DELETE /hangouts/:id/suggestions/:suggestionId/vote
func (c *VoteController) Retract(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("suggestionId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid suggestion ID")
	}

	if appErr := c.VoteService.Retract(ctx.Request().Context(), ctx.Param("id"), owner, suggestionID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Vote retracted")
}

// ListMine handles GET /hangouts/:id/votes/mine
func (c *VoteController) ListMine(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.VoteService.ListMine(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Tally handles GET /hangouts/:id/votes
func (c *VoteController) Tally(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.VoteService.Tally(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
