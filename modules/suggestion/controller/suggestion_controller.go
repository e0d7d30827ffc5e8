package controller

import (
	"hangout-api/core/constants"
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/utils"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/suggestion/dto"
	"hangout-api/modules/suggestion/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SuggestionController handles suggestion HTTP requests.
type SuggestionController struct {
	controller.BaseController
	SuggestionService service.SuggestionServiceInterface
}

func NewSuggestionController(svc service.SuggestionServiceInterface) *SuggestionController {
	return &SuggestionController{
		BaseController:    controller.NewBaseController(),
		SuggestionService: svc,
	}
}

func ownerFromContext(ctx echo.Context) (entity.Owner, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return entity.Owner{}, false
	}
	return entity.Owner{Kind: claims.OwnerKind, ID: claims.OwnerID}, true
}

// Create handles POST /hangouts/:id/suggestions
// @Summary Propose a meeting time
// @Tags Suggestions
// @Security BearerAuth
// @Param request body dto.SuggestionRequest true "Suggestion details"
// @Success 200 {object} dto.SuggestionResponse
// @Router /private/hangouts/{id}/suggestions [post]
func (c *SuggestionController) Create(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	var req dto.SuggestionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.SuggestionService.Create(ctx.Request().Context(), ctx.Param("id"), owner, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Suggestion created")
}

// Update handles PUT /hangouts/:id/suggestions/:suggestionId
func (c *SuggestionController) Update(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("suggestionId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid suggestion ID")
	}

	var req dto.SuggestionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.SuggestionService.Update(ctx.Request().Context(), ctx.Param("id"), owner, suggestionID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Suggestion updated")
}

// Delete handles DELETE /hangouts/:id/suggestions/:suggestionId
func (c *SuggestionController) Delete(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("suggestionId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid suggestion ID")
	}

	if appErr := c.SuggestionService.Delete(ctx.Request().Context(), ctx.Param("id"), owner, suggestionID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Suggestion deleted")
}

// List handles GET /hangouts/:id/suggestions
func (c *SuggestionController) List(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.SuggestionService.List(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Like handles POST /hangouts/:id/suggestions/:suggestionId/like
func (c *SuggestionController) Like(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("suggestionId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid suggestion ID")
	}

	if appErr := c.SuggestionService.Like(ctx.Request().Context(), ctx.Param("id"), owner, suggestionID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Suggestion liked")
}

// Unlike handles DELETE /hangouts/:id/suggestions/:suggestionId/like
func (c *SuggestionController) Unlike(ctx echo.Context) error {
	owner, ok := ownerFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("suggestionId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid suggestion ID")
	}

	if appErr := c.SuggestionService.Unlike(ctx.Request().Context(), ctx.Param("id"), owner, suggestionID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Like removed")
}
