package controller

import (
	"hangout-api/core/constants"
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/utils"
	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"
	"hangout-api/modules/hangout/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HangoutController handles hangout HTTP requests.
type HangoutController struct {
	controller.BaseController
	HangoutService service.HangoutServiceInterface
}

func NewHangoutController(svc service.HangoutServiceInterface) *HangoutController {
	return &HangoutController{
		BaseController: controller.NewBaseController(),
		HangoutService: svc,
	}
}

// callerFromContext extracts the verified session owner from the request context.
func callerFromContext(ctx echo.Context) (entity.Owner, string, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return entity.Owner{}, "", errors.NewAppError(errors.ErrUnauthorized, "not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return entity.Owner{}, "", errors.NewAppError(errors.ErrUnauthorized, "invalid token data", nil)
	}
	return entity.Owner{Kind: claims.OwnerKind, ID: claims.OwnerID}, claims.DisplayName, nil
}

// Create handles POST /hangouts
// @Summary Create a hangout
// @Tags Hangout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateHangoutRequest true "Hangout settings"
// @Success 200 {object} dto.HangoutResponse
// @Router /private/hangouts [post]
func (c *HangoutController) Create(ctx echo.Context) error {
	owner, displayName, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	var req dto.CreateHangoutRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.HangoutService.Create(ctx.Request().Context(), owner, displayName, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Hangout created")
}

// Get handles GET /hangouts/:id
func (c *HangoutController) Get(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.HangoutService.Get(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ListMine handles GET /hangouts
func (c *HangoutController) ListMine(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.HangoutService.ListMine(ctx.Request().Context(), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Delete handles DELETE /hangouts/:id
func (c *HangoutController) Delete(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	if appErr := c.HangoutService.Delete(ctx.Request().Context(), ctx.Param("id"), owner); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Hangout deleted")
}

// EditPeriods handles PUT /hangouts/:id/periods
// @Summary Re-negotiate stage periods
// @Description Elapsed stages are immutable; the current stage cannot shrink below its elapsed time.
// @Tags Hangout
// @Security BearerAuth
// @Param request body dto.UpdatePeriodsRequest true "New period triple (ms)"
// @Success 200 {object} dto.ConclusionResponse
// @Router /private/hangouts/{id}/periods [put]
func (c *HangoutController) EditPeriods(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	var req dto.UpdatePeriodsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.HangoutService.EditPeriods(ctx.Request().Context(), ctx.Param("id"), owner, req.PeriodsMs)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Periods updated")
}

// Advance handles POST /hangouts/:id/advance
func (c *HangoutController) Advance(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.HangoutService.Advance(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Stage advanced")
}

// Conclusion handles GET /hangouts/:id/conclusion
func (c *HangoutController) Conclusion(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	result, appErr := c.HangoutService.Conclusion(ctx.Request().Context(), ctx.Param("id"), owner)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Join handles POST /hangouts/:id/join
func (c *HangoutController) Join(ctx echo.Context) error {
	owner, displayName, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	var req dto.JoinRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.HangoutService.Join(ctx.Request().Context(), ctx.Param("id"), owner, displayName, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Joined hangout")
}

// Leave handles POST /hangouts/:id/leave
func (c *HangoutController) Leave(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	if appErr := c.HangoutService.Leave(ctx.Request().Context(), ctx.Param("id"), owner); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Left hangout")
}

// Kick handles DELETE /hangouts/:id/members/:memberId
func (c *HangoutController) Kick(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	memberID, err := uuid.Parse(ctx.Param("memberId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid member ID")
	}

	if appErr := c.HangoutService.Kick(ctx.Request().Context(), ctx.Param("id"), owner, memberID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Member removed")
}

// ClaimLeadership handles POST /hangouts/:id/claim-leadership
func (c *HangoutController) ClaimLeadership(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	if appErr := c.HangoutService.ClaimLeadership(ctx.Request().Context(), ctx.Param("id"), owner); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Leadership claimed")
}

// RefreshDisplayName handles PUT /members/display-name
func (c *HangoutController) RefreshDisplayName(ctx echo.Context) error {
	owner, _, err := callerFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	var req dto.RefreshDisplayNameRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	if appErr := c.HangoutService.RefreshDisplayName(ctx.Request().Context(), owner, req.DisplayName); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Display name refreshed")
}
