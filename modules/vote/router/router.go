package router

import (
	"hangout-api/core/middleware"
	"hangout-api/modules/vote/controller"

	"github.com/labstack/echo/v4"
)

// VoteRouter handles voting routes
type VoteRouter struct {
	VoteController *controller.VoteController
}

func NewVoteRouter(voteController *controller.VoteController) *VoteRouter {
	return &VoteRouter{VoteController: voteController}
}

// Setup registers voting routes
func (r *VoteRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private", mw.AuthMiddleware())

	hangout := privateRoutes.Group("/hangouts/:id")
	hangout.POST("/suggestions/:suggestionId/vote", r.VoteController.Cast)
	hangout.DELETE("/suggestions/:suggestionId/vote", r.VoteController.Retract)
	hangout.GET("/votes", r.VoteController.Tally)
	hangout.GET("/votes/mine", r.VoteController.ListMine)
}
