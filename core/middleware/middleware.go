package middleware

import (
	stderrors "errors"
	"strings"

	"hangout-api/core/constants"
	"hangout-api/core/controller"
	"hangout-api/core/errors"
	"hangout-api/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	sessionSecret string
}

func New(sessionSecret string) *Middleware {
	return &Middleware{sessionSecret: sessionSecret}
}

// AuthMiddleware verifies the Bearer session token and stashes its claims in
// the request context. Identity is treated as already-validated input; this
// never re-derives who the caller is.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}

			claims, err := utils.ParseSessionToken(m.sessionSecret, tokenStr)
			if err != nil {
				if stderrors.Is(err, jwt.ErrTokenExpired) {
					return controller.NewErrorResponse(401, errors.ErrTokenExpired, "session expired")
				}
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid session token")
			}
			if !claims.OwnerKind.Valid() {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid session token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
