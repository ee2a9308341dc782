package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"resource_hub/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// BearerAuth guards management endpoints with a single static token.
func BearerAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return c.JSON(http.StatusUnauthorized, response.Fail(response.MsgUnauthorized))
			}

			presented := strings.TrimPrefix(header, prefix)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, response.Fail(response.MsgUnauthorized))
			}

			return next(c)
		}
	}
}
