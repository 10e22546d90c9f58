package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// requireServiceKey authenticates trusted backend callers via a bearer
// service key. Comparison is constant-time so the key cannot be probed
// byte by byte.
func (s *Server) requireServiceKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(s.config.ServiceAPIKey)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid service key")
		}

		return next(c)
	}
}
