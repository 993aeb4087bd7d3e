package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/internal/core/ports"
)

type GateMiddleware struct {
	gateService ports.GateService
	logger      *logrus.Logger
}

func NewGateMiddleware(gateService ports.GateService, logger *logrus.Logger) *GateMiddleware {
	return &GateMiddleware{gateService: gateService, logger: logger}
}

// RequireGate creates middleware that validates the gate token issued after
// the shared-secret check.
func (m *GateMiddleware) RequireGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing gate token")
			}
			token := strings.TrimPrefix(header, "Bearer ")

			if err := m.gateService.Verify(token); err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).Warn("gate token validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid gate token")
			}
			return next(c)
		}
	}
}
