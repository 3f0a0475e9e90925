package api

import (
	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/errors"
)

func NewServer(handler *Handler, healthCheck *HealthCheck, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Skip logging for readiness probe and metrics routes
	skipper := RouteSkipper([]string{"/ready", "/metrics"})

	e.Use(middleware.Recover())
	e.Use(AccessLogger(logger, skipper))

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e
}

// AccessLogger logs every request that is not skipped with zap
func AccessLogger(logger *zap.Logger, skipper middleware.Skipper) echo.MiddlewareFunc {
	log := echozap.ZapLogger(logger)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		logged := log(next)
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			return logged(c)
		}
	}
}
