package mdpress

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewServer builds the local preview server: it serves the scaffolded site
// shell from siteDir and the store directory under /db/, exactly as a static
// host would. Nothing is rendered server-side; the shell's client renderer
// does all the work.
func NewServer(cfg Config, siteDir string, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/db/assets/")
		},
	}))
	e.Use(cacheControl)

	e.Static("/db", cfg.StoreDir)
	e.Static("/", siteDir)
	return e
}

// cacheControl mirrors how a static host would serve the store: copied images
// get a long-lived cache, JSON records are always revalidated so a fresh
// ingestion run shows up on reload.
func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/db/assets/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
		case strings.HasSuffix(path, ".json"):
			c.Response().Header().Set("Cache-Control", "no-cache")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}
