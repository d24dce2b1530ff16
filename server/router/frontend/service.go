package frontend

import (
	"context"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/internal/util"
)

// serverPrefixes are handled by the server and never fall back to the SPA.
var serverPrefixes = []string{"/api", "/metrics", "/feed", "/healthz"}

type FrontendService struct {
	Profile *profile.Profile
}

func NewFrontendService(profile *profile.Profile) *FrontendService {
	return &FrontendService{
		Profile: profile,
	}
}

func (*FrontendService) Serve(_ context.Context, e *echo.Echo) {
	isServerPath := func(c echo.Context) bool {
		return util.HasPrefixes(c.Request().URL.Path, serverPrefixes...)
	}

	// Compress static assets only; API responses are small JSON.
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: isServerPath,
	}))

	skipper := func(c echo.Context) bool {
		if isServerPath(c) {
			return true
		}

		c.Response().Header().Set("X-Content-Type-Options", "nosniff")

		path := c.Request().URL.Path
		// index.html and SPA routes must always be revalidated.
		if filepath.Ext(path) == "" || path == "/index.html" {
			c.Response().Header().Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
			return false
		}

		// Files under assets/ carry content hashes in their names.
		if util.HasPrefixes(path, "/assets/") {
			c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=31536000, immutable")
		} else {
			c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
		}
		return false
	}

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Filesystem: getFileSystem("dist"),
		HTML5:      true,
		Skipper:    skipper,
	}))
}

func getFileSystem(path string) http.FileSystem {
	fs, err := fs.Sub(embeddedFiles, path)
	if err != nil {
		panic(err)
	}
	return http.FS(fs)
}
