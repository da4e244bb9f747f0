// Package web serves the embedded browser form. The page is static; all
// dynamic data (label sets, age bounds, generation results) comes from the
// JSON API.
package web

import (
	"embed"

	"github.com/labstack/echo/v4"
)

//go:embed static
var staticFS embed.FS

// RegisterRoutes mounts the form UI at the site root. API and health routes
// are more specific and take precedence in echo's router.
func RegisterRoutes(e *echo.Echo) {
	e.StaticFS("/", echo.MustSubFS(staticFS, "static"))
}
