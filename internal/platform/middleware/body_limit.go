package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BodyLimit returns middleware that limits the maximum request body size.
// Limits are specified as human-readable strings: "64K" for 64 kilobytes,
// "1M" for 1 megabyte. Supported suffixes are K (kilobytes), M (megabytes),
// and G (gigabytes). A bare number is treated as bytes.
//
// A generation request body is a three-field JSON object, so anything beyond
// a few kilobytes is a malformed or hostile client.
func BodyLimit(limit string) echo.MiddlewareFunc {
	maxBytes := parseLimit(limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Body == nil || c.Request().Body == http.NoBody {
				return next(c)
			}

			if c.Request().ContentLength > maxBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}

			c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
			return next(c)
		}
	}
}

func parseLimit(limit string) int64 {
	limit = strings.TrimSpace(strings.ToUpper(limit))
	if limit == "" {
		return 64 << 10
	}

	multiplier := int64(1)
	switch limit[len(limit)-1] {
	case 'K':
		multiplier = 1 << 10
		limit = limit[:len(limit)-1]
	case 'M':
		multiplier = 1 << 20
		limit = limit[:len(limit)-1]
	case 'G':
		multiplier = 1 << 30
		limit = limit[:len(limit)-1]
	}

	n, err := strconv.ParseInt(limit, 10, 64)
	if err != nil || n <= 0 {
		return 64 << 10
	}
	return n * multiplier
}
