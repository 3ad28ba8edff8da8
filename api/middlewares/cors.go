package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MakeCORS constructs the CORS middleware. Preflight requests asking for
// Private Network Access are granted it, so pages served from the public
// internet can reach a daemon on localhost.
func MakeCORS() echo.MiddlewareFunc {
	cors := middleware.CORS()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		handler := cors(next)
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Private-Network") == "true" {
				ctx.Response().Header().Set("Access-Control-Allow-Private-Network", "true")
			}
			return handler(ctx)
		}
	}
}
