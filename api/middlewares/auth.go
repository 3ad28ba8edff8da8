package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware rejects requests without one of the configured tokens.
type AuthMiddleware struct {
	header string
	tokens [][]byte
}

// MakeAuth constructs the token middleware. The token is read from the given
// header.
func MakeAuth(header string, tokens []string) echo.MiddlewareFunc {
	auth := AuthMiddleware{
		header: header,
		tokens: make([][]byte, len(tokens)),
	}
	for i, token := range tokens {
		auth.tokens[i] = []byte(token)
	}

	return auth.handler
}

func (auth *AuthMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		provided := []byte(ctx.Request().Header.Get(auth.header))
		for _, token := range auth.tokens {
			if subtle.ConstantTimeCompare(provided, token) == 1 {
				return next(ctx)
			}
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid API Token")
	}
}
