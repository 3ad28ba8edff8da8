package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeAuth(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	middleware := MakeAuth("X-Token", []string{"alpha", "beta"})

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"first token", "alpha", http.StatusOK},
		{"second token", "beta", http.StatusOK},
		{"wrong token", "gamma", http.StatusUnauthorized},
		{"prefix of a token", "alph", http.StatusUnauthorized},
		{"missing token", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("X-Token", tc.token)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := middleware(handler)(c)
			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			var httpErr *echo.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tc.status, httpErr.Code)
		})
	}
}
