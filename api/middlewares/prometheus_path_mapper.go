package middlewares

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// PrometheusPathMapperVerbose adds query parameter names to the path and ensures
// no request data is leaked in 404 reporting.
func PrometheusPathMapperVerbose(c echo.Context) string {
	// Type strings and signatures are easy to put in invalid endpoint URLs, so don't include them.
	if c.Response().Status == http.StatusNotFound {
		return ""
	}

	// Sort the parameters
	keys := make([]string, 0, len(c.QueryParams()))
	for k := range c.QueryParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	path := c.Path()
	sep := "?"
	for _, k := range keys {
		path += sep + k
		sep = "&"
	}

	return path
}

// PrometheusPathMapper404Sink reports the route path, dropping 404s into a single empty label.
func PrometheusPathMapper404Sink(c echo.Context) string {
	if c.Response().Status == http.StatusNotFound {
		return ""
	}
	return c.Path()
}
