package api

import (
	"context"
	"net"
	"net/http"
	"time"

	echo_contrib "github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/algorand/abicodec/api/middlewares"
	"github.com/algorand/abicodec/contract"
)

// TokenHeader carries the API token when tokens are configured.
const TokenHeader = "X-ABI-API-Token"

// ExtraOptions are options which change the behavior or the HTTP server.
type ExtraOptions struct {
	// Tokens are the access tokens which can access the API.
	Tokens []string

	// MetricsEndpoint turns on the /metrics endpoint for prometheus metrics.
	MetricsEndpoint bool

	// MetricsEndpointVerbose generates separate histograms based on query parameters on the /metrics endpoint.
	MetricsEndpointVerbose bool

	// TypeCacheSize bounds each generation of the parsed type cache.
	TypeCacheSize int

	// BatchWorkers is the number of decoders used by a batch decode.
	BatchWorkers int

	// HandlerTimeout bounds batch decoding. Zero means no timeout.
	HandlerTimeout time.Duration
}

// MakeEcho builds the router with every middleware and route installed. c may
// be nil.
func MakeEcho(c *contract.Contract, log *log.Logger, options ExtraOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if options.MetricsEndpoint {
		p := echo_contrib.NewPrometheus("abicodec", nil, nil)
		if options.MetricsEndpointVerbose {
			p.RequestCounterURLLabelMappingFunc = middlewares.PrometheusPathMapperVerbose
		} else {
			p.RequestCounterURLLabelMappingFunc = middlewares.PrometheusPathMapper404Sink
		}
		// This call installs the prometheus metrics collection middleware and
		// the "/metrics" handler.
		p.Use(e)
	}

	e.Use(middlewares.MakeLogger(log))
	e.Use(middlewares.MakeCORS())

	middleware := make([]echo.MiddlewareFunc, 0)
	if len(options.Tokens) > 0 {
		middleware = append(middleware, middlewares.MakeAuth(TokenHeader, options.Tokens))
	}

	RegisterHandlers(e, MakeServerImplementation(c, log, options), middleware...)
	return e
}

// Serve starts an http server for the codec API. This call blocks until ctx
// is cancelled.
func Serve(ctx context.Context, serveAddr string, c *contract.Contract, log *log.Logger, options ExtraOptions) {
	e := MakeEcho(c, log, options)

	getctx := func(l net.Listener) context.Context {
		return ctx
	}
	s := &http.Server{
		Addr:           serveAddr,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
		BaseContext:    getctx,
	}

	go func() {
		if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()
	log.Infof("serving on %s", serveAddr)

	<-ctx.Done()
	// Allow one second for graceful shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
