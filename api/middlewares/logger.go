package middlewares

import (
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// LoggerMiddleware logs one entry per request.
type LoggerMiddleware struct {
	log *log.Logger
}

// MakeLogger constructs the request logging middleware.
func MakeLogger(log *log.Logger) echo.MiddlewareFunc {
	logger := LoggerMiddleware{
		log: log,
	}

	return logger.handler
}

// Logger is an echo middleware to add log to the API
func (logger *LoggerMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		start := time.Now()

		// Propagate the error if the next middleware has a problem
		if err = next(ctx); err != nil {
			ctx.Error(err)
		}

		req := ctx.Request()
		res := ctx.Response()
		entry := logger.log.WithFields(log.Fields{
			"remote":     req.RemoteAddr,
			"method":     req.Method,
			"uri":        req.RequestURI,
			"proto":      req.Proto,
			"status":     res.Status,
			"bytes_out":  res.Size,
			"user_agent": req.UserAgent(),
			"duration":   time.Since(start).String(),
		})
		if res.Status >= 500 {
			entry.Error("request failed")
		} else {
			entry.Info("request")
		}

		return
	}
}
