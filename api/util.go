package api

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// errTimeout is returned when callWithTimeout has a normal timeout.
var errTimeout = errors.New("timeout during call")

// isTimeoutError compares the given error against the timeout errors.
func isTimeoutError(err error) bool {
	return errors.Is(err, errTimeout)
}

// errMisbehavingHandler is written to the log when a handler does not return.
var errMisbehavingHandler = "Handler did not exit within 1 second of its context finishing."

// misbehavingHandlerDetector warns if ch is not closed within a second.
func misbehavingHandlerDetector(log *log.Logger, ch chan struct{}) {
	if log == nil {
		return
	}

	select {
	case <-ch:
		return
	case <-time.After(1 * time.Second):
		log.Warn(errMisbehavingHandler)
	}
}

// callWithTimeout runs handler with a context cancelled after timeout and
// returns errTimeout if the deadline is reached first. A zero timeout calls
// handler directly.
func callWithTimeout(ctx context.Context, log *log.Logger, timeout time.Duration, handler func(ctx context.Context) error) error {
	if timeout == 0 {
		return handler(ctx)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan struct{})
	var err error
	go func() {
		err = handler(timeoutCtx)
		close(done)
	}()

	select {
	case <-done:
		// The handler may have returned because the deadline passed.
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return errTimeout
		}
		return err
	case <-timeoutCtx.Done():
		go misbehavingHandlerDetector(log, done)
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return errTimeout
		}
		return timeoutCtx.Err()
	}
}
