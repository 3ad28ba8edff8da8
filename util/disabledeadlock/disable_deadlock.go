// Package disabledeadlock turns off go-deadlock detection when imported. The
// daemon imports it so lock order checks only run in tests.
package disabledeadlock

import "github.com/algorand/go-deadlock"

func init() {
	deadlock.Opts.Disable = true
}
