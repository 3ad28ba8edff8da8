// Package batch decodes many encodings of the same ABI type concurrently.
package batch

import (
	"context"
	"sync"

	"github.com/algorand/abicodec/abi"
	"github.com/algorand/abicodec/util/workpool"
)

// DefaultWorkers is the number of decoders used when none is requested.
const DefaultWorkers = 4

// Result is the outcome of decoding one input.
type Result struct {
	Value abi.Value
	Err   error
}

// DecodeAll decodes every input with the type. Results are returned in input
// order. Inputs not reached before the context is cancelled carry the
// context error.
func DecodeAll(ctx context.Context, typ abi.Type, inputs [][]byte, workers int) []Result {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	jobs := make(chan int, len(inputs))
	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	var mu sync.Mutex
	processed := make([]bool, len(inputs))
	handler := func(done <-chan struct{}) bool {
		select {
		case i, ok := <-jobs:
			if !ok {
				return false
			}
			value, err := typ.Decode(inputs[i])
			mu.Lock()
			results[i] = Result{Value: value, Err: err}
			processed[i] = true
			mu.Unlock()
			return true
		case <-done:
			return false
		}
	}
	workpool.New(workers, handler).RunContext(ctx)

	for i := range results {
		if !processed[i] {
			results[i].Err = ctx.Err()
		}
	}
	return results
}
