/*package compute provides the simulation's compute-dispatch layer: typed
buffers and data-parallel kernel dispatch.

A kernel is a plain function over a global invocation index. Dispatch
fans the index range out across a fixed pool of goroutines and does not
return until every invocation has finished, so a completed Dispatch call
is a full barrier: all writes made by one dispatch are visible to the
next. The simulation's reduction passes depend on this.

Invocation counts are always a multiple of the engine's local width,
mirroring the work-group granularity of a GPU dispatch. Kernels that
need fewer invocations than a full group guard internally.
*/
package compute

import (
	"fmt"
	"runtime"

	"github.com/dgravesa/go-parallel/parallel"
)

// DefaultLocalWidth is the invocation count of one dispatch group.
const DefaultLocalWidth = 16

// Kernel is invoked once per global invocation index.
type Kernel func(i int)

// Engine owns dispatch scheduling. It is handed to the simulation at
// construction and must outlive it.
type Engine struct {
	localWidth int
	workers    int
}

// NewEngine returns an engine whose dispatches run localWidth
// invocations per group across the given number of worker goroutines.
// Non-positive workers defaults to the logical core count.
func NewEngine(localWidth, workers int) (*Engine, error) {
	if localWidth <= 0 {
		return nil, fmt.Errorf("compute: local width must be positive, got %d", localWidth)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{localWidth: localWidth, workers: workers}, nil
}

// LocalWidth returns the invocation count of one dispatch group.
func (e *Engine) LocalWidth() int { return e.localWidth }

// GroupCount returns the number of groups needed to cover n invocations.
func (e *Engine) GroupCount(n int) int {
	return (n + e.localWidth - 1) / e.localWidth
}

// Dispatch runs kernel for every invocation index in
// [0, groups*LocalWidth) and returns once all of them have completed.
func (e *Engine) Dispatch(groups int, kernel Kernel) error {
	if groups <= 0 {
		return fmt.Errorf("compute: dispatch needs a positive group count, got %d", groups)
	}
	n := groups * e.localWidth
	parallel.WithNumGoroutines(e.workers).For(n, kernel)
	return nil
}
