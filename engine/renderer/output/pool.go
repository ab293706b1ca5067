package output

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

var (
	poolsMu sync.Mutex
	pools   = make(map[int]worker.DynamicWorkerPool)
)

// sharedPool returns the process-wide pool with n workers, creating it on first use.
// Pools are never stopped; Stop on an automation pool can leave workers running. Releasing a
// registry therefore leaves no goroutines behind beyond one pool per distinct worker count.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - worker.DynamicWorkerPool: the pool for n workers
func sharedPool(n int) worker.DynamicWorkerPool {
	poolsMu.Lock()
	defer poolsMu.Unlock()
	p, ok := pools[n]
	if !ok {
		p = worker.NewDynamicWorkerPool(n, 256, 1*time.Second)
		pools[n] = p
	}
	return p
}
