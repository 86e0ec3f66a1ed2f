package parallel

import "sync"

// minBand is the smallest band handed to a worker.
const minBand = 64

var (
	defaultOnce sync.Once
	defaultPool *WorkerPool
)

// Default returns the process-wide pool, created on first use with
// GOMAXPROCS workers. It is never closed.
func Default() *WorkerPool {
	defaultOnce.Do(func() {
		defaultPool = NewWorkerPool(0)
	})
	return defaultPool
}

// Bands splits [0, n) into at most parts contiguous half-open ranges of at
// least minBand items each (except when n itself is smaller). The ranges
// cover [0, n) in order without overlap.
func Bands(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = max(1, min(parts, (n+minBand-1)/minBand))
	size := (n + parts - 1) / parts

	bands := make([][2]int, 0, parts)
	for lo := 0; lo < n; lo += size {
		bands = append(bands, [2]int{lo, min(lo+size, n)})
	}
	return bands
}

// ForBands calls fn once per band of [0, n) and returns when all calls are
// done. Bands do not overlap, so fn may write to disjoint parts of a shared
// buffer without synchronization.
func (p *WorkerPool) ForBands(n int, fn func(lo, hi int)) {
	bands := Bands(n, p.workers*2)
	if len(bands) <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b[0], b[1]) }
	}
	p.ExecuteAll(work)
}
