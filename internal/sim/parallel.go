package sim

import "sync"

// parallelFor runs fn(i) for i in [0, n) across the given number of workers,
// handing each worker a contiguous chunk. It returns when all calls have
// finished. fn must not touch state owned by another index.
func parallelFor(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
