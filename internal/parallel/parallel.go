// Package parallel provides small helpers for splitting raster work
// across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Workers normalizes a worker count: zero or negative means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For runs fn(i) for every i in [begin, end) across the given number of
// workers, splitting the range into contiguous bands. It returns when
// all iterations finish. With one worker it runs inline.
func For(begin, end, workers int, fn func(i int)) {
	n := end - begin
	if n <= 0 {
		return
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := begin; i < end; i++ {
			fn(i)
		}
		return
	}

	band := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := begin + w*band
		hi := min(lo+band, end)
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

// Do runs the given tasks concurrently, at most workers at a time, and
// waits for completion.
func Do(workers int, tasks ...func()) {
	if len(tasks) == 0 {
		return
	}
	workers = Workers(workers)
	if workers == 1 || len(tasks) == 1 {
		for _, t := range tasks {
			t()
		}
		return
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(t func()) {
			defer func() {
				<-sem
				wg.Done()
			}()
			t()
		}(t)
	}
	wg.Wait()
}
