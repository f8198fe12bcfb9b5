package main

import (
	"context"
	"runtime"
	"sync"
)

// resolvePoolSize determines the number of workers.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers int) int {
	// Explicit flag takes priority
	if flagWorkers > 0 {
		return flagWorkers
	}

	// Injection is CPU-light string work, so use every available core
	// (GOMAXPROCS is adjusted by automaxprocs for containers).
	n := runtime.GOMAXPROCS(0)

	// Minimum 1, maximum 16
	if n < 1 {
		return 1
	}
	if n > 16 {
		return 16
	}
	return n
}

// runPool calls fn for every index in [0, n) on up to workers goroutines.
// Once ctx ends, remaining indexes are passed to skip instead.
func runPool(ctx context.Context, n, workers int, fn func(i int), skip func(i int, err error)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan int, n)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					skip(idx, err)
					continue
				}
				fn(idx)
			}
		}()
	}

	for i := range n {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}
