package util

import "sync"

// ParallelMap runs fn over items on a fixed pool of workers and returns the
// results in input order.
func ParallelMap[T, R any](items []T, workers int, fn func(T) R) []R {
	out := make([]R, len(items))
	if workers < 1 {
		workers = 1
	}
	wg := sync.WaitGroup{}
	jobs := make(chan int, len(items))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = fn(items[i])
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
