// Package jobs runs background work for the asset manager.
//
// Submit never blocks: each task gets its own goroutine, which then waits on a
// weighted semaphore so at most Config.Workers tasks execute at once. Panics
// inside a task are recovered, logged, and reported through the task's
// Future. Submitted tasks always run to completion; there is no cancellation.
//
// # Usage
//
//	s := jobs.New(jobs.Config{Workers: 8}, logger)
//	f := s.Submit(func() { parse(path) })
//	err := f.Wait()
//
//	s.Close() // waits for everything already submitted
package jobs
