package worker

import (
	"context"
	"errors"
	"sync"
)

type Job any

type ProcessFunc func(ctx context.Context, job Job) error

// WorkerPool runs ProcessFunc over submitted jobs and keeps every error the
// processor returns so Stop can report them.
type WorkerPool struct {
	numWorkers int
	jobs       chan Job
	processor  ProcessFunc
	wg         sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

func NewWorkerPool(numWorkers int, bufferSize int, processor ProcessFunc) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, bufferSize),
		processor:  processor,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 1; i <= wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			if err := wp.processor(ctx, job); err != nil {
				wp.mu.Lock()
				wp.errs = append(wp.errs, err)
				wp.mu.Unlock()
			}
		}
	}
}

// Submit blocks until the job is queued or ctx is done.
func (wp *WorkerPool) Submit(ctx context.Context, job Job) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wp.jobs <- job:
		return nil
	}
}

// Stop closes the queue, waits for the workers and returns the joined
// processor errors, if any.
func (wp *WorkerPool) Stop() error {
	close(wp.jobs)
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return errors.Join(wp.errs...)
}

// Run is a convenience for a bounded batch: start, submit all, stop.
func Run(ctx context.Context, numWorkers int, jobs []Job, processor ProcessFunc) error {
	pool := NewWorkerPool(numWorkers, len(jobs), processor)
	pool.Start(ctx)

	var submitErr error
	for _, j := range jobs {
		if err := pool.Submit(ctx, j); err != nil {
			submitErr = err
			break
		}
	}

	if err := pool.Stop(); err != nil {
		return err
	}
	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}
