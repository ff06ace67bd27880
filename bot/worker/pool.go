package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool closed")

// ErrTaskPanicked is returned by the waiting submitters when the task panics.
var ErrTaskPanicked = errors.New("worker task panicked")

// Pool provides bounded concurrency execution.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	size   int
}

// New creates a worker pool with the given size.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	queueSize := size * 8
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		tasks: make(chan func(), queueSize),
		size:  size,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				if task != nil {
					task()
				}
			}
		}()
	}

	return p
}

// Submit enqueues a task for execution.
func (p *Pool) Submit(task func()) error {
	return p.submit(context.Background(), task)
}

// SubmitWait enqueues a task and waits for it to complete.
func (p *Pool) SubmitWait(task func() error) error {
	return p.SubmitWaitContext(context.Background(), task)
}

// SubmitWaitContext enqueues a task and waits for it to complete or for ctx to end.
// A task that is already running keeps running after ctx ends; its result is dropped.
func (p *Pool) SubmitWaitContext(ctx context.Context, task func() error) error {
	if task == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := make(chan error, 1)
	err := p.submit(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()
		result <- task()
	})
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		return err
	}
}

func (p *Pool) submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Shutdown waits for in-flight tasks until context is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// StopNow closes the pool without waiting for tasks to finish.
func (p *Pool) StopNow() {
	p.close()
}

func (p *Pool) close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}
