package crawler

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task is a unit of work run by the pool.
type Task func(ctx context.Context) error

// WorkerPool runs submitted tasks on a fixed number of goroutines.
// Cancelling the parent context stops workers after their current task.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *zap.Logger

	closeMu sync.Mutex
	closed  bool
}

func NewWorkerPool(ctx context.Context, workerCount int, logger *zap.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      logger,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Debug("worker pool started", zap.Int("workers", wp.workerCount))
}

// Submit blocks until the task is queued. It returns false once the pool
// is shutting down.
func (wp *WorkerPool) Submit(task Task) bool {
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Wait closes the queue and blocks until every queued task has run.
func (wp *WorkerPool) Wait() {
	wp.closeMu.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMu.Unlock()

	wp.wg.Wait()
	wp.cancel()
}

// Shutdown cancels the workers and waits for them to return.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if wp.ctx.Err() != nil {
			// drain without running
			continue
		}
		if err := task(wp.ctx); err != nil {
			wp.logger.Debug("task failed", zap.Int("worker", id), zap.Error(err))
		}
	}
}
