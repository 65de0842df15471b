package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task is a unit of work executed by the pool. The returned error marks the
// task failed; the pool never aborts the batch on individual failures.
type Task struct {
	ID  string
	Run func(context.Context) error
}

// Result pairs a task with its outcome.
type Result struct {
	ID  string
	Err error
}

// Pool fans a batch of tasks out over a fixed number of workers and waits for
// all of them. It is safe for concurrent use; each RunBatch call owns its own
// worker set.
type Pool struct {
	workers int
	logger  *zap.Logger
}

// NewPool builds a pool with the given parallelism.
func NewPool(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{workers: workers, logger: logger}
}

// RunBatch executes every task and returns one result per task, in completion
// order. Remaining tasks are skipped with ctx.Err() once the context is done.
func (p *Pool) RunBatch(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	in := make(chan Task)
	out := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range in {
				if err := ctx.Err(); err != nil {
					out <- Result{ID: task.ID, Err: err}
					continue
				}
				err := task.Run(ctx)
				if err != nil {
					p.logger.Sugar().Warnw("task failed", "task_id", task.ID, "error", err)
				}
				out <- Result{ID: task.ID, Err: err}
			}
		}()
	}

	for _, task := range tasks {
		in <- task
	}
	close(in)
	wg.Wait()
	close(out)

	results := make([]Result, 0, len(tasks))
	for r := range out {
		results = append(results, r)
	}
	return results
}
