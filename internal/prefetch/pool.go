package prefetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"igboard/pkg/logger"
	"igboard/pkg/models"
	"igboard/pkg/ratelimit"
)

// Job asks for one account's insights to be warmed
type Job struct {
	AccountID string
	Username  string
	Params    models.PostInsightParams
}

// Result is the outcome of one warm-up fetch
type Result struct {
	Job       Job
	Success   bool
	Error     error
	Duration  time.Duration
	PostCount int
}

// InsightSource fetches post insights for a job
type InsightSource interface {
	GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error)
}

// Warmed receives each successful response, typically a cache
type Warmed interface {
	Put(accountID string, resp *models.PostInsightResponse)
}

// WorkerPool warms per-account insight data concurrently so the dashboard
// opens with everything already fetched
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	source      InsightSource
	sink        Warmed
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a prefetch worker pool
func NewWorkerPool(
	numWorkers int,
	source InsightSource,
	sink Warmed,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.Unlimited{}
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		source:      source,
		sink:        sink,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("starting prefetch pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop drains the queue and shuts the pool down
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
	wp.logger.Info("prefetch pool stopped")
}

// Submit queues an account for warming. Not safe to call concurrently
// with Stop.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("prefetch pool is shutting down")
	default:
	}
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("prefetch pool is shutting down")
	}
}

// Results returns the channel of completed warm-ups
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// QueueSize returns how many jobs are pending
func (wp *WorkerPool) QueueSize() int {
	return len(wp.jobQueue)
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	if !wp.rateLimiter.Allow() {
		wp.rateLimiter.Wait()
	}

	params := job.Params
	params.AccountID = job.AccountID
	resp, err := wp.source.GetPostInsights(wp.ctx, params)
	if err != nil {
		result.Error = fmt.Errorf("prefetch failed: %w", err)
		result.Duration = time.Since(start)
		wp.logger.ErrorWithFields("prefetch worker failed", map[string]interface{}{
			"worker_id":  workerID,
			"account_id": job.AccountID,
			"error":      err.Error(),
		})
		return result
	}

	if wp.sink != nil {
		wp.sink.Put(job.AccountID, resp)
	}

	result.Success = true
	result.PostCount = len(resp.Posts)
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("prefetch worker completed", map[string]interface{}{
		"worker_id":  workerID,
		"account_id": job.AccountID,
		"post_count": result.PostCount,
		"duration":   result.Duration,
	})
	return result
}
