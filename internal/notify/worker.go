package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/agenthub/agenthub/internal/cache"
	"github.com/agenthub/agenthub/internal/metrics"
)

const (
	// DefaultBlockTimeout is how long a dequeue blocks waiting for a job.
	DefaultBlockTimeout = 5 * time.Second

	// DefaultMaxAttempts is the delivery attempt ceiling per job.
	DefaultMaxAttempts = 3

	// retryDelay spaces out redelivery of a failed job.
	retryDelay = 2 * time.Second
)

// Worker drains the OTP delivery queue and hands jobs to a Sender.
// Failed jobs are re-queued with a bounded attempt count; exhausted jobs
// are dropped and logged.
type Worker struct {
	queue        *cache.Cache
	sender       Sender
	logger       *slog.Logger
	metrics      metrics.Recorder
	blockTimeout time.Duration
	maxAttempts  int

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewWorker creates a delivery worker.
func NewWorker(queue *cache.Cache, sender Sender, logger *slog.Logger, recorder metrics.Recorder) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		queue:        queue,
		sender:       sender,
		logger:       logger.With("component", "notify.worker"),
		metrics:      recorder,
		blockTimeout: DefaultBlockTimeout,
		maxAttempts:  DefaultMaxAttempts,
	}
}

// Start launches the worker loop. Safe to call once.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go w.run(ctx)
	w.logger.Info("delivery worker started")
}

// Shutdown stops the worker and waits for the in-flight job to finish,
// bounded by ctx.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.DequeueDelivery(ctx, w.blockTimeout)
		if err != nil {
			if errors.Is(err, cache.ErrQueueEmpty) || ctx.Err() != nil {
				continue
			}
			w.logger.Error("dequeue failed", slog.String("error", err.Error()))
			continue
		}

		w.deliver(ctx, job)
	}
}

func (w *Worker) deliver(ctx context.Context, job *cache.DeliveryJob) {
	err := w.sender.Send(ctx, job.Email, job.Code)
	if err == nil {
		w.metrics.IncOTPDelivered("success")
		return
	}

	job.Attempts++
	if job.Attempts >= w.maxAttempts {
		w.metrics.IncOTPDelivered("dropped")
		w.logger.Error("delivery dropped after retries",
			slog.String("error", err.Error()),
			slog.Int("attempts", job.Attempts),
		)
		return
	}

	w.metrics.IncOTPDelivered("retry")
	w.logger.Warn("delivery failed, re-queueing",
		slog.String("error", err.Error()),
		slog.Int("attempts", job.Attempts),
	)

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return
	}

	if err := w.queue.EnqueueDelivery(ctx, *job); err != nil {
		w.logger.Error("re-queue failed", slog.String("error", err.Error()))
	}
}
