package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskKind selects which pipeline a queued task runs.
type TaskKind string

const (
	TaskProcessJob TaskKind = "process_job"
	TaskProcessCV  TaskKind = "process_cv"
	TaskMatch      TaskKind = "match"
)

// Task is one unit of background work. For TaskMatch both IDs are set;
// the other kinds use only their own ID.
type Task struct {
	Kind          TaskKind
	JobID         uuid.UUID
	ApplicationID uuid.UUID
}

// key identifies the entity a task operates on. At most one task per key
// is queued or running at a time; duplicates are dropped.
func (t Task) key() string {
	switch t.Kind {
	case TaskProcessJob:
		return JobEmbeddingKey(t.JobID)
	case TaskProcessCV:
		return CVEmbeddingKey(t.ApplicationID)
	}
	return "match_" + t.JobID.String() + "_" + t.ApplicationID.String()
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(task Task) bool
}

type worker struct {
	cvProcessor  CVProcessor
	jobProcessor JobProcessor
	matching     MatchingService
	logger       *zap.Logger

	taskQueue   chan Task
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewWorker(
	cvProcessor CVProcessor,
	jobProcessor JobProcessor,
	matching MatchingService,
	concurrency int,
	queueSize int,
	logger *zap.Logger,
) Worker {
	return &worker{
		cvProcessor:  cvProcessor,
		jobProcessor: jobProcessor,
		matching:     matching,
		logger:       logger,
		taskQueue:    make(chan Task, queueSize),
		concurrency:  concurrency,
		stopChan:     make(chan struct{}),
		inFlight:     make(map[string]struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker pool", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

func (w *worker) Stop() {
	w.logger.Info("stopping worker pool")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("worker pool stopped")
}

// Enqueue queues a task unless an identical one is already pending or
// running, or the queue is full. Returns whether the task was accepted.
func (w *worker) Enqueue(task Task) bool {
	key := task.key()

	w.mu.Lock()
	if _, dup := w.inFlight[key]; dup {
		w.mu.Unlock()
		w.logger.Debug("task already in flight", zap.String("task_key", key))
		return false
	}
	w.inFlight[key] = struct{}{}
	w.mu.Unlock()

	select {
	case w.taskQueue <- task:
		w.logger.Debug("task enqueued",
			zap.String("task_key", key),
			zap.String("kind", string(task.Kind)))
		return true
	default:
		w.release(key)
		w.logger.Warn("task queue full, dropping task", zap.String("task_key", key))
		return false
	}
}

func (w *worker) release(key string) {
	w.mu.Lock()
	delete(w.inFlight, key)
	w.mu.Unlock()
}

func (w *worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("worker stopped")
			return
		case task := <-w.taskQueue:
			if err := w.handle(ctx, task); err != nil {
				log.Error("task failed",
					zap.String("task_key", task.key()),
					zap.String("kind", string(task.Kind)),
					zap.Error(err))
			}
			w.release(task.key())
		}
	}
}

func (w *worker) handle(ctx context.Context, task Task) error {
	switch task.Kind {
	case TaskProcessJob:
		_, err := w.jobProcessor.ProcessJob(ctx, task.JobID)
		return err
	case TaskProcessCV:
		_, err := w.cvProcessor.ProcessApplication(ctx, task.ApplicationID)
		return err
	case TaskMatch:
		_, err := w.matching.MatchJobApplication(ctx, task.JobID, task.ApplicationID)
		return err
	}
	return nil
}
