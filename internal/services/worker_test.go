package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

type stubCVProcessor struct {
	processed chan uuid.UUID
}

func (s *stubCVProcessor) ProcessApplication(_ context.Context, applicationID uuid.UUID) (*models.ProcessedCV, error) {
	s.processed <- applicationID
	return &models.ProcessedCV{ApplicationID: applicationID}, nil
}

type stubJobProcessor struct {
	processed chan uuid.UUID
}

func (s *stubJobProcessor) ProcessJob(_ context.Context, jobID uuid.UUID) (*models.ProcessedJob, error) {
	s.processed <- jobID
	return &models.ProcessedJob{JobID: jobID}, nil
}

type stubMatchingService struct {
	matched chan [2]uuid.UUID
}

func (s *stubMatchingService) MatchJobApplication(_ context.Context, jobID, applicationID uuid.UUID) (*models.MatchResult, error) {
	s.matched <- [2]uuid.UUID{jobID, applicationID}
	return &models.MatchResult{JobID: jobID, ApplicationID: applicationID}, nil
}

func (s *stubMatchingService) MatchJobWithAllApplications(_ context.Context, jobID uuid.UUID) ([]models.MatchResult, error) {
	return nil, nil
}

func TestEnqueueDeduplicatesByEntity(t *testing.T) {
	w := NewWorker(nil, nil, nil, 1, 10, zap.NewNop())

	task := Task{Kind: TaskProcessJob, JobID: uuid.New()}

	if !w.Enqueue(task) {
		t.Fatalf("first enqueue should be accepted")
	}
	if w.Enqueue(task) {
		t.Fatalf("duplicate enqueue should be dropped")
	}

	other := Task{Kind: TaskProcessJob, JobID: uuid.New()}
	if !w.Enqueue(other) {
		t.Fatalf("distinct entity should be accepted")
	}
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	w := NewWorker(nil, nil, nil, 1, 1, zap.NewNop())

	first := Task{Kind: TaskProcessJob, JobID: uuid.New()}
	second := Task{Kind: TaskProcessJob, JobID: uuid.New()}

	if !w.Enqueue(first) {
		t.Fatalf("first enqueue should be accepted")
	}
	if w.Enqueue(second) {
		t.Fatalf("enqueue into a full queue should be dropped")
	}

	// A dropped task releases its key and can be retried.
	if _, held := w.(*worker).inFlight[second.key()]; held {
		t.Fatalf("dropped task should not hold its key")
	}
}

func TestWorkerDispatchesTasks(t *testing.T) {
	cvStub := &stubCVProcessor{processed: make(chan uuid.UUID, 1)}
	jobStub := &stubJobProcessor{processed: make(chan uuid.UUID, 1)}
	matchStub := &stubMatchingService{matched: make(chan [2]uuid.UUID, 1)}

	w := NewWorker(cvStub, jobStub, matchStub, 2, 10, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	jobID := uuid.New()
	applicationID := uuid.New()

	w.Enqueue(Task{Kind: TaskProcessJob, JobID: jobID})
	w.Enqueue(Task{Kind: TaskProcessCV, ApplicationID: applicationID})
	w.Enqueue(Task{Kind: TaskMatch, JobID: jobID, ApplicationID: applicationID})

	waitFor := func(name string, check func() bool) {
		deadline := time.After(2 * time.Second)
		for {
			select {
			case <-deadline:
				t.Fatalf("timed out waiting for %s", name)
			default:
			}
			if check() {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}

	var gotJob, gotCV bool
	var gotMatch bool
	waitFor("all tasks", func() bool {
		select {
		case id := <-jobStub.processed:
			if id == jobID {
				gotJob = true
			}
		case id := <-cvStub.processed:
			if id == applicationID {
				gotCV = true
			}
		case pair := <-matchStub.matched:
			if pair[0] == jobID && pair[1] == applicationID {
				gotMatch = true
			}
		default:
		}
		return gotJob && gotCV && gotMatch
	})
}

func TestTaskKeyPerKind(t *testing.T) {
	jobID := uuid.New()
	applicationID := uuid.New()

	jobKey := Task{Kind: TaskProcessJob, JobID: jobID}.key()
	cvKey := Task{Kind: TaskProcessCV, ApplicationID: applicationID}.key()
	matchKey := Task{Kind: TaskMatch, JobID: jobID, ApplicationID: applicationID}.key()

	if jobKey == cvKey || jobKey == matchKey || cvKey == matchKey {
		t.Fatalf("task keys must not collide: %q %q %q", jobKey, cvKey, matchKey)
	}
	if jobKey != JobEmbeddingKey(jobID) {
		t.Fatalf("job task key = %q, want %q", jobKey, JobEmbeddingKey(jobID))
	}
}
