package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/veranemoloko/pov-video-generator/internal/config"
	"github.com/veranemoloko/pov-video-generator/internal/domain"
	"github.com/veranemoloko/pov-video-generator/internal/metrics"
	"github.com/veranemoloko/pov-video-generator/internal/store"
	"github.com/veranemoloko/pov-video-generator/internal/workflow"
)

// TaskService sits between the HTTP layer and the orchestrator. Submission
// allocates the task and fires the pipeline on its own goroutine; the
// semaphore bounds how many pipelines run at once without ever blocking
// the submission call itself.
type TaskService struct {
	store        *store.TaskStore
	orchestrator *workflow.Orchestrator
	creds        config.Credentials
	sem          *semaphore.Weighted
	logger       *slog.Logger

	mu           sync.Mutex
	wg           sync.WaitGroup
	shuttingDown bool
}

// NewTaskService creates a TaskService with the given concurrency bound.
func NewTaskService(st *store.TaskStore, orch *workflow.Orchestrator, cfg *config.Config, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:        st,
		orchestrator: orch,
		creds:        cfg.Credentials,
		sem:          semaphore.NewWeighted(cfg.MaxConcurrentWorkflows),
		logger:       logger,
	}
}

// CreateTask allocates a new task and launches its pipeline without
// waiting for any stage to run.
func (s *TaskService) CreateTask(ctx context.Context, sceneDescription string) (*domain.Task, error) {
	s.mu.Lock()
	if s.shuttingDown {
		s.mu.Unlock()
		return nil, fmt.Errorf("service is shutting down")
	}
	task := s.store.Create(sceneDescription)
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.TasksCreated.Inc()
	s.logger.Info("task created", "task_id", task.ID)

	go func() {
		defer s.wg.Done()

		// The pipeline must not inherit the request context: the
		// submission response returns long before the pipeline ends.
		runCtx := context.Background()

		if err := s.sem.Acquire(runCtx, 1); err != nil {
			s.logger.Error("failed to acquire workflow slot", "task_id", task.ID, "error", err)
			return
		}
		defer s.sem.Release(1)

		s.orchestrator.Run(runCtx, task.ID)
	}()

	return task, nil
}

// GetTask returns a snapshot of the task, or an error if it is unknown.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.store.Get(id)
}

// ListTasks returns snapshots of all tasks in creation order.
func (s *TaskService) ListTasks(ctx context.Context) []*domain.Task {
	return s.store.List()
}

// CredentialsStatus reports which credentials are configured, without values.
func (s *TaskService) CredentialsStatus() domain.CredentialsStatus {
	return domain.CredentialsStatus{
		OpenAI:              s.creds.OpenAIAPIKey != "",
		HuggingFace:         s.creds.HuggingFaceAPIKey != "",
		RunwayML:            s.creds.RunwayMLAPIKey != "",
		GoogleSpreadsheetID: s.creds.GoogleSpreadsheetID != "",
		GmailRecipient:      s.creds.GmailRecipient != "",
		GoogleAPIToken:      s.creds.GoogleAPIToken != "",
	}
}

// Shutdown stops accepting new tasks and waits for in-flight pipelines
// until ctx expires.
func (s *TaskService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()

	s.logger.Info("shutting down task service")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("task service shutdown completed")
		return nil
	case <-ctx.Done():
		s.logger.Warn("task service shutdown timed out")
		return ctx.Err()
	}
}
