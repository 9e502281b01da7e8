package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/veranemoloko/pov-video-generator/internal/domain"
	errpkg "github.com/veranemoloko/pov-video-generator/internal/errors"
)

const shardCount = 16

type shard struct {
	mu    sync.RWMutex
	tasks map[int64]*domain.Task
}

// TaskStore is the in-memory source of truth for task state. Tasks are
// sharded by id so mutations of disjoint tasks never contend on one lock.
type TaskStore struct {
	shards  [shardCount]shard
	nextID  atomic.Int64
	orderMu sync.RWMutex
	order   []int64
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	s := &TaskStore{}
	for i := range s.shards {
		s.shards[i].tasks = make(map[int64]*domain.Task)
	}
	return s
}

func (s *TaskStore) shardFor(id int64) *shard {
	return &s.shards[id%shardCount]
}

// Create allocates a new monotonic id and an initial pending task.
// Safe to call concurrently; each call allocates exactly one id.
func (s *TaskStore) Create(description string) *domain.Task {
	id := s.nextID.Add(1)
	now := time.Now()

	task := &domain.Task{
		ID:          id,
		Description: description,
		Status:      domain.TaskStatusPending,
		Steps:       []domain.StepRecord{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	sh := s.shardFor(id)
	sh.mu.Lock()
	sh.tasks[id] = task
	sh.mu.Unlock()

	s.orderMu.Lock()
	s.order = append(s.order, id)
	s.orderMu.Unlock()

	return task.Clone()
}

// Get returns a snapshot of the task, or ErrTaskNotFound. The snapshot
// is a deep copy, so readers never observe a half-written step record.
func (s *TaskStore) Get(id int64) (*domain.Task, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	task, exists := sh.tasks[id]
	var snapshot *domain.Task
	if exists {
		snapshot = task.Clone()
	}
	sh.mu.RUnlock()

	if !exists {
		return nil, errpkg.ErrTaskNotFound
	}
	return snapshot, nil
}

// Mutate applies fn to the task's mutable fields under the shard's
// exclusive lock. Mutations of tasks on other shards proceed in parallel.
func (s *TaskStore) Mutate(id int64, fn func(*domain.Task)) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	task, exists := sh.tasks[id]
	if !exists {
		return errpkg.ErrTaskNotFound
	}

	fn(task)
	task.UpdatedAt = time.Now()
	return nil
}

// List returns snapshots of all tasks in creation order.
func (s *TaskStore) List() []*domain.Task {
	s.orderMu.RLock()
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	s.orderMu.RUnlock()

	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		if task, err := s.Get(id); err == nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
