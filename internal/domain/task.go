package domain

import (
	"time"
)

// TaskStatus represents the current state of a Task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusError      TaskStatus = "error"
)

// Terminal reports whether no further status transitions are allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// StepStatus represents the current state of a single pipeline step.
type StepStatus string

const (
	StepStatusProcessing StepStatus = "processing"
	StepStatusPolling    StepStatus = "polling"
	StepStatusSubmitted  StepStatus = "submitted"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusWarning    StepStatus = "warning"
	StepStatusError      StepStatus = "error"
)

// InFlight reports whether the step is still being worked on.
func (s StepStatus) InFlight() bool {
	return s == StepStatusProcessing || s == StepStatusPolling || s == StepStatusSubmitted
}

// StepRecord is one audit-trail entry for a pipeline stage.
type StepRecord struct {
	Name         string     `json:"name"`
	Status       StepStatus `json:"status"`
	Timestamp    time.Time  `json:"timestamp"`
	Output       string     `json:"output,omitempty"`
	Message      string     `json:"message,omitempty"`
	JobID        string     `json:"job_id,omitempty"`
	RemoteStatus string     `json:"remote_status,omitempty"`
}

// Task is one end-to-end generation pipeline run for a submitted scene description.
type Task struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Prompt      string       `json:"prompt,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	VideoURL    string       `json:"video_url,omitempty"`
	Result      string       `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
	Steps       []StepRecord `json:"steps"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Clone returns a deep copy safe to hand to readers while the original
// keeps being mutated.
func (t *Task) Clone() *Task {
	cp := *t
	cp.Steps = make([]StepRecord, len(t.Steps))
	copy(cp.Steps, t.Steps)
	return &cp
}

// AppendStep adds a new step record, stamping it with the current time
// if the caller did not set one.
func (t *Task) AppendStep(step StepRecord) {
	if step.Timestamp.IsZero() {
		step.Timestamp = time.Now()
	}
	t.Steps = append(t.Steps, step)
}

// LastStep returns a pointer to the most recent step record, or nil if
// the pipeline has not started yet.
func (t *Task) LastStep() *StepRecord {
	if len(t.Steps) == 0 {
		return nil
	}
	return &t.Steps[len(t.Steps)-1]
}
