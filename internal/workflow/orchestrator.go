package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/veranemoloko/pov-video-generator/internal/config"
	"github.com/veranemoloko/pov-video-generator/internal/domain"
	errpkg "github.com/veranemoloko/pov-video-generator/internal/errors"
	"github.com/veranemoloko/pov-video-generator/internal/integrations"
	"github.com/veranemoloko/pov-video-generator/internal/metrics"
	"github.com/veranemoloko/pov-video-generator/internal/store"
)

// Step names as they appear in the task audit trail.
const (
	StepStarting  = "Starting workflow"
	StepCredCheck = "Credential Check"
	StepPrompt    = "GPT-4 Prompt Generation"
	StepImage     = "FLUX Image Generation"
	StepVideo     = "RunwayML Video Generation"
	StepVideoPoll = "RunwayML Video Processing"
	StepSheets    = "Google Sheets Update"
	StepGmail     = "Gmail Notification"
	StepFinished  = "Workflow Finished"
	StepError     = "Workflow Error"
	StepInitError = "Workflow Initialization Error"
)

const sheetRangeName = "Sheet1"

// Render job statuses reported by the video service.
const (
	jobStatusSucceeded = "succeeded"
	jobStatusFailed    = "failed"
)

// PromptGenerator expands a scene description into a detailed prompt.
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, sceneDescription string) (string, error)
}

// ImageGenerator renders a prompt into an image URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// VideoGenerator submits asynchronous render jobs and reports their status.
type VideoGenerator interface {
	SubmitVideo(ctx context.Context, imageURL, prompt string) (string, error)
	JobStatus(ctx context.Context, jobID string) (*integrations.VideoJobStatus, error)
}

// SheetLogger appends a result row to a spreadsheet.
type SheetLogger interface {
	AppendRow(ctx context.Context, spreadsheetID, rangeName string, values []string) error
}

// EmailSender delivers a notification email.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Adapters bundles the external services the pipeline drives.
type Adapters struct {
	Prompts PromptGenerator
	Images  ImageGenerator
	Videos  VideoGenerator
	Sheets  SheetLogger
	Mail    EmailSender
}

// Orchestrator runs the generation pipeline for one task at a time per
// Run call, recording every step and the terminal outcome in the store.
type Orchestrator struct {
	store           *store.TaskStore
	adapters        Adapters
	creds           config.Credentials
	pollInterval    time.Duration
	pollMaxAttempts int
	logger          *slog.Logger
}

// NewOrchestrator wires the pipeline to its store, adapters, and credentials.
func NewOrchestrator(st *store.TaskStore, adapters Adapters, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:           st,
		adapters:        adapters,
		creds:           cfg.Credentials,
		pollInterval:    cfg.VideoPollInterval,
		pollMaxAttempts: cfg.VideoPollMaxAttempts,
		logger:          logger,
	}
}

// Run executes the pipeline for the task. It is meant to be launched on
// its own goroutine and runs exactly once per task id; all progress is
// written through the store so concurrent readers see it immediately.
func (o *Orchestrator) Run(ctx context.Context, taskID int64) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("workflow panic", "task_id", taskID, "panic", r)
			o.fail(taskID, fmt.Errorf("workflow panic: %v", r))
		}
	}()

	task, err := o.store.Get(taskID)
	if err != nil {
		o.logger.Error("workflow started for unknown task", "task_id", taskID, "error", err)
		return
	}
	scene := task.Description

	if err := o.store.Mutate(taskID, func(t *domain.Task) {
		t.Status = domain.TaskStatusProcessing
		t.AppendStep(domain.StepRecord{Name: StepStarting, Status: domain.StepStatusCompleted})
	}); err != nil {
		o.logger.Error("failed to start workflow", "task_id", taskID, "error", err)
		return
	}
	o.logger.Info("workflow started", "task_id", taskID)

	if !o.creds.HasMandatory() {
		msg := errpkg.ErrMissingCredentials.Error() + "."
		_ = o.store.Mutate(taskID, func(t *domain.Task) {
			t.Status = domain.TaskStatusError
			t.Error = msg
			t.AppendStep(domain.StepRecord{Name: StepCredCheck, Status: domain.StepStatusError, Message: msg})
		})
		metrics.TasksFailed.Inc()
		o.logger.Warn("workflow aborted, missing credentials", "task_id", taskID)
		return
	}

	prompt, ok := o.runPromptStage(ctx, taskID, scene)
	if !ok {
		return
	}

	imageURL, ok := o.runImageStage(ctx, taskID, prompt)
	if !ok {
		return
	}

	jobID, ok := o.runVideoSubmitStage(ctx, taskID, imageURL, prompt)
	if !ok {
		return
	}

	videoURL, ok := o.runVideoPollStage(ctx, taskID, jobID)
	if !ok {
		return
	}

	o.runSheetsStage(ctx, taskID, scene, prompt, imageURL, videoURL)
	o.runGmailStage(ctx, taskID, scene, prompt, imageURL, videoURL)

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		if t.Status.Terminal() {
			return
		}
		t.Status = domain.TaskStatusCompleted
		t.Result = videoURL
		t.AppendStep(domain.StepRecord{Name: StepFinished, Status: domain.StepStatusCompleted})
	})

	metrics.TasksCompleted.Inc()
	metrics.WorkflowDuration.Observe(time.Since(started).Seconds())
	o.logger.Info("workflow completed", "task_id", taskID, "video_url", videoURL, "duration", time.Since(started))
}

func (o *Orchestrator) runPromptStage(ctx context.Context, taskID int64, scene string) (string, bool) {
	o.beginStep(taskID, StepPrompt, domain.StepStatusProcessing)

	started := time.Now()
	prompt, err := o.adapters.Prompts.GeneratePrompt(ctx, scene)
	metrics.StageDuration.WithLabelValues("prompt").Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.StageCalls.WithLabelValues("prompt", "error").Inc()
		o.fail(taskID, fmt.Errorf("GPT-4 Error: %w", err))
		return "", false
	}
	metrics.StageCalls.WithLabelValues("prompt", "success").Inc()

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		if last := t.LastStep(); last != nil {
			last.Status = domain.StepStatusCompleted
			last.Output = prompt
			last.Timestamp = time.Now()
		}
		t.Prompt = prompt
	})
	return prompt, true
}

func (o *Orchestrator) runImageStage(ctx context.Context, taskID int64, prompt string) (string, bool) {
	o.beginStep(taskID, StepImage, domain.StepStatusProcessing)

	started := time.Now()
	imageURL, err := o.adapters.Images.GenerateImage(ctx, prompt)
	metrics.StageDuration.WithLabelValues("image").Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.StageCalls.WithLabelValues("image", "error").Inc()
		o.fail(taskID, fmt.Errorf("FLUX Image Generation Error: %w", err))
		return "", false
	}
	metrics.StageCalls.WithLabelValues("image", "success").Inc()

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		if last := t.LastStep(); last != nil {
			last.Status = domain.StepStatusCompleted
			last.Output = imageURL
			last.Timestamp = time.Now()
		}
		t.ImageURL = imageURL
	})
	return imageURL, true
}

func (o *Orchestrator) runVideoSubmitStage(ctx context.Context, taskID int64, imageURL, prompt string) (string, bool) {
	o.beginStep(taskID, StepVideo, domain.StepStatusProcessing)

	started := time.Now()
	jobID, err := o.adapters.Videos.SubmitVideo(ctx, imageURL, prompt)
	metrics.StageDuration.WithLabelValues("video_submit").Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.StageCalls.WithLabelValues("video_submit", "error").Inc()
		o.fail(taskID, fmt.Errorf("RunwayML Video Creation Error: %w", err))
		return "", false
	}
	metrics.StageCalls.WithLabelValues("video_submit", "success").Inc()

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		if last := t.LastStep(); last != nil {
			last.Status = domain.StepStatusSubmitted
			last.JobID = jobID
			last.Timestamp = time.Now()
		}
	})
	return jobID, true
}

func (o *Orchestrator) runVideoPollStage(ctx context.Context, taskID int64, jobID string) (string, bool) {
	o.beginStep(taskID, StepVideoPoll, domain.StepStatusPolling)

	videoURL, err := o.pollVideo(ctx, taskID, jobID)
	if err != nil {
		metrics.StageCalls.WithLabelValues("video_poll", "error").Inc()
		o.fail(taskID, err)
		return "", false
	}
	metrics.StageCalls.WithLabelValues("video_poll", "success").Inc()

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		if last := t.LastStep(); last != nil {
			last.Status = domain.StepStatusCompleted
			last.Output = videoURL
			last.Timestamp = time.Now()
		}
		t.VideoURL = videoURL
	})
	return videoURL, true
}

// pollVideo is the bounded retry loop around the asynchronous render job.
// Only a still-pending status is retried; a reported failure, a malformed
// success, or an exhausted attempt budget ends the loop immediately.
func (o *Orchestrator) pollVideo(ctx context.Context, taskID int64, jobID string) (string, error) {
	for attempt := 0; attempt < o.pollMaxAttempts; attempt++ {
		metrics.PollAttempts.Inc()

		status, err := o.adapters.Videos.JobStatus(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("RunwayML Status Check Error: %w", err)
		}

		_ = o.store.Mutate(taskID, func(t *domain.Task) {
			if last := t.LastStep(); last != nil {
				last.RemoteStatus = status.Status
			}
		})

		switch status.Status {
		case jobStatusSucceeded:
			videoURL, ok := status.OutputURL()
			if !ok {
				return "", fmt.Errorf("%w. Response: %s", errpkg.ErrNoOutputURL, status.Raw)
			}
			return videoURL, nil
		case jobStatusFailed:
			return "", fmt.Errorf("RunwayML Video Generation Failed: %s - Full Response: %s",
				status.FailureReason(), status.Raw)
		}

		o.logger.Debug("render still pending", "task_id", taskID, "job_id", jobID,
			"remote_status", status.Status, "attempt", attempt+1)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(o.pollInterval):
		}
	}

	return "", fmt.Errorf("%w.", errpkg.ErrPollTimeout)
}

// runSheetsStage logs the result to a spreadsheet. Best effort: a failure
// degrades the step to a warning and the pipeline continues.
func (o *Orchestrator) runSheetsStage(ctx context.Context, taskID int64, scene, prompt, imageURL, videoURL string) {
	if !o.creds.SheetsEnabled() {
		return
	}

	o.beginStep(taskID, StepSheets, domain.StepStatusProcessing)

	row := []string{scene, prompt, imageURL, videoURL, "Completed", time.Now().Format(time.ANSIC)}
	err := o.adapters.Sheets.AppendRow(ctx, o.creds.GoogleSpreadsheetID, sheetRangeName, row)

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		last := t.LastStep()
		if last == nil {
			return
		}
		if err != nil {
			last.Status = domain.StepStatusWarning
			last.Message = fmt.Sprintf("Google Sheets Error: %v", err)
		} else {
			last.Status = domain.StepStatusCompleted
		}
		last.Timestamp = time.Now()
	})

	if err != nil {
		metrics.StageCalls.WithLabelValues("sheets", "warning").Inc()
		o.logger.Warn("spreadsheet logging failed", "task_id", taskID, "error", err)
	} else {
		metrics.StageCalls.WithLabelValues("sheets", "success").Inc()
	}
}

// runGmailStage sends the completion notification. Best effort, same
// degradation contract as the sheets stage.
func (o *Orchestrator) runGmailStage(ctx context.Context, taskID int64, scene, prompt, imageURL, videoURL string) {
	if !o.creds.GmailEnabled() {
		return
	}

	o.beginStep(taskID, StepGmail, domain.StepStatusProcessing)

	subject := fmt.Sprintf("POV Video Generated: %s...", truncate(scene, 30))
	body := fmt.Sprintf("Your POV video for the scene '%s' has been generated.\n\nPrompt: %s\nImage URL: %s\nVideo URL: %s",
		scene, prompt, imageURL, videoURL)
	err := o.adapters.Mail.Send(ctx, o.creds.GmailRecipient, subject, body)

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		last := t.LastStep()
		if last == nil {
			return
		}
		if err != nil {
			last.Status = domain.StepStatusWarning
			last.Message = fmt.Sprintf("Gmail Error: %v", err)
		} else {
			last.Status = domain.StepStatusCompleted
		}
		last.Timestamp = time.Now()
	})

	if err != nil {
		metrics.StageCalls.WithLabelValues("gmail", "warning").Inc()
		o.logger.Warn("email notification failed", "task_id", taskID, "error", err)
	} else {
		metrics.StageCalls.WithLabelValues("gmail", "success").Inc()
	}
}

func (o *Orchestrator) beginStep(taskID int64, name string, status domain.StepStatus) {
	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		t.AppendStep(domain.StepRecord{Name: name, Status: status})
	})
}

// fail moves the task to its terminal error state. The in-flight step is
// marked with the message; if the last step already finished, a separate
// error step is appended instead. A task that is already terminal is
// never overwritten.
func (o *Orchestrator) fail(taskID int64, cause error) {
	msg := cause.Error()

	_ = o.store.Mutate(taskID, func(t *domain.Task) {
		if t.Status.Terminal() {
			return
		}
		t.Status = domain.TaskStatusError
		t.Error = msg

		last := t.LastStep()
		switch {
		case last == nil:
			t.AppendStep(domain.StepRecord{Name: StepInitError, Status: domain.StepStatusError, Message: msg})
		case last.Status.InFlight():
			last.Status = domain.StepStatusError
			last.Message = msg
			last.Timestamp = time.Now()
		default:
			t.AppendStep(domain.StepRecord{Name: StepError, Status: domain.StepStatusError, Message: msg})
		}
	})

	metrics.TasksFailed.Inc()
	o.logger.Error("workflow failed", "task_id", taskID, "error", msg)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
