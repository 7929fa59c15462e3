package main

import "time"

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ConversionJob carries one upload through the worker pool. The handler that
// created it blocks on done; the worker closes done after filling in either
// Result or Err.
type ConversionJob struct {
	ID          string
	Filename    string // original upload name
	BaseName    string // upload name without extension
	Ext         string // lowercase source extension
	Route       Route
	Payload     []byte
	Status      JobStatus
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	Result      []byte
	OutputName  string
	Err         error

	done chan struct{}
}

type HealthStatus struct {
	Status        string `json:"status"`
	ActiveJobs    int64  `json:"active_jobs"`
	QueuedJobs    int64  `json:"queued_jobs"`
	CompletedJobs int64  `json:"completed_jobs"`
	FailedJobs    int64  `json:"failed_jobs"`
	Workers       int    `json:"workers"`
	Uptime        string `json:"uptime"`
}
