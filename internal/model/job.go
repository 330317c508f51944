package model

import "time"

// Job represents an async generation job
type Job struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep PipelineState   `json:"currentStep,omitempty"`
	Error       *JobError       `json:"error,omitempty"`
	BrandID     string          `json:"brandId,omitempty"`
	Request     GenerateRequest `json:"request"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// JobError is the client-facing failure of a job
type JobError struct {
	Stage   Stage     `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// GenerateJobPayload contains the data for a generation task
type GenerateJobPayload struct {
	JobID   string          `json:"jobId"`
	UserID  string          `json:"userId"`
	Request GenerateRequest `json:"request"`
}

// JobStartResponse represents the response for an accepted async job
type JobStartResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobStatusResponse represents the current state of an async job
type JobStatusResponse struct {
	JobID       string         `json:"jobId"`
	Status      JobStatus      `json:"status"`
	Progress    int            `json:"progress"`
	CurrentStep PipelineState  `json:"currentStep,omitempty"`
	Error       *JobError      `json:"error,omitempty"`
	Brand       *BrandResponse `json:"brand,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}
