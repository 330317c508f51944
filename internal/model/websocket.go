package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage is sent on every pipeline transition of a job
type WSProgressMessage struct {
	Type        string        `json:"type"`
	JobID       string        `json:"jobId"`
	Progress    int           `json:"progress"`
	Status      JobStatus     `json:"status"`
	CurrentStep PipelineState `json:"currentStep,omitempty"`
}

// WSCompleteMessage carries the generated identity of a finished job
type WSCompleteMessage struct {
	Type  string         `json:"type"`
	JobID string         `json:"jobId"`
	Brand *BrandResponse `json:"brand"`
}

// WSErrorMessage represents a failed job
type WSErrorMessage struct {
	Type  string   `json:"type"`
	JobID string   `json:"jobId"`
	Error JobError `json:"error"`
}
