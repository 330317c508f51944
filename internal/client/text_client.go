package client

import "context"

// CompletionRequest is a single system+user exchange with a text model
type CompletionRequest struct {
	System   string
	User     string
	JSONMode bool
}

// TextCompleter defines the interface for text generation providers
type TextCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	IsConfigured() bool
}
