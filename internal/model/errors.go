package model

import (
	"fmt"
	"net/http"
)

// Stage names the pipeline step a failure happened in
type Stage string

const (
	StageValidate    Stage = "validate"
	StageEligibility Stage = "eligibility"
	StageFonts       Stage = "fonts"
	StageStrategy    Stage = "strategy"
	StageImage       Stage = "image"
	StageStorage     Stage = "storage"
	StagePersist     Stage = "persist"
)

// ErrorKind classifies a generation failure
type ErrorKind string

const (
	KindUnauthorized           ErrorKind = "Unauthorized"
	KindInvalidInput           ErrorKind = "InvalidInput"
	KindNotEligible            ErrorKind = "NotEligible"
	KindEligibilityCheckFailed ErrorKind = "EligibilityCheckFailed"
	KindStrategyUnavailable    ErrorKind = "StrategyUnavailable"
	KindStrategyInvalidJSON    ErrorKind = "StrategyInvalidJSON"
	KindStrategyMissingField   ErrorKind = "StrategyMissingField"
	KindStrategyFontNotAllowed ErrorKind = "StrategyFontNotAllowed"
	KindImageRenderFailed      ErrorKind = "ImageRenderFailed"
	KindStorageUploadFailed    ErrorKind = "StorageUploadFailed"
	KindPersistenceFailed      ErrorKind = "PersistenceFailed"
)

// GenerationError is the only error type returned by the generation
// pipeline. Err carries the internal cause and is never sent to clients.
type GenerationError struct {
	Stage Stage
	Kind  ErrorKind
	Field string
	Err   error
}

// NewGenerationError creates a GenerationError for the given stage and kind
func NewGenerationError(stage Stage, kind ErrorKind, err error) *GenerationError {
	return &GenerationError{Stage: stage, Kind: kind, Err: err}
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the failure kind to the response status code
func (e *GenerationError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotEligible:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing error string
func (e *GenerationError) Message() string {
	switch e.Kind {
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidInput:
		if e.Stage == StageFonts {
			return "No fonts found for vibe"
		}
		return "Missing required fields: prompt and vibe"
	case KindNotEligible:
		return "Generation limit reached. Upgrade to Pro."
	case KindEligibilityCheckFailed:
		return "Failed to check generation eligibility"
	case KindStrategyUnavailable:
		return "Failed to generate brand strategy"
	case KindStrategyInvalidJSON:
		return "AI returned invalid JSON response"
	case KindStrategyMissingField:
		if e.Field != "" {
			return "AI response missing required field: " + e.Field
		}
		return "AI response missing required field"
	case KindStrategyFontNotAllowed:
		return "AI selected a font outside the allowed list"
	case KindImageRenderFailed:
		return "Failed to generate logo image"
	case KindStorageUploadFailed:
		return "Failed to upload logo"
	case KindPersistenceFailed:
		return "Failed to save brand identity"
	}
	return "Failed to generate brand identity"
}

// Details returns a short, non-sensitive hint about the failure
func (e *GenerationError) Details() string {
	if e.Field != "" {
		return e.Field
	}
	return string(e.Stage)
}
