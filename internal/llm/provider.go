// Package llm runs structured extractions against a language model by forcing
// a single tool call and returning its arguments.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("llm provider not configured")
	ErrNoToolCall    = errors.New("no tool call in response")
)

// Tool is a function the model is forced to call. Parameters is a JSON schema
// object.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

type ExtractRequest struct {
	Model  string
	System string
	User   string
	Tool   Tool
}

// Provider returns the raw JSON arguments of the forced tool call.
type Provider interface {
	Extract(ctx context.Context, req ExtractRequest) (json.RawMessage, error)
	Name() string
}

// UpstreamError is a non-OK answer from the model API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.StatusCode, e.Message)
}
