// Package parsing turns estimate and material order text into structured
// values with a forced tool call.
package parsing

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/llm"
)

// Extractor is satisfied by *llm.Gateway.
type Extractor interface {
	Extract(ctx context.Context, req llm.ExtractRequest) (json.RawMessage, error)
	Configured() bool
}

func fail(msg string) error {
	return &apperr.Error{Kind: apperr.ErrInternal, Message: msg}
}

// upstreamStatus returns the status of a non-OK model response, or 0.
func upstreamStatus(err error) int {
	var ue *llm.UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}
