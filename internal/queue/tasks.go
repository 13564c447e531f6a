package queue

import "encoding/json"

const TypeFeedbackSubmit = "feedback:submit"

type FeedbackSubmitPayload struct {
	TenantID string          `json:"tenant_id,omitempty"`
	UserID   string          `json:"user_id,omitempty"`
	Message  string          `json:"message"`
	Context  json.RawMessage `json:"context"`
}
