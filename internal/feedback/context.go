// Package feedback bounds and stores the debugging context that accompanies
// a user's feedback report.
package feedback

type ActionType string

const (
	ActionClick       ActionType = "click"
	ActionNavigate    ActionType = "navigate"
	ActionFormSubmit  ActionType = "form_submit"
	ActionInputChange ActionType = "input_change"
)

type ActionDetails struct {
	Element   string `json:"element,omitempty"`
	Path      string `json:"path,omitempty"`
	FormID    string `json:"formId,omitempty"`
	InputName string `json:"inputName,omitempty"`
}

type UserAction struct {
	Type      ActionType    `json:"type"`
	Timestamp int64         `json:"timestamp"`
	Details   ActionDetails `json:"details"`
}

type ConsoleError struct {
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
	Stack     string `json:"stack,omitempty"`
	Type      string `json:"type"`
}

type APIError struct {
	Timestamp int64  `json:"timestamp"`
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
	Status    int    `json:"status,omitempty"`
	Message   string `json:"message"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type BrowserInfo struct {
	UserAgent    string `json:"userAgent"`
	ScreenSize   Size   `json:"screenSize"`
	ViewportSize Size   `json:"viewportSize"`
	URL          string `json:"url"`
	Timestamp    int64  `json:"timestamp"`
}

// Context is the snapshot sent with a feedback report. Timestamps are Unix
// milliseconds.
type Context struct {
	UserActions   []UserAction   `json:"userActions"`
	ConsoleErrors []ConsoleError `json:"consoleErrors"`
	APIErrors     []APIError     `json:"apiErrors"`
	BrowserInfo   BrowserInfo    `json:"browserInfo"`
}
