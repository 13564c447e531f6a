package feedback

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	MaxActions = 20
	MaxErrors  = 10

	// Identical console errors closer together than this are recorded once.
	DedupeWindowMs = 1000

	maxWarningLen = 500
)

var origin = regexp.MustCompile(`^https?://[^/]+`)

// Tracker keeps the most recent actions and errors in bounded buffers.
// It is safe for concurrent use.
type Tracker struct {
	mu            sync.Mutex
	actions       []UserAction
	consoleErrors []ConsoleError
	apiErrors     []APIError
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) AddAction(a UserAction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions = appendBounded(t.actions, a, MaxActions)
}

func (t *Tracker) AddConsoleError(e ConsoleError) {
	if e.Type == "" {
		e.Type = "error"
	}
	if e.Type == "warn" {
		e.Message = truncate(e.Message, maxWarningLen)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.consoleErrors); n > 0 {
		last := t.consoleErrors[n-1]
		if last.Message == e.Message && e.Timestamp-last.Timestamp < DedupeWindowMs {
			return
		}
	}
	t.consoleErrors = appendBounded(t.consoleErrors, e, MaxErrors)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// AddAPIError records a failed request with the scheme and host removed from
// the endpoint.
func (t *Tracker) AddAPIError(e APIError) {
	e.Endpoint = origin.ReplaceAllString(e.Endpoint, "")
	e.Method = strings.ToUpper(e.Method)
	if e.Method == "" {
		e.Method = "GET"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiErrors = appendBounded(t.apiErrors, e, MaxErrors)
}

// Snapshot copies the buffers. The returned slices are never nil.
func (t *Tracker) Snapshot(browser BrowserInfo) Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Context{
		UserActions:   append([]UserAction{}, t.actions...),
		ConsoleErrors: append([]ConsoleError{}, t.consoleErrors...),
		APIErrors:     append([]APIError{}, t.apiErrors...),
		BrowserInfo:   browser,
	}
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions = nil
	t.consoleErrors = nil
	t.apiErrors = nil
}

// Replay feeds a client-reported context through a fresh tracker, applying
// the same bounds and dedupe as live capture.
func Replay(c Context) Context {
	t := NewTracker()
	for _, a := range c.UserActions {
		t.AddAction(a)
	}
	for _, e := range c.ConsoleErrors {
		t.AddConsoleError(e)
	}
	for _, e := range c.APIErrors {
		t.AddAPIError(e)
	}
	return t.Snapshot(c.BrowserInfo)
}

func appendBounded[T any](buf []T, v T, limit int) []T {
	buf = append(buf, v)
	if len(buf) > limit {
		buf = buf[len(buf)-limit:]
	}
	return buf
}
