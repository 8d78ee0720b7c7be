package shareresolver

import (
	"strings"

	"github.com/google/uuid"
)

// Action identifies the kind of request carried by an Event
type Action string

const (
	ActionView Action = "android.intent.action.VIEW"
	ActionSend Action = "android.intent.action.SEND"
)

// ParseAction maps full intent action names and the short forms "view" and
// "send" to an Action. Unknown values are returned as-is so Handle ignores them.
func ParseAction(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "view", strings.ToLower(string(ActionView)):
		return ActionView
	case "send", strings.ToLower(string(ActionSend)):
		return ActionSend
	default:
		return Action(s)
	}
}

// Recognized reports whether the action is one Handle acts on
func (a Action) Recognized() bool {
	return a == ActionView || a == ActionSend
}

// Event is one OS-delivered open/share request
type Event struct {
	Action Action
	Data   string // direct data URI
	Stream string // stream-extra URI
}

// URI returns the URI to resolve, preferring the direct data URI
func (e Event) URI() string {
	if e.Data != "" {
		return e.Data
	}
	return e.Stream
}

// URI schemes with dedicated handling
const (
	SchemeFile    = "file"
	SchemeContent = "content"
)

// Method names spoken on the intent channel
const (
	MethodOnNewIntent          = "onNewIntent"
	MethodGetInitialPath       = "getInitialPath"
	MethodGetInitialIntent     = "getInitialIntent"
	MethodConsumePendingPath   = "consumePendingPath"
	MethodConsumeInitialIntent = "consumeInitialIntent"
)

// DefaultChannelName is the channel the host application listens on
const DefaultChannelName = "com.example.leafreader/intent"

// FallbackDisplayName names copied files whose provider reports no display name
const FallbackDisplayName = "shared_file"

// OutcomeStatus describes how an Event was handled
type OutcomeStatus string

const (
	OutcomeIgnored  OutcomeStatus = "ignored"
	OutcomeResolved OutcomeStatus = "resolved"
	OutcomeFailed   OutcomeStatus = "failed"
)

// Outcome is the explicit result of handling one Event
type Outcome struct {
	EventID   uuid.UUID
	Status    OutcomeStatus
	URI       string
	Path      string
	Delivered bool
	Err       error
}

// MethodCall is one invocation arriving on a method channel
type MethodCall struct {
	Method    string
	Arguments interface{}
}
