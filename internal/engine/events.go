package engine

import "github.com/dshills/inkwell/internal/event"

// Topics published on Events. Source is the instance id, except for
// TopicConfigured, whose payload is the new Limits.
const (
	TopicCaptured   event.Topic = "history.captured"
	TopicUndone     event.Topic = "history.undone"
	TopicRedone     event.Topic = "history.redone"
	TopicCleared    event.Topic = "history.cleared"
	TopicAttached   event.Topic = "history.attached"
	TopicDetached   event.Topic = "history.detached"
	TopicConfigured event.Topic = "history.configured"
)

// Change is the payload of instance events. Label is set for captures made
// through RecordState or Edit.
type Change struct {
	Label string
	Info  DebugInfo
}
