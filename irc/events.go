package irc

import "time"

// EventKind classifies a display event.
type EventKind int

const (
	EventMessage EventKind = iota
	EventJoin
	EventPart
	EventNickChange
	EventError
	EventSystem
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventJoin:
		return "join"
	case EventPart:
		return "part"
	case EventNickChange:
		return "nick"
	case EventError:
		return "error"
	case EventSystem:
		return "system"
	}
	return "unknown"
}

// DisplayEvent is one display-ready line produced by the session: chat
// messages, membership changes, errors and synthetic state notices.  Events
// are appended to the session history and handed to the sink in arrival
// order.
type DisplayEvent struct {
	Time   time.Time
	Kind   EventKind
	Source string // originating nick; empty for server and synthetic lines
	Text   string
}

// EventSink receives display events as they are produced.  It is invoked
// from the client's receive loop, after session state has been updated, so
// queries made from inside the sink see the post-event state.
type EventSink func(DisplayEvent)
