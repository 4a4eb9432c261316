package irc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when a command is issued while the
	// client has no live connection.  No I/O is attempted.
	ErrNotConnected = errors.New("not connected")

	// ErrNoChannel is returned by channel-scoped commands when no channel
	// has been joined.
	ErrNoChannel = errors.New("not in a channel")
)

// ProtocolError reports a malformed or oversized line.  The offending line
// is dropped; the connection survives.
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Line == "" {
		return "protocol error: " + e.Reason
	}
	return fmt.Sprintf("protocol error: %s: %q", e.Reason, e.Line)
}

// RegistrationError reports that the server rejected our nickname during
// registration.  It is recoverable: the caller may pick another nick and
// connect again.
type RegistrationError struct {
	Nick string
	Code string
	Text string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration rejected (%s) for %q: %s", e.Code, e.Nick, e.Text)
}

// ConnectionError wraps a socket failure.  It is fatal to the current
// session; the client transitions to Disconnected.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return "connection " + e.Op + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
