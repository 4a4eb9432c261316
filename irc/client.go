package irc

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// State is the connection lifecycle state of a Client.
type State int

const (
	Disconnected State = iota
	Connecting
	Registering
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Registering:
		return "registering"
	case Connected:
		return "connected"
	}
	return "unknown"
}

// Options configure a Client.  The zero value is usable.
type Options struct {
	Username string // USER name; defaults to the nick
	RealName string // real name; defaults to the nick

	HistorySize int // display events retained, DefaultHistorySize when 0
	MaxLineLen  int // framer line bound, DefaultMaxLine when 0

	Logger *slog.Logger // defaults to slog.Default()
	Sink   EventSink    // receives display events; may be nil

	// Dial overrides the dialer.  Tests inject pipes here.
	Dial func(network, addr string) (net.Conn, error)
}

// Client owns a single server connection: it runs the receive loop, keeps
// the session state and exposes the outbound command API.  One mutex guards
// session mutation and socket writes, so dispatcher updates and caller
// commands never interleave.
type Client struct {
	mu      sync.Mutex
	conn    io.ReadWriteCloser
	state   State
	session *Session
	closing bool
	regDone chan error

	opts   Options
	logger *slog.Logger
	sink   EventSink
}

func NewClient(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sink == nil {
		opts.Sink = func(DisplayEvent) {}
	}
	if opts.Dial == nil {
		opts.Dial = net.Dial
	}
	return &Client{
		opts:   opts,
		logger: opts.Logger,
		sink:   opts.Sink,
	}
}

// Connect dials the server and blocks through registration: it returns nil
// once the server accepts us (numeric 001), a RegistrationError when the
// nickname is rejected, or a ConnectionError on socket failure.  On success
// the receive loop keeps running until the connection drops or Disconnect
// is called.  A disconnected Client may connect again.
func (c *Client) Connect(server string, port int, nick string) error {
	if server == "" || nick == "" {
		return fmt.Errorf("irc: server and nickname are required")
	}

	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return fmt.Errorf("irc: already %s", c.state)
	}
	c.state = Connecting
	c.closing = false
	c.mu.Unlock()

	addr := net.JoinHostPort(server, strconv.Itoa(port))
	c.logger.Info("connecting", "addr", addr, "nick", nick)

	conn, err := c.opts.Dial("tcp", addr)
	if err != nil {
		c.mu.Lock()
		c.state = Disconnected
		c.mu.Unlock()
		return &ConnectionError{Op: "dial", Err: err}
	}

	username := c.opts.Username
	if username == "" {
		username = nick
	}
	realname := c.opts.RealName
	if realname == "" {
		realname = nick
	}

	regDone := make(chan error, 1)

	c.mu.Lock()
	c.conn = conn
	c.session = newSession(server, port, nick, c.opts.HistorySize)
	c.state = Registering
	c.regDone = regDone
	err = c.send("NICK %s\r\nUSER %s 0 * :%s\r\n", nick, username, realname)
	if err != nil {
		c.conn = nil
		c.state = Disconnected
		c.regDone = nil
		c.mu.Unlock()
		_ = conn.Close()
		return err
	}
	c.mu.Unlock()

	go c.recvLoop(conn, NewFramer(c.opts.MaxLineLen))

	return <-regDone
}

// Disconnect shuts the connection down without a QUIT message.  It unblocks
// an in-flight read promptly.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if c.state == Disconnected || c.conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.closing = true
	conn := c.conn
	c.mu.Unlock()
	return conn.Close()
}

// Quit sends QUIT with the given reason and closes the connection.
func (c *Client) Quit(reason string) error {
	c.mu.Lock()
	if c.state != Connected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	if reason == "" {
		reason = "Goodbye!"
	}
	err := c.send("QUIT :%s\r\n", reason)
	c.closing = true
	conn := c.conn
	c.mu.Unlock()

	cerr := conn.Close()
	if err != nil {
		return err
	}
	return cerr
}

// SendRaw writes one verbatim line to the server.
func (c *Client) SendRaw(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Disconnected || c.conn == nil {
		return ErrNotConnected
	}
	return c.send("%s\r\n", line)
}

// Join asks the server for a channel.  The session switches to it once the
// server echoes our JOIN back.  A missing channel sigil is supplied.
func (c *Client) Join(channel string) error {
	if channel == "" {
		return fmt.Errorf("irc: empty channel name")
	}
	if !strings.HasPrefix(channel, "#") && !strings.HasPrefix(channel, "&") {
		channel = "#" + channel
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return ErrNotConnected
	}
	return c.send("JOIN %s\r\n", channel)
}

// Part leaves the current channel.
func (c *Client) Part() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return ErrNotConnected
	}
	if c.session.channel == nil {
		return ErrNoChannel
	}
	return c.send("PART %s\r\n", c.session.channel.Name)
}

// ChangeNick requests a new nickname.  The session nick changes only when
// the server echoes the NICK back.
func (c *Client) ChangeNick(nick string) error {
	if nick == "" {
		return fmt.Errorf("irc: empty nickname")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return ErrNotConnected
	}
	return c.send("NICK %s\r\n", nick)
}

// PrivMsg sends text to a channel or nick and records it in the history.
func (c *Client) PrivMsg(target, text string) error {
	if target == "" || text == "" {
		return fmt.Errorf("irc: target and text are required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return ErrNotConnected
	}
	if err := c.send("PRIVMSG %s :%s\r\n", target, text); err != nil {
		return err
	}
	c.session.appendHistory(DisplayEvent{
		Time:   time.Now(),
		Kind:   EventMessage,
		Source: c.session.nick,
		Text:   text,
	})
	return nil
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether registration has completed.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.connected
}

// Nick returns our nickname as negotiated with the server.
func (c *Client) Nick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.nick
}

// ChannelName returns the current channel name, or "" when none is joined.
func (c *Client) ChannelName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.channel == nil {
		return ""
	}
	return c.session.channel.Name
}

// Topic returns the current channel topic.
func (c *Client) Topic() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.channel == nil {
		return ""
	}
	return c.session.channel.Topic
}

// Members returns a snapshot of the current channel membership, sorted by
// nick.
func (c *Client) Members() []Member {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.members()
}

// History returns a snapshot of the bounded display event history, oldest
// first.
func (c *Client) History() []DisplayEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.historyCopy()
}

// send formats one or more CRLF-terminated lines and writes them in a
// single Write.  Callers must hold c.mu.
func (c *Client) send(format string, args ...interface{}) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	line := fmt.Sprintf(format, args...)
	if _, err := c.conn.Write([]byte(line)); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	c.logger.Debug("sent", "line", strings.TrimRight(line, "\r\n"))
	return nil
}

// recvLoop reads the socket until it fails, feeding framer, parser and
// dispatcher.  Malformed and oversized lines are dropped and reported as
// error events; only socket failure ends the loop.
func (c *Client) recvLoop(conn io.ReadWriteCloser, framer *Framer) {
	buf := make([]byte, 4096)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			lines, ferr := framer.Push(buf[:n])
			if ferr != nil {
				c.logger.Warn("dropping line", "err", ferr)
				c.post(DisplayEvent{Time: time.Now(), Kind: EventError, Text: ferr.Error()})
			}
			for _, line := range lines {
				c.logger.Debug("received", "line", line)
				msg, perr := ParseMessage(line)
				if perr != nil {
					c.logger.Warn("dropping line", "err", perr)
					c.post(DisplayEvent{Time: time.Now(), Kind: EventError, Text: perr.Error()})
					continue
				}
				c.handle(msg)
			}
		}
		if err != nil {
			c.teardown(err)
			return
		}
	}
}

// handle dispatches one message under the client mutex, then delivers the
// resulting events to the sink outside of it.
func (c *Client) handle(msg Message) {
	c.mu.Lock()
	if c.state == Disconnected || c.session == nil {
		c.mu.Unlock()
		return
	}
	events, err := c.dispatch(msg)
	for _, ev := range events {
		c.session.appendHistory(ev)
	}
	c.mu.Unlock()

	for _, ev := range events {
		c.sink(ev)
	}
	if err != nil {
		c.logger.Error("dispatch failed", "command", msg.Command, "err", err)
	}
}

// post records and delivers a synthetic event.
func (c *Client) post(ev DisplayEvent) {
	c.mu.Lock()
	if c.session != nil {
		c.session.appendHistory(ev)
	}
	c.mu.Unlock()
	c.sink(ev)
}

// teardown finishes the transition to Disconnected after the receive loop
// stops, whatever the cause.
func (c *Client) teardown(readErr error) {
	c.mu.Lock()
	closing := c.closing
	regDone := c.regDone
	c.regDone = nil
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = Disconnected
	server := ""
	if c.session != nil {
		c.session.connected = false
		server = c.session.server
	}
	c.mu.Unlock()

	if !closing {
		c.logger.Warn("connection lost", "server", server, "err", readErr)
	} else {
		c.logger.Info("disconnected", "server", server)
	}

	if regDone != nil {
		// the connection dropped before registration completed
		regDone <- &ConnectionError{Op: "read", Err: readErr}
	}

	c.post(DisplayEvent{
		Time: time.Now(),
		Kind: EventSystem,
		Text: "disconnected from " + server,
	})
}
