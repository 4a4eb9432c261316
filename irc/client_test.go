package irc

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeClient returns a client whose dialer hands out the client half of a
// net.Pipe, plus the server half and a channel of emitted events.
func pipeClient(t *testing.T) (*Client, net.Conn, chan DisplayEvent) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	events := make(chan DisplayEvent, 64)
	c := NewClient(Options{
		Sink: func(ev DisplayEvent) { events <- ev },
		Dial: func(network, addr string) (net.Conn, error) { return clientSide, nil },
	})
	t.Cleanup(func() { _ = serverSide.Close() })
	return c, serverSide, events
}

func waitKind(t *testing.T, events <-chan DisplayEvent, kind EventKind) DisplayEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a %v event", kind)
		}
	}
}

func serverWrite(t *testing.T, conn net.Conn, s string) {
	t.Helper()
	_, err := conn.Write([]byte(s))
	require.NoError(t, err)
}

func TestConnectRegistersAndJoins(t *testing.T) {
	c, server, events := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n') // NICK
		br.ReadString('\n') // USER
		server.Write([]byte(":irc.test 001 gopher :Welcome to the test network\r\n"))
	}()

	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))
	assert.Equal(t, Connected, c.State())
	assert.True(t, c.Connected())
	assert.Equal(t, "gopher", c.Nick())

	ev := waitKind(t, events, EventSystem)
	assert.Contains(t, ev.Text, "connected to irc.test")

	lineCh := make(chan string, 1)
	go func() {
		line, _ := br.ReadString('\n')
		lineCh <- line
	}()
	require.NoError(t, c.Join("#test"))
	assert.Equal(t, "JOIN #test\r\n", <-lineCh)
	assert.Empty(t, c.ChannelName(), "channel must not switch before the server acknowledges")

	serverWrite(t, server, ":gopher!u@h JOIN :#test\r\n")
	join := waitKind(t, events, EventJoin)
	assert.Equal(t, "gopher", join.Source)
	assert.Equal(t, "#test", c.ChannelName())

	serverWrite(t, server, ":irc.test 353 gopher = #test :@op +voiced plain gopher\r\n")
	serverWrite(t, server, ":irc.test 366 gopher #test :End of /NAMES list.\r\n")
	waitKind(t, events, EventSystem)

	members := c.Members()
	require.Len(t, members, 4)
	byNick := map[string]Member{}
	for _, m := range members {
		byNick[m.Nick] = m
	}
	assert.True(t, byNick["op"].Op)
	assert.False(t, byNick["op"].Voice)
	assert.True(t, byNick["voiced"].Voice)
	assert.False(t, byNick["plain"].Op)
	assert.False(t, byNick["plain"].Voice)

	require.NoError(t, c.Disconnect())
	waitKind(t, events, EventSystem)
	assert.Equal(t, Disconnected, c.State())
	assert.False(t, c.Connected())
}

func TestConnectNickInUse(t *testing.T) {
	c, server, _ := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n')
		br.ReadString('\n')
		server.Write([]byte(":irc.test 433 * gopher :Nickname is already in use.\r\n"))
	}()

	err := c.Connect("irc.test", 6667, "gopher")

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "433", regErr.Code)
	assert.Equal(t, "gopher", regErr.Nick)
	assert.Equal(t, "gopher", c.Nick(), "a rejected nick must not be altered")
	assert.Equal(t, Disconnected, c.State())
}

func TestConnectServerDropsDuringRegistration(t *testing.T) {
	c, server, _ := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n')
		br.ReadString('\n')
		server.Close()
	}()

	err := c.Connect("irc.test", 6667, "gopher")

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, Disconnected, c.State())
}

func TestConnectDialFailure(t *testing.T) {
	dialErr := errors.New("no route to host")
	c := NewClient(Options{
		Dial: func(network, addr string) (net.Conn, error) { return nil, dialErr },
	})

	err := c.Connect("irc.test", 6667, "gopher")

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, Disconnected, c.State())
}

func TestServerClosesConnection(t *testing.T) {
	c, server, events := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n')
		br.ReadString('\n')
		server.Write([]byte(":irc.test 001 gopher :Welcome\r\n"))
	}()
	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))
	waitKind(t, events, EventSystem)

	require.NoError(t, server.Close())

	ev := waitKind(t, events, EventSystem)
	assert.Contains(t, ev.Text, "disconnected")
	assert.Equal(t, Disconnected, c.State())
}

func TestCommandsWhileDisconnected(t *testing.T) {
	c := NewClient(Options{})

	assert.ErrorIs(t, c.PrivMsg("#test", "hi"), ErrNotConnected)
	assert.ErrorIs(t, c.Join("#test"), ErrNotConnected)
	assert.ErrorIs(t, c.Part(), ErrNotConnected)
	assert.ErrorIs(t, c.ChangeNick("other"), ErrNotConnected)
	assert.ErrorIs(t, c.SendRaw("PING :x"), ErrNotConnected)
	assert.ErrorIs(t, c.Quit("bye"), ErrNotConnected)
	assert.ErrorIs(t, c.Disconnect(), ErrNotConnected)
}

func TestQuitSendsReason(t *testing.T) {
	c, server, events := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n')
		br.ReadString('\n')
		server.Write([]byte(":irc.test 001 gopher :Welcome\r\n"))
	}()
	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))
	waitKind(t, events, EventSystem) // connected

	lineCh := make(chan string, 1)
	go func() {
		line, _ := br.ReadString('\n')
		lineCh <- line
	}()
	require.NoError(t, c.Quit("gone"))
	assert.Equal(t, "QUIT :gone\r\n", <-lineCh)

	ev := waitKind(t, events, EventSystem)
	assert.Contains(t, ev.Text, "disconnected")
	assert.Equal(t, Disconnected, c.State())
}

func TestPrivMsgRecordsOwnMessage(t *testing.T) {
	c, server, _ := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n')
		br.ReadString('\n')
		server.Write([]byte(":irc.test 001 gopher :Welcome\r\n"))
	}()
	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))

	go br.ReadString('\n')
	require.NoError(t, c.PrivMsg("#test", "hello there"))

	history := c.History()
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, EventMessage, last.Kind)
	assert.Equal(t, "gopher", last.Source)
	assert.Equal(t, "hello there", last.Text)
}

func TestReconnectAfterDisconnect(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	conns := make(chan net.Conn, 2)
	conns <- clientSide

	c := NewClient(Options{
		Dial: func(network, addr string) (net.Conn, error) { return <-conns, nil },
	})

	register := func(server net.Conn) {
		br := bufio.NewReader(server)
		br.ReadString('\n')
		br.ReadString('\n')
		server.Write([]byte(":irc.test 001 gopher :Welcome\r\n"))
	}

	go register(serverSide)
	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))
	require.NoError(t, c.Disconnect())

	// wait for the receive loop to finish tearing down
	require.Eventually(t, func() bool { return c.State() == Disconnected }, 2*time.Second, 10*time.Millisecond)

	clientSide2, serverSide2 := net.Pipe()
	conns <- clientSide2
	go register(serverSide2)
	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))
	assert.True(t, c.Connected())
	_ = serverSide2.Close()
}

func TestMalformedLineDoesNotKillSession(t *testing.T) {
	c, server, events := pipeClient(t)
	br := bufio.NewReader(server)

	go func() {
		br.ReadString('\n')
		br.ReadString('\n')
		server.Write([]byte(":irc.test 001 gopher :Welcome\r\n"))
	}()
	require.NoError(t, c.Connect("irc.test", 6667, "gopher"))
	waitKind(t, events, EventSystem)

	serverWrite(t, server, ":bad!prefix!only\r\n")
	waitKind(t, events, EventError)

	serverWrite(t, server, ":alice!u@h PRIVMSG gopher :still alive\r\n")
	ev := waitKind(t, events, EventMessage)
	assert.Equal(t, "still alive", ev.Text)
	assert.Equal(t, Connected, c.State())
}
