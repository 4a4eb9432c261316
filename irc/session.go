package irc

import "sort"

// DefaultHistorySize is how many display events the session retains.
const DefaultHistorySize = 100

// Member is a nick present in the current channel.
type Member struct {
	Nick  string
	Op    bool
	Voice bool
}

// Channel is the single channel the session views at a time.
type Channel struct {
	Name    string
	Members map[string]*Member
	Topic   string
}

// Session holds the state of one server connection: our nickname, the
// current channel with its membership, and a bounded history of display
// events.  It is not safe for concurrent use; the owning Client serializes
// access.
type Session struct {
	server    string
	port      int
	nick      string
	connected bool
	channel   *Channel

	history []DisplayEvent
	histCap int
}

func newSession(server string, port int, nick string, histCap int) *Session {
	if histCap <= 0 {
		histCap = DefaultHistorySize
	}
	return &Session{
		server:  server,
		port:    port,
		nick:    nick,
		histCap: histCap,
	}
}

func (s *Session) setNick(nick string) {
	s.nick = nick
}

// joinChannel makes name the current channel, replacing any previous one.
// The session views a single channel at a time.
func (s *Session) joinChannel(name string) {
	s.channel = &Channel{
		Name:    name,
		Members: map[string]*Member{},
	}
}

func (s *Session) partChannel() {
	s.channel = nil
}

func (s *Session) addMember(nick string) {
	if s.channel == nil || nick == "" {
		return
	}
	if _, ok := s.channel.Members[nick]; ok {
		return
	}
	s.channel.Members[nick] = &Member{Nick: nick}
}

// removeMember is a no-op when the nick is absent; servers may send
// redundant PART or QUIT notices.
func (s *Session) removeMember(nick string) {
	if s.channel == nil {
		return
	}
	delete(s.channel.Members, nick)
}

func (s *Session) hasMember(nick string) bool {
	if s.channel == nil {
		return false
	}
	_, ok := s.channel.Members[nick]
	return ok
}

func (s *Session) setMemberFlags(nick string, op, voice bool) {
	if s.channel == nil {
		return
	}
	if m, ok := s.channel.Members[nick]; ok {
		m.Op = op
		m.Voice = voice
	}
}

func (s *Session) renameMember(former, current string) {
	if s.channel == nil {
		return
	}
	m, ok := s.channel.Members[former]
	if !ok {
		return
	}
	delete(s.channel.Members, former)
	m.Nick = current
	s.channel.Members[current] = m
}

func (s *Session) setTopic(topic string) {
	if s.channel == nil {
		return
	}
	s.channel.Topic = topic
}

// appendHistory keeps the histCap most recent events, evicting the oldest
// first.
func (s *Session) appendHistory(ev DisplayEvent) {
	s.history = append(s.history, ev)
	if len(s.history) > s.histCap {
		s.history = append(s.history[:0:0], s.history[len(s.history)-s.histCap:]...)
	}
}

// members returns a copy of the membership set, sorted by nick.
func (s *Session) members() []Member {
	if s.channel == nil {
		return nil
	}
	ms := make([]Member, 0, len(s.channel.Members))
	for _, m := range s.channel.Members {
		ms = append(ms, *m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].Nick < ms[j].Nick })
	return ms
}

func (s *Session) historyCopy() []DisplayEvent {
	out := make([]DisplayEvent, len(s.history))
	copy(out, s.history)
	return out
}
