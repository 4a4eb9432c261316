package irc

import (
	"strings"
)

func word(s string) (w, rest string) {
	split := strings.SplitN(s, " ", 2)

	if len(split) < 2 {
		w = split[0]
		rest = ""
	} else {
		w = split[0]
		rest = split[1]
	}

	return
}

// Prefix is the source of a message, either a server name (Name only) or a
// user mask (nick!user@host).
type Prefix struct {
	Name string
	User string
	Host string
}

func ParsePrefix(s string) (p Prefix) {
	if s == "" {
		return
	}

	spl0 := strings.SplitN(s, "@", 2)
	if len(spl0) > 1 {
		p.Host = spl0[1]
	}

	spl1 := strings.SplitN(spl0[0], "!", 2)
	if len(spl1) > 1 {
		p.User = spl1[1]
	}

	p.Name = spl1[0]

	return
}

func (p Prefix) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	if p.User != "" {
		sb.WriteByte('!')
		sb.WriteString(p.User)
	}
	if p.Host != "" {
		sb.WriteByte('@')
		sb.WriteString(p.Host)
	}
	return sb.String()
}

// Message is one parsed IRC line.  Command is either an upper-cased command
// name or a three-digit numeric reply.  Trailing is the final ":"-introduced
// parameter; empty means absent.
type Message struct {
	Prefix   string
	Command  string
	Params   []string
	Trailing string
}

// ParseMessage parses a single terminator-stripped line.
func ParseMessage(line string) (msg Message, err error) {
	raw := line
	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = &ProtocolError{Line: raw, Reason: "empty message"}
		return
	}

	if line[0] == ':' {
		var prefix string

		prefix, line = word(line)
		msg.Prefix = prefix[1:]
		line = strings.TrimLeft(line, " ")
	}

	if line == "" {
		err = &ProtocolError{Line: raw, Reason: "missing command"}
		return
	}

	msg.Command, line = word(line)
	msg.Command = strings.ToUpper(msg.Command)
	if !validCommand(msg.Command) {
		err = &ProtocolError{Line: raw, Reason: "malformed command " + msg.Command}
		return
	}

	for line != "" {
		if line[0] == ':' {
			msg.Trailing = line[1:]
			break
		}

		var param string
		param, line = word(line)
		if param != "" {
			msg.Params = append(msg.Params, param)
		}
	}

	return
}

// validCommand reports whether cmd is an alphabetic command name or exactly
// three digits.
func validCommand(cmd string) bool {
	if cmd == "" {
		return false
	}
	if isNumeric(cmd) {
		return true
	}
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		if c < 'A' || 'Z' < c {
			return false
		}
	}
	return true
}

func isNumeric(cmd string) bool {
	if len(cmd) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if cmd[i] < '0' || '9' < cmd[i] {
			return false
		}
	}
	return true
}

// String formats the message in its wire form, without the terminator.
func (msg Message) String() string {
	var sb strings.Builder

	if msg.Prefix != "" {
		sb.WriteByte(':')
		sb.WriteString(msg.Prefix)
		sb.WriteByte(' ')
	}

	sb.WriteString(msg.Command)

	for _, param := range msg.Params {
		sb.WriteByte(' ')
		sb.WriteString(param)
	}

	if msg.Trailing != "" {
		sb.WriteString(" :")
		sb.WriteString(msg.Trailing)
	}

	return sb.String()
}

// Arg returns the i-th argument, counting the trailing parameter as the
// last one.  Servers vary on which form they use for single-argument
// commands such as JOIN.
func (msg Message) Arg(i int) string {
	if i < len(msg.Params) {
		return msg.Params[i]
	}
	if i == len(msg.Params) && msg.Trailing != "" {
		return msg.Trailing
	}
	return ""
}

// NameEntry is one nick from a 353 names reply, with its membership flags
// derived from the leading sigils.
type NameEntry struct {
	Nick  string
	Op    bool
	Voice bool
}

// nameSigils are the membership prefixes servers put in front of nicks in
// names replies.  ~, & and @ grant operator display, % and + voice.
const nameSigils = "~&@%+"

// ParseNames splits the trailing parameter of a 353 reply.
func ParseNames(trailing string) (names []NameEntry) {
	for _, name := range strings.Split(trailing, " ") {
		if name == "" {
			continue
		}

		var entry NameEntry

		mask := strings.TrimLeft(name, nameSigils)
		for _, sigil := range name[:len(name)-len(mask)] {
			switch sigil {
			case '~', '&', '@':
				entry.Op = true
			case '%', '+':
				entry.Voice = true
			}
		}

		// userhost-in-names servers send full masks here.
		entry.Nick = ParsePrefix(mask).Name
		if entry.Nick == "" {
			continue
		}

		names = append(names, entry)
	}

	return
}
