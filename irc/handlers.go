package irc

import (
	"fmt"
	"time"
)

// dispatch maps one server message onto session mutations, outbound replies
// and display events.  Unknown commands and numerics degrade to a visible
// system line; they never fail the connection.  Callers must hold c.mu.
func (c *Client) dispatch(msg Message) (events []DisplayEvent, err error) {
	s := c.session
	now := time.Now()
	nick := ParsePrefix(msg.Prefix).Name

	event := func(kind EventKind, source, text string) {
		events = append(events, DisplayEvent{Time: now, Kind: kind, Source: source, Text: text})
	}

	switch msg.Command {
	case "PING":
		token := msg.Arg(0)
		err = c.send("PONG :%s\r\n", token)

	case rplWelcome:
		s.connected = true
		if len(msg.Params) > 0 {
			// the server may have adjusted our nick during registration
			s.setNick(msg.Params[0])
		}
		c.state = Connected
		event(EventSystem, "", fmt.Sprintf("connected to %s as %s", s.server, s.nick))
		if c.regDone != nil {
			c.regDone <- nil
			c.regDone = nil
		}

	case errNonicknamegiven, errErroneusnickname, errNicknameinuse:
		// never change the nick ourselves; the caller decides the retry
		event(EventError, "", replyText(msg))
		if c.regDone != nil {
			c.regDone <- &RegistrationError{Nick: s.nick, Code: msg.Command, Text: replyText(msg)}
			c.regDone = nil
			c.state = Disconnected
			c.closing = true
			if c.conn != nil {
				_ = c.conn.Close()
			}
		}

	case "JOIN":
		channel := msg.Arg(0)
		if nick == s.nick {
			s.joinChannel(channel)
			event(EventJoin, nick, "joined "+channel)
		} else if s.channel != nil && channel == s.channel.Name {
			s.addMember(nick)
			event(EventJoin, nick, nick+" has joined "+channel)
		}

	case "PART":
		channel := msg.Arg(0)
		if nick == s.nick {
			if s.channel != nil && channel == s.channel.Name {
				s.partChannel()
			}
			event(EventPart, nick, "left "+channel)
		} else if s.hasMember(nick) {
			s.removeMember(nick)
			event(EventPart, nick, nick+" has left "+channel)
		}

	case "QUIT":
		if nick == s.nick || s.hasMember(nick) {
			s.removeMember(nick)
			reason := msg.Arg(0)
			if reason == "" {
				reason = "no message"
			}
			event(EventPart, nick, nick+" has quit: "+reason)
		}

	case "KICK":
		channel, target := msg.Arg(0), msg.Arg(1)
		if target == s.nick {
			if s.channel != nil && channel == s.channel.Name {
				s.partChannel()
			}
			event(EventPart, target, "kicked from "+channel+" by "+nick)
		} else if s.hasMember(target) {
			s.removeMember(target)
			event(EventPart, target, target+" was kicked from "+channel+" by "+nick)
		}

	case "NICK":
		current := msg.Arg(0)
		if current == "" {
			break
		}
		s.renameMember(nick, current)
		if nick == s.nick {
			s.setNick(current)
			event(EventNickChange, current, "you are now known as "+current)
		} else {
			event(EventNickChange, current, nick+" is now known as "+current)
		}

	case rplNamreply:
		// <me> <=/*/@> <channel> :names
		if len(msg.Params) < 3 || s.channel == nil || msg.Params[2] != s.channel.Name {
			break
		}
		for _, name := range ParseNames(msg.Trailing) {
			s.addMember(name.Nick)
			s.setMemberFlags(name.Nick, name.Op, name.Voice)
		}

	case rplEndofnames:
		if s.channel != nil {
			event(EventSystem, "", fmt.Sprintf("%d users in %s", len(s.channel.Members), s.channel.Name))
		}

	case rplNotopic:
		s.setTopic("")

	case rplTopic:
		if len(msg.Params) >= 2 && s.channel != nil && msg.Params[1] == s.channel.Name {
			s.setTopic(msg.Trailing)
			event(EventSystem, "", "topic for "+s.channel.Name+": "+msg.Trailing)
		}

	case "TOPIC":
		if s.channel != nil && msg.Arg(0) == s.channel.Name {
			s.setTopic(msg.Trailing)
			event(EventSystem, nick, nick+" set the topic to: "+msg.Trailing)
		}

	case "PRIVMSG", "NOTICE":
		event(EventMessage, nick, msg.Arg(1))

	case "ERROR":
		// the server is closing the link
		event(EventError, "", "server error: "+replyText(msg))
		if c.conn != nil {
			_ = c.conn.Close()
		}

	default:
		if isErrorReply(msg.Command) {
			event(EventError, "", replyText(msg))
		} else {
			event(EventSystem, nick, replyLine(msg))
		}
	}

	return events, err
}

// replyText extracts the human-readable part of a reply.
func replyText(msg Message) string {
	if msg.Trailing != "" {
		return msg.Trailing
	}
	if len(msg.Params) > 0 {
		return msg.Params[len(msg.Params)-1]
	}
	return msg.Command
}

// replyLine renders an unrecognized message for display.
func replyLine(msg Message) string {
	if isNumeric(msg.Command) && msg.Trailing != "" {
		return msg.Trailing
	}
	return msg.String()
}
