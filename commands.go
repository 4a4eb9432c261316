package monocle

import (
	"strconv"
	"strings"

	"monocle/irc"
)

// handleInput processes one typed line.  Lines starting with "/" are
// commands; everything else is sent to the current channel.  It reports
// whether the app should exit.
func (app *App) handleInput(line string) (quit bool) {
	if !strings.HasPrefix(line, "/") {
		target := app.client.ChannelName()
		if target == "" {
			app.printf("Not in a channel. Join one with /join #channel")
			return false
		}
		if err := app.client.PrivMsg(target, line); err != nil {
			app.printf("error: %v", err)
		}
		return false
	}

	cmd, args := splitCommand(line[1:])
	switch cmd {
	case "join":
		if len(args) == 0 {
			app.printf("usage: /join #channel")
			break
		}
		if err := app.client.Join(args[0]); err != nil {
			app.printf("error: %v", err)
		}

	case "part":
		if err := app.client.Part(); err != nil {
			app.printf("error: %v", err)
		}

	case "nick":
		if len(args) == 0 {
			app.printf("current nickname: %s", app.client.Nick())
			break
		}
		if err := app.client.ChangeNick(args[0]); err != nil {
			app.printf("error: %v", err)
		}

	case "msg":
		if len(args) < 2 {
			app.printf("usage: /msg <nick> <message>")
			break
		}
		if err := app.client.PrivMsg(args[0], strings.Join(args[1:], " ")); err != nil {
			app.printf("error: %v", err)
		}

	case "names":
		members := app.client.Members()
		if len(members) == 0 {
			app.printf("no known members")
			break
		}
		nicks := make([]string, 0, len(members))
		for _, m := range members {
			nicks = append(nicks, memberSigil(m)+m.Nick)
		}
		app.printf("%d users in %s: %s", len(members), app.client.ChannelName(), strings.Join(nicks, " "))

	case "history":
		count := 10
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
				count = n
			}
		}
		events := app.client.History()
		if len(events) > count {
			events = events[len(events)-count:]
		}
		if len(events) == 0 {
			app.printf("no history")
			break
		}
		for _, ev := range events {
			app.printf("%s", formatEvent(ev))
		}

	case "raw":
		if len(args) == 0 {
			app.printf("usage: /raw <line>")
			break
		}
		if err := app.client.SendRaw(strings.Join(args, " ")); err != nil {
			app.printf("error: %v", err)
		}

	case "quit":
		if err := app.client.Quit(strings.Join(args, " ")); err != nil {
			app.printf("error: %v", err)
		}
		return true

	case "help":
		app.printf("available commands:")
		app.printf("  /join #channel       join a channel (leaves the current one)")
		app.printf("  /part                leave the current channel")
		app.printf("  /nick [newnick]      show or change nickname")
		app.printf("  /msg <nick> <text>   send a private message")
		app.printf("  /names               list members of the current channel")
		app.printf("  /history [count]     show recent events")
		app.printf("  /raw <line>          send a raw IRC line")
		app.printf("  /quit [reason]       disconnect and exit")

	default:
		app.printf("unknown command: /%s", cmd)
	}

	return false
}

func splitCommand(s string) (cmd string, args []string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func memberSigil(m irc.Member) string {
	switch {
	case m.Op:
		return "@"
	case m.Voice:
		return "+"
	}
	return ""
}
