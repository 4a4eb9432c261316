package monocle

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"monocle/irc"
)

// App is the line-oriented shell around the IRC engine: it renders display
// events on a raw-mode terminal and turns typed lines into engine commands.
// All protocol and state logic lives in the irc package.
type App struct {
	cfg    Config
	logger *slog.Logger

	client *irc.Client
	out    io.Writer
}

func NewApp(cfg Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{
		cfg:    cfg,
		logger: logger,
		out:    io.Discard,
	}
	app.client = irc.NewClient(irc.Options{
		Username:    cfg.Username,
		RealName:    cfg.RealName,
		HistorySize: cfg.History,
		MaxLineLen:  cfg.MaxLine,
		Logger:      logger,
		Sink:        app.onEvent,
	})
	return app
}

// Run connects to the configured server and processes terminal input until
// /quit or EOF.
func (app *App) Run() error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("terminal setup: %w", err)
	}
	defer term.Restore(fd, oldState)

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	app.out = term.NewTerminal(screen, "> ")

	app.printf("Connecting to %s:%d as %s...", app.cfg.Server, app.cfg.Port, app.cfg.Nick)
	if err := app.client.Connect(app.cfg.Server, app.cfg.Port, app.cfg.Nick); err != nil {
		return err
	}

	terminal := app.out.(*term.Terminal)
	for {
		line, err := terminal.ReadLine()
		if err != nil {
			break
		}
		if line == "" {
			continue
		}
		if app.handleInput(line) {
			break
		}
	}

	if app.client.State() != irc.Disconnected {
		_ = app.client.Quit("")
	}
	return nil
}

// onEvent is the engine's event sink.  term.Terminal serializes concurrent
// writes, so printing from the receive loop is safe.
func (app *App) onEvent(ev irc.DisplayEvent) {
	app.printf("%s", formatEvent(ev))
}

func (app *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(app.out, format+"\n", args...)
}

func formatEvent(ev irc.DisplayEvent) string {
	ts := ev.Time.Format("15:04:05")
	switch ev.Kind {
	case irc.EventMessage:
		return fmt.Sprintf("[%s] %s: %s", ts, ev.Source, ev.Text)
	case irc.EventError:
		return fmt.Sprintf("[%s] error: %s", ts, ev.Text)
	default:
		return fmt.Sprintf("[%s] %s", ts, ev.Text)
	}
}
