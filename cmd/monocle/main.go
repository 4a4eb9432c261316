package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"monocle"
	"monocle/logger"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to the configuration file")
		server     = pflag.String("server", "", "server hostname (overrides config)")
		port       = pflag.Int("port", 0, "server port (overrides config)")
		nick       = pflag.StringP("nick", "n", "", "nickname (overrides config)")
	)
	pflag.Parse()

	cfg := monocle.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = monocle.LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *server != "" {
		cfg.Server = *server
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *nick != "" {
		cfg.Nick = *nick
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)

	app := monocle.NewApp(cfg, log)
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
