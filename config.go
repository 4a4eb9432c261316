package monocle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Connection defaults when neither config file nor flags set them.
const (
	DefaultServer = "irc.libera.chat"
	DefaultPort   = 6667
	DefaultNick   = "IRCPyUser"
)

// Config is the client configuration, read from a YAML file.
type Config struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Nick     string `yaml:"nick"`
	Username string `yaml:"username"`
	RealName string `yaml:"realname"`

	History int `yaml:"history"`  // display events kept in memory
	MaxLine int `yaml:"max_line"` // longest unterminated line tolerated

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// DefaultConfig returns a configuration pointing at the public defaults.
func DefaultConfig() Config {
	return Config{
		Server: DefaultServer,
		Port:   DefaultPort,
		Nick:   DefaultNick,
	}
}

// ParseConfig unmarshals a YAML document and fills in defaults.
func ParseConfig(buf []byte) (cfg Config, err error) {
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return
	}

	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Nick == "" {
		cfg.Nick = DefaultNick
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		err = fmt.Errorf("config: port %d out of range", cfg.Port)
	}

	return
}

// LoadConfigFile reads and parses the file at filename.
func LoadConfigFile(filename string) (cfg Config, err error) {
	var buf []byte

	buf, err = os.ReadFile(filename)
	if err != nil {
		return
	}

	cfg, err = ParseConfig(buf)

	return
}
