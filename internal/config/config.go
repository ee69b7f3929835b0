// Package config resolves process configuration from flags and
// environment variables. No example repo in the corpus imports a
// dedicated config library (viper, envconfig, etc.); every teacher
// candidate reads os.Getenv/flag directly, so this stays stdlib-only
// by the same pattern rather than reaching for an unrepresented
// dependency (see DESIGN.md).
package config

import (
	"flag"
	"os"
)

// Config is the resolved process configuration (spec §6 Environment).
type Config struct {
	ListenAddr string
	LogLevel   string
	LogFormat  string
	DevMode    bool
}

// Load parses flags (falling back to environment variables, falling
// back to defaults) into a Config. Flags take precedence when set
// explicitly on the command line.
func Load(args []string) Config {
	fs := flag.NewFlagSet("bomb-arena", flag.ContinueOnError)

	defaultAddr := ":2567"
	if v := os.Getenv("PORT"); v != "" {
		defaultAddr = ":" + v
	}
	defaultLevel := envOr("LOG_LEVEL", "info")
	defaultFormat := envOr("LOG_FORMAT", "text")

	addr := fs.String("listen", defaultAddr, "address to listen on, e.g. :2567")
	level := fs.String("log-level", defaultLevel, "logrus level: debug, info, warn, error")
	format := fs.String("log-format", defaultFormat, "log format: text or json")
	dev := fs.Bool("dev", os.Getenv("BOMB_ARENA_DEV") == "1", "enable the dev-only /colyseus debug monitor")

	_ = fs.Parse(args)

	return Config{ListenAddr: *addr, LogLevel: *level, LogFormat: *format, DevMode: *dev}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
