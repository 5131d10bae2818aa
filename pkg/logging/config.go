package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/pkg/constants"
)

// Config describes a logger.
type Config struct {
	// Level is trace, debug, info, warn (or warning), error, or off.
	// Anything else means info.
	Level string

	// Format is json, console, or auto. Auto picks console only when
	// writing to a terminal on stderr.
	Format string

	// Output is stderr (the default), stdout, discard, or a file path.
	Output string

	NoColor bool

	// Caller adds file:line. Debug and trace levels always add it.
	Caller bool
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and NO_COLOR. DEBUG
// set to anything selects debug when LOG_LEVEL is unset.
func FromEnv() Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" && os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	return Config{
		Level:   level,
		Format:  os.Getenv("LOG_FORMAT"),
		Output:  os.Getenv("LOG_OUTPUT"),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// Build creates the logger without touching global state.
func (c Config) Build() zerolog.Logger {
	level := ParseLevel(c.Level)
	ctx := zerolog.New(c.writer()).Level(level).With().Timestamp()
	if c.Caller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Configure builds the logger, installs it as the default and sets
// zerolog's global level so loggers created elsewhere with zerolog.New
// honor the same threshold.
func Configure(c Config) zerolog.Logger {
	logger := c.Build()
	zerolog.SetGlobalLevel(ParseLevel(c.Level))
	SetDefault(logger)
	return logger
}

// ConfigureFromEnv is Configure(FromEnv()).
func ConfigureFromEnv() zerolog.Logger {
	return Configure(FromEnv())
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (c Config) writer() io.Writer {
	var out io.Writer
	switch strings.ToLower(c.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		return io.Discard
	default:
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	console := false
	switch strings.ToLower(c.Format) {
	case "console", "pretty", "text":
		console = true
	case "", "auto":
		console = out == os.Stderr && stderrIsTerminal()
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: c.NoColor}
}
