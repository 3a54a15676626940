// pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = build(consoleWriter(os.Stdout), zerolog.InfoLevel)
	log.Logger = Log
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func build(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel sets the log level. An empty level means info.
func SetLevel(levelStr string) {
	level := zerolog.InfoLevel
	if name := strings.ToLower(strings.TrimSpace(levelStr)); name != "" {
		parsed, err := zerolog.ParseLevel(name)
		if err != nil {
			Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		} else {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

// SetFormat switches the output between "console" (colored, human readable)
// and "json" (one event per line). Unknown formats keep the console writer.
func SetFormat(format string) {
	SetOutput(os.Stdout, format)
}

// SetOutput rebuilds the global logger writing to w in the given format.
func SetOutput(w io.Writer, format string) {
	level := Log.GetLevel()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		Log = build(w, level)
	case "", "console", "text":
		Log = build(consoleWriter(w), level)
	default:
		Log = build(consoleWriter(w), level)
		Log.Warn().Str("format", format).Msg("unknown log format, using console")
	}
	log.Logger = Log
}
