// Package logger owns the process-wide zerolog logger shared by the web
// portal and the CLI.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Output formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Logger is the application logger instance. It discards everything until
// Init runs, so packages can log from tests without setup.
var Logger = zerolog.Nop()

// Init points the logger at stdout
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

// InitWithWriter points the logger at w. The CLI passes stderr so log lines
// never interleave with command output.
func InitWithWriter(w io.Writer, level, format string) {
	Logger = New(w, level, format)
	log.Logger = Logger
}

// New builds a logger without touching the globals
func New(w io.Writer, level, format string) zerolog.Logger {
	var zl zerolog.Logger

	if strings.EqualFold(format, FormatJSON) {
		zl = zerolog.New(w).With().
			Timestamp().
			Str("service", "portald").
			Caller().
			Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    !isTerminal(w),
		}).With().
			Timestamp().
			Logger()
	}

	return zl.Level(parseLogLevel(level))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseLogLevel accepts zerolog's level names plus "warning" and "off".
// Anything unrecognised means info.
func parseLogLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))

	switch level {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
