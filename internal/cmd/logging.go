package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/dendrascience/brushsetmaker/internal/settings"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the CLI logger. logging_level "none" silences it unless
// verbose is set; a log_file additionally receives every record through a
// rotating writer.
func newLogger(stderr io.Writer, s settings.Settings, verbose bool) (*log.Logger, io.Closer) {
	level := log.InfoLevel
	switch s.LoggingLevel {
	case "errors":
		level = log.ErrorLevel
	case "debug":
		level = log.DebugLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	if s.LoggingLevel == "none" && !verbose {
		return log.NewWithOptions(io.Discard, log.Options{Prefix: "brushsetmaker"}), nopCloser{}
	}

	out := stderr
	var closer io.Closer = nopCloser{}
	if s.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   s.LogFile,
			MaxSize:    s.LogMaxSize,
			MaxBackups: s.LogMaxBackups,
			MaxAge:     s.LogMaxAge,
			Compress:   true,
		}
		out = io.MultiWriter(stderr, file)
		closer = file
	}

	return log.NewWithOptions(out, log.Options{
		Prefix:          "brushsetmaker",
		Level:           level,
		ReportTimestamp: true,
	}), closer
}
