// Package logging configures the process-wide zerolog logger once at
// startup.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"orbit-relay/internal/config"
)

var (
	output     io.Writer = os.Stdout
	fileWriter *sizeLimitedWriter
)

// Init applies the log configuration to the global logger. Call once at
// process start, before any goroutine logs.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
			level = parsed
		}
	}

	output = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	if cfg.File != "" {
		if fw, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB); err == nil {
			fileWriter = fw
			output = io.MultiWriter(output, fw)
		}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer exposes the configured sink for non-zerolog consumers (the HTTP
// request logger).
func Writer() io.Writer { return output }

// Shutdown closes the log file, if one is configured.
func Shutdown() {
	if fileWriter != nil {
		_ = fileWriter.Close()
	}
}
