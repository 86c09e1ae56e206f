// Package logger provides logging functionalities for the collector.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the logger.
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	JSONFormat bool   `mapstructure:"json_format"`
}

// Setup configures the global logger: console output on stderr, plus an
// optional log file in either console or JSON format.
func Setup(cfg Config) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Msgf("Unknown log level '%s', defaulting to 'info'", cfg.Level)
		lvl = zerolog.InfoLevel
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339},
	}
	if cfg.File != "" {
		writers = append(writers, fileWriter(cfg))
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(lvl)
}

func fileWriter(cfg Config) io.Writer {
	logFile, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open log file")
	}
	if cfg.JSONFormat {
		return logFile
	}
	return zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true}
}
