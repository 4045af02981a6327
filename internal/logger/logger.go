// Package logger builds the zerolog logger used across the service.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	// Levels are set per logger.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// New returns a logger writing to w, configured for env. Local runs get a
// human-readable console writer at trace level; dev and prod write JSON.
func New(env string, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
		level = zerolog.InfoLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		w = consoleWriter
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger(), nil
}
