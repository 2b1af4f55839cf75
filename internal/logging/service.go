package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vistream-server-go/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("server_id", cfg.ServerID).Str("service", service).Logger()
}

func WithStream(base zerolog.Logger, streamKey string) zerolog.Logger {
	return base.With().Str("stream_key", streamKey).Logger()
}
