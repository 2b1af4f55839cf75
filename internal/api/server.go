package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vistream-server-go/internal/api/handlers"
	"vistream-server-go/internal/config"
	"vistream-server-go/internal/services"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	container *services.ServiceContainer

	healthHandler    *handlers.HealthHandler
	videoHandler     *handlers.VideoHandler
	streamHandler    *handlers.StreamHandler
	inferenceHandler *handlers.InferenceHandler
}

func NewServer(cfg *config.Config, sc *services.ServiceContainer) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	s := &Server{
		config:           cfg,
		router:           router,
		container:        sc,
		healthHandler:    handlers.NewHealthHandler(cfg.ServerID, cfg.Version),
		videoHandler:     handlers.NewVideoHandler(cfg, sc.Store, sc.Supervisor, sc.InferenceMgr),
		streamHandler:    handlers.NewStreamHandler(sc.Store, sc.Supervisor, sc.InferenceMgr),
		inferenceHandler: handlers.NewInferenceHandler(sc.Store, sc.Supervisor, sc.InferenceMgr),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting API server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping API server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.container.Shutdown(ctx)
}
