package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/services/detection"
	"vistream-server-go/internal/services/inference"
	"vistream-server-go/internal/services/messaging"
	"vistream-server-go/internal/services/relay"
	"vistream-server-go/internal/services/storage"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config       *config.Config
	Store        *storage.Store
	Detector     detection.Detector
	RelayServer  *relay.Server
	Supervisor   *relay.Supervisor
	InferenceMgr *inference.Manager
	Messaging    *messaging.Service
}

// NewServiceContainer creates a new service container
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	store, err := storage.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	detector, err := detection.NewYOLODetector(cfg)
	if err != nil {
		return nil, err
	}

	// Messaging is optional; the engine runs without it.
	var msgSvc *messaging.Service
	var events inference.EventPublisher
	if cfg.NatsEnabled {
		msgSvc, err = messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS not available, detection events disabled")
		} else {
			events = msgSvc
		}
	}

	relayServer := relay.NewServer(cfg)
	if cfg.ManageRTSPServer {
		if err := relayServer.Start(); err != nil {
			return nil, err
		}
	}

	return &ServiceContainer{
		Config:       cfg,
		Store:        store,
		Detector:     detector,
		RelayServer:  relayServer,
		Supervisor:   relay.NewSupervisor(cfg),
		InferenceMgr: inference.NewManager(cfg, detector, events, nil),
		Messaging:    msgSvc,
	}, nil
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.InferenceMgr != nil {
		if err := sc.InferenceMgr.Shutdown(ctx); err != nil {
			return err
		}
	}

	if sc.Supervisor != nil {
		sc.Supervisor.Shutdown()
	}

	if sc.RelayServer != nil {
		sc.RelayServer.Stop()
	}

	if sc.Messaging != nil {
		if err := sc.Messaging.Shutdown(ctx); err != nil {
			return err
		}
	}

	if closer, ok := sc.Detector.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}

	return nil
}
