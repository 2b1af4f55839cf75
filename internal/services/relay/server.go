package relay

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/logging"
)

// Server manages an RTSP media server (MediaMTX) as a child process. The
// relays publish into it and inference sessions read from it. Optional:
// when the server is managed externally this component stays idle.
type Server struct {
	cfg    *config.Config
	logger zerolog.Logger

	mutex sync.Mutex
	cmd   *exec.Cmd
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: logging.NewServiceLogger(cfg, "rtsp-server"),
	}
}

// Start launches the RTSP server binary. No-op if already started.
func (s *Server) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cmd != nil {
		return nil
	}

	if _, err := os.Stat(s.cfg.RTSPServerBin); err != nil {
		return fmt.Errorf("rtsp server binary not found at %s: %w", s.cfg.RTSPServerBin, err)
	}

	cmd := exec.Command(s.cfg.RTSPServerBin)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start rtsp server: %w", err)
	}

	go func() { _ = cmd.Wait() }()

	s.cmd = cmd
	s.logger.Info().Int("pid", cmd.Process.Pid).Str("bin", s.cfg.RTSPServerBin).Msg("RTSP server started")
	return nil
}

// Stop terminates the RTSP server process if this component started one.
func (s *Server) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cmd == nil {
		return
	}

	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to signal rtsp server process")
	}
	s.cmd = nil

	s.logger.Info().Msg("RTSP server stopped")
}
