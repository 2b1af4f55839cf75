package relay

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/logging"
	"vistream-server-go/internal/models"
)

// processHandle wraps one ffmpeg child process. done is closed once the
// process has exited and been reaped.
type processHandle struct {
	assetID int
	cmd     *exec.Cmd
	done    chan struct{}
}

func (h *processHandle) alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Supervisor owns one looping ffmpeg relay process per asset. The relay
// republishes the stored file as a continuous RTSP stream under the
// asset's stream key; looping is delegated to ffmpeg itself
// (-stream_loop -1), so the supervisor only needs start/stop/poll.
type Supervisor struct {
	cfg    *config.Config
	logger zerolog.Logger

	mutex  sync.Mutex
	relays map[int]*processHandle
}

func NewSupervisor(cfg *config.Config) *Supervisor {
	return &Supervisor{
		cfg:    cfg,
		logger: logging.NewServiceLogger(cfg, "relay"),
		relays: make(map[int]*processHandle),
	}
}

// OutputURL returns the RTSP address the relay for assetID publishes to.
func (s *Supervisor) OutputURL(assetID int) string {
	return fmt.Sprintf("%s/%s", s.cfg.RelayBaseURL, models.StreamKeyFor(assetID))
}

// Start spawns a looping relay for the asset. Idempotent: if a handle for
// assetID already exists the call is a no-op, even if the underlying
// process has since died (stale handles are only cleared by Stop; see
// IsRunning).
func (s *Supervisor) Start(assetID int, physicalPath string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.relays[assetID]; exists {
		s.logger.Debug().Int("asset_id", assetID).Msg("Relay already registered, skipping start")
		return nil
	}

	outputURL := s.OutputURL(assetID)

	cmd := exec.Command(s.cfg.FFmpegBin,
		"-re",
		"-stream_loop", "-1",
		"-i", physicalPath,
		"-c", "copy",
		"-f", "rtsp",
		outputURL,
	)
	// Stdout/Stderr left nil so ffmpeg output goes to the null device.

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start relay for asset %d: %w", assetID, err)
	}

	handle := &processHandle{
		assetID: assetID,
		cmd:     cmd,
		done:    make(chan struct{}),
	}

	// Reap the process when it exits so liveness checks see the real state.
	go func() {
		_ = cmd.Wait()
		close(handle.done)
	}()

	s.relays[assetID] = handle

	s.logger.Info().
		Int("asset_id", assetID).
		Str("path", physicalPath).
		Str("output_url", outputURL).
		Int("pid", cmd.Process.Pid).
		Msg("Relay started")

	return nil
}

// Stop signals the relay process to terminate and removes its handle.
// No-op if no relay is registered for the asset.
func (s *Supervisor) Stop(assetID int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	handle, exists := s.relays[assetID]
	if !exists {
		return
	}

	if handle.alive() {
		if err := handle.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			s.logger.Warn().Err(err).Int("asset_id", assetID).Msg("Failed to signal relay process")
		}
	}
	delete(s.relays, assetID)

	s.logger.Info().Int("asset_id", assetID).Msg("Relay stopped")
}

// IsRunning reports whether a relay is registered for the asset and its
// process is still alive. A dead-but-registered relay reports false; the
// stale handle is not reaped here, only by Stop or supervisor shutdown.
func (s *Supervisor) IsRunning(assetID int) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	handle, exists := s.relays[assetID]
	return exists && handle.alive()
}

// Shutdown stops every relay.
func (s *Supervisor) Shutdown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for assetID, handle := range s.relays {
		if handle.alive() {
			_ = handle.cmd.Process.Signal(syscall.SIGTERM)
		}
		delete(s.relays, assetID)
	}

	s.logger.Info().Msg("Relay supervisor shutdown")
}
