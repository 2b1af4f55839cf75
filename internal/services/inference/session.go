package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/models"
	"vistream-server-go/internal/services/detection"
)

// State is the lifecycle tag of a session's pipeline task, written by the
// task itself on every transition.
type State int32

const (
	StateConnecting State = iota
	StateRunning
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func (s State) terminal() bool {
	return s == StateStopped || s == StateFailed
}

// Source delivers decoded frames from a relay output.
type Source interface {
	// Read fills img with the next frame, reporting whether one was
	// available. A miss is transient, not an error.
	Read(img *gocv.Mat) bool
	Close() error
}

// SourceOpener opens a Source for a relay output address.
type SourceOpener func(sourceAddr string) (Source, error)

type videoSource struct {
	cap *gocv.VideoCapture
}

func (v *videoSource) Read(img *gocv.Mat) bool { return v.cap.Read(img) }
func (v *videoSource) Close() error            { return v.cap.Close() }

// OpenVideoSource opens a network video source through OpenCV.
func OpenVideoSource(sourceAddr string) (Source, error) {
	cap, err := gocv.OpenVideoCapture(sourceAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %s: %w", sourceAddr, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return nil, fmt.Errorf("video source %s is not opened", sourceAddr)
	}
	return &videoSource{cap: cap}, nil
}

// EventPublisher receives detection events for downstream consumers.
type EventPublisher interface {
	PublishDetections(event models.DetectionEvent) error
}

// Session is one inference pipeline bound to a stream key: it pulls frames
// from the relay output, runs detection, and broadcasts annotated frames
// to the subscribers registered under its key.
type Session struct {
	streamKey  string
	sourceAddr string

	cfg      *config.Config
	detector detection.Detector
	registry *SubscriberRegistry
	events   EventPublisher
	opener   SourceOpener
	logger   zerolog.Logger

	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	lastEvent time.Time
}

func newSession(streamKey, sourceAddr string, cfg *config.Config, det detection.Detector,
	registry *SubscriberRegistry, events EventPublisher, opener SourceOpener, logger zerolog.Logger) *Session {
	return &Session{
		streamKey:  streamKey,
		sourceAddr: sourceAddr,
		cfg:        cfg,
		detector:   det,
		registry:   registry,
		events:     events,
		opener:     opener,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(next State) {
	s.state.Store(int32(next))
}

// markTerminal transitions to next only if the session is not already in a
// terminal state. Used both by the task on exit and by the manager's
// reconciling liveness query.
func (s *Session) markTerminal(next State) {
	for {
		cur := State(s.state.Load())
		if cur.terminal() {
			return
		}
		if s.state.CompareAndSwap(int32(cur), int32(next)) {
			return
		}
	}
}

// run is the pipeline task body. It owns the video source end to end and
// releases it on every exit path.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("Inference pipeline panic recovered")
			s.markTerminal(StateFailed)
		}
	}()

	src, err := s.opener(s.sourceAddr)
	if err != nil {
		s.logger.Error().Err(err).Str("source", s.sourceAddr).Msg("Failed to open video source")
		s.markTerminal(StateFailed)
		return
	}
	defer src.Close()

	s.setState(StateRunning)
	s.logger.Info().Str("source", s.sourceAddr).Msg("Inference pipeline running")

	throttle := time.NewTicker(s.cfg.BroadcastInterval)
	defer throttle.Stop()

	img := gocv.NewMat()
	defer img.Close()

	for {
		select {
		case <-ctx.Done():
			s.markTerminal(StateStopped)
			s.logger.Info().Msg("Inference pipeline stopped")
			return
		default:
		}

		if !src.Read(&img) || img.Empty() {
			// Transient read miss: back off and retry.
			select {
			case <-ctx.Done():
				s.markTerminal(StateStopped)
				s.logger.Info().Msg("Inference pipeline stopped")
				return
			case <-time.After(s.cfg.ReadRetryDelay):
			}
			continue
		}

		if err := s.processFrame(img); err != nil {
			s.logger.Error().Err(err).Msg("Inference pipeline failed")
			s.markTerminal(StateFailed)
			return
		}

		// Fixed-rate throttle, independent of processing cost.
		select {
		case <-ctx.Done():
			s.markTerminal(StateStopped)
			s.logger.Info().Msg("Inference pipeline stopped")
			return
		case <-throttle.C:
		}
	}
}

// processFrame runs one iteration: downscale, detect, annotate, encode,
// broadcast. An encode failure skips the frame; a detection failure is
// fatal to the session.
func (s *Session) processFrame(img gocv.Mat) error {
	width, height := targetSize(img.Cols(), img.Rows(), s.cfg.TargetHeight, s.cfg.MaxWidth)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)

	detections, err := s.detector.Detect(resized)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	s.detector.Annotate(&resized, detections)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, resized,
		[]int{gocv.IMWriteJpegQuality, s.cfg.JPEGQuality})
	if err != nil {
		// Single-frame encode failure is not fatal, skip the frame.
		s.logger.Warn().Err(err).Msg("Failed to encode frame, skipping")
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(buf.GetBytes())
	buf.Close()

	message := models.StreamMessage{
		StreamID:   s.streamKey,
		Image:      encoded,
		Detections: detections,
		Timestamp:  float64(time.Now().UnixNano()) / float64(time.Second),
		Resolution: fmt.Sprintf("%dx%d", width, height),
	}

	if s.registry.Count(s.streamKey) > 0 {
		payload, err := json.Marshal(message)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to marshal stream message, skipping")
			return nil
		}
		s.registry.Broadcast(s.streamKey, payload)
	}

	s.publishEvent(detections, message.Timestamp)
	return nil
}

// publishEvent forwards detections to the event publisher, rate-limited by
// the configured cooldown.
func (s *Session) publishEvent(detections []models.Detection, timestamp float64) {
	if s.events == nil || len(detections) == 0 {
		return
	}
	if time.Since(s.lastEvent) < s.cfg.EventsCooldown {
		return
	}

	event := models.DetectionEvent{
		StreamKey:  s.streamKey,
		Detections: detections,
		Timestamp:  timestamp,
	}
	if err := s.events.PublishDetections(event); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish detection event")
		return
	}
	s.lastEvent = time.Now()
}

// targetSize computes the downscaled frame size: height pinned to
// targetHeight preserving aspect ratio, with width capped at maxWidth (in
// which case height is recomputed from the cap).
func targetSize(width, height, targetHeight, maxWidth int) (int, int) {
	scale := float64(targetHeight) / float64(height)
	outWidth := int(float64(width) * scale)
	outHeight := targetHeight

	if outWidth > maxWidth {
		outWidth = maxWidth
		outHeight = int(float64(height) * float64(maxWidth) / float64(width))
	}

	return outWidth, outHeight
}
