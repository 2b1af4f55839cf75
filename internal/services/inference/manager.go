package inference

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/logging"
	"vistream-server-go/internal/services/detection"
)

// Manager owns the table of inference sessions, one per stream key. All
// table mutations go through the manager's mutex, so concurrent duplicate
// starts resolve to a single winner and liveness queries never race a
// start or stop on the same key.
type Manager struct {
	cfg      *config.Config
	detector detection.Detector
	registry *SubscriberRegistry
	events   EventPublisher
	opener   SourceOpener
	logger   zerolog.Logger

	mutex    sync.Mutex
	sessions map[string]*Session
}

func NewManager(cfg *config.Config, det detection.Detector, events EventPublisher, opener SourceOpener) *Manager {
	if opener == nil {
		opener = OpenVideoSource
	}
	return &Manager{
		cfg:      cfg,
		detector: det,
		registry: NewSubscriberRegistry(),
		events:   events,
		opener:   opener,
		logger:   logging.NewServiceLogger(cfg, "inference"),
		sessions: make(map[string]*Session),
	}
}

// StartSession launches the inference pipeline for streamKey reading from
// sourceAddr. Idempotent on entry presence: if a session exists for the
// key, even one whose pipeline already terminated, the call reports
// success without spawning a new task. A fresh start requires StopSession
// first.
func (m *Manager) StartSession(streamKey, sourceAddr string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[streamKey]; exists {
		m.logger.Debug().Str("stream_key", streamKey).Msg("Inference session already registered")
		return true
	}

	logger := logging.WithStream(m.logger, streamKey)
	session := newSession(streamKey, sourceAddr, m.cfg, m.detector, m.registry, m.events, m.opener, logger)

	ctx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	m.sessions[streamKey] = session

	go session.run(ctx)

	logger.Info().Str("source", sourceAddr).Msg("Inference session started")
	return true
}

// StopSession cancels the pipeline for streamKey, waits for the task to
// exit, and removes the table entry. No-op if absent.
func (m *Manager) StopSession(streamKey string) {
	m.mutex.Lock()
	session, exists := m.sessions[streamKey]
	m.mutex.Unlock()
	if !exists {
		return
	}

	session.cancel()
	<-session.done

	m.mutex.Lock()
	// Only remove the entry we stopped; a racing stop/start pair may have
	// replaced it.
	if cur, ok := m.sessions[streamKey]; ok && cur == session {
		delete(m.sessions, streamKey)
	}
	m.mutex.Unlock()

	m.logger.Info().Str("stream_key", streamKey).Str("state", session.State().String()).Msg("Inference session stopped")
}

// IsActive reports whether the pipeline for streamKey is alive. The task
// may terminate asynchronously between writes, so the query re-verifies
// the task handle: a finished task still tagged active is reconciled to
// failed in place, and the entry is left for StopSession to remove.
func (m *Manager) IsActive(streamKey string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	session, exists := m.sessions[streamKey]
	if !exists {
		return false
	}

	if session.State().terminal() {
		return false
	}

	select {
	case <-session.done:
		// The task finished without recording a terminal state.
		session.markTerminal(StateFailed)
		m.logger.Debug().Str("stream_key", streamKey).Msg("Reconciled finished inference session")
		return false
	default:
		return true
	}
}

// AddSubscriber attaches a viewer to streamKey's broadcast set. The set is
// created lazily, so viewers may attach before the session starts.
func (m *Manager) AddSubscriber(streamKey string, ch PushChannel) {
	m.registry.Add(streamKey, ch)
	m.logger.Debug().Str("stream_key", streamKey).Int("subscribers", m.registry.Count(streamKey)).Msg("Subscriber added")
}

// RemoveSubscriber detaches a viewer.
func (m *Manager) RemoveSubscriber(streamKey string, ch PushChannel) {
	m.registry.Remove(streamKey, ch)
	m.logger.Debug().Str("stream_key", streamKey).Int("subscribers", m.registry.Count(streamKey)).Msg("Subscriber removed")
}

// SubscriberCount returns the number of viewers attached to streamKey.
func (m *Manager) SubscriberCount(streamKey string) int {
	return m.registry.Count(streamKey)
}

// Shutdown stops every session, bounded by ctx.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mutex.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		s.cancel()
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mutex.Unlock()

	for _, s := range sessions {
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.logger.Info().Int("sessions", len(sessions)).Msg("Inference manager shutdown")
	return nil
}
