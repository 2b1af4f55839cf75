package inference

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// PushChannel is one connected viewer. Any send failure means the viewer
// is gone and its channel is dropped from the registry.
type PushChannel interface {
	Send(payload []byte) error
	Close() error
}

// SubscriberRegistry tracks the viewers attached to each inference
// session, keyed by stream key. Membership can change at any time;
// broadcast iterates over a snapshot so concurrent removal never faults.
type SubscriberRegistry struct {
	mutex sync.RWMutex
	sets  map[string]map[PushChannel]struct{}
}

func NewSubscriberRegistry() *SubscriberRegistry {
	return &SubscriberRegistry{
		sets: make(map[string]map[PushChannel]struct{}),
	}
}

// Add registers a viewer under streamKey, creating the set lazily.
func (r *SubscriberRegistry) Add(streamKey string, ch PushChannel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set, ok := r.sets[streamKey]
	if !ok {
		set = make(map[PushChannel]struct{})
		r.sets[streamKey] = set
	}
	set[ch] = struct{}{}
}

// Remove drops a viewer. No-op if the viewer or key is unknown.
func (r *SubscriberRegistry) Remove(streamKey string, ch PushChannel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if set, ok := r.sets[streamKey]; ok {
		delete(set, ch)
	}
}

// Count returns the number of viewers attached to streamKey.
func (r *SubscriberRegistry) Count(streamKey string) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.sets[streamKey])
}

func (r *SubscriberRegistry) snapshot(streamKey string) []PushChannel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	set := r.sets[streamKey]
	channels := make([]PushChannel, 0, len(set))
	for ch := range set {
		channels = append(channels, ch)
	}
	return channels
}

// Broadcast sends payload to a point-in-time snapshot of the viewers for
// streamKey. A viewer whose send fails is pruned and closed; the failure
// never aborts delivery to the remaining viewers.
func (r *SubscriberRegistry) Broadcast(streamKey string, payload []byte) {
	for _, ch := range r.snapshot(streamKey) {
		if err := ch.Send(payload); err != nil {
			log.Debug().Err(err).Str("stream_key", streamKey).Msg("Pruning unreachable subscriber")
			r.Remove(streamKey, ch)
			_ = ch.Close()
		}
	}
}

// WSChannel adapts a websocket connection to PushChannel. Writes are
// serialized because gorilla/websocket allows one concurrent writer.
type WSChannel struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

func NewWSChannel(conn *websocket.Conn) *WSChannel {
	return &WSChannel{conn: conn}
}

func (c *WSChannel) Send(payload []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *WSChannel) Close() error {
	return c.conn.Close()
}
