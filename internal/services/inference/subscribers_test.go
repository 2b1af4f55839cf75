package inference

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChannel struct {
	mutex    sync.Mutex
	payloads [][]byte
	sendErr  error
	closed   bool
}

func (c *fakeChannel) Send(payload []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeChannel) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) received() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.payloads)
}

func TestRegistryAddRemoveCount(t *testing.T) {
	r := NewSubscriberRegistry()
	a, b := &fakeChannel{}, &fakeChannel{}

	assert.Equal(t, 0, r.Count("video1"))

	r.Add("video1", a)
	r.Add("video1", b)
	assert.Equal(t, 2, r.Count("video1"))

	// Re-adding the same channel is a no-op.
	r.Add("video1", a)
	assert.Equal(t, 2, r.Count("video1"))

	r.Remove("video1", a)
	assert.Equal(t, 1, r.Count("video1"))

	// Removing from an unknown key must not panic.
	r.Remove("video9", a)
}

func TestBroadcastDeliversToAll(t *testing.T) {
	r := NewSubscriberRegistry()
	a, b := &fakeChannel{}, &fakeChannel{}
	r.Add("video1", a)
	r.Add("video1", b)

	r.Broadcast("video1", []byte("frame"))

	assert.Equal(t, 1, a.received())
	assert.Equal(t, 1, b.received())
}

func TestBroadcastPrunesFailedSubscriber(t *testing.T) {
	r := NewSubscriberRegistry()
	good := &fakeChannel{}
	gone := &fakeChannel{sendErr: errors.New("connection reset")}
	r.Add("video1", good)
	r.Add("video1", gone)

	r.Broadcast("video1", []byte("frame"))

	assert.Equal(t, 1, good.received())
	assert.Equal(t, 1, r.Count("video1"))
	assert.True(t, gone.closed)

	// Subsequent broadcasts only reach the surviving subscriber.
	r.Broadcast("video1", []byte("frame"))
	assert.Equal(t, 2, good.received())
}

func TestBroadcastToEmptyKeyIsNoop(t *testing.T) {
	r := NewSubscriberRegistry()
	r.Broadcast("video1", []byte("frame"))
}

func TestBroadcastConcurrentWithRemoval(t *testing.T) {
	r := NewSubscriberRegistry()
	channels := make([]*fakeChannel, 50)
	for i := range channels {
		channels[i] = &fakeChannel{}
		r.Add("video1", channels[i])
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.Broadcast("video1", []byte(fmt.Sprintf("frame%d", i)))
		}
	}()
	go func() {
		defer wg.Done()
		for _, ch := range channels[:25] {
			r.Remove("video1", ch)
		}
	}()
	wg.Wait()

	assert.Equal(t, 25, r.Count("video1"))
	// Survivors received every broadcast issued after the removals settled;
	// at minimum nothing panicked and the set is consistent.
	for _, ch := range channels[25:] {
		assert.Greater(t, ch.received(), 0)
	}
}
