package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetSizePinsHeight(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"640x480 scales to 320x240", 640, 480, 320, 240},
		{"1920x1080 lands exactly on the cap", 1920, 1080, 426, 240},
		{"square input", 480, 480, 240, 240},
		{"already at target", 426, 240, 426, 240},
		{"wide input hits width cap", 1000, 300, 426, 127},
		{"ultrawide input hits width cap", 2560, 720, 426, 119},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := targetSize(tc.width, tc.height, 240, 426)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestTargetSizePreservesAspectUnderCap(t *testing.T) {
	// For any source with H >= 240, output height is exactly 240 unless
	// the scaled width would exceed 426.
	for _, dims := range [][2]int{{320, 240}, {352, 288}, {640, 360}, {704, 480}} {
		w, h := targetSize(dims[0], dims[1], 240, 426)
		if w < 426 {
			assert.Equal(t, 240, h, "dims %v", dims)
		}
		assert.LessOrEqual(t, w, 426, "dims %v", dims)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "failed", StateFailed.String())
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, StateConnecting.terminal())
	assert.False(t, StateRunning.terminal())
	assert.True(t, StateStopped.terminal())
	assert.True(t, StateFailed.terminal())
}

func TestMarkTerminalDoesNotOverwriteTerminalState(t *testing.T) {
	s := &Session{done: make(chan struct{})}
	s.setState(StateRunning)

	s.markTerminal(StateStopped)
	assert.Equal(t, StateStopped, s.State())

	// A later reconcile must not demote an explicit stop to failed.
	s.markTerminal(StateFailed)
	assert.Equal(t, StateStopped, s.State())
}
