package relay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistream-server-go/internal/config"
)

// writeStubRelay creates an executable that records each invocation and
// then sleeps, standing in for ffmpeg.
func writeStubRelay(t *testing.T, marker string, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "stub-relay")
	body := "#!/bin/sh\necho started >> " + marker + "\n" + script + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func newTestSupervisor(bin string) *Supervisor {
	cfg := &config.Config{
		FFmpegBin:    bin,
		RelayBaseURL: "rtsp://localhost:8554",
	}
	return NewSupervisor(cfg)
}

func countInvocations(t *testing.T, marker string) int {
	t.Helper()
	data, err := os.ReadFile(marker)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	return count
}

func TestOutputURL(t *testing.T) {
	s := newTestSupervisor("ffmpeg")
	assert.Equal(t, "rtsp://localhost:8554/video7", s.OutputURL(7))
}

func TestStartStopIsRunning(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invocations")
	s := newTestSupervisor(writeStubRelay(t, marker, "sleep 60"))

	require.NoError(t, s.Start(7, "/videos/a.mp4"))
	assert.True(t, s.IsRunning(7))

	s.Stop(7)
	assert.False(t, s.IsRunning(7))
}

func TestStartIsIdempotent(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invocations")
	s := newTestSupervisor(writeStubRelay(t, marker, "sleep 60"))
	defer s.Shutdown()

	require.NoError(t, s.Start(1, "/videos/a.mp4"))
	require.NoError(t, s.Start(1, "/videos/a.mp4"))

	// Give the stub time to write its marker.
	assert.Eventually(t, func() bool {
		return countInvocations(t, marker) == 1
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, countInvocations(t, marker))
}

func TestDeadProcessReportsNotRunningButStays(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invocations")
	s := newTestSupervisor(writeStubRelay(t, marker, "exit 0"))

	require.NoError(t, s.Start(2, "/videos/b.mp4"))

	// The stub exits immediately; once reaped, IsRunning must flip to
	// false without removing the handle.
	assert.Eventually(t, func() bool {
		return !s.IsRunning(2)
	}, 2*time.Second, 20*time.Millisecond)

	// The stale handle still blocks a restart (documented limitation).
	require.NoError(t, s.Start(2, "/videos/b.mp4"))
	assert.Equal(t, 1, countInvocations(t, marker))
}

func TestStartSpawnFailureLeavesTableClean(t *testing.T) {
	s := newTestSupervisor("/nonexistent/ffmpeg")

	err := s.Start(3, "/videos/c.mp4")
	require.Error(t, err)
	assert.False(t, s.IsRunning(3))

	// A later start with a working binary must succeed.
	marker := filepath.Join(t.TempDir(), "invocations")
	s.cfg.FFmpegBin = writeStubRelay(t, marker, "sleep 60")
	require.NoError(t, s.Start(3, "/videos/c.mp4"))
	assert.True(t, s.IsRunning(3))
	s.Stop(3)
}

func TestStopUnknownAssetIsNoop(t *testing.T) {
	s := newTestSupervisor("ffmpeg")
	s.Stop(99)
	assert.False(t, s.IsRunning(99))
}

func TestShutdownStopsAllRelays(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "invocations")
	s := newTestSupervisor(writeStubRelay(t, marker, "sleep 60"))

	require.NoError(t, s.Start(1, "/videos/a.mp4"))
	require.NoError(t, s.Start(2, "/videos/b.mp4"))

	s.Shutdown()

	assert.False(t, s.IsRunning(1))
	assert.False(t, s.IsRunning(2))
}
