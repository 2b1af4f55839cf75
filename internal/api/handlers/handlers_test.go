package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/models"
	"vistream-server-go/internal/services/inference"
	"vistream-server-go/internal/services/relay"
	"vistream-server-go/internal/services/storage"
)

type noopDetector struct{}

func (noopDetector) Detect(img gocv.Mat) ([]models.Detection, error) { return nil, nil }
func (noopDetector) Annotate(img *gocv.Mat, dets []models.Detection) {}

type stalledSource struct{}

func (stalledSource) Read(img *gocv.Mat) bool { return false }
func (stalledSource) Close() error            { return nil }

func testEnv(t *testing.T) (*gin.Engine, *storage.Store, *relay.Supervisor, *inference.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := filepath.Join(t.TempDir(), "stub-relay")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nsleep 60\n"), 0o755))

	cfg := &config.Config{
		CatalogPath:       filepath.Join(t.TempDir(), "catalog.json"),
		MediaDir:          t.TempDir(),
		FFmpegBin:         stub,
		RelayBaseURL:      "rtsp://localhost:8554",
		TargetHeight:      240,
		MaxWidth:          426,
		JPEGQuality:       80,
		BroadcastInterval: 10 * time.Millisecond,
		ReadRetryDelay:    10 * time.Millisecond,
		EventsCooldown:    time.Hour,
	}

	store, err := storage.NewStore(cfg)
	require.NoError(t, err)
	supervisor := relay.NewSupervisor(cfg)
	t.Cleanup(supervisor.Shutdown)
	manager := inference.NewManager(cfg, noopDetector{}, nil, func(addr string) (inference.Source, error) {
		return stalledSource{}, nil
	})

	streamHandler := NewStreamHandler(store, supervisor, manager)
	inferenceHandler := NewInferenceHandler(store, supervisor, manager)
	videoHandler := NewVideoHandler(cfg, store, supervisor, manager)

	router := gin.New()
	router.GET("/videos", videoHandler.ListVideos)
	router.GET("/videos/:id", videoHandler.GetVideo)
	router.POST("/streams/:id/start", streamHandler.StartStream)
	router.POST("/streams/:id/stop", streamHandler.StopStream)
	router.GET("/streams/:id/status", streamHandler.GetStreamStatus)
	router.POST("/inference/:id/start", inferenceHandler.StartInference)
	router.POST("/inference/:id/stop", inferenceHandler.StopInference)
	router.GET("/inference/:id/status", inferenceHandler.GetInferenceStatus)

	return router, store, supervisor, manager
}

func do(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestStreamLifecycleOverHTTP(t *testing.T) {
	router, store, _, _ := testEnv(t)

	video, err := store.Add("a", "/media/a.mp4", "/videos/a.mp4")
	require.NoError(t, err)
	require.Equal(t, 1, video.ID)

	w := do(router, http.MethodGet, "/streams/1/status")
	require.Equal(t, http.StatusOK, w.Code)
	var status models.StreamStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.RelayRunning)

	w = do(router, http.MethodPost, "/streams/1/start")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.RelayRunning)
	assert.Equal(t, "video1", status.StreamKey)

	w = do(router, http.MethodPost, "/streams/1/stop")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.RelayRunning)
}

func TestStreamEndpointsUnknownVideo(t *testing.T) {
	router, _, _, _ := testEnv(t)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/streams/9/start").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/streams/9/status").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/streams/abc/status").Code)
}

func TestInferenceLifecycleOverHTTP(t *testing.T) {
	router, store, _, manager := testEnv(t)

	_, err := store.Add("a", "/media/a.mp4", "/videos/a.mp4")
	require.NoError(t, err)

	w := do(router, http.MethodPost, "/inference/1/start")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "video1", resp["stream_key"])
	assert.Equal(t, "rtsp://localhost:8554/video1", resp["source"])

	assert.Eventually(t, func() bool {
		return manager.IsActive("video1")
	}, 2*time.Second, 10*time.Millisecond)

	w = do(router, http.MethodGet, "/inference/1/status")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["active"])

	w = do(router, http.MethodPost, "/inference/1/stop")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, manager.IsActive("video1"))
}

func TestListVideosIncludesLiveStatus(t *testing.T) {
	router, store, supervisor, _ := testEnv(t)

	_, err := store.Add("a", "/media/a.mp4", "/videos/a.mp4")
	require.NoError(t, err)
	require.NoError(t, supervisor.Start(1, "/videos/a.mp4"))

	w := do(router, http.MethodGet, "/videos")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Videos []models.VideoResponse `json:"videos"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.True(t, resp.Videos[0].RelayRunning)
	assert.False(t, resp.Videos[0].InferenceActive)
}

func TestGetVideoNotFound(t *testing.T) {
	router, _, _, _ := testEnv(t)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/videos/5").Code)
}
