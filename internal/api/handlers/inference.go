package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"vistream-server-go/internal/models"
	"vistream-server-go/internal/services/inference"
	"vistream-server-go/internal/services/relay"
	"vistream-server-go/internal/services/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type InferenceHandler struct {
	store      *storage.Store
	supervisor *relay.Supervisor
	manager    *inference.Manager
}

func NewInferenceHandler(store *storage.Store, supervisor *relay.Supervisor, manager *inference.Manager) *InferenceHandler {
	return &InferenceHandler{
		store:      store,
		supervisor: supervisor,
		manager:    manager,
	}
}

func (h *InferenceHandler) lookupVideo(c *gin.Context) (models.Video, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return models.Video{}, false
	}

	video, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("video %d not found", id)})
		return models.Video{}, false
	}
	return video, true
}

// StartInference launches the detection pipeline for a video's stream
// @Summary Start inference
// @Description Start the detection pipeline reading from the video's relay output
// @Tags inference
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /inference/{id}/start [post]
func (h *InferenceHandler) StartInference(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	sourceAddr := h.supervisor.OutputURL(video.ID)
	started := h.manager.StartSession(video.StreamKey, sourceAddr)

	log.Info().Str("stream_key", video.StreamKey).Str("source", sourceAddr).Msg("Inference start requested")
	c.JSON(http.StatusOK, gin.H{
		"success":    started,
		"stream_key": video.StreamKey,
		"source":     sourceAddr,
	})
}

// StopInference stops the detection pipeline for a video's stream
// @Summary Stop inference
// @Description Stop the detection pipeline for the video's stream
// @Tags inference
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /inference/{id}/stop [post]
func (h *InferenceHandler) StopInference(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	h.manager.StopSession(video.StreamKey)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"stream_key": video.StreamKey,
	})
}

// GetInferenceStatus reports whether the pipeline is alive
// @Summary Inference status
// @Description Get inference pipeline liveness for the video's stream
// @Tags inference
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /inference/{id}/status [get]
func (h *InferenceHandler) GetInferenceStatus(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stream_key":  video.StreamKey,
		"active":      h.manager.IsActive(video.StreamKey),
		"subscribers": h.manager.SubscriberCount(video.StreamKey),
	})
}

// AttachViewer upgrades the connection and subscribes it to the stream
// @Summary Attach a viewer
// @Description Upgrade to a websocket and receive annotated frames for the video's stream
// @Tags inference
// @Param id path int true "Video ID"
// @Success 101
// @Failure 404 {object} map[string]string
// @Router /ws/{id} [get]
func (h *InferenceHandler) AttachViewer(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("stream_key", video.StreamKey).Msg("Websocket upgrade failed")
		return
	}

	channel := inference.NewWSChannel(conn)
	h.manager.AddSubscriber(video.StreamKey, channel)
	log.Info().Str("stream_key", video.StreamKey).Str("remote", conn.RemoteAddr().String()).Msg("Viewer attached")

	// Hold the connection open, discarding anything the viewer sends.
	// Broadcast happens from the inference pipeline; this loop only
	// detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.manager.RemoveSubscriber(video.StreamKey, channel)
	_ = channel.Close()
	log.Info().Str("stream_key", video.StreamKey).Msg("Viewer detached")
}
