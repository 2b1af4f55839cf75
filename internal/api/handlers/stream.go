package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vistream-server-go/internal/models"
	"vistream-server-go/internal/services/inference"
	"vistream-server-go/internal/services/relay"
	"vistream-server-go/internal/services/storage"
)

type StreamHandler struct {
	store      *storage.Store
	supervisor *relay.Supervisor
	manager    *inference.Manager
}

func NewStreamHandler(store *storage.Store, supervisor *relay.Supervisor, manager *inference.Manager) *StreamHandler {
	return &StreamHandler{
		store:      store,
		supervisor: supervisor,
		manager:    manager,
	}
}

func (h *StreamHandler) status(video models.Video) models.StreamStatus {
	return models.StreamStatus{
		AssetID:         video.ID,
		StreamKey:       video.StreamKey,
		RelayRunning:    h.supervisor.IsRunning(video.ID),
		InferenceActive: h.manager.IsActive(video.StreamKey),
	}
}

func (h *StreamHandler) lookupVideo(c *gin.Context) (models.Video, bool) {
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

// StartStream launches the looping relay for a video
// @Summary Start a relay stream
// @Description Start the looping RTSP relay for a stored video
// @Tags streams
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} models.StreamStatus
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /streams/{id}/start [post]
func (h *StreamHandler) StartStream(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	if err := h.supervisor.Start(video.ID, video.PhysicalPath); err != nil {
		log.Error().Err(err).Int("asset_id", video.ID).Msg("Failed to start relay")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.status(video))
}

// StopStream stops the relay for a video
// @Summary Stop a relay stream
// @Description Stop the RTSP relay for a stored video
// @Tags streams
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} models.StreamStatus
// @Failure 404 {object} map[string]string
// @Router /streams/{id}/stop [post]
func (h *StreamHandler) StopStream(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	h.supervisor.Stop(video.ID)
	c.JSON(http.StatusOK, h.status(video))
}

// GetStreamStatus reports relay and inference liveness for a video
// @Summary Stream status
// @Description Get relay and inference liveness for a stored video
// @Tags streams
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} models.StreamStatus
// @Failure 404 {object} map[string]string
// @Router /streams/{id}/status [get]
func (h *StreamHandler) GetStreamStatus(c *gin.Context) {
	video, ok := h.lookupVideo(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.status(video))
}
