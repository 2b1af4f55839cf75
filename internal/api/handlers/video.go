package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/models"
	"vistream-server-go/internal/services/inference"
	"vistream-server-go/internal/services/relay"
	"vistream-server-go/internal/services/storage"
)

type VideoHandler struct {
	cfg        *config.Config
	store      *storage.Store
	supervisor *relay.Supervisor
	manager    *inference.Manager
}

func NewVideoHandler(cfg *config.Config, store *storage.Store, supervisor *relay.Supervisor, manager *inference.Manager) *VideoHandler {
	return &VideoHandler{
		cfg:        cfg,
		store:      store,
		supervisor: supervisor,
		manager:    manager,
	}
}

// UploadVideo stores an uploaded file and registers it in the catalog
// @Summary Upload a video
// @Description Save an uploaded video file and add it to the catalog
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Video name"
// @Param file formData file true "Video file"
// @Success 200 {object} models.Video
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /videos [post]
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	name := strings.ReplaceAll(strings.TrimSpace(c.PostForm("name")), " ", "_")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if err := os.MkdirAll(h.cfg.MediaDir, 0o755); err != nil {
		log.Error().Err(err).Msg("Failed to create media dir")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	filename := name + ".mp4"
	physicalPath := filepath.Join(h.cfg.MediaDir, filename)
	if err := c.SaveUploadedFile(file, physicalPath); err != nil {
		log.Error().Err(err).Str("path", physicalPath).Msg("Failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	video, err := h.store.Add(name, "/media/"+filename, physicalPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add video to catalog")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info().Int("id", video.ID).Str("name", name).Msg("Video uploaded")
	c.JSON(http.StatusOK, video)
}

// ListVideos lists the catalog with live status
// @Summary List videos
// @Description Get all videos with relay and inference status
// @Tags videos
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos := h.store.List()

	responses := make([]models.VideoResponse, 0, len(videos))
	for _, v := range videos {
		responses = append(responses, models.VideoResponse{
			Video:           v,
			RelayRunning:    h.supervisor.IsRunning(v.ID),
			InferenceActive: h.manager.IsActive(v.StreamKey),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": responses,
		"count":  len(responses),
	})
}

// GetVideo returns one catalog entry with live status
// @Summary Get a video
// @Description Get one video with relay and inference status
// @Tags videos
// @Param id path int true "Video ID"
// @Produce json
// @Success 200 {object} models.VideoResponse
// @Failure 404 {object} map[string]string
// @Router /videos/{id} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("video %d not found", id)})
		return
	}

	c.JSON(http.StatusOK, models.VideoResponse{
		Video:           video,
		RelayRunning:    h.supervisor.IsRunning(video.ID),
		InferenceActive: h.manager.IsActive(video.StreamKey),
	})
}
