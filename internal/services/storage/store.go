package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/logging"
	"vistream-server-go/internal/models"
)

// Store keeps the video catalog: an in-memory table persisted to a JSON
// file so records survive restarts. It is the system of record for asset
// identity; the stream engine only ever reads from it.
type Store struct {
	cfg    *config.Config
	logger zerolog.Logger

	mutex  sync.RWMutex
	videos map[int]models.Video
	nextID int
}

func NewStore(cfg *config.Config) (*Store, error) {
	s := &Store{
		cfg:    cfg,
		logger: logging.NewServiceLogger(cfg, "storage"),
		videos: make(map[int]models.Video),
		nextID: 1,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("videos", len(s.videos)).Str("catalog", cfg.CatalogPath).Msg("Video catalog loaded")
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.cfg.CatalogPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	for _, v := range videos {
		s.videos[v.ID] = v
		if v.ID >= s.nextID {
			s.nextID = v.ID + 1
		}
	}
	return nil
}

// persist writes the catalog to disk. Caller must hold the mutex.
func (s *Store) persist() error {
	videos := s.sortedLocked()

	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if dir := filepath.Dir(s.cfg.CatalogPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog dir: %w", err)
		}
	}

	if err := os.WriteFile(s.cfg.CatalogPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

func (s *Store) sortedLocked() []models.Video {
	videos := make([]models.Video, 0, len(s.videos))
	for _, v := range s.videos {
		videos = append(videos, v)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos
}

// Add assigns the next id and stream key to the record, stores it and
// persists the catalog. Returns the stored record.
func (s *Store) Add(name, publicPath, physicalPath string) (models.Video, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	video := models.Video{
		ID:           s.nextID,
		Name:         name,
		PublicPath:   publicPath,
		PhysicalPath: physicalPath,
		StreamKey:    models.StreamKeyFor(s.nextID),
	}
	s.videos[video.ID] = video
	s.nextID++

	if err := s.persist(); err != nil {
		delete(s.videos, video.ID)
		s.nextID--
		return models.Video{}, err
	}

	s.logger.Info().Int("id", video.ID).Str("name", name).Msg("Video added to catalog")
	return video, nil
}

// Get returns the record for id.
func (s *Store) Get(id int) (models.Video, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.videos[id]
	return v, ok
}

// List returns all records ordered by id.
func (s *Store) List() []models.Video {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.sortedLocked()
}
