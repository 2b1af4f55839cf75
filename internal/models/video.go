package models

import "fmt"

// StreamKeyFor derives the stable stream identifier for an asset. The
// relay output address and the inference session for the asset are both
// addressed by this key.
func StreamKeyFor(assetID int) string {
	return fmt.Sprintf("video%d", assetID)
}

// Video is a stored video asset known to the catalog. PhysicalPath is the
// file on disk fed to the relay; PublicPath is the URL the file is served
// under for direct playback.
type Video struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PublicPath   string `json:"public_path"`
	PhysicalPath string `json:"physical_path"`
	StreamKey    string `json:"stream_key"`
}

// VideoResponse is a catalog entry decorated with live status for the
// presentation layer.
type VideoResponse struct {
	Video
	RelayRunning    bool `json:"relay_running"`
	InferenceActive bool `json:"inference_active"`
}

// StreamStatus reports liveness of the relay process and the inference
// session for one asset.
type StreamStatus struct {
	AssetID         int    `json:"asset_id"`
	StreamKey       string `json:"stream_key"`
	RelayRunning    bool   `json:"relay_running"`
	InferenceActive bool   `json:"inference_active"`
}
