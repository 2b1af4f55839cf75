package models

import "math"

// Detection is one detected object on a frame. BBox is [x1, y1, x2, y2] in
// pixels of the downscaled frame.
type Detection struct {
	Label      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// RoundConfidence normalizes a raw model score to the two-decimal form
// carried on the wire.
func RoundConfidence(score float64) float64 {
	return math.Round(score*100) / 100
}

// StreamMessage is the payload broadcast to every subscriber of an
// inference session: one annotated frame plus its detections.
type StreamMessage struct {
	StreamID   string      `json:"stream_id"`
	Image      string      `json:"image"` // base64-encoded JPEG
	Detections []Detection `json:"detections"`
	Timestamp  float64     `json:"timestamp"` // unix seconds
	Resolution string      `json:"resolution"`
}

// DetectionEvent is published to NATS when a session sees detections.
type DetectionEvent struct {
	StreamKey  string      `json:"stream_key"`
	Detections []Detection `json:"detections"`
	Timestamp  float64     `json:"timestamp"`
}
