package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundConfidence(t *testing.T) {
	assert.Equal(t, 0.87, RoundConfidence(0.8675))
	assert.Equal(t, 0.5, RoundConfidence(0.5))
	assert.Equal(t, 0.0, RoundConfidence(0.004))
	assert.Equal(t, 1.0, RoundConfidence(0.999))
	assert.Equal(t, 0.33, RoundConfidence(0.3299999))
}

func TestStreamKeyFor(t *testing.T) {
	assert.Equal(t, "video7", StreamKeyFor(7))
	assert.Equal(t, "video123", StreamKeyFor(123))
}

func TestStreamMessageWireFormat(t *testing.T) {
	msg := StreamMessage{
		StreamID: "video7",
		Image:    "aGVsbG8=",
		Detections: []Detection{
			{Label: "person", Confidence: 0.87, BBox: [4]float64{1, 2, 3, 4}},
		},
		Timestamp:  1700000000.25,
		Resolution: "426x240",
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "video7", decoded["stream_id"])
	assert.Equal(t, "426x240", decoded["resolution"])

	dets := decoded["detections"].([]interface{})
	det := dets[0].(map[string]interface{})
	assert.Equal(t, "person", det["class"])
	assert.Equal(t, 0.87, det["confidence"])
}
