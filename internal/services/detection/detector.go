package detection

import (
	"os"
	"strings"

	"gocv.io/x/gocv"

	"vistream-server-go/internal/models"
)

// Detector runs the object detection model on a single frame and can draw
// its results back onto the frame. Implementations must either be safe for
// concurrent use or serialize invocations internally: one instance is
// shared by every inference session.
type Detector interface {
	Detect(img gocv.Mat) ([]models.Detection, error)
	Annotate(img *gocv.Mat, dets []models.Detection)
}

// cocoClassNames is the default label set, matching the 80-class COCO
// ordering the bundled model is trained on.
var cocoClassNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train",
	"truck", "boat", "traffic light", "fire hydrant", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep",
	"cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella",
	"handbag", "tie", "suitcase", "frisbee", "skis", "snowboard",
	"sports ball", "kite", "baseball bat", "baseball glove", "skateboard",
	"surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork",
	"knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv",
	"laptop", "mouse", "remote", "keyboard", "cell phone", "microwave",
	"oven", "toaster", "sink", "refrigerator", "book", "clock", "vase",
	"scissors", "teddy bear", "hair drier", "toothbrush",
}

// loadClassNames reads one label per line from path, falling back to the
// COCO set when path is empty.
func loadClassNames(path string) ([]string, error) {
	if path == "" {
		return cocoClassNames, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
