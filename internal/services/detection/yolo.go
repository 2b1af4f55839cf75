package detection

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"vistream-server-go/internal/config"
	"vistream-server-go/internal/logging"
	"vistream-server-go/internal/models"
)

// YOLODetector runs a YOLO ONNX model through the OpenCV DNN module. The
// network is loaded once; Detect calls are serialized by a mutex because
// cv::dnn::Net forward passes are not reentrant.
type YOLODetector struct {
	cfg    *config.Config
	logger zerolog.Logger

	mutex      sync.Mutex
	net        gocv.Net
	classNames []string
	inputSize  int
}

func NewYOLODetector(cfg *config.Config) (*YOLODetector, error) {
	logger := logging.NewServiceLogger(cfg, "detection")

	names, err := loadClassNames(cfg.ClassNamesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load class names: %w", err)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load detection model from %s", cfg.ModelPath)
	}

	logger.Info().
		Str("model", cfg.ModelPath).
		Int("classes", len(names)).
		Int("input_size", cfg.ModelInputSize).
		Msg("Detection model loaded")

	return &YOLODetector{
		cfg:        cfg,
		logger:     logger,
		net:        net,
		classNames: names,
		inputSize:  cfg.ModelInputSize,
	}, nil
}

// Detect runs one forward pass and returns detections in the coordinate
// space of img. Confidence values are rounded to two decimals.
func (d *YOLODetector) Detect(img gocv.Mat) ([]models.Detection, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	// Output layout is [1, 4+classes, anchors]; flatten to one row per
	// prediction attribute.
	prob := output.Reshape(1, 4+len(d.classNames))
	defer prob.Close()

	xFactor := float64(img.Cols()) / float64(d.inputSize)
	yFactor := float64(img.Rows()) / float64(d.inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for col := 0; col < prob.Cols(); col++ {
		classID, score := bestClass(prob, col, len(d.classNames))
		if score < d.cfg.ConfThreshold {
			continue
		}

		cx := float64(prob.GetFloatAt(0, col))
		cy := float64(prob.GetFloatAt(1, col))
		w := float64(prob.GetFloatAt(2, col))
		h := float64(prob.GetFloatAt(3, col))

		x1 := int((cx - w/2) * xFactor)
		y1 := int((cy - h/2) * yFactor)
		x2 := int((cx + w/2) * xFactor)
		y2 := int((cy + h/2) * yFactor)

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		scores = append(scores, score)
		classIDs = append(classIDs, classID)
	}

	indices := gocv.NMSBoxes(boxes, scores, d.cfg.ConfThreshold, d.cfg.NMSThreshold)

	detections := make([]models.Detection, 0, len(indices))
	for _, idx := range indices {
		box := boxes[idx]
		detections = append(detections, models.Detection{
			Label:      d.className(classIDs[idx]),
			Confidence: models.RoundConfidence(float64(scores[idx])),
			BBox: [4]float64{
				float64(box.Min.X), float64(box.Min.Y),
				float64(box.Max.X), float64(box.Max.Y),
			},
		})
	}

	return detections, nil
}

// bestClass returns the highest-scoring class for one prediction column.
// Class scores start at row 4, after the box coordinates.
func bestClass(prob gocv.Mat, col, classes int) (int, float32) {
	bestID := 0
	var bestScore float32
	for c := 0; c < classes; c++ {
		if s := prob.GetFloatAt(4+c, col); s > bestScore {
			bestScore = s
			bestID = c
		}
	}
	return bestID, bestScore
}

func (d *YOLODetector) className(id int) string {
	if id >= 0 && id < len(d.classNames) {
		return d.classNames[id]
	}
	return fmt.Sprintf("class%d", id)
}

// Annotate draws the detection boxes and labels onto img in place.
func (d *YOLODetector) Annotate(img *gocv.Mat, dets []models.Detection) {
	boxColor := color.RGBA{R: 0, G: 255, B: 0, A: 0}
	for _, det := range dets {
		rect := image.Rect(int(det.BBox[0]), int(det.BBox[1]), int(det.BBox[2]), int(det.BBox[3]))
		gocv.Rectangle(img, rect, boxColor, 2)

		label := fmt.Sprintf("%s %.2f", det.Label, det.Confidence)
		textPos := image.Pt(rect.Min.X, rect.Min.Y-5)
		if textPos.Y < 10 {
			textPos.Y = rect.Min.Y + 15
		}
		gocv.PutText(img, label, textPos, gocv.FontHersheySimplex, 0.4, boxColor, 1)
	}
}

// Close releases the network.
func (d *YOLODetector) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.net.Close()
}
