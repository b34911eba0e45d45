package detector

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// Detector decides whether a frame shows at least one face.
// Implementations must be deterministic for a given frame.
type Detector interface {
	Detect(frame image.Image) bool
}

// Static always returns the same verdict.
type Static bool

func (s Static) Detect(image.Image) bool {
	return bool(s)
}

// Func adapts a function to Detector.
type Func func(image.Image) bool

func (f Func) Detect(frame image.Image) bool {
	return f(frame)
}

// Options tunes the pigo cascade run.
type Options struct {
	MinSize    int
	MinQuality float64
}

// Pigo detects faces with a pigo pixel-intensity-comparison cascade.
type Pigo struct {
	classifier *pigo.Pigo
	opts       Options
}

// LoadPigo unpacks the cascade file at path (pigo's "facefinder").
func LoadPigo(path string, opts Options) (*Pigo, error) {
	if path == "" {
		return nil, fmt.Errorf("no face cascade configured")
	}
	packet, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", path, err)
	}
	return NewPigo(packet, opts)
}

func NewPigo(packet []byte, opts Options) (*Pigo, error) {
	classifier, err := pigo.NewPigo().Unpack(packet)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	if opts.MinSize <= 0 {
		opts.MinSize = 40
	}
	return &Pigo{classifier: classifier, opts: opts}, nil
}

func (p *Pigo) Detect(frame image.Image) bool {
	bounds := frame.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()
	if cols == 0 || rows == 0 {
		return false
	}

	params := pigo.CascadeParams{
		MinSize:     p.opts.MinSize,
		MaxSize:     max(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(frame),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	detections := p.classifier.RunCascade(params, 0.0)
	detections = p.classifier.ClusterDetections(detections, 0.2)
	for _, d := range detections {
		if float64(d.Q) >= p.opts.MinQuality {
			return true
		}
	}
	return false
}
