package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
	"github.com/ironsheep/number-reader-mcp/internal/imaging"
	"github.com/ironsheep/number-reader-mcp/internal/logging"
	"github.com/ironsheep/number-reader-mcp/internal/session"
)

// DefaultLanguage is used when Config.Language is empty.
const DefaultLanguage = "eng"

// Config configures the Tesseract oracle.
type Config struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string

	// TessdataPrefix overrides the directory Tesseract loads language data
	// from. Empty uses the system default.
	TessdataPrefix string

	// Preprocess enables crop preprocessing with PreprocessOptions.
	Preprocess        bool
	PreprocessOptions imaging.PreprocessOptions

	// MinEdgeDensity skips Tesseract for crops with fewer edges than this,
	// reporting no text. Zero runs Tesseract on every crop.
	MinEdgeDensity float64
}

// Tesseract implements session.Oracle with gosseract.
//
// A gosseract client is not safe for concurrent use, so recognitions are
// serialized.
type Tesseract struct {
	mu  sync.Mutex
	cfg Config
	log *logging.Logger
}

// New creates a Tesseract oracle. log may be nil.
func New(cfg Config, log *logging.Logger) *Tesseract {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Tesseract{cfg: cfg, log: log}
}

// textBox is one Tesseract result in crop pixel coordinates.
type textBox struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Recognize implements session.Oracle. It reads the text inside one region
// of a captured frame.
//
// Parameters:
//   - ctx: Checked before and after Tesseract runs; a canceled context
//     returns its error.
//   - frame: The capture buffer in its native orientation.
//   - roi: The recognition ROI, normalized to the frame rotated to
//     orientation. Either origin is accepted. The ROI may extend past the
//     frame edges after a pan or pinch; only the overlapping pixels are read.
//   - orientation: The UI orientation the ROI was measured in.
//
// Returns:
//   - []session.Observation: One observation per recognized line with its
//     word boxes. Every box is normalized to the full ROI, not the clipped
//     crop, with a bottom-left origin, so it composes with the region's
//     active transform. Nil when the crop has too little edge detail to
//     hold text.
//   - error: Non-nil if the ROI misses the frame or Tesseract fails.
//
// Recognitions are serialized; each one uses a fresh gosseract client.
func (t *Tesseract) Recognize(ctx context.Context, frame image.Image, roi geometry.NormalizedRect, orientation geometry.Orientation) ([]session.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	display := imaging.ToDisplay(frame, orientation)
	area := roi.In(geometry.OriginTopLeft)
	crop, pixels, err := imaging.CropNormalized(display, area)
	if err != nil {
		return nil, err
	}

	if t.cfg.MinEdgeDensity > 0 {
		if d := imaging.EdgeDensity(crop); d < t.cfg.MinEdgeDensity {
			t.log.Debug("blank crop skipped", "crop", pixels, "density", d)
			return nil, nil
		}
	}

	var input image.Image = crop
	if t.cfg.Preprocess {
		input = imaging.Preprocess(crop, t.cfg.PreprocessOptions)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, input); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}

	lines, words, err := t.run(buf.Bytes())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := display.Bounds()
	extent := area.Denormalize(geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())})
	extent.X += float64(b.Min.X)
	extent.Y += float64(b.Min.Y)
	p := placement{ROI: extent, Crop: pixels, Input: input.Bounds().Size()}

	obs := assemble(lines, words, p)
	t.log.Debug("recognized", "crop", pixels, "input", p.Input, "lines", len(obs))
	return obs, nil
}

// placement locates the recognized image inside the ROI.
type placement struct {
	// ROI is the unclipped ROI in display pixels.
	ROI geometry.Rect
	// Crop is the part of the ROI that was cut from the display.
	Crop image.Rectangle
	// Input is the size of the image Tesseract read, after any upscaling.
	Input image.Point
}

func (t *Tesseract) run(data []byte) (lines, words []textBox, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			return nil, nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Language); err != nil {
		return nil, nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("failed to set image: %w", err)
	}

	lineBoxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, nil, fmt.Errorf("OCR failed: %w", err)
	}
	// Lines are still usable without word boxes.
	wordBoxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		t.log.Warn("word boxes unavailable", "error", err)
		wordBoxes = nil
	}

	return convert(lineBoxes), convert(wordBoxes), nil
}

func convert(boxes []gosseract.BoundingBox) []textBox {
	out := make([]textBox, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, textBox{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: float64(b.Confidence) / 100.0,
		})
	}
	return out
}

// assemble builds observations from line and word boxes measured on the
// image described by p.
func assemble(lines, words []textBox, p placement) []session.Observation {
	obs := make([]session.Observation, 0, len(lines))
	owners := make([][]textBox, len(lines))

	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		c := image.Pt((w.Box.Min.X+w.Box.Max.X)/2, (w.Box.Min.Y+w.Box.Max.Y)/2)
		for i, l := range lines {
			if c.In(l.Box) {
				owners[i] = append(owners[i], w)
				break
			}
		}
	}

	for i, l := range lines {
		text := strings.TrimRight(l.Text, "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		o := session.Observation{
			Text:       text,
			Box:        toROI(l.Box, p),
			Confidence: l.Confidence,
		}

		cursor := 0
		for _, w := range owners[i] {
			word := strings.TrimSpace(w.Text)
			at := strings.Index(text[cursor:], word)
			if at < 0 {
				continue
			}
			start := cursor + at
			cursor = start + len(word)
			o.Words = append(o.Words, session.WordBox{
				Start: start,
				End:   cursor,
				Box:   toROI(w.Box, p),
			})
		}
		obs = append(obs, o)
	}
	return obs
}

// toROI converts a pixel box on the recognized image to a normalized
// bottom-left box in the ROI.
func toROI(r image.Rectangle, p placement) geometry.NormalizedRect {
	if p.ROI.Width <= 0 || p.ROI.Height <= 0 || p.Input.X <= 0 || p.Input.Y <= 0 {
		return geometry.NormalizedRect{Origin: geometry.OriginBottomLeft}
	}
	// Undo upscaling, then shift from crop pixels to display pixels.
	sx := float64(p.Crop.Dx()) / float64(p.Input.X)
	sy := float64(p.Crop.Dy()) / float64(p.Input.Y)
	x := float64(p.Crop.Min.X) + float64(r.Min.X)*sx
	y := float64(p.Crop.Min.Y) + float64(r.Min.Y)*sy

	topLeft := geometry.NormalizedRect{
		X:      (x - p.ROI.X) / p.ROI.Width,
		Y:      (y - p.ROI.Y) / p.ROI.Height,
		Width:  float64(r.Dx()) * sx / p.ROI.Width,
		Height: float64(r.Dy()) * sy / p.ROI.Height,
		Origin: geometry.OriginTopLeft,
	}
	return topLeft.In(geometry.OriginBottomLeft)
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// Info describes the OCR backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
	Language  string `json:"language"`
}

// Info reports the backend this oracle uses.
func (t *Tesseract) Info() Info {
	v := Version()
	return Info{
		Available: v != "",
		Version:   v,
		Backend:   "gosseract",
		Language:  t.cfg.Language,
	}
}
