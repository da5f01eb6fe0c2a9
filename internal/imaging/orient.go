package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

// ToDisplay rotates a capture buffer into the UI orientation o, so the
// result looks the way the preview shows it. Normalized display
// coordinates map back to the buffer with geometry.OrientationTransform(o).
func ToDisplay(frame image.Image, o geometry.Orientation) image.Image {
	switch o {
	case geometry.Portrait:
		return imaging.Rotate270(frame)
	case geometry.PortraitUpsideDown:
		return imaging.Rotate90(frame)
	case geometry.LandscapeLeft:
		return imaging.Rotate180(frame)
	default:
		return frame
	}
}
