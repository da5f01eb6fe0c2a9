package geometry

// ToNormalized divides rect by the reference size per axis. The result is
// top-left based, like the view space it came from, and does not depend on
// orientation. A zero reference size yields the full unit square.
func ToNormalized(rect Rect, reference Size) NormalizedRect {
	if reference.IsZero() {
		return UnitRect(OriginTopLeft)
	}
	return NormalizedRect{
		X:      rect.X / reference.Width,
		Y:      rect.Y / reference.Height,
		Width:  rect.Width / reference.Width,
		Height: rect.Height / reference.Height,
		Origin: OriginTopLeft,
	}
}

// BottomToTop converts between bottom-left and top-left unit-square
// coordinates: y -> 1-y. It is its own inverse.
func BottomToTop() AffineTransform {
	return Scale(1, -1).TranslatedBy(0, -1)
}

// ComposeROIToRender builds the transform taking ROI-local recognition
// coordinates to render space:
//
//	Translation(roi.X, roi.Y).ScaledBy(roi.Width, roi.Height)  // ROI-local -> full frame
//	  .Concat(verticalFlip)                                    // bottom-left -> top-left
//	  .Concat(orientation)                                     // UI -> capture buffer
//
// Parameters:
//   - roi: The recognition ROI, normalized to the UI-oriented frame. It must
//     be in the same convention as the observations (bottom-left for
//     recognition results). A full unit ROI contributes the identity.
//   - verticalFlip: Usually BottomToTop. Pass Identity when observations are
//     already top-left.
//   - orientation: OrientationTransform of the current UI orientation.
//
// Returns:
//   - AffineTransform: The active transform. Apply it to a ROI-local box with
//     ProjectBox. Callers rebuild it whenever the ROI or orientation
//     changes.
func ComposeROIToRender(roi NormalizedRect, verticalFlip, orientation AffineTransform) AffineTransform {
	roiToGlobal := Translation(roi.X, roi.Y).ScaledBy(roi.Width, roi.Height)
	return roiToGlobal.Concat(verticalFlip).Concat(orientation)
}

// ProjectBox maps a ROI-local recognition box through the active transform
// and returns it as a top-left render-space rectangle.
func ProjectBox(box NormalizedRect, active AffineTransform) NormalizedRect {
	r := active.ApplyRect(box.Rect())
	return NormalizedRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Origin: OriginTopLeft}
}
