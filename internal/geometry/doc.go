// Package geometry provides the rectangle, size, and affine transform types
// used to keep a region of interest aligned across coordinate spaces.
//
// # Coordinate Spaces
//
// Three spaces are involved when drawing recognition results on screen:
//
//   - View space: points on the screen, origin top-left, Y increasing downward.
//     The user moves and resizes the region of interest here.
//   - Recognition space: the unit square of the upright frame the recognizer
//     sees, origin bottom-left. Observations are reported relative to the
//     region of interest ("ROI-local").
//   - Render space: the unit square of the capture buffer in its native
//     (landscape) orientation, origin top-left. A LayerMapper converts it to
//     layer points for drawing.
//
// Because the vertical convention differs between spaces, NormalizedRect
// carries an explicit Origin. Nothing in this package assumes a convention
// silently; conversions go through BottomToTop or NormalizedRect.Flipped.
//
// # Transform Order
//
// AffineTransform.Concat appends a transform: t.Concat(u) applies t first,
// then u. Concatenation is associative but not commutative, and the order used
// by ComposeROIToRender is load-bearing:
//
//	ROI-local -> full frame -> flip to top-left -> rotate to buffer orientation
//
// Reversing any step silently misplaces every drawn box.
package geometry
