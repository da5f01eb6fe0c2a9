// Package imaging prepares captured frames for recognition and draws
// recognition results back onto them.
//
// # Frames and Orientation
//
// A frame is the capture buffer in its native (landscape-right) orientation.
// Recognition works on the frame as the user sees it, so ToDisplay rotates
// the buffer into the current UI orientation before the region of interest
// is cut out. Annotation goes the other way: boxes arrive in render space,
// which is the unit square of the unrotated buffer, and are drawn directly
// onto the frame.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Normalized
// rectangles passed to this package must use geometry.OriginTopLeft; callers
// holding bottom-left rectangles convert them with NormalizedRect.In.
//
// # Thread Safety
//
// FrameCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input image.
package imaging
