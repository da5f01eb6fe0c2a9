package geometry

import (
	"fmt"
	"strings"
)

// Orientation is the video orientation the UI is currently displayed in.
//
// The capture buffer never rotates; LandscapeRight is its native orientation.
type Orientation int

const (
	Portrait Orientation = iota
	PortraitUpsideDown
	LandscapeLeft
	LandscapeRight
)

var orientationNames = map[Orientation]string{
	Portrait:           "portrait",
	PortraitUpsideDown: "portrait-upside-down",
	LandscapeLeft:      "landscape-left",
	LandscapeRight:     "landscape-right",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation parses an orientation name such as "portrait" or
// "landscape-left". Matching is case-insensitive and accepts underscores.
func ParseOrientation(s string) (Orientation, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for o, name := range orientationNames {
		if name == key {
			return o, nil
		}
	}
	return Portrait, fmt.Errorf("unknown orientation: %q", s)
}

// MarshalText encodes the orientation as its name.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an orientation name.
func (o *Orientation) UnmarshalText(b []byte) error {
	parsed, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// DeviceOrientation is the physical orientation reported by the device.
type DeviceOrientation int

const (
	DeviceUnknown DeviceOrientation = iota
	DevicePortrait
	DevicePortraitUpsideDown
	DeviceLandscapeLeft
	DeviceLandscapeRight
	DeviceFaceUp
	DeviceFaceDown
)

// FromDeviceOrientation converts a device orientation to a video orientation.
// The landscape cases swap because the device is named by where its home edge
// points while the video is named by where its top points. Face-up, face-down
// and unknown have no video orientation.
func FromDeviceOrientation(d DeviceOrientation) (Orientation, bool) {
	switch d {
	case DevicePortrait:
		return Portrait, true
	case DevicePortraitUpsideDown:
		return PortraitUpsideDown, true
	case DeviceLandscapeLeft:
		return LandscapeRight, true
	case DeviceLandscapeRight:
		return LandscapeLeft, true
	default:
		return Portrait, false
	}
}

// orientationTransforms maps top-left normalized UI coordinates to top-left
// normalized capture buffer coordinates. Coefficients are written out rather
// than built from Rotation so that they are exact.
var orientationTransforms = map[Orientation]AffineTransform{
	// Translation(0, 1).RotatedBy(-pi/2): (x, y) -> (y, 1-x)
	Portrait: {A: 0, B: 1, TX: 0, C: -1, D: 0, TY: 1},
	// (x, y) -> (1-y, x)
	PortraitUpsideDown: {A: 0, B: -1, TX: 1, C: 1, D: 0, TY: 0},
	// (x, y) -> (1-x, 1-y)
	LandscapeLeft:  {A: -1, B: 0, TX: 1, C: 0, D: -1, TY: 1},
	LandscapeRight: Identity(),
}

// OrientationTransform returns the fixed transform compensating for the UI
// being displayed in orientation o while the capture buffer stays put.
// Unknown values fall back to Portrait.
func OrientationTransform(o Orientation) AffineTransform {
	if t, ok := orientationTransforms[o]; ok {
		return t
	}
	return orientationTransforms[Portrait]
}

// IsLandscape reports whether o is one of the landscape orientations, in
// which the displayed content shares the capture buffer's aspect ratio.
func (o Orientation) IsLandscape() bool {
	return o == LandscapeLeft || o == LandscapeRight
}
