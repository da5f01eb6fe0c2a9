package roi

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

// Preset is the starting configuration of a region: where it sits in view
// space, how its outline is drawn, and where its debug label goes.
type Preset struct {
	Name          string
	BorderColor   colorful.Color
	BorderWidth   float64
	Start         geometry.Rect
	LabelPosition geometry.Point
}

var (
	green = colorful.Color{R: 0, G: 1, B: 0}
	blue  = colorful.Color{R: 0, G: 0, B: 1}
)

var presets = map[string]Preset{
	"test": {
		Name:          "test",
		BorderColor:   green,
		BorderWidth:   2,
		Start:         geometry.NewRect(200, 300, 100, 200),
		LabelPosition: geometry.Point{X: 22, Y: 33},
	},
	"toran": {
		Name:          "toran",
		BorderColor:   green,
		BorderWidth:   2,
		Start:         geometry.NewRect(100, 300, 100, 100),
		LabelPosition: geometry.Point{X: 22, Y: 33},
	},
	"ollie": {
		Name:          "ollie",
		BorderColor:   blue,
		BorderWidth:   2,
		Start:         geometry.NewRect(220, 300, 100, 100),
		LabelPosition: geometry.Point{X: 22, Y: 58},
	},
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (valid: %v)", name, PresetNames())
	}
	return p, nil
}

// PresetNames lists the known presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
