package models

import "fmt"

// Preset names a canned brightness/contrast starting point. The threshold is
// always derived from the image, so presets never carry one.
type Preset string

const (
	PresetDefault Preset = "default"
	PresetPhoto   Preset = "photo"
	PresetSketch  Preset = "sketch"
	PresetText    Preset = "text"
)

var presetAdjustments = map[Preset]struct {
	brightness int
	contrast   int
}{
	PresetDefault: {0, 0},
	PresetPhoto:   {10, 25},
	PresetSketch:  {0, 50},
	PresetText:    {-10, 75},
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (Preset, error) {
	p := Preset(name)
	if _, ok := presetAdjustments[p]; !ok {
		return "", NewValidationError("preset", name, "unknown preset")
	}
	return p, nil
}

// Apply overlays the preset's brightness and contrast onto params.
func (p Preset) Apply(params AdjustmentParams) (AdjustmentParams, error) {
	adj, ok := presetAdjustments[p]
	if !ok {
		return params, fmt.Errorf("unknown preset %q", string(p))
	}
	params.Brightness = adj.brightness
	params.Contrast = adj.contrast
	return params, nil
}

// Valid reports whether the preset is one of the known names.
func (p Preset) Valid() bool {
	_, ok := presetAdjustments[p]
	return ok
}
