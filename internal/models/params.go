package models

// Adjustment parameter ranges. UI-facing setters clamp into these ranges;
// the transform functions reject values outside them.
const (
	BrightnessMin = -100
	BrightnessMax = 100
	ContrastMin   = -100
	ContrastMax   = 100
	ThresholdMin  = 0
	ThresholdMax  = 255

	DefaultBackgroundSensitivity = 128
)

// AdjustmentParams is the committed parameter set of the adjustment pipeline.
// It is passed by value everywhere: snapshots in history, debounce payloads
// and persistence records all copy it, so no hidden shared state exists.
type AdjustmentParams struct {
	Brightness                   int
	Contrast                     int
	Threshold                    int
	BackgroundRemovalEnabled     bool
	BackgroundRemovalSensitivity int
}

// DefaultParams returns the parameter set used when a new baseline is
// established. The threshold is seeded with the computed Otsu value.
func DefaultParams(otsuThreshold int) AdjustmentParams {
	return AdjustmentParams{
		Brightness:                   0,
		Contrast:                     0,
		Threshold:                    ClampThreshold(otsuThreshold),
		BackgroundRemovalEnabled:     false,
		BackgroundRemovalSensitivity: DefaultBackgroundSensitivity,
	}
}

// Validate rejects any out-of-range field. Either every field is valid or the
// set is rejected as a whole; callers never observe a partially valid set.
func (p AdjustmentParams) Validate() error {
	if p.Brightness < BrightnessMin || p.Brightness > BrightnessMax {
		return NewValidationError("brightness", p.Brightness, "must be between -100 and 100")
	}
	if p.Contrast < ContrastMin || p.Contrast > ContrastMax {
		return NewValidationError("contrast", p.Contrast, "must be between -100 and 100")
	}
	if p.Threshold < ThresholdMin || p.Threshold > ThresholdMax {
		return NewValidationError("threshold", p.Threshold, "must be between 0 and 255")
	}
	if p.BackgroundRemovalSensitivity < ThresholdMin || p.BackgroundRemovalSensitivity > ThresholdMax {
		return NewValidationError("background_removal_sensitivity", p.BackgroundRemovalSensitivity,
			"must be between 0 and 255")
	}
	return nil
}

// ClampBrightness clamps v into the brightness range.
func ClampBrightness(v int) int { return clampInt(v, BrightnessMin, BrightnessMax) }

// ClampContrast clamps v into the contrast range.
func ClampContrast(v int) int { return clampInt(v, ContrastMin, ContrastMax) }

// ClampThreshold clamps v into the threshold range.
func ClampThreshold(v int) int { return clampInt(v, ThresholdMin, ThresholdMax) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
