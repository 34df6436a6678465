package pipeline

import (
	"fmt"
	"sync"
	"time"

	"engrave-prep/internal/logger"
	"engrave-prep/internal/models"
	"engrave-prep/internal/raster"
	"engrave-prep/internal/transform"
)

// ErrNoBaseline is returned when a recompute is requested before any image
// has been established. This is a programming error in the caller, never a
// condition to paper over with an empty buffer.
var ErrNoBaseline = fmt.Errorf("no baseline established")

// BaselineState is the one-time result of the expensive pipeline stage: the
// grayscale, histogram-equalized, deliberately NOT binarized buffer,
// plus the Otsu threshold computed from it. Keeping the buffer un-thresholded
// is what makes the manual threshold slider work: binarizing here would bake
// the initial threshold into every later adjustment.
type BaselineState struct {
	Buffer        *raster.PixelBuffer
	OtsuThreshold int
}

// BaselineManager owns the two-stage pipeline. EstablishBaseline runs the
// expensive stage once per uploaded image; Recompute derives a display buffer
// from the cached baseline on every committed parameter change.
type BaselineManager struct {
	mu    sync.RWMutex
	state *BaselineState
	log   logger.Logger
}

func NewBaselineManager(log logger.Logger) *BaselineManager {
	if log == nil {
		log = logger.Noop{}
	}
	return &BaselineManager{log: log}
}

// EstablishBaseline converts the raw upload to grayscale, equalizes it and
// computes the Otsu threshold. Calculate only, no binarization. The previous
// baseline, if any, is replaced wholesale.
func (m *BaselineManager) EstablishBaseline(raw *raster.PixelBuffer) (*BaselineState, error) {
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("establish baseline: %w", err)
	}

	start := time.Now()

	gray, err := transform.Grayscale(raw)
	if err != nil {
		return nil, fmt.Errorf("establish baseline: %w", err)
	}
	equalized, err := transform.Equalize(gray)
	if err != nil {
		return nil, fmt.Errorf("establish baseline: %w", err)
	}
	otsu, err := transform.CalculateOptimalThreshold(equalized)
	if err != nil {
		return nil, fmt.Errorf("establish baseline: %w", err)
	}

	state := &BaselineState{Buffer: equalized, OtsuThreshold: otsu}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.log.Info("BaselineManager", "baseline established", map[string]interface{}{
		"width":          raw.Width,
		"height":         raw.Height,
		"otsu_threshold": otsu,
		"duration_ms":    time.Since(start).Milliseconds(),
	})
	return state, nil
}

// Recompute applies the adjustment chain to a fresh copy of the baseline in
// fixed order: background removal (when enabled), brightness, contrast,
// threshold. The baseline itself is only read, never written, so concurrent
// calls are safe; each call returns a newly allocated output buffer.
func (m *BaselineManager) Recompute(params models.AdjustmentParams) (*raster.PixelBuffer, error) {
	m.mu.RLock()
	state := m.state
	m.mu.RUnlock()

	if state == nil {
		return nil, ErrNoBaseline
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}

	start := time.Now()

	current := state.Buffer
	if params.BackgroundRemovalEnabled {
		removed, err := transform.RemoveBackground(current, params.BackgroundRemovalSensitivity)
		if err != nil {
			return nil, fmt.Errorf("recompute: %w", err)
		}
		current = removed
	}

	brightened, err := transform.ApplyBrightness(current, params.Brightness)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	contrasted, err := transform.ApplyContrast(brightened, params.Contrast)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	output, err := transform.ApplyThreshold(contrasted, params.Threshold)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}

	m.log.Debug("BaselineManager", "recompute finished", map[string]interface{}{
		"brightness":  params.Brightness,
		"contrast":    params.Contrast,
		"threshold":   params.Threshold,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return output, nil
}

// HasBaseline reports whether an image has been established.
func (m *BaselineManager) HasBaseline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state != nil
}

// Baseline returns the current state, or nil in the NoBaseline state.
func (m *BaselineManager) Baseline() *BaselineState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Reset drops the baseline, returning to the NoBaseline state.
func (m *BaselineManager) Reset() {
	m.mu.Lock()
	m.state = nil
	m.mu.Unlock()
}
