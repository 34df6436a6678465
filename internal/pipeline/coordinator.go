package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"engrave-prep/internal/history"
	"engrave-prep/internal/logger"
	"engrave-prep/internal/models"
	"engrave-prep/internal/raster"
	"engrave-prep/internal/settings"
)

// Default quiescence windows. Recompute reacts quickly so slider drags feel
// live; persistence waits longer because a settings write per drag step is
// pure churn.
const (
	DefaultRecomputeDelay = 100 * time.Millisecond
	DefaultPersistDelay   = 500 * time.Millisecond
)

// Coordinator is the single entry point for everything the UI layer does:
// loading an image, moving sliders, applying presets, undo/redo and export.
// It owns the live (uncommitted) parameter state and routes committed changes
// through the baseline manager, the history stack and the settings repository.
type Coordinator struct {
	mu sync.Mutex

	baseline *BaselineManager
	history  *history.Stack
	settings *settings.Repository
	log      logger.Logger

	recomputeDebouncer *Debouncer
	persistDebouncer   *Debouncer

	live   models.AdjustmentParams
	preset models.Preset
	output *raster.PixelBuffer
}

// CoordinatorOptions overrides the debounce windows. Zero values select the
// defaults.
type CoordinatorOptions struct {
	RecomputeDelay time.Duration
	PersistDelay   time.Duration
}

func NewCoordinator(baseline *BaselineManager, hist *history.Stack, repo *settings.Repository, log logger.Logger, opts CoordinatorOptions) *Coordinator {
	if log == nil {
		log = logger.Noop{}
	}
	recomputeDelay := opts.RecomputeDelay
	if recomputeDelay <= 0 {
		recomputeDelay = DefaultRecomputeDelay
	}
	persistDelay := opts.PersistDelay
	if persistDelay <= 0 {
		persistDelay = DefaultPersistDelay
	}

	c := &Coordinator{
		baseline: baseline,
		history:  hist,
		settings: repo,
		log:      log,
		preset:   models.PresetDefault,
	}
	c.recomputeDebouncer = NewDebouncer(recomputeDelay, c.commit)
	c.persistDebouncer = NewDebouncer(persistDelay, c.persist)
	return c
}

// LoadImage establishes a new baseline from raw, restores persisted settings
// on top of it and renders the first output synchronously. History is cleared
// and re-seeded with the initial committed parameters, so the first undo
// target is always this state.
func (c *Coordinator) LoadImage(raw *raster.PixelBuffer) error {
	c.recomputeDebouncer.Stop()
	// A queued settings write still measures its threshold offset against
	// the previous baseline's Otsu value; write it out before that anchor
	// changes underneath it.
	c.persistDebouncer.Flush()

	state, err := c.baseline.EstablishBaseline(raw)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	params := models.DefaultParams(state.OtsuThreshold)
	preset := models.PresetDefault
	if persisted := c.settings.Load(); persisted != nil {
		params = persisted.Restore(state.OtsuThreshold)
		preset = persisted.Preset
	}

	output, err := c.baseline.Recompute(params)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	c.mu.Lock()
	c.live = params
	c.preset = preset
	c.output = output
	c.mu.Unlock()

	c.history.Clear()
	c.history.Push(params)

	c.log.Info("Coordinator", "image loaded", map[string]interface{}{
		"otsu_threshold": state.OtsuThreshold,
		"brightness":     params.Brightness,
		"contrast":       params.Contrast,
		"threshold":      params.Threshold,
	})
	return nil
}

// SetBrightness clamps v into range and schedules a recompute.
func (c *Coordinator) SetBrightness(v int) {
	c.update(func(p *models.AdjustmentParams) {
		p.Brightness = models.ClampBrightness(v)
	})
}

// SetContrast clamps v into range and schedules a recompute.
func (c *Coordinator) SetContrast(v int) {
	c.update(func(p *models.AdjustmentParams) {
		p.Contrast = models.ClampContrast(v)
	})
}

// SetThreshold clamps v into range and schedules a recompute.
func (c *Coordinator) SetThreshold(v int) {
	c.update(func(p *models.AdjustmentParams) {
		p.Threshold = models.ClampThreshold(v)
	})
}

// SetBackgroundRemovalEnabled toggles background removal.
func (c *Coordinator) SetBackgroundRemovalEnabled(enabled bool) {
	c.update(func(p *models.AdjustmentParams) {
		p.BackgroundRemovalEnabled = enabled
	})
}

// SetBackgroundRemovalSensitivity clamps v into the 0..255 range.
func (c *Coordinator) SetBackgroundRemovalSensitivity(v int) {
	c.update(func(p *models.AdjustmentParams) {
		p.BackgroundRemovalSensitivity = models.ClampThreshold(v)
	})
}

// ApplyPreset overlays the named preset's brightness and contrast onto the
// live parameters. The threshold is left alone; it belongs to the image.
func (c *Coordinator) ApplyPreset(name string) error {
	preset, err := models.ParsePreset(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	applied, err := preset.Apply(c.live)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.live = applied
	c.preset = preset
	params := c.live
	c.mu.Unlock()

	c.recomputeDebouncer.Schedule(params)
	return nil
}

func (c *Coordinator) update(mutate func(*models.AdjustmentParams)) {
	c.mu.Lock()
	mutate(&c.live)
	params := c.live
	c.mu.Unlock()

	c.recomputeDebouncer.Schedule(params)
}

// commit is the recompute debouncer's callback: the parameter set has settled,
// so render it, record it in history and queue a persistence write.
func (c *Coordinator) commit(params models.AdjustmentParams) {
	// A setter that landed back on the committed values has nothing to
	// render; pushing it would turn the next undo into a visual no-op.
	if current := c.history.Current(); current != nil && *current == params {
		return
	}

	output, err := c.baseline.Recompute(params)
	if err != nil {
		c.log.Error("Coordinator", err, map[string]interface{}{
			"operation": "recompute",
		})
		return
	}

	c.mu.Lock()
	c.output = output
	c.mu.Unlock()

	c.history.Push(params)
	c.persistDebouncer.Schedule(params)
}

// persist is the persistence debouncer's callback. Save never fails loudly;
// failures are logged inside the repository.
func (c *Coordinator) persist(params models.AdjustmentParams) {
	state := c.baseline.Baseline()
	if state == nil {
		return
	}
	c.mu.Lock()
	preset := c.preset
	c.mu.Unlock()

	c.settings.Save(params, preset, state.OtsuThreshold)
}

// Undo steps back one committed parameter set and rerenders. Applying a
// history entry never pushes a new one. Returns false at the oldest entry.
func (c *Coordinator) Undo() bool {
	return c.applyHistory(c.history.Undo)
}

// Redo steps forward one committed parameter set and rerenders. Returns false
// at the newest entry.
func (c *Coordinator) Redo() bool {
	return c.applyHistory(c.history.Redo)
}

func (c *Coordinator) applyHistory(step func() *models.AdjustmentParams) bool {
	// A pending slider change would race the restored snapshot; drop it.
	c.recomputeDebouncer.Stop()

	params := step()
	if params == nil {
		return false
	}

	output, err := c.baseline.Recompute(*params)
	if err != nil {
		c.log.Error("Coordinator", err, map[string]interface{}{
			"operation": "history recompute",
		})
		return false
	}

	c.mu.Lock()
	c.live = *params
	c.output = output
	c.mu.Unlock()

	c.persistDebouncer.Schedule(*params)
	return true
}

// CanUndo reports whether an older committed state exists.
func (c *Coordinator) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether a newer committed state exists.
func (c *Coordinator) CanRedo() bool { return c.history.CanRedo() }

// Params returns the live parameter set.
func (c *Coordinator) Params() models.AdjustmentParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// CurrentOutputBuffer returns the most recently rendered output, or nil
// before the first image load.
func (c *Coordinator) CurrentOutputBuffer() *raster.PixelBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

// FlushPending forces any scheduled recompute to run now. The CLI uses this
// instead of sleeping out the debounce window.
func (c *Coordinator) FlushPending() {
	c.recomputeDebouncer.Flush()
}

// Shutdown cancels pending recomputes and flushes any queued settings write.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.recomputeDebouncer.Stop()
	c.persistDebouncer.Flush()
	c.log.Info("Coordinator", "shutdown complete", nil)
	return nil
}

// Name identifies the coordinator to the shutdown manager.
func (c *Coordinator) Name() string { return "PipelineCoordinator" }
