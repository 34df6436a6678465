// Package settings persists the user's committed adjustment parameters across
// runs. Only the minimal non-identifying subset is stored: no pixel data, no
// filenames, no timestamps.
package settings

import (
	"encoding/json"
	"fmt"

	"engrave-prep/internal/logger"
	"engrave-prep/internal/models"
)

// SchemaVersion guards against records written by incompatible versions.
// Bump whenever the persisted record shape or meaning changes.
const SchemaVersion = 1

// StorageKey is the single fixed key used in the KeyValueStore.
const StorageKey = "adjustment-settings"

// PersistedSettings is the durable record. The threshold is stored as an
// offset from the image's Otsu value so one saved record transfers across
// images with different optimal thresholds.
type PersistedSettings struct {
	Preset          models.Preset `json:"preset"`
	Brightness      int           `json:"brightness"`
	Contrast        int           `json:"contrast"`
	ThresholdOffset int           `json:"threshold_offset"`
	SchemaVersion   uint32        `json:"schema_version"`
}

func (s PersistedSettings) validate() error {
	if s.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema version %d is not %d", s.SchemaVersion, SchemaVersion)
	}
	if !s.Preset.Valid() {
		return fmt.Errorf("unknown preset %q", string(s.Preset))
	}
	if s.Brightness < models.BrightnessMin || s.Brightness > models.BrightnessMax {
		return fmt.Errorf("brightness %d out of range", s.Brightness)
	}
	if s.Contrast < models.ContrastMin || s.Contrast > models.ContrastMax {
		return fmt.Errorf("contrast %d out of range", s.Contrast)
	}
	if s.ThresholdOffset < -255 || s.ThresholdOffset > 255 {
		return fmt.Errorf("threshold offset %d out of range", s.ThresholdOffset)
	}
	return nil
}

// Repository serializes settings into a KeyValueStore. Storage failures never
// propagate to callers: saves degrade to logged no-ops and corrupt records
// are discarded on load.
type Repository struct {
	store KeyValueStore
	log   logger.Logger
}

func NewRepository(store KeyValueStore, log logger.Logger) *Repository {
	if log == nil {
		log = logger.Noop{}
	}
	return &Repository{store: store, log: log}
}

// Save writes the record derived from params. otsuThreshold is the baseline
// value the stored offset is measured against.
func (r *Repository) Save(params models.AdjustmentParams, preset models.Preset, otsuThreshold int) {
	if !preset.Valid() {
		preset = models.PresetDefault
	}
	record := PersistedSettings{
		Preset:          preset,
		Brightness:      params.Brightness,
		Contrast:        params.Contrast,
		ThresholdOffset: params.Threshold - otsuThreshold,
		SchemaVersion:   SchemaVersion,
	}

	data, err := json.Marshal(record)
	if err != nil {
		r.log.Error("Settings", err, map[string]interface{}{"operation": "marshal"})
		return
	}
	if err := r.store.Set(StorageKey, string(data)); err != nil {
		// storage full or unavailable: keep running on in-memory state
		r.log.Warning("Settings", "save skipped, storage unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	r.log.Debug("Settings", "settings saved", map[string]interface{}{
		"brightness":       record.Brightness,
		"contrast":         record.Contrast,
		"threshold_offset": record.ThresholdOffset,
	})
}

// Load returns the stored record, or nil when absent or invalid. Any record
// that fails decoding or validation is removed so it cannot poison later runs.
func (r *Repository) Load() *PersistedSettings {
	raw, ok, err := r.store.Get(StorageKey)
	if err != nil {
		r.log.Warning("Settings", "load failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if !ok {
		return nil
	}

	var record PersistedSettings
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		r.discardCorrupt(fmt.Errorf("decode: %w", err))
		return nil
	}
	if err := record.validate(); err != nil {
		r.discardCorrupt(err)
		return nil
	}
	return &record
}

// Clear erases the stored record. Safe to call when nothing is stored.
func (r *Repository) Clear() {
	if err := r.store.Remove(StorageKey); err != nil {
		r.log.Warning("Settings", "clear failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	r.log.Info("Settings", "stored settings cleared", nil)
}

func (r *Repository) discardCorrupt(cause error) {
	r.log.Warning("Settings", "discarding corrupt settings record", map[string]interface{}{
		"error": cause.Error(),
	})
	if err := r.store.Remove(StorageKey); err != nil {
		r.log.Warning("Settings", "failed to remove corrupt record", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Restore maps a persisted record onto a parameter set for the given Otsu
// threshold, clamping the reconstructed threshold into range.
func (s *PersistedSettings) Restore(otsuThreshold int) models.AdjustmentParams {
	params := models.DefaultParams(otsuThreshold)
	params.Brightness = s.Brightness
	params.Contrast = s.Contrast
	params.Threshold = models.ClampThreshold(otsuThreshold + s.ThresholdOffset)
	return params
}
