// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/ManuGH/flipbook/internal/clock"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const topHotspotsLimit = 5

// ErrNoConfig reports an operation that needs a loaded configuration.
var ErrNoConfig = errors.New("no interactive config loaded")

// StorageKey returns the persistence key of a document's configuration.
func StorageKey(documentID string) string {
	return "interactive_config:" + documentID
}

// Registry owns one document's interactive configuration, the editor
// selection and the click log. Every operation is a no-op when no
// configuration is loaded.
type Registry struct {
	mu       sync.Mutex
	config   *Config
	selected string
	editMode bool
	events   []Event
	lastTS   int64

	store  storage.Store
	clk    clock.Clock
	logger zerolog.Logger
}

// NewRegistry creates an empty registry. With a non-nil store every
// successful mutation writes the whole configuration back.
func NewRegistry(store storage.Store, clk clock.Clock) *Registry {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Registry{
		store:  store,
		clk:    clk,
		logger: xglog.WithComponent("hotspot"),
	}
}

func (r *Registry) nowMs() int64 { return r.clk.Now().UnixMilli() }

// Load replaces the configuration without validating or persisting it.
func (r *Registry) Load(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cfg.clone()
	r.config = &c
	r.selected = ""
}

// LoadStored restores the persisted configuration of documentID. It
// reports false when nothing is stored.
func (r *Registry) LoadStored(ctx context.Context, documentID string) (bool, error) {
	if r.store == nil {
		return false, nil
	}
	var cfg Config
	err := storage.GetJSON(ctx, r.store, StorageKey(documentID), &cfg)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return false, fmt.Errorf("stored config for %s: %w", documentID, err)
	}
	r.Load(cfg)
	return true, nil
}

// Config returns a copy of the loaded configuration.
func (r *Registry) Config() (Config, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return Config{}, false
	}
	return r.config.clone(), true
}

// Add appends h. An empty id is generated; a duplicate or invalid
// hotspot is rejected. It returns the stored hotspot.
func (r *Registry) Add(ctx context.Context, h Hotspot) (Hotspot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return Hotspot{}, false
	}
	logger := xglog.WithContext(ctx, r.logger)

	if h.ID == "" {
		h.ID = "hotspot-" + uuid.NewString()
	}
	if r.indexLocked(h.ID) >= 0 {
		logger.Warn().
			Str(xglog.FieldEvent, "hotspot.duplicate_id").
			Str(xglog.FieldHotspotID, h.ID).
			Msg("hotspot id already exists")
		return Hotspot{}, false
	}
	if err := ValidateHotspot(h); err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "hotspot.invalid").
			Str(xglog.FieldHotspotID, h.ID).
			Msg("rejecting invalid hotspot")
		return Hotspot{}, false
	}

	now := r.nowMs()
	if h.CreatedAt == 0 {
		h.CreatedAt = now
	}
	h = h.clone()
	r.config.Hotspots = append(r.config.Hotspots, h)
	r.config.UpdatedAt = now
	r.persistLocked(ctx)
	return h.clone(), true
}

// Update applies p to the hotspot with id. Timestamps are bumped only when
// something actually changed. It reports whether the hotspot exists.
func (r *Registry) Update(ctx context.Context, id string, p Patch) (Hotspot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return Hotspot{}, false
	}
	i := r.indexLocked(id)
	if i < 0 {
		return Hotspot{}, false
	}

	before := r.config.Hotspots[i]
	after := before.clone()
	p.apply(&after)
	if reflect.DeepEqual(before, after) {
		return after, true
	}
	if err := ValidateHotspot(after); err != nil {
		logger := xglog.WithContext(ctx, r.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "hotspot.invalid_update").
			Str(xglog.FieldHotspotID, id).
			Msg("rejecting invalid hotspot update")
		return before.clone(), true
	}

	now := r.nowMs()
	after.UpdatedAt = now
	r.config.Hotspots[i] = after
	r.config.UpdatedAt = now
	r.persistLocked(ctx)
	return after.clone(), true
}

// Delete removes the hotspot with id and clears it from the selection.
func (r *Registry) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return false
	}
	i := r.indexLocked(id)
	if i < 0 {
		return false
	}
	r.config.Hotspots = append(r.config.Hotspots[:i], r.config.Hotspots[i+1:]...)
	r.config.UpdatedAt = r.nowMs()
	if r.selected == id {
		r.selected = ""
	}
	r.persistLocked(ctx)
	return true
}

// ByPage returns the hotspots on pageNumber in configuration order.
func (r *Registry) ByPage(pageNumber int) []Hotspot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return nil
	}
	var out []Hotspot
	for _, h := range r.config.Hotspots {
		if h.PageNumber == pageNumber {
			out = append(out, h.clone())
		}
	}
	return out
}

// Get returns the hotspot with id.
func (r *Registry) Get(id string) (Hotspot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return Hotspot{}, false
	}
	i := r.indexLocked(id)
	if i < 0 {
		return Hotspot{}, false
	}
	return r.config.Hotspots[i].clone(), true
}

// TrackClick counts a click on id and appends it to the event log. Event
// timestamps are strictly increasing.
func (r *Registry) TrackClick(ctx context.Context, id, sessionID string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return Event{}, false
	}
	i := r.indexLocked(id)
	if i < 0 {
		return Event{}, false
	}

	ts := r.nowMs()
	if ts <= r.lastTS {
		ts = r.lastTS + 1
	}
	r.lastTS = ts

	h := &r.config.Hotspots[i]
	h.ClickCount++
	h.LastClickedAt = ts
	h.UpdatedAt = ts
	r.config.UpdatedAt = ts

	actionType := ActionType("")
	if h.Action != nil {
		actionType = h.Action.Type()
	}
	ev := Event{
		HotspotID:  id,
		PageNumber: h.PageNumber,
		ActionType: actionType,
		Timestamp:  ts,
		SessionID:  sessionID,
	}
	r.events = append(r.events, ev)

	metrics.IncHotspotClick(string(actionType))
	r.persistLocked(ctx)
	return ev, true
}

// Events returns the click log.
func (r *Registry) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Stats returns the total click count and the five most clicked hotspots.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Stats{TopHotspots: []TopHotspot{}}
	if r.config == nil {
		return st
	}
	for _, h := range r.config.Hotspots {
		st.TotalClicks += h.ClickCount
		if h.ClickCount > 0 {
			st.TopHotspots = append(st.TopHotspots, TopHotspot{ID: h.ID, Clicks: h.ClickCount})
		}
	}
	sort.SliceStable(st.TopHotspots, func(i, j int) bool {
		return st.TopHotspots[i].Clicks > st.TopHotspots[j].Clicks
	})
	if len(st.TopHotspots) > topHotspotsLimit {
		st.TopHotspots = st.TopHotspots[:topHotspotsLimit]
	}
	return st
}

// Select marks id as selected in the editor. An empty or unknown id
// clears the selection. It reports whether a hotspot is now selected.
func (r *Registry) Select(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return false
	}
	if id == "" || r.indexLocked(id) < 0 {
		r.selected = ""
		return false
	}
	r.selected = id
	return true
}

// Selected returns the selected hotspot, if any.
func (r *Registry) Selected() (Hotspot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil || r.selected == "" {
		return Hotspot{}, false
	}
	i := r.indexLocked(r.selected)
	if i < 0 {
		return Hotspot{}, false
	}
	return r.config.Hotspots[i].clone(), true
}

func (r *Registry) SetEditMode(on bool) {
	r.mu.Lock()
	r.editMode = on
	r.mu.Unlock()
}

func (r *Registry) EditMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.editMode
}

// Export renders the configuration as indented JSON, or "{}" when none is
// loaded.
func (r *Registry) Export() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return "{}", nil
	}
	data, err := json.MarshalIndent(r.config, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export interactive config: %w", err)
	}
	return string(data), nil
}

// Import replaces the whole configuration with the decoded text. A
// malformed or invalid document is rejected and the current configuration
// is kept.
func (r *Registry) Import(ctx context.Context, text string) error {
	var cfg Config
	if err := json.Unmarshal([]byte(text), &cfg); err != nil {
		return r.rejectImport(ctx, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if err := ValidateConfig(cfg); err != nil {
		return r.rejectImport(ctx, err)
	}
	if cfg.Hotspots == nil {
		cfg.Hotspots = []Hotspot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = &cfg
	if r.selected != "" && r.indexLocked(r.selected) < 0 {
		r.selected = ""
	}
	metrics.IncHotspotImport("success")
	logger := xglog.WithContext(ctx, r.logger)
	logger.Info().
		Str(xglog.FieldEvent, "hotspot.config_imported").
		Str(xglog.FieldDocumentID, cfg.DocumentID).
		Int("hotspots", len(cfg.Hotspots)).
		Msg("interactive config imported")
	r.persistLocked(ctx)
	return nil
}

func (r *Registry) rejectImport(ctx context.Context, err error) error {
	metrics.IncHotspotImport("rejected")
	logger := xglog.WithContext(ctx, r.logger)
	logger.Warn().
		Err(err).
		Str(xglog.FieldEvent, "hotspot.import_rejected").
		Msg("failed to import config")
	return err
}

// Reset drops the configuration, selection, edit mode and click log.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = nil
	r.selected = ""
	r.editMode = false
	r.events = nil
}

func (r *Registry) indexLocked(id string) int {
	for i := range r.config.Hotspots {
		if r.config.Hotspots[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the configuration. Failures are logged only.
func (r *Registry) persistLocked(ctx context.Context) {
	if r.store == nil || r.config == nil {
		return
	}
	if err := storage.PutJSON(ctx, r.store, StorageKey(r.config.DocumentID), r.config); err != nil {
		logger := xglog.WithContext(ctx, r.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "hotspot.persist_failed").
			Str(xglog.FieldDocumentID, r.config.DocumentID).
			Msg("failed to persist interactive config")
	}
}
