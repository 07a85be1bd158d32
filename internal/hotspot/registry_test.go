// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/ManuGH/flipbook/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.UnixMilli(1_700_000_000_000)

func newLoaded(t *testing.T, store storage.Store) (*Registry, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(start)
	r := NewRegistry(store, clk)
	r.Load(SampleConfig("doc-1", start))
	return r, clk
}

func TestNoConfig_EverythingIsNoop(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil, nil)

	_, ok := r.Add(ctx, Hotspot{ID: "a", PageNumber: 1, Action: PopupAction{}})
	assert.False(t, ok)
	_, ok = r.Update(ctx, "a", Patch{})
	assert.False(t, ok)
	assert.False(t, r.Delete(ctx, "a"))
	assert.Nil(t, r.ByPage(1))
	_, ok = r.TrackClick(ctx, "a", "s")
	assert.False(t, ok)
	assert.False(t, r.Select("a"))
	assert.Equal(t, Stats{TopHotspots: []TopHotspot{}}, r.Stats())

	out, err := r.Export()
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestTrackClick_ThreeClicks(t *testing.T) {
	ctx := context.Background()
	r, _ := newLoaded(t, nil)

	for i := 0; i < 3; i++ {
		_, ok := r.TrackClick(ctx, "hotspot-2", "session_x")
		require.True(t, ok)
	}

	h, ok := r.Get("hotspot-2")
	require.True(t, ok)
	assert.Equal(t, 3, h.ClickCount)

	events := r.Events()
	require.Len(t, events, 3)
	seen := map[int64]bool{}
	for _, ev := range events {
		assert.Equal(t, "hotspot-2", ev.HotspotID)
		assert.Equal(t, 2, ev.PageNumber)
		assert.Equal(t, ActionVideo, ev.ActionType)
		assert.Equal(t, "session_x", ev.SessionID)
		assert.False(t, seen[ev.Timestamp], "duplicate timestamp %d", ev.Timestamp)
		seen[ev.Timestamp] = true
	}
	assert.Equal(t, events[2].Timestamp, h.LastClickedAt)

	_, ok = r.TrackClick(ctx, "missing", "s")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	r, _ := newLoaded(t, nil)

	clicks := map[string]int{"hotspot-1": 2, "hotspot-3": 5, "hotspot-4": 1}
	for id, n := range clicks {
		for i := 0; i < n; i++ {
			r.TrackClick(ctx, id, "")
		}
	}
	st := r.Stats()
	assert.Equal(t, 8, st.TotalClicks)
	assert.Equal(t, []TopHotspot{{"hotspot-3", 5}, {"hotspot-1", 2}, {"hotspot-4", 1}}, st.TopHotspots)
}

func TestAddUpdateDelete(t *testing.T) {
	ctx := context.Background()
	r, clk := newLoaded(t, nil)

	clk.Advance(time.Second)
	added, ok := r.Add(ctx, Hotspot{
		PageNumber: 1,
		Position:   Position{X: 5, Y: 5, Width: 10, Height: 10},
		Action:     AudioAction{AudioURL: "https://a.test/a.mp3"},
	})
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(added.ID, "hotspot-"))
	assert.Equal(t, clk.Now().UnixMilli(), added.CreatedAt)
	assert.Len(t, r.ByPage(1), 2)

	cfg, _ := r.Config()
	assert.Equal(t, clk.Now().UnixMilli(), cfg.UpdatedAt)

	_, ok = r.Add(ctx, Hotspot{ID: added.ID, PageNumber: 1, Action: PopupAction{}})
	assert.False(t, ok, "duplicate id")
	_, ok = r.Add(ctx, Hotspot{ID: "bad", PageNumber: 0, Action: PopupAction{}})
	assert.False(t, ok, "invalid page")

	// No-op update leaves timestamps alone.
	clk.Advance(time.Second)
	title := added.Title
	_, ok = r.Update(ctx, added.ID, Patch{Title: &title})
	require.True(t, ok)
	cfg2, _ := r.Config()
	assert.Equal(t, cfg.UpdatedAt, cfg2.UpdatedAt)

	newTitle := "Listen"
	page := 3
	updated, ok := r.Update(ctx, added.ID, Patch{Title: &newTitle, PageNumber: &page})
	require.True(t, ok)
	assert.Equal(t, "Listen", updated.Title)
	assert.Equal(t, clk.Now().UnixMilli(), updated.UpdatedAt)
	assert.Len(t, r.ByPage(1), 1)
	assert.Len(t, r.ByPage(3), 2)

	badPos := Position{X: 90, Y: 0, Width: 20, Height: 5}
	kept, ok := r.Update(ctx, added.ID, Patch{Position: &badPos})
	require.True(t, ok)
	assert.Equal(t, added.Position, kept.Position)

	_, ok = r.Update(ctx, "missing", Patch{Title: &newTitle})
	assert.False(t, ok)

	require.True(t, r.Select(added.ID))
	assert.True(t, r.Delete(ctx, added.ID))
	assert.False(t, r.Delete(ctx, added.ID))
	_, ok = r.Selected()
	assert.False(t, ok)
}

func TestSelectAndEditMode(t *testing.T) {
	r, _ := newLoaded(t, nil)

	assert.True(t, r.Select("hotspot-3"))
	h, ok := r.Selected()
	require.True(t, ok)
	assert.Equal(t, "Buy Now", h.Title)

	assert.False(t, r.Select("nope"))
	_, ok = r.Selected()
	assert.False(t, ok)

	r.SetEditMode(true)
	assert.True(t, r.EditMode())
	r.Reset()
	assert.False(t, r.EditMode())
	_, ok = r.Config()
	assert.False(t, ok)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, _ := newLoaded(t, nil)
	r.TrackClick(ctx, "hotspot-1", "s")

	text, err := r.Export()
	require.NoError(t, err)
	assert.Contains(t, text, "\n  \"documentId\": \"doc-1\"")

	other := NewRegistry(nil, nil)
	require.NoError(t, other.Import(ctx, text))

	want, _ := r.Config()
	got, _ := other.Config()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("imported config differs (-want +got):\n%s", diff)
	}
}

func TestImport_RejectsAndKeepsExisting(t *testing.T) {
	ctx := context.Background()
	r, _ := newLoaded(t, nil)
	before, _ := r.Config()

	bad := []struct {
		name string
		text string
	}{
		{"syntax", `{"documentId": "x",`},
		{"missing document id", `{"version":1,"hotspots":[]}`},
		{"version zero", `{"documentId":"x","version":0,"hotspots":[]}`},
		{"duplicate ids", `{"documentId":"x","version":1,"hotspots":[
			{"id":"a","pageNumber":1,"position":{"x":0,"y":0,"width":1,"height":1},"action":{"type":"popup"}},
			{"id":"a","pageNumber":2,"position":{"x":0,"y":0,"width":1,"height":1},"action":{"type":"popup"}}]}`},
		{"position out of range", `{"documentId":"x","version":1,"hotspots":[
			{"id":"a","pageNumber":1,"position":{"x":-5,"y":0,"width":1,"height":1},"action":{"type":"popup"}}]}`},
		{"missing action", `{"documentId":"x","version":1,"hotspots":[
			{"id":"a","pageNumber":1,"position":{"x":0,"y":0,"width":1,"height":1}}]}`},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Import(ctx, tt.text)
			require.ErrorIs(t, err, ErrInvalidConfig)
			after, _ := r.Config()
			assert.Equal(t, before, after)
		})
	}
}

func TestImport_UnknownActionSurvives(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil, nil)
	text := `{"documentId":"x","version":2,"createdAt":1,"updatedAt":1,"hotspots":[
		{"id":"a","pageNumber":1,"position":{"x":0,"y":0,"width":10,"height":10},
		 "action":{"type":"hologram","intensity":3},"clickCount":0}]}`
	require.NoError(t, r.Import(ctx, text))

	out, err := r.Export()
	require.NoError(t, err)
	assert.JSONEq(t, text, out)
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	r, _ := newLoaded(t, store)

	_, err := store.Get(ctx, StorageKey("doc-1"))
	assert.ErrorIs(t, err, storage.ErrNotFound, "Load does not persist")

	r.TrackClick(ctx, "hotspot-4", "s")
	r2 := NewRegistry(store, nil)
	found, err := r2.LoadStored(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, found)
	h, ok := r2.Get("hotspot-4")
	require.True(t, ok)
	assert.Equal(t, 1, h.ClickCount)

	found, err = r2.LoadStored(ctx, "other")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, StorageKey("broken"), []byte(`{"documentId":"broken","version":0}`)))
	_, err = r2.LoadStored(ctx, "broken")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPersistenceFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFaultyStore()
	store.FailPuts(true)
	r, _ := newLoaded(t, store)

	_, ok := r.TrackClick(ctx, "hotspot-1", "s")
	assert.True(t, ok)
	h, _ := r.Get("hotspot-1")
	assert.Equal(t, 1, h.ClickCount)
}

func TestSampleConfigIsValid(t *testing.T) {
	cfg := SampleConfig("", start)
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "sample-document", cfg.DocumentID)
	assert.Len(t, cfg.Hotspots, 4)
}
