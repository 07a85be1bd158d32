// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package viewer

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
	"github.com/ManuGH/flipbook/internal/document"
	"github.com/ManuGH/flipbook/internal/flipbook"
	"github.com/ManuGH/flipbook/internal/hotspot"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/ManuGH/flipbook/internal/urlsync"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.UnixMilli(1_700_000_000_000)

func makePages(n int) []document.Page {
	pages := make([]document.Page, n)
	for i := range pages {
		pages[i] = document.Page{
			ID:      fmt.Sprintf("p%d", i+1),
			Kind:    document.KindMarkup,
			Content: fmt.Sprintf("<p>%d</p>", i+1),
			Width:   794,
			Height:  1123,
			Number:  i + 1,
		}
	}
	return pages
}

func newViewer(t *testing.T, rawURL string, opts Options) (*Viewer, *clock.Fake, *urlsync.MemoryLocation) {
	t.Helper()
	clk := clock.NewFake(epoch)
	loc, err := urlsync.NewMemoryLocation(rawURL)
	require.NoError(t, err)
	opts.Clock = clk
	opts.Location = loc
	v, err := New("v1", opts)
	require.NoError(t, err)
	t.Cleanup(func() { v.Close(context.Background()) })
	return v, clk, loc
}

func query(t *testing.T, loc *urlsync.MemoryLocation) url.Values {
	t.Helper()
	return loc.Current().Query()
}

func TestLoad_RestoresStateFromURL(t *testing.T) {
	ctx := context.Background()
	v, _, loc := newViewer(t, "https://book.test/view?page=3&zoom=1.50&view=double&lang=de", Options{})

	require.NoError(t, v.Load(ctx, "doc", "Doc", makePages(10)))

	snap := v.Snapshot()
	assert.Equal(t, 3, snap.CurrentIndex)
	assert.Equal(t, 4, snap.PageNumber)
	assert.Equal(t, 1.5, snap.Zoom.Value)
	assert.Equal(t, flipbook.SpreadDouble, snap.SpreadMode)

	q := query(t, loc)
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "1.50", q.Get("zoom"))
	assert.Equal(t, "double", q.Get("view"))
	assert.Equal(t, "de", q.Get("lang"), "foreign parameters are kept")
}

func TestLoad_ClampsRestoredPage(t *testing.T) {
	v, _, loc := newViewer(t, "/view?page=99&zoom=abc", Options{})
	require.NoError(t, v.Load(context.Background(), "doc", "", makePages(4)))

	assert.Equal(t, 3, v.Navigator().CurrentIndex())
	assert.Equal(t, 1.0, v.Zoom().Value())
	assert.Equal(t, "3", query(t, loc).Get("page"))
}

func TestNavigation_DrivesAnalyticsAndURL(t *testing.T) {
	ctx := context.Background()
	v, clk, loc := newViewer(t, "/view", Options{})
	require.NoError(t, v.Load(ctx, "doc", "", makePages(5)))

	clk.Advance(1000 * time.Millisecond)
	require.True(t, v.Next())
	clk.Advance(500 * time.Millisecond)
	require.True(t, v.Next())
	assert.Equal(t, "2", query(t, loc).Get("page"))

	a := v.Analytics().GetAnalytics(ctx)
	require.Len(t, a.Sessions, 1)
	views := a.Sessions[0].PageViews
	require.Len(t, views, 2)
	assert.Equal(t, 1, views[0].PageNumber)
	assert.Equal(t, int64(1000), views[0].Duration)
	assert.Equal(t, 2, views[1].PageNumber)
	assert.Equal(t, int64(500), views[1].Duration)
	assert.Equal(t, []int{1, 2, 3}, a.Sessions[0].ViewedPages.Values())
	assert.Equal(t, 5, a.Sessions[0].TotalPages)
}

func TestLoad_EndsPreviousSession(t *testing.T) {
	ctx := context.Background()
	v, clk, _ := newViewer(t, "/view", Options{AnalyticsStore: storage.NewMemoryStore()})

	require.NoError(t, v.Load(ctx, "a", "", makePages(3)))
	first := v.Snapshot().SessionID
	clk.Advance(time.Second)
	require.NoError(t, v.Load(ctx, "b", "", makePages(2)))
	second := v.Snapshot().SessionID

	assert.NotEqual(t, first, second)
	a := v.Analytics().GetAnalytics(ctx)
	require.Len(t, a.Sessions, 2)
	assert.True(t, a.Sessions[0].Closed())
	assert.False(t, a.Sessions[1].Closed())
	assert.Equal(t, "b", v.Snapshot().DocumentID)
}

func TestZoomAndSpreadWriteURL(t *testing.T) {
	v, _, loc := newViewer(t, "/view", Options{})
	require.NoError(t, v.Load(context.Background(), "doc", "", makePages(2)))

	assert.Equal(t, 1.25, v.ZoomIn())
	assert.Equal(t, "1.25", query(t, loc).Get("zoom"))
	assert.Equal(t, 2.0, v.SetZoom(9))
	assert.Equal(t, "2.00", query(t, loc).Get("zoom"))
	assert.Equal(t, 1.0, v.ResetZoom())

	assert.Equal(t, flipbook.SpreadDouble, v.ToggleSpreadMode())
	assert.Equal(t, "double", query(t, loc).Get("view"))
	assert.Equal(t, 0, v.Navigator().CurrentIndex(), "toggling keeps the cursor")
}

func TestApplyURL(t *testing.T) {
	v, _, _ := newViewer(t, "/view", Options{})
	require.NoError(t, v.Load(context.Background(), "doc", "", makePages(6)))

	v.ApplyURL(urlsync.Parse(url.Values{"page": {"4"}, "zoom": {"0.75"}, "view": {"bogus"}}))
	assert.Equal(t, 4, v.Navigator().CurrentIndex())
	assert.Equal(t, 0.75, v.Zoom().Value())
	assert.Equal(t, flipbook.SpreadSingle, v.Navigator().SpreadMode())
}

func TestAutoFlipAdvancesAndCloseStopsIt(t *testing.T) {
	ctx := context.Background()
	v, clk, loc := newViewer(t, "/view", Options{AutoFlipInterval: time.Second})
	require.NoError(t, v.Load(ctx, "doc", "", makePages(3)))

	require.True(t, v.AutoFlip().Start())
	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return v.Navigator().CurrentIndex() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return query(t, loc).Get("page") == "1" }, 2*time.Second, 5*time.Millisecond)

	v.Close(ctx)
	assert.False(t, v.AutoFlip().IsPlaying())
	assert.Equal(t, 0, clk.ActiveTickers())
	assert.ErrorIs(t, v.Load(ctx, "doc", "", makePages(1)), ErrClosed)
}

func TestLoad_StopsAutoFlip(t *testing.T) {
	ctx := context.Background()
	v, clk, _ := newViewer(t, "/view", Options{})
	require.NoError(t, v.Load(ctx, "doc", "", makePages(3)))
	require.True(t, v.AutoFlip().Start())

	require.NoError(t, v.Load(ctx, "doc2", "", makePages(3)))
	assert.False(t, v.AutoFlip().IsPlaying())
	assert.Equal(t, 0, clk.ActiveTickers())
}

func TestWindowAndPage(t *testing.T) {
	v, _, _ := newViewer(t, "/view", Options{WindowRadius: 1})
	require.NoError(t, v.Load(context.Background(), "doc", "", makePages(10)))
	v.GoTo(5)

	w := v.Window(0)
	assert.Equal(t, 4, w.Start)
	assert.Equal(t, 6, w.End)
	assert.Len(t, w.Real(), 3)

	w = v.Window(3)
	assert.Equal(t, 2, w.Start)
	assert.Equal(t, 8, w.End)

	p, ok := v.Page(10)
	require.True(t, ok)
	assert.Equal(t, "p10", p.ID)
	_, ok = v.Page(0)
	assert.False(t, ok)
	_, ok = v.Page(11)
	assert.False(t, ok)
}

func TestObserveAndZoomedSize(t *testing.T) {
	v, _, _ := newViewer(t, "/view", Options{})
	size := v.Observe(1240, 840)
	assert.Equal(t, size, v.Snapshot().Size)

	v.SetZoom(2)
	snap := v.Snapshot()
	assert.Equal(t, size.Width*2, snap.ZoomedSize.Width)
}

func TestShareLink(t *testing.T) {
	ctx := context.Background()
	v, _, _ := newViewer(t, "https://book.test/view?utm=x", Options{})
	require.NoError(t, v.Load(ctx, "doc", "", makePages(5)))
	v.GoTo(2)
	v.SetZoom(1.5)

	link := v.ShareLink()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "book.test", u.Host)
	assert.Equal(t, "/view", u.Path)
	assert.Equal(t, url.Values{"page": {"2"}, "zoom": {"1.50"}, "view": {"single"}}, u.Query())

	copied, ok := v.CopyShareLink(ctx)
	assert.True(t, ok)
	assert.Equal(t, link, copied)
}

func TestClickHotspot(t *testing.T) {
	ctx := context.Background()
	v, _, _ := newViewer(t, "/view", Options{SampleHotspots: true})
	require.NoError(t, v.Load(ctx, "doc", "", makePages(4)))

	ev, effect, ok, err := v.ClickHotspot(ctx, "hotspot-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v.Snapshot().SessionID, ev.SessionID)
	require.NotNil(t, effect)
	assert.Equal(t, hotspot.EffectNavigate, effect.Kind)
	assert.Equal(t, "https://github.com", effect.URL)

	_, _, ok, err = v.ClickHotspot(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_EmptyHotspotConfigWithoutSample(t *testing.T) {
	v, _, _ := newViewer(t, "/view", Options{})
	require.NoError(t, v.Load(context.Background(), "doc", "", makePages(1)))

	cfg, ok := v.Hotspots().Config()
	require.True(t, ok)
	assert.Equal(t, "doc", cfg.DocumentID)
	assert.Empty(t, cfg.Hotspots)
	assert.NoError(t, hotspot.ValidateConfig(cfg))
}

func TestEmptyDocument(t *testing.T) {
	v, _, loc := newViewer(t, "/view", Options{})
	require.NoError(t, v.Load(context.Background(), "doc", "", nil))

	snap := v.Snapshot()
	assert.Equal(t, 0, snap.PageCount)
	assert.Equal(t, 0, snap.PageNumber)
	assert.False(t, snap.CanNext)
	assert.False(t, v.Next())
	assert.False(t, query(t, loc).Has("page"))
	assert.Equal(t, 0, v.Window(0).Len())
}

func TestLoad_OtherDocumentOpensOnFirstPage(t *testing.T) {
	ctx := context.Background()
	v, _, loc := newViewer(t, "/view?zoom=1.25", Options{})

	require.NoError(t, v.Load(ctx, "docA", "", makePages(10)))
	v.GoTo(7)
	require.Equal(t, "7", query(t, loc).Get("page"))

	require.NoError(t, v.Load(ctx, "docB", "", makePages(10)))
	assert.Equal(t, 0, v.Snapshot().CurrentIndex)
	assert.Equal(t, "0", query(t, loc).Get("page"))
	assert.Equal(t, 1.25, v.Zoom().Value(), "zoom carries over")

	v.GoTo(4)
	require.NoError(t, v.Load(ctx, "docB", "", makePages(10)))
	assert.Equal(t, 4, v.Snapshot().CurrentIndex, "reloading the same document keeps the page")
}

func TestLoggerFor_ViewerIDOnce(t *testing.T) {
	v, _, _ := newViewer(t, "/view", Options{})
	var buf bytes.Buffer
	v.logger = zerolog.New(&buf)

	ctx := xglog.ContextWithViewerID(context.Background(), v.ID())
	logger := v.loggerFor(ctx)
	logger.Info().Msg("x")

	assert.Equal(t, 1, strings.Count(buf.String(), `"`+xglog.FieldViewerID+`"`))
	assert.Contains(t, buf.String(), `"`+xglog.FieldViewerID+`":"v1"`)
}
