// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package flipbook

import (
	"fmt"
	"testing"

	"github.com/ManuGH/flipbook/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePages(n int) []document.Page {
	pages := make([]document.Page, n)
	for i := range pages {
		pages[i] = document.Page{
			ID:     fmt.Sprintf("p%d", i+1),
			Kind:   document.KindMarkup,
			Number: i + 1,
		}
	}
	return pages
}

func TestGoTo_ClampsForAllInputs(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for i := -3; i <= 9; i++ {
			nav := NewNavigator()
			nav.SetPages(makePages(n))
			nav.GoTo(i)

			want := 0
			if n > 0 {
				want = clamp(i, 0, n-1)
			}
			assert.Equal(t, want, nav.CurrentIndex(), "n=%d i=%d", n, i)
		}
	}
}

func TestNextPrev_NoWraparound(t *testing.T) {
	nav := NewNavigator()
	nav.SetPages(makePages(3))

	assert.False(t, nav.Prev())
	assert.True(t, nav.Next())
	assert.True(t, nav.Next())
	assert.False(t, nav.Next())
	assert.Equal(t, 2, nav.CurrentIndex())

	assert.True(t, nav.Prev())
	assert.Equal(t, 1, nav.CurrentIndex())
}

func TestEmptyNavigator(t *testing.T) {
	nav := NewNavigator()
	nav.GoTo(5)
	assert.False(t, nav.Next())
	assert.False(t, nav.Prev())
	assert.Equal(t, 0, nav.CurrentIndex())
	assert.False(t, nav.CanNext())
	assert.False(t, nav.CanPrev())

	_, ok := nav.CurrentPage()
	assert.False(t, ok)
}

func TestSetPages_ResetsCursorAndFlipping(t *testing.T) {
	nav := NewNavigator()
	nav.SetPages(makePages(5))
	nav.GoTo(4)
	nav.SetFlipping(true)

	nav.SetPages(makePages(2))
	st := nav.State()
	assert.Equal(t, 0, st.CurrentIndex)
	assert.False(t, st.IsFlipping)
	assert.Len(t, st.Pages, 2)
}

func TestToggleSpreadMode_KeepsCursor(t *testing.T) {
	nav := NewNavigator()
	nav.SetPages(makePages(4))
	nav.GoTo(3)

	assert.Equal(t, SpreadDouble, nav.ToggleSpreadMode())
	assert.Equal(t, 3, nav.CurrentIndex())
	assert.Equal(t, SpreadSingle, nav.ToggleSpreadMode())

	nav.SetSpreadMode("triple")
	assert.Equal(t, SpreadSingle, nav.SpreadMode())
}

func TestReset(t *testing.T) {
	nav := NewNavigator()
	nav.SetPages(makePages(4))
	nav.GoTo(2)
	nav.ToggleSpreadMode()
	nav.SetFlipping(true)

	nav.Reset()
	assert.Equal(t, State{CurrentIndex: 0, SpreadMode: SpreadSingle}, nav.State())
}

func TestCanNavigate_FalseWhileFlipping(t *testing.T) {
	nav := NewNavigator()
	nav.SetPages(makePages(3))
	nav.GoTo(1)
	assert.True(t, nav.CanNext())
	assert.True(t, nav.CanPrev())

	nav.SetFlipping(true)
	assert.False(t, nav.CanNext())
	assert.False(t, nav.CanPrev())
}

func TestSubscribe(t *testing.T) {
	nav := NewNavigator()
	var events []Event
	nav.Subscribe(func(ev Event) {
		// subscribers may read back without deadlocking
		_ = nav.CurrentIndex()
		events = append(events, ev)
	})

	nav.SetPages(makePages(3))
	nav.GoTo(2)
	nav.GoTo(2) // no change, no event
	nav.Next()  // at end, no event
	nav.ToggleSpreadMode()

	require.Len(t, events, 3)
	assert.Equal(t, EventPagesReplaced, events[0].Kind)
	assert.Equal(t, 3, events[0].PageCount)
	assert.Equal(t, EventCursorMoved, events[1].Kind)
	assert.Equal(t, 0, events[1].Previous)
	assert.Equal(t, 2, events[1].CurrentIndex)
	assert.Equal(t, EventSpreadChanged, events[2].Kind)
	assert.Equal(t, SpreadDouble, events[2].SpreadMode)
}

func TestStateIsACopy(t *testing.T) {
	nav := NewNavigator()
	pages := makePages(2)
	nav.SetPages(pages)
	pages[0].ID = "mutated"

	st := nav.State()
	assert.Equal(t, "p1", st.Pages[0].ID)
	st.Pages[1].ID = "mutated"
	p, ok := nav.CurrentPage()
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "p2", nav.State().Pages[1].ID)
}

func TestHandleKey(t *testing.T) {
	nav := NewNavigator()
	nav.SetPages(makePages(5))

	tests := []struct {
		key      string
		flipping bool
		consumed bool
		want     int
	}{
		{KeyArrowRight, false, true, 1},
		{KeySpace, false, true, 2},
		{KeyArrowDown, true, true, 2},
		{KeyArrowLeft, false, true, 1},
		{KeyEnd, false, true, 4},
		{KeyArrowUp, false, true, 3},
		{KeyHome, false, true, 0},
		{"a", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			nav.SetFlipping(tt.flipping)
			assert.Equal(t, tt.consumed, nav.HandleKey(tt.key))
			assert.Equal(t, tt.want, nav.CurrentIndex())
		})
	}
}
