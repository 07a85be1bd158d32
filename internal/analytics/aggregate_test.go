// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func views(pairs ...int) []PageView {
	var out []PageView
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, PageView{PageNumber: pairs[i], Duration: int64(pairs[i+1])})
	}
	return out
}

func TestAggregate(t *testing.T) {
	end := int64(4000)
	sessions := []Session{
		{StartTime: 0, EndTime: &end, ViewedPages: NewPageSet(1, 2, 3), PageViews: views(1, 100, 2, 300, 1, 200)},
		{StartTime: 1000, ViewedPages: NewPageSet(7), PageViews: views(7, 400, 1, 900)},
	}

	a := Aggregate(sessions, 42, 6000)
	assert.Equal(t, int64(4000+5000), a.TotalTimeSpent)
	assert.Equal(t, 5, a.TotalViews)
	assert.Equal(t, map[int]int{1: 3, 2: 1, 7: 1}, a.PopularPages)
	assert.Equal(t, int64(42), a.LastUpdated)
	assert.Equal(t, 4, a.UniquePages)
	assert.InDelta(t, 380.0, a.AverageDwellMs, 1e-9)
	assert.Equal(t, 300.0, a.MedianDwellMs)
	assert.Equal(t, []PageCount{{1, 3}, {2, 1}, {7, 1}}, a.TopPages)
}

func TestAggregate_TopPagesLimited(t *testing.T) {
	s := Session{PageViews: views(1, 1, 2, 1, 3, 1, 4, 1, 5, 1, 6, 1, 6, 1)}
	a := Aggregate([]Session{s}, 0, 0)
	require.Len(t, a.TopPages, TopPagesLimit)
	assert.Equal(t, PageCount{PageNumber: 6, Views: 2}, a.TopPages[0])
	assert.Equal(t, 4, a.TopPages[4].PageNumber)
}

func TestAggregate_Empty(t *testing.T) {
	a := Aggregate(nil, 0, 100)
	assert.NotNil(t, a.Sessions)
	assert.Zero(t, a.AverageDwellMs)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessions":[],"totalViews":0,"totalTimeSpent":0,"popularPages":{},"lastUpdated":0,
		"topPages":[],"uniquePages":0,"averageDwellMs":0,"medianDwellMs":0}`, string(data))
}

func TestPageSet(t *testing.T) {
	s := NewPageSet(3, 1, 3, 2)
	assert.Equal(t, []int{3, 1, 2}, s.Values())
	assert.True(t, s.Has(1))
	assert.False(t, s.Add(1))
	assert.True(t, s.Add(9))
	assert.Equal(t, 4, s.Len())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "[3,1,2,9]", string(data))

	var back PageSet
	require.NoError(t, json.Unmarshal([]byte("[5,5,4]"), &back))
	assert.Equal(t, []int{5, 4}, back.Values())

	var empty PageSet
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	c := s.Clone()
	c.Add(100)
	assert.False(t, s.Has(100))
}
