package vlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindStart(t *testing.T) {
	bottoms := []float64{20, 40, 60}
	tests := []struct {
		name    string
		bottoms []float64
		offset  float64
		want    int
	}{
		{"empty", nil, 100, 0},
		{"top", bottoms, 0, 0},
		{"inside first", bottoms, 19.5, 0},
		{"on boundary", bottoms, 20, 1},
		{"inside last", bottoms, 59, 2},
		{"at end", bottoms, 60, 0},
		{"past end", bottoms, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindStart(tt.bottoms, tt.offset))
		})
	}
}

func TestFindStartUniform(t *testing.T) {
	p := NewPositions(20)
	p.Reconcile(100)
	assert.Equal(t, 0, FindStart(p.Bottoms(), 0))
	assert.Equal(t, 90, FindStart(p.Bottoms(), 1800))
	assert.Equal(t, 50, FindStart(p.Bottoms(), 1010))
}

func TestFindEnd(t *testing.T) {
	bottoms := []float64{20, 40, 60}
	tests := []struct {
		name    string
		bottoms []float64
		bottom  float64
		want    int
	}{
		{"empty", nil, 100, -1},
		{"inside first", bottoms, 10, 0},
		{"on boundary", bottoms, 40, 1},
		{"inside last", bottoms, 41, 2},
		{"past end", bottoms, 500, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindEnd(tt.bottoms, tt.bottom))
		})
	}
}

func TestRenderRange(t *testing.T) {
	tests := []struct {
		name                           string
		start, capacity, buffer, count int
		want                           Range
	}{
		{"top of long list", 0, 10, 5, 100, Range{0, 15}},
		{"bottom of long list", 90, 10, 5, 100, Range{80, 100}},
		{"middle", 50, 10, 5, 100, Range{45, 65}},
		{"short list", 0, 10, 5, 3, Range{0, 3}},
		{"empty", 0, 10, 5, 0, Range{0, 0}},
		{"no capacity", 0, 0, 5, 0, Range{0, 0}},
		{"no buffer", 40, 10, 0, 100, Range{40, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderRange(tt.start, tt.capacity, tt.buffer, tt.count)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Start, 0)
			assert.LessOrEqual(t, got.Start, got.End)
			assert.LessOrEqual(t, got.End, tt.count)
		})
	}
}

func TestRangeGrows(t *testing.T) {
	prev := Range{10, 20}
	assert.False(t, Range{10, 20}.Grows(prev))
	assert.False(t, Range{12, 18}.Grows(prev))
	assert.True(t, Range{9, 20}.Grows(prev))
	assert.True(t, Range{10, 21}.Grows(prev))
	assert.True(t, Range{0, 15}.Grows(Range{}))
	assert.False(t, Range{}.Grows(Range{}))

	assert.Equal(t, 10, prev.Len())
	assert.Zero(t, Range{5, 2}.Len())
	assert.True(t, prev.Contains(10))
	assert.False(t, prev.Contains(20))
}
