package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "inside range", in: 42.5, want: 42.5},
		{name: "below zero", in: -10, want: 0},
		{name: "above hundred", in: 150, want: 100},
		{name: "lower bound", in: 0, want: 0},
		{name: "upper bound", in: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPercent(tt.in))
		})
	}
}

func TestToPercent(t *testing.T) {
	// click at (100, 90) of a 200x100 element
	pos := ToPercent(Point{X: 100, Y: 90}, Box{Left: 0, Top: 0, Width: 200, Height: 100})
	assert.Equal(t, 50.0, pos.X)
	assert.Equal(t, 90.0, pos.Y)
}

func TestToPercentOffsetBox(t *testing.T) {
	// element rendered away from the viewport origin
	pos := ToPercent(Point{X: 150, Y: 120}, Box{Left: 100, Top: 100, Width: 200, Height: 100})
	assert.Equal(t, 25.0, pos.X)
	assert.Equal(t, 20.0, pos.Y)
}

func TestToPercentClampsOutsideBox(t *testing.T) {
	// pointer past the right edge and above the top edge must clamp, not throw
	pos := ToPercent(Point{X: 500, Y: -50}, Box{Left: 0, Top: 0, Width: 200, Height: 100})
	assert.Equal(t, 100.0, pos.X)
	assert.Equal(t, 0.0, pos.Y)
}

func TestToPercentZeroSizeBox(t *testing.T) {
	pos := ToPercent(Point{X: 10, Y: 10}, Box{})
	assert.Equal(t, 0.0, pos.X)
	assert.Equal(t, 0.0, pos.Y)
}

func TestPositionClamped(t *testing.T) {
	pos := Position{X: 150, Y: -10}.Clamped()
	assert.Equal(t, 100.0, pos.X)
	assert.Equal(t, 0.0, pos.Y)
}
