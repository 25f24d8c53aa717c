package geometry

// Marker coordinates are stored as percentages of the image's intrinsic
// bounding box. The zoom/pan transform applied for display never touches
// stored values, so a marker keeps its meaning across resizes.

const (
	MinPercent = 0.0
	MaxPercent = 100.0
)

// Point is a pointer position in the same pixel space as the Box it is
// measured against.
type Point struct {
	X float64
	Y float64
}

// Box is the bounding box of the rendered image element, in pixels.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Position is a marker position in percent space, both axes in [0, 100].
type Position struct {
	X float64
	Y float64
}

// ClampPercent projects any value into [0, 100].
func ClampPercent(v float64) float64 {
	if v < MinPercent {
		return MinPercent
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}

// Clamped returns the position with both axes clamped to [0, 100].
func (p Position) Clamped() Position {
	return Position{
		X: ClampPercent(p.X),
		Y: ClampPercent(p.Y),
	}
}

// ToPercent maps a pointer position into the image's own percent space.
// Points outside the box clamp to the nearest edge, and a degenerate box
// maps everything to the origin instead of dividing by zero.
func ToPercent(p Point, b Box) Position {
	var pos Position
	if b.Width > 0 {
		pos.X = (p.X - b.Left) / b.Width * MaxPercent
	}
	if b.Height > 0 {
		pos.Y = (p.Y - b.Top) / b.Height * MaxPercent
	}

	return pos.Clamped()
}
