package babatext

import (
	"image"
	"math"
)

// Rect is an axis-aligned box in output pixels. Every coordinate is rounded
// half-to-even to an integer when the box is built or moved.
type Rect struct {
	left, top     int
	width, height int
}

// NewRect rounds the given float geometry to integers.
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		left:   round(left),
		top:    round(top),
		width:  round(width),
		height: round(height),
	}
}

func round(v float64) int {
	return int(math.RoundToEven(v))
}

func (r Rect) Left() int   { return r.left }
func (r Rect) Top() int    { return r.top }
func (r Rect) Width() int  { return r.width }
func (r Rect) Height() int { return r.height }
func (r Rect) Right() int  { return r.left + r.width }
func (r Rect) Bottom() int { return r.top + r.height }

// Size returns the box dimensions as a point (width, height).
func (r Rect) Size() image.Point {
	return image.Pt(r.width, r.height)
}

// SetLeft moves the box horizontally. The size is unchanged.
func (r *Rect) SetLeft(v float64) { r.left = round(v) }

// SetTop moves the box vertically. The size is unchanged.
func (r *Rect) SetTop(v float64) { r.top = round(v) }

// Bounds converts the box to an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.left, r.top, r.Right(), r.Bottom())
}

// Union returns the smallest rectangle anchored at the origin that contains
// all boxes. It is used to size a canvas.
func Union(boxes []Rect) image.Point {
	var size image.Point
	for _, b := range boxes {
		if b.Right() > size.X {
			size.X = b.Right()
		}
		if b.Bottom() > size.Y {
			size.Y = b.Bottom()
		}
	}
	return size
}
