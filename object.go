package babatext

import (
	"image"
	"math/rand/v2"
)

// Animated is what the compositor drives every frame.
type Animated interface {
	Draw(dst *image.NRGBA)
	Advance() int
	SetForeground(Color)
	SetBackground(Color)
	SetLocation(image.Point)
}

// Object is a set of recolored sprite variants for one glyph or tile, placed
// at a box on the canvas, plus the index of the variant currently shown.
type Object struct {
	name   string
	box    Rect
	fg, bg Color
	frames []*Sprite
	cursor int
	rng    *rand.Rand
}

// NewObject loads every sprite variant of name at the size of box and paints
// it with fg and bg. A nil rng uses the global source.
func NewObject(assets *Assets, name string, box Rect, fg, bg Color, rng *rand.Rand) (*Object, error) {
	frames, err := assets.Sprites(name, box.Size())
	if err != nil {
		return nil, err
	}
	o := &Object{
		name:   name,
		box:    box,
		fg:     fg,
		bg:     bg,
		frames: frames,
		rng:    rng,
	}
	for _, f := range frames {
		f.SetForeground(fg)
		f.SetBackground(bg)
	}
	return o, nil
}

func (o *Object) Name() string      { return o.name }
func (o *Object) Box() Rect         { return o.box }
func (o *Object) FrameCount() int   { return len(o.frames) }
func (o *Object) Cursor() int       { return o.cursor }
func (o *Object) Foreground() Color { return o.fg }
func (o *Object) Background() Color { return o.bg }

// Advance moves the cursor to another variant and returns it.
func (o *Object) Advance() int {
	return o.AdvanceFrom(o.cursor)
}

// AdvanceFrom is Advance starting from cursor instead of the object's own
// state. With three or more variants the step is random in [1, n-1], so the
// same variant never shows twice in a row; with two it alternates.
func (o *Object) AdvanceFrom(cursor int) int {
	n := len(o.frames)
	offset := 1
	if n > 2 {
		offset = 1 + o.intN(n-1)
	}
	o.cursor = (cursor + offset) % n
	return o.cursor
}

func (o *Object) intN(n int) int {
	if o.rng == nil {
		return rand.IntN(n)
	}
	return o.rng.IntN(n)
}

// Draw copies the current variant into dst at the object's box.
func (o *Object) Draw(dst *image.NRGBA) {
	o.frames[o.cursor].blit(dst, image.Pt(o.box.Left(), o.box.Top()))
}

// Location returns the top-left corner of the box.
func (o *Object) Location() image.Point {
	return image.Pt(o.box.Left(), o.box.Top())
}

// SetLocation moves the box without reloading any sprite.
func (o *Object) SetLocation(p image.Point) {
	o.box.SetLeft(float64(p.X))
	o.box.SetTop(float64(p.Y))
}

// SetForeground repaints the foreground of every variant.
func (o *Object) SetForeground(c Color) {
	if c == o.fg {
		return
	}
	for _, f := range o.frames {
		f.SetForeground(c)
	}
	o.fg = c
}

// SetBackground repaints the background of every variant.
func (o *Object) SetBackground(c Color) {
	if c == o.bg {
		return
	}
	for _, f := range o.frames {
		f.SetBackground(c)
	}
	o.bg = c
}
