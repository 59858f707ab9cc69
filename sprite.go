package babatext

import (
	"image"
)

// Sprite is one decoded sprite variant together with its background mask.
//
// Pixels equal to the mask color form the background partition, every other
// pixel is foreground. The two partitions are disjoint and cover the image, so
// a single grayscale sprite sheet can be re-skinned to any color pair by
// rewriting the partitions in place. The pixel buffer is owned exclusively by
// the sprite.
type Sprite struct {
	Name string // object name the sprite belongs to
	URI  string // file the sprite was decoded from

	img        *image.NRGBA
	background []bool // true where the source pixel matched the mask color
}

// NewSprite computes the masks of img against mask. img must not be shared.
func NewSprite(name, uri string, img *image.NRGBA, mask Color) *Sprite {
	s := &Sprite{
		Name:       name,
		URI:        uri,
		img:        img,
		background: make([]bool, img.Rect.Dx()*img.Rect.Dy()),
	}
	s.each(func(i, off int) {
		p := img.Pix[off : off+4 : off+4]
		s.background[i] = p[0] == mask.R && p[1] == mask.G && p[2] == mask.B && p[3] == mask.A
	})
	return s
}

// each visits every pixel in row-major order with its mask index and Pix offset.
func (s *Sprite) each(fn func(i, off int)) {
	w, h := s.img.Rect.Dx(), s.img.Rect.Dy()
	i := 0
	for y := 0; y < h; y++ {
		off := y * s.img.Stride
		for x := 0; x < w; x++ {
			fn(i, off)
			i++
			off += 4
		}
	}
}

func (s *Sprite) fill(c Color, background bool) {
	s.each(func(i, off int) {
		if s.background[i] != background {
			return
		}
		p := s.img.Pix[off : off+4 : off+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	})
}

// SetForeground overwrites every foreground pixel with c.
func (s *Sprite) SetForeground(c Color) { s.fill(c, false) }

// SetBackground overwrites every background pixel with c.
func (s *Sprite) SetBackground(c Color) { s.fill(c, true) }

// IsBackground reports whether the pixel at (x, y), relative to the sprite
// origin, belongs to the background partition.
func (s *Sprite) IsBackground(x, y int) bool {
	return s.background[y*s.img.Rect.Dx()+x]
}

// Coverage counts foreground pixels.
func (s *Sprite) Coverage() int {
	n := 0
	for _, bg := range s.background {
		if !bg {
			n++
		}
	}
	return n
}

// Image exposes the pixel buffer. Callers must not retain it across recolors.
func (s *Sprite) Image() *image.NRGBA {
	return s.img
}

// blit copies the sprite into dst with its top-left corner at at. Pixels are
// replaced, not blended. Parts falling outside dst are clipped.
func (s *Sprite) blit(dst *image.NRGBA, at image.Point) {
	r := image.Rectangle{Min: at, Max: at.Add(s.img.Rect.Size())}.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := s.img.PixOffset(s.img.Rect.Min.X+r.Min.X-at.X, s.img.Rect.Min.Y+y-at.Y)
		d := dst.PixOffset(r.Min.X, y)
		copy(dst.Pix[d:d+n], s.img.Pix[src:src+n])
	}
}
