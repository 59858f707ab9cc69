package babatext

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

// Animation is a sequence of composited frames ready for GIF encoding.
type Animation struct {
	Frames     []*image.NRGBA
	Delays     []int // per frame, in 1/100s
	Background Color
}

// Composite renders count frames of size. Every frame starts as a canvas
// filled with bg; each object is drawn and then advanced, in order.
func Composite(size image.Point, bg Color, count int, objects []Animated) []*image.NRGBA {
	frames := make([]*image.NRGBA, 0, count)
	for i := 0; i < count; i++ {
		canvas := NewCanvas(size, bg)
		for _, o := range objects {
			o.Draw(canvas)
			o.Advance()
		}
		frames = append(frames, canvas)
	}
	return frames
}

// NewCanvas allocates an image of size filled with bg.
func NewCanvas(size image.Point, bg Color) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rectangle{Max: size})
	for i := 0; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i], canvas.Pix[i+1], canvas.Pix[i+2], canvas.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	return canvas
}

// Disposal picks how a viewer clears each frame. An opaque background
// restores to the background color; anything else restores to the previous
// state so transparent pixels do not keep trails of earlier frames.
func (a *Animation) Disposal() byte {
	if a.Background.Opaque() {
		return gif.DisposalBackground
	}
	return gif.DisposalPrevious
}

// Encode writes the animation as a GIF that loops forever.
func (a *Animation) Encode(w io.Writer) error {
	if len(a.Frames) == 0 {
		return errors.New("animation has no frames")
	}
	if len(a.Delays) != len(a.Frames) {
		return errors.New("animation needs one delay per frame")
	}
	bounds := a.Frames[0].Bounds()
	g := &gif.GIF{
		LoopCount: 0,
		Config: image.Config{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
	}
	disposal := a.Disposal()
	for i, f := range a.Frames {
		p := toPaletted(f)
		if i == 0 {
			g.Config.ColorModel = p.Palette
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, a.Delays[i])
		g.Disposal = append(g.Disposal, disposal)
	}
	return gif.EncodeAll(w, g)
}

// WriteFile writes the GIF to path.
func (a *Animation) WriteFile(path string) error {
	return writeFile(path, a.Encode)
}

// gifColor collapses alpha to the two levels GIF supports.
func gifColor(c Color) Color {
	if c.A < 0x80 {
		return Transparent
	}
	c.A = FullAlpha
	return c
}

// toPaletted uses the exact colors of img when there are at most 256 of them.
// Otherwise it builds a median cut palette from the opaque pixels and dithers
// onto it.
func toPaletted(img *image.NRGBA) *image.Paletted {
	b := img.Bounds()
	flat := image.NewNRGBA(b)
	index := make(map[Color]uint8)
	var pal color.Palette
	var opaque []Color
	exact := true
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := gifColor(colorAt(img, x, y))
			flat.SetNRGBA(x, y, c.NRGBA())
			if c != Transparent {
				opaque = append(opaque, c)
			}
			if _, ok := index[c]; ok || !exact {
				continue
			}
			if len(pal) == 256 {
				exact = false
				continue
			}
			index[c] = uint8(len(pal))
			pal = append(pal, c.NRGBA())
		}
	}
	if len(pal) == 0 {
		pal = color.Palette{Transparent.NRGBA()}
	}
	if exact {
		p := image.NewPaletted(b, pal)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p.SetColorIndex(x, y, index[colorAt(flat, x, y)])
			}
		}
		return p
	}

	// Transparent pixels stay out of the quantizer so no entry mixes alpha.
	strip := image.NewNRGBA(image.Rect(0, 0, len(opaque), 1))
	for i, c := range opaque {
		strip.SetNRGBA(i, 0, c.NRGBA())
	}
	q := quantize.MedianCutQuantizer{}
	pal = q.Quantize(append(make(color.Palette, 0, 256), Transparent.NRGBA()), strip)
	p := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(p, b, flat, b.Min)
	return p
}

func colorAt(img *image.NRGBA, x, y int) Color {
	c := img.NRGBAAt(x, y)
	return Color{c.R, c.G, c.B, c.A}
}

// flattenGIF rebuilds the full canvas of every frame of an animated GIF.
// Frames may cover only part of the canvas and rely on the disposal method of
// the frame before them, so each one is drawn over what the previous frame
// left behind.
func flattenGIF(g *gif.GIF) []*image.NRGBA {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, frame := range g.Image {
			bounds = bounds.Union(frame.Bounds())
		}
	}
	screen := image.NewNRGBA(bounds)
	var previous *image.NRGBA
	frames := make([]*image.NRGBA, 0, len(g.Image))

	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		// Dispose previous means draw then undo.
		if disposal == gif.DisposalPrevious {
			previous = image.NewNRGBA(screen.Bounds())
			copy(previous.Pix, screen.Pix)
		}
		drawFrame(screen, frame)

		out := image.NewNRGBA(screen.Bounds())
		copy(out.Pix, screen.Pix)
		frames = append(frames, out)

		switch disposal {
		case gif.DisposalPrevious:
			screen = previous
		// Dispose background clears everything the frame just drew.
		case gif.DisposalBackground:
			clearRect(screen, frame.Bounds())
		}
	}
	return frames
}

// drawFrame paints the non-transparent pixels of source onto target.
func drawFrame(target *image.NRGBA, source image.Image) {
	bounds := source.Bounds().Intersect(target.Bounds())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := source.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			target.Set(x, y, c)
		}
	}
}

func clearRect(img *image.NRGBA, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		clear(img.Pix[off : off+r.Dx()*4])
	}
}
