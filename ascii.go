package babatext

import (
	"fmt"
	"image"
	"io"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ASCIIArt renders an image or animation as a grid of animated letters whose
// brightness follows the source.
type ASCIIArt struct {
	assets  *Assets
	opts    *options
	ramp    []rune
	samples []*image.NRGBA // one pixel per character cell
	delays  []int
	grid    image.Point
}

// NewASCIIArt samples every frame of src. Still images are repeated for the
// configured frame count at the configured fps; animations keep their own
// delays.
func NewASCIIArt(assets *Assets, src *Source, opts ...Option) (*ASCIIArt, error) {
	cfg := assets.Config()
	o := newOptions(cfg, opts)
	if o.pixelsPerCharacter <= 0 {
		return nil, fmt.Errorf("pixels per character must be positive, got %d", o.pixelsPerCharacter)
	}
	if len(src.Frames) == 0 {
		return nil, fmt.Errorf("source has no frames")
	}
	ramp := o.ramp
	if ramp == "" {
		var err error
		if ramp, err = assets.ColorRamp(); err != nil {
			return nil, fmt.Errorf("building color ramp: %w", err)
		}
	}

	bounds := src.Bounds()
	art := &ASCIIArt{
		assets: assets,
		opts:   o,
		ramp:   []rune(ramp),
		grid:   image.Pt(bounds.Dx()/o.pixelsPerCharacter, bounds.Dy()/o.pixelsPerCharacter),
	}
	if art.grid.X == 0 || art.grid.Y == 0 {
		return nil, ErrImageTooSmall
	}
	for _, f := range src.Frames {
		art.samples = append(art.samples, art.sample(f))
	}
	if src.Still() {
		still := art.samples[0]
		art.samples = art.samples[:0]
		for i := 0; i < cfg.FrameCount; i++ {
			art.samples = append(art.samples, still)
			art.delays = append(art.delays, cfg.FrameDelay())
		}
	} else {
		art.delays = append(art.delays, src.Delays...)
	}
	Logger().Debug("sampled ascii source",
		"frames", len(art.samples), "columns", art.grid.X, "rows", art.grid.Y, "ramp", len(art.ramp))
	return art, nil
}

// sample downsamples one frame to a single pixel per character cell.
func (a *ASCIIArt) sample(img image.Image) *image.NRGBA {
	img = applyAdjustments(img, a.opts.adjust)
	small := resize.Resize(uint(a.grid.X), uint(a.grid.Y), img, resize.NearestNeighbor)
	return imaging.Clone(small)
}

// Luminance weighs the channels the way the eye does: 0.21 R + 0.72 G +
// 0.07 B. Fully transparent pixels have no luminance.
func Luminance(c Color) float64 {
	if c.A == 0 {
		return 0
	}
	return 0.21*float64(c.R) + 0.72*float64(c.G) + 0.07*float64(c.B)
}

// RampIndex maps a luminance in [0, 255] onto a ramp of length n.
func RampIndex(luminance float64, n int) int {
	i := int(math.Ceil(float64(n-1) * luminance / 255))
	return min(max(i, 0), n-1)
}

// Size is the canvas size. Cells are square, one letter height per side, so
// the output keeps the aspect ratio of the sampled grid.
func (a *ASCIIArt) Size() image.Point {
	h := a.assets.Config().ASCII.LetterHeight
	return a.grid.Mul(h)
}

// Grid is the number of character columns and rows.
func (a *ASCIIArt) Grid() image.Point { return a.grid }

// Character returns the ramp character for the cell at x, y of frame i.
func (a *ASCIIArt) Character(i, x, y int) rune {
	c := colorAt(a.samples[i], x, y)
	return a.ramp[RampIndex(Luminance(c), len(a.ramp))]
}

// Frames renders every frame. One letter object per ramp character is reused
// for all cells showing that character; each cell keeps its own animation
// cursor.
func (a *ASCIIArt) Frames() ([]*image.NRGBA, error) {
	cfg := a.assets.Config()
	grey, err := cfg.ResolveColor(cfg.ASCII.GreyscaleColor)
	if err != nil {
		return nil, err
	}
	box := NewRect(0, 0, float64(cfg.ASCII.LetterWidth), float64(cfg.ASCII.LetterHeight))
	letters := make(map[rune]*Letter)
	for _, r := range a.ramp {
		if r == ' ' || letters[r] != nil {
			continue
		}
		l, err := NewLetter(a.assets, r, box, grey, a.opts.background, a.opts.rng)
		if err != nil {
			return nil, err
		}
		letters[r] = l
	}

	cursors := make([]int, a.grid.X*a.grid.Y)
	for i := range cursors {
		cursors[i] = a.intN(3)
	}

	cell := cfg.ASCII.LetterHeight
	frames := make([]*image.NRGBA, 0, len(a.samples))
	for i, sample := range a.samples {
		canvas := NewCanvas(a.Size(), a.opts.background)
		for y := 0; y < a.grid.Y; y++ {
			for x := 0; x < a.grid.X; x++ {
				r := a.Character(i, x, y)
				if r == ' ' {
					continue
				}
				l := letters[r]
				l.SetLocation(image.Pt(x*cell, y*cell))
				if !a.opts.greyscale {
					l.SetForeground(colorAt(sample, x, y))
				}
				c := y*a.grid.X + x
				cursors[c] = l.AdvanceFrom(cursors[c])
				l.Draw(canvas)
			}
		}
		frames = append(frames, canvas)
	}
	return frames, nil
}

func (a *ASCIIArt) intN(n int) int {
	if a.opts.rng == nil {
		return rand.IntN(n)
	}
	return a.opts.rng.IntN(n)
}

// Animation renders the frames with the source delays.
func (a *ASCIIArt) Animation() (*Animation, error) {
	frames, err := a.Frames()
	if err != nil {
		return nil, err
	}
	return &Animation{Frames: frames, Delays: a.delays, Background: a.opts.background}, nil
}

// Encode writes the looping GIF to w.
func (a *ASCIIArt) Encode(w io.Writer) error {
	anim, err := a.Animation()
	if err != nil {
		return err
	}
	return anim.Encode(w)
}

// WriteFile writes the looping GIF to path.
func (a *ASCIIArt) WriteFile(path string) error {
	return writeFile(path, a.Encode)
}
