package babatext

import (
	"image"
	"math"
	"math/rand/v2"
	"unicode/utf8"
)

// Word is a background tile with a grid of letters packed inside it. The tile
// and every letter animate independently.
type Word struct {
	text    string
	tile    *Object
	letters []*Letter
}

// NewWord lays out text inside box. Letters are painted fg on bg, and the tile
// takes bg as its foreground so letters sit on a solid plate.
func NewWord(assets *Assets, text string, box Rect, fg, bg Color, rng *rand.Rand) (*Word, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	cfg := assets.Config()
	boxes := FitLetters(text, box, cfg.MaxLetterHeight, cfg.LetterRatio)
	w := &Word{text: text, letters: make([]*Letter, 0, len(boxes))}
	i := 0
	for _, r := range text {
		l, err := NewLetter(assets, r, boxes[i], fg, bg, rng)
		if err != nil {
			return nil, err
		}
		w.letters = append(w.letters, l)
		i++
	}
	tile, err := NewObject(assets, cfg.BackgroundSprite, box, bg, cfg.TileBackground, rng)
	if err != nil {
		return nil, err
	}
	w.tile = tile
	return w, nil
}

func (w *Word) Text() string       { return w.text }
func (w *Word) Box() Rect          { return w.tile.Box() }
func (w *Word) Letters() []*Letter { return w.letters }

// Draw paints the tile first and the letters over it.
func (w *Word) Draw(dst *image.NRGBA) {
	w.tile.Draw(dst)
	for _, l := range w.letters {
		l.Draw(dst)
	}
}

// Advance steps the tile and every letter. It returns the tile's cursor.
func (w *Word) Advance() int {
	c := w.tile.Advance()
	for _, l := range w.letters {
		l.Advance()
	}
	return c
}

func (w *Word) SetForeground(c Color) {
	for _, l := range w.letters {
		l.SetForeground(c)
	}
}

func (w *Word) SetBackground(c Color) {
	w.tile.SetForeground(c)
	for _, l := range w.letters {
		l.SetBackground(c)
	}
}

// SetLocation moves the tile and shifts every letter by the same amount.
func (w *Word) SetLocation(p image.Point) {
	delta := p.Sub(w.tile.Location())
	w.tile.SetLocation(p)
	for _, l := range w.letters {
		l.SetLocation(l.Location().Add(delta))
	}
}

// letterScale shrinks letters of longer words so they match the density of
// the game's own text tiles.
func letterScale(n int) float64 {
	if n <= 4 {
		return 1.0
	}
	return 0.75
}

// FitLetters packs one rectangle per character of word into box on a
// near-square grid: floor(sqrt(n)) rows of ceil(n/rows) columns. Letters keep
// the width:height ratio and never exceed maxHeight. The grid is centered in
// box, and a partial last row is centered on its own.
//
// Letter sizes are snapped to whole pixels before placement so rectangles never
// overlap. FitLetters panics with a *LayoutError if the grid does not fit.
func FitLetters(word string, box Rect, maxHeight, ratio float64) []Rect {
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return nil
	}
	rows := int(math.Floor(math.Sqrt(float64(n))))
	cols := int(math.Ceil(float64(n) / float64(rows)))
	scale := letterScale(n)

	wantHeight := math.Min(float64(box.Height())/float64(rows)*scale, maxHeight)
	wantWidth := math.Min(float64(box.Width())/float64(cols)*scale, maxHeight*ratio)

	var height, width float64
	if wantHeight > wantWidth*(1/ratio) {
		height = wantWidth * (1 / ratio)
		width = wantWidth
	} else {
		height = wantHeight
		width = height * ratio
	}
	// Whole-pixel letters shift positions by up to two pixels from a layout
	// computed in floats, e.g. the second row of five letters starts at 49,
	// not 50. In exchange the rectangles tile without overlap.
	lw := int(math.Floor(width + 1e-9))
	lh := int(math.Floor(height + 1e-9))

	spareX := box.Width() - cols*lw
	spareY := box.Height() - rows*lh
	if spareX < 0 || spareY < 0 {
		panic(&LayoutError{Word: word, OffsetX: spareX / 2, OffsetY: spareY / 2})
	}
	originX := box.Left() + spareX/2
	originY := box.Top() + spareY/2

	rects := make([]Rect, 0, n)
	place := func(x, row int) {
		rects = append(rects, NewRect(float64(x), float64(originY+row*lh), float64(lw), float64(lh)))
	}
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols; col++ {
			place(originX+col*lw, row)
		}
	}
	remaining := n - (rows-1)*cols
	shift := (cols - remaining) * lw / 2
	for col := 0; col < remaining; col++ {
		place(originX+shift+col*lw, rows-1)
	}
	return rects
}
