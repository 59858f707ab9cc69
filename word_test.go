package babatext_test

import (
	"image"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/babatext"
)

var _ = Describe("FitLetters", func() {
	cell := babatext.NewRect(0, 0, 100, 100)

	It("centers a single letter at its largest size", func() {
		rects := babatext.FitLetters("a", cell, 55, 0.8)
		Expect(rects).To(HaveLen(1))
		Expect(rects[0]).To(Equal(babatext.NewRect(28, 22, 44, 55)))
	})

	It("centers a partial last row", func() {
		rects := babatext.FitLetters("abcde", cell, 55, 0.8)
		Expect(rects).To(Equal([]babatext.Rect{
			babatext.NewRect(12, 19, 25, 31),
			babatext.NewRect(37, 19, 25, 31),
			babatext.NewRect(62, 19, 25, 31),
			babatext.NewRect(24, 50, 25, 31),
			babatext.NewRect(49, 50, 25, 31),
		}))
	})

	It("offsets the grid by the box origin", func() {
		rects := babatext.FitLetters("a", babatext.NewRect(200, 300, 100, 100), 55, 0.8)
		Expect(rects[0]).To(Equal(babatext.NewRect(228, 322, 44, 55)))
	})

	It("packs any word length inside the box without overlap", func() {
		for n := 1; n <= 60; n++ {
			word := strings.Repeat("x", n)
			rects := babatext.FitLetters(word, cell, 55, 0.8)
			Expect(rects).To(HaveLen(n), word)
			for i, r := range rects {
				Expect(r.Bounds().In(cell.Bounds())).To(BeTrue(), "%d letters, letter %d", n, i)
				Expect(r.Height()).To(BeNumerically("<=", 55))
				for _, other := range rects[i+1:] {
					Expect(r.Bounds().Overlaps(other.Bounds())).To(BeFalse(), "%d letters", n)
				}
			}
		}
	})

	It("shrinks letters of longer words", func() {
		four := babatext.FitLetters("abcd", cell, 55, 0.8)
		five := babatext.FitLetters("abcde", cell, 55, 0.8)
		Expect(five[0].Height()).To(BeNumerically("<", four[0].Height()))
	})
})

var _ = Describe("Word", func() {
	var (
		assets *babatext.Assets
		red    = babatext.RGB(255, 50, 120)
	)

	BeforeEach(func() {
		assets = newAssets()
	})

	It("creates one letter per character", func() {
		w, err := babatext.NewWord(assets, "baba", babatext.NewRect(0, 0, 100, 100), red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Text()).To(Equal("baba"))
		Expect(w.Letters()).To(HaveLen(4))
		Expect(w.Letters()[0].Glyph()).To(Equal('b'))
		Expect(w.Letters()[0].Name()).To(Equal("B"))
	})

	It("draws the plate under the letters", func() {
		w, err := babatext.NewWord(assets, "a", babatext.NewRect(0, 0, 100, 100), babatext.White, red, seeded())
		Expect(err).NotTo(HaveOccurred())
		canvas := babatext.NewCanvas(image.Pt(100, 100), babatext.Black)
		w.Draw(canvas)

		// The tile is inked on its top half, the letter sits at (28,22).
		Expect(canvas.NRGBAAt(0, 0)).To(Equal(red.NRGBA()))
		Expect(canvas.NRGBAAt(0, 99)).To(Equal(babatext.Transparent.NRGBA()))
		Expect(canvas.NRGBAAt(28, 22)).To(Equal(babatext.White.NRGBA()))
		Expect(canvas.NRGBAAt(71, 76)).To(Equal(red.NRGBA()))
	})

	It("moves letters with the tile", func() {
		w, err := babatext.NewWord(assets, "ab", babatext.NewRect(0, 0, 100, 100), red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		before := []image.Point{w.Letters()[0].Location(), w.Letters()[1].Location()}
		w.SetLocation(image.Pt(100, 200))
		Expect(w.Box().Left()).To(Equal(100))
		Expect(w.Box().Top()).To(Equal(200))
		Expect(w.Letters()[0].Location()).To(Equal(before[0].Add(image.Pt(100, 200))))
		Expect(w.Letters()[1].Location()).To(Equal(before[1].Add(image.Pt(100, 200))))
	})

	It("rejects unknown characters", func() {
		_, err := babatext.NewWord(assets, "a?", babatext.NewRect(0, 0, 100, 100), red, babatext.Transparent, nil)
		Expect(err).To(MatchError(babatext.ErrInvalidCharacter))
		Expect(err).To(MatchError(babatext.ErrAssetMissing))
	})
})
