package babatext_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/babatext"
)

var _ = Describe("Text", func() {
	var (
		assets *babatext.Assets
		cfg    *babatext.Config
	)

	BeforeEach(func() {
		assets = newAssets()
		cfg = assets.Config()
	})

	Describe("layout", func() {
		const input = "\nA B C\nD E \n F \n\n X\nY\n"

		It("tokenizes control characters on their own", func() {
			Expect(babatext.Tokenize(input)).To(Equal([]string{
				"\n", "A", "B", "C", "\n", "D", "E", "\n", "F", "\n", "\n", "X", "\n", "Y", "\n",
			}))
			Expect(babatext.Tokenize("a\tb")).To(Equal([]string{"a", "\t", "b"}))
		})

		It("places words on a grid of cells", func() {
			boxes := babatext.Layout(babatext.Tokenize(input), 100)
			var corners []image.Point
			for _, b := range boxes {
				Expect(b.Size()).To(Equal(image.Pt(100, 100)))
				corners = append(corners, image.Pt(b.Left(), b.Top()))
			}
			Expect(corners).To(Equal([]image.Point{
				{0, 100}, {100, 100}, {200, 100},
				{0, 200}, {100, 200},
				{0, 300},
				{0, 500},
				{0, 600},
			}))
			Expect(babatext.Union(boxes)).To(Equal(image.Pt(300, 700)))
		})

		It("leaves a cell empty for a tab", func() {
			boxes := babatext.Layout(babatext.Tokenize("a\tb"), 100)
			Expect(boxes).To(HaveLen(2))
			Expect(boxes[1].Left()).To(Equal(200))
		})

		It("sizes the canvas to the words", func() {
			t, err := babatext.NewText(assets, input, babatext.WithRand(seeded()))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Size()).To(Equal(image.Pt(300, 700)))
			Expect(t.Words()).To(HaveLen(8))
		})
	})

	DescribeTable("word colors",
		func(word string, fg, bg babatext.Color) {
			gotFg, gotBg := babatext.WordColors(cfg, word, babatext.Transparent)
			Expect(gotFg).To(Equal(fg))
			Expect(gotBg).To(Equal(bg))
		},
		Entry("known word", "baba", babatext.RGB(255, 50, 120), babatext.Transparent),
		Entry("capitalized known word is inverted", "You", babatext.Transparent, babatext.RGB(255, 50, 120)),
		Entry("literal color", "is", babatext.White, babatext.Transparent),
		Entry("hashed into the palette", "foo", babatext.RGB(128, 128, 128), babatext.Transparent),
		Entry("known words win over the hash", "rock", babatext.RGB(150, 100, 70), babatext.Transparent),
	)

	It("hashes by summing character codes", func() {
		Expect(babatext.WordHash("foo")).To(Equal(324))
		Expect(babatext.WordHash("")).To(Equal(0))
	})

	It("rejects text without words", func() {
		_, err := babatext.NewText(assets, "")
		Expect(err).To(MatchError(babatext.ErrEmptyText))
		_, err = babatext.NewText(assets, "\n\t ")
		Expect(err).To(MatchError(babatext.ErrEmptyText))
	})

	It("rejects characters without sprites", func() {
		_, err := babatext.NewText(assets, "baba is €")
		Expect(err).To(MatchError(babatext.ErrInvalidCharacter))
		Expect(err).To(MatchError(babatext.ErrAssetMissing))
	})

	Describe("encoding", func() {
		decode := func(t *babatext.Text) *gif.GIF {
			var buf bytes.Buffer
			Expect(t.Encode(&buf)).To(Succeed())
			g, err := gif.DecodeAll(&buf)
			Expect(err).NotTo(HaveOccurred())
			return g
		}

		It("writes a looping animation", func() {
			t, err := babatext.NewText(assets, "baba", babatext.WithRand(seeded()))
			Expect(err).NotTo(HaveOccurred())
			g := decode(t)
			Expect(g.Image).To(HaveLen(cfg.FrameCount))
			Expect(g.Config.Width).To(Equal(100))
			Expect(g.Config.Height).To(Equal(100))
			Expect(g.LoopCount).To(Equal(0))
			for i := range g.Image {
				Expect(g.Delay[i]).To(Equal(25))
				Expect(g.Disposal[i]).To(Equal(byte(gif.DisposalPrevious)))
			}
		})

		It("restores to the background when it is opaque", func() {
			t, err := babatext.NewText(assets, "baba\tbaba", babatext.WithRand(seeded()), babatext.WithBackground(babatext.Black))
			Expect(err).NotTo(HaveOccurred())
			g := decode(t)
			Expect(g.Disposal[0]).To(Equal(byte(gif.DisposalBackground)))

			// The skipped cell shows the canvas.
			r, gr, b, a := g.Image[0].At(150, 50).RGBA()
			Expect([]uint32{r, gr, b, a}).To(Equal([]uint32{0, 0, 0, 0xffff}))
		})

		It("keeps transparent pixels transparent", func() {
			t, err := babatext.NewText(assets, "baba", babatext.WithRand(seeded()))
			Expect(err).NotTo(HaveOccurred())
			g := decode(t)
			_, _, _, a := g.Image[0].At(99, 99).RGBA()
			Expect(a).To(BeZero())
		})

		It("writes files", func() {
			dir, err := os.MkdirTemp("", "babatext")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)

			t, err := babatext.NewText(assets, "keke is You", babatext.WithRand(seeded()))
			Expect(err).NotTo(HaveOccurred())
			path := filepath.Join(dir, "out.gif")
			Expect(t.WriteFile(path)).To(Succeed())

			f, err := os.Open(path)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			conf, err := gif.DecodeConfig(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(conf.Width).To(Equal(300))
			Expect(conf.Height).To(Equal(100))
		})
	})
})

var _ = Describe("Animation", func() {
	It("encodes a single frame", func() {
		frame := babatext.NewCanvas(image.Pt(3, 2), babatext.RGB(1, 2, 3))
		a := &babatext.Animation{Frames: []*image.NRGBA{frame}, Delays: []int{7}, Background: babatext.RGB(1, 2, 3)}
		var buf bytes.Buffer
		Expect(a.Encode(&buf)).To(Succeed())
		g, err := gif.DecodeAll(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Image).To(HaveLen(1))
		Expect(g.Delay).To(Equal([]int{7}))
		r, gr, b, _ := g.Image[0].At(2, 1).RGBA()
		Expect([]uint32{r >> 8, gr >> 8, b >> 8}).To(Equal([]uint32{1, 2, 3}))
	})

	It("keeps the colors of frames with more than 256 of them", func() {
		frame := image.NewNRGBA(image.Rect(0, 0, 40, 40))
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				frame.Set(x, y, babatext.RGB(uint8(x*6), uint8(y*6), uint8((x+y)*3)))
			}
		}
		frame.Set(0, 0, babatext.Transparent)
		a := &babatext.Animation{Frames: []*image.NRGBA{frame}, Delays: []int{25}}
		var buf bytes.Buffer
		Expect(a.Encode(&buf)).To(Succeed())
		g, err := gif.DecodeAll(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(g.Image[0].Palette)).To(BeNumerically("<=", 256))

		_, _, _, alpha := g.Image[0].At(0, 0).RGBA()
		Expect(alpha).To(BeZero())

		seen := map[color.Color]bool{}
		var drift float64
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				got := color.NRGBAModel.Convert(g.Image[0].At(x, y)).(color.NRGBA)
				seen[got] = true
				if x == 0 && y == 0 {
					continue
				}
				want := frame.NRGBAAt(x, y)
				drift += math.Abs(float64(got.R)-float64(want.R)) +
					math.Abs(float64(got.G)-float64(want.G)) +
					math.Abs(float64(got.B)-float64(want.B))
			}
		}
		Expect(len(seen)).To(BeNumerically(">", 100))
		Expect(drift / (3 * (40*40 - 1))).To(BeNumerically("<", 10))
	})

	It("refuses inconsistent input", func() {
		Expect((&babatext.Animation{}).Encode(&bytes.Buffer{})).NotTo(Succeed())
		frame := babatext.NewCanvas(image.Pt(1, 1), babatext.Black)
		a := &babatext.Animation{Frames: []*image.NRGBA{frame}}
		Expect(a.Encode(&bytes.Buffer{})).NotTo(Succeed())
	})
})
