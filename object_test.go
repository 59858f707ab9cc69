package babatext_test

import (
	"errors"
	"image"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/babatext"
)

var _ = Describe("Object", func() {
	var (
		assets *babatext.Assets
		red    = babatext.RGB(255, 50, 120)
		box    = babatext.NewRect(5, 10, 20, 20)
	)

	BeforeEach(func() {
		assets = newAssets()
	})

	It("fails without sprites", func() {
		_, err := babatext.NewObject(assets, "missing", box, red, babatext.Transparent, nil)
		var missing *babatext.AssetMissingError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Name).To(Equal("missing"))
	})

	It("never shows the same frame twice in a row with three or more frames", func() {
		obj, err := babatext.NewObject(assets, "A", box, red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.FrameCount()).To(Equal(3))
		previous := obj.Cursor()
		for i := 0; i < 500; i++ {
			next := obj.Advance()
			Expect(next).NotTo(Equal(previous))
			Expect(next).To(BeNumerically(">=", 0))
			Expect(next).To(BeNumerically("<", 3))
			previous = next
		}
	})

	It("alternates with two frames", func() {
		obj, err := babatext.NewObject(assets, "two", box, red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.Advance()).To(Equal(1))
		Expect(obj.Advance()).To(Equal(0))
		Expect(obj.Advance()).To(Equal(1))
	})

	It("advances from a caller supplied cursor", func() {
		obj, err := babatext.NewObject(assets, "two", box, red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.AdvanceFrom(2)).To(Equal(1))
		Expect(obj.Cursor()).To(Equal(1))
	})

	It("draws at its box", func() {
		obj, err := babatext.NewObject(assets, "A", box, red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		canvas := babatext.NewCanvas(image.Pt(40, 40), babatext.Black)
		obj.Draw(canvas)

		// The first fixture pixel is inked, the last one is mask.
		Expect(canvas.NRGBAAt(5, 10)).To(Equal(red.NRGBA()))
		Expect(canvas.NRGBAAt(24, 29)).To(Equal(babatext.Transparent.NRGBA()))
		Expect(canvas.NRGBAAt(4, 10)).To(Equal(babatext.Black.NRGBA()))
		Expect(canvas.NRGBAAt(25, 29)).To(Equal(babatext.Black.NRGBA()))
	})

	It("moves and recolors without reloading", func() {
		obj, err := babatext.NewObject(assets, "A", box, red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		obj.SetLocation(image.Pt(0, 0))
		obj.SetForeground(babatext.White)
		obj.SetBackground(babatext.Black)
		Expect(obj.Location()).To(Equal(image.Pt(0, 0)))
		Expect(obj.Foreground()).To(Equal(babatext.White))

		canvas := babatext.NewCanvas(image.Pt(40, 40), babatext.Transparent)
		obj.Draw(canvas)
		Expect(canvas.NRGBAAt(0, 0)).To(Equal(babatext.White.NRGBA()))
		Expect(canvas.NRGBAAt(19, 19)).To(Equal(babatext.Black.NRGBA()))
		Expect(canvas.NRGBAAt(20, 20)).To(Equal(babatext.Transparent.NRGBA()))
	})

	It("clips drawing at the canvas edge", func() {
		obj, err := babatext.NewObject(assets, "A", box, red, babatext.Transparent, seeded())
		Expect(err).NotTo(HaveOccurred())
		canvas := babatext.NewCanvas(image.Pt(10, 15), babatext.Black)
		Expect(func() { obj.Draw(canvas) }).NotTo(Panic())
		Expect(canvas.NRGBAAt(5, 10)).To(Equal(red.NRGBA()))
	})
})
