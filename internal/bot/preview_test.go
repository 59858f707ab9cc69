package bot_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/babatext/internal/bot"
)

var _ = Describe("Previews", func() {
	It("hands out a stored preview once", func() {
		p := bot.NewPreviews[string](time.Minute)
		p.Put("k", "gif")
		v, ok := p.Take("k")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("gif"))
		_, ok = p.Take("k")
		Expect(ok).To(BeFalse())
	})

	It("forgets previews after their expiry", func() {
		p := bot.NewPreviews[string](10 * time.Millisecond)
		p.Put("k", "gif")
		Eventually(func() bool {
			_, ok := p.Take("k")
			return ok
		}).Should(BeFalse())
	})

	It("keeps a replaced preview alive past the first timer", func() {
		p := bot.NewPreviews[int](200 * time.Millisecond)
		p.Put("k", 1)
		time.Sleep(120 * time.Millisecond)
		p.Put("k", 2)
		time.Sleep(120 * time.Millisecond)
		v, ok := p.Take("k")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(2))
	})

	DescribeTable("button answers",
		func(accept, held bool, want string) {
			Expect(bot.Answer(accept, held)).To(Equal(want))
		},
		Entry("posted", true, true, bot.MsgSent),
		Entry("declined", false, true, bot.MsgNotSent),
		Entry("accepted after expiry", true, false, bot.MsgExpired),
		Entry("declined after expiry", false, false, bot.MsgExpired),
	)
})
