package babatext_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/babatext"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "babatext-config")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	write := func(content string) string {
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	It("has valid defaults", func() {
		cfg := babatext.DefaultConfig()
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.FrameDelay()).To(Equal(25))
		Expect(cfg.Palette).To(HaveLen(18))
		Expect(cfg.Bot.SayTimeout).To(Equal(10 * time.Second))
	})

	It("returns the defaults without a file", func() {
		cfg, err := babatext.LoadConfig("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(babatext.DefaultConfig()))
	})

	It("overlays a yaml file", func() {
		cfg, err := babatext.LoadConfig(write(`
resource_dir: /srv/sprites
fps: 10
mask_color: "#00ff00"
known_words:
  moon: yellow
  star: "#abcdef"
bot:
  say_timeout: 2s
  ascii_max_dimension: 32
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ResourceDir).To(Equal("/srv/sprites"))
		Expect(cfg.FrameDelay()).To(Equal(10))
		Expect(cfg.MaskColor).To(Equal(babatext.RGB(0, 255, 0)))
		Expect(cfg.Bot.SayTimeout).To(Equal(2 * time.Second))
		Expect(cfg.Bot.DrawTimeout).To(Equal(30 * time.Second))
		Expect(cfg.Bot.MaxDimension).To(Equal(32))
		Expect(babatext.WordColor(cfg, "moon")).To(Equal(babatext.RGB(255, 255, 60)))
		Expect(babatext.WordColor(cfg, "star")).To(Equal(babatext.RGB(0xab, 0xcd, 0xef)))
		Expect(babatext.WordColor(cfg, "baba")).To(Equal(babatext.RGB(255, 50, 120)))
	})

	It("rejects unknown colors", func() {
		_, err := babatext.LoadConfig(write("known_words:\n  moon: sparkly\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects unusable geometry", func() {
		_, err := babatext.LoadConfig(write("fps: 0\n"))
		Expect(err).To(HaveOccurred())
	})

	It("reports missing files", func() {
		_, err := babatext.LoadConfig(filepath.Join(dir, "absent.yaml"))
		Expect(err).To(HaveOccurred())
	})

	Describe("bot token", func() {
		const env = "BABATEXT_TEST_TOKEN"

		AfterEach(func() {
			os.Unsetenv(env)
		})

		It("reads the token from a json document", func() {
			os.Setenv(env, `{"BABATEXT_TEST_TOKEN": "s3cret"}`)
			token, err := babatext.BotToken(env)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(Equal("s3cret"))
		})

		It("explains how to set it", func() {
			_, err := babatext.BotToken(env)
			Expect(err).To(MatchError(ContainSubstring("yourtokengoeshere")))
		})

		It("rejects documents without the token", func() {
			os.Setenv(env, `{"OTHER": "x"}`)
			_, err := babatext.BotToken(env)
			Expect(err).To(HaveOccurred())
		})
	})
})
