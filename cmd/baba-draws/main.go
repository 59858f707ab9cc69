package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/kevin-cantwell/babatext"
)

func main() {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "baba-draws"
	app.Usage = "Render a static image or video to a baba ascii art gif"
	app.UsageText = "baba-draws [options] INPUT OUTPUT\n\n" +
		"   INPUT can be an image (png, jpeg, bmp, webp, tiff), an animated gif\n" +
		"   or a motion-jpeg stream (.mjpeg, .mjpg)."
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "solid,s",
			Usage: "Make background solid instead of transparent",
		},
		cli.IntFlag{
			Name:  "pixels-per-character,ppc",
			Usage: "How many pixels to reduce to one ascii char, higher = less resolution",
			Value: 30,
		},
		cli.BoolFlag{
			Name:  "color,c",
			Usage: "Render in color instead of greyscale",
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "`FPS` of motion-jpeg input",
			Value: 10,
		},
		cli.Float64Flag{
			Name:  "gamma,g",
			Usage: "`GAMMA` = 1.0 gives the original image. GAMMA less than 1.0 darkens the image and GAMMA greater than 1.0 lightens it.",
			Value: 1.0,
		},
		cli.Float64Flag{
			Name:  "brightness,b",
			Usage: "`BRIGHTNESS` = 0 gives the original image. BRIGHTNESS = -100 gives solid black image. BRIGHTNESS = 100 gives solid white image.",
		},
		cli.Float64Flag{
			Name:  "contrast",
			Usage: "`CONTRAST` = 0 gives the original image. CONTRAST = -100 gives solid grey image. CONTRAST = 100 gives maximum contrast.",
		},
		cli.Float64Flag{
			Name:  "sharpen",
			Usage: "`SHARPEN` = 0 gives the original image. SHARPEN greater than 0 sharpens the image.",
		},
		cli.Float64Flag{
			Name:  "sigmoid-midpoint",
			Usage: "`MIDPOINT` of contrast that must be between 0 and 1.",
			Value: 0.5,
		},
		cli.Float64Flag{
			Name:  "sigmoid-factor",
			Usage: "`FACTOR` = 0 gives the original image. FACTOR greater than 0 increases contrast. FACTOR less than 0 decreases contrast.",
		},
		cli.BoolFlag{
			Name:  "invert,i",
			Usage: "Inverts the image.",
		},
		cli.StringFlag{
			Name:   "config",
			Usage:  "`FILE` with YAML overrides of the default configuration",
			EnvVar: "BABA_CONFIG",
		},
		cli.BoolFlag{
			Name:  "verbose,v",
			Usage: "Log rendering details to stderr",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cli.NewExitError(fmt.Sprintf("expected 2 arguments (input and output file), got %d", c.NArg()), 2)
		}
		if c.Bool("verbose") {
			babatext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		cfg, err := babatext.LoadConfig(c.String("config"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		assets, err := babatext.OpenAssets(cfg)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		src, err := readSource(c.Args().Get(0), c.Int("fps"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		opts := []babatext.Option{
			babatext.WithPixelsPerCharacter(c.Int("pixels-per-character")),
			babatext.WithAdjustments(adjustments(c)...),
		}
		if !c.Bool("color") {
			opts = append(opts, babatext.WithGreyscale())
		}
		if c.Bool("solid") {
			black, ok := cfg.Palette.Lookup("black")
			if !ok {
				black = babatext.Black
			}
			opts = append(opts, babatext.WithBackground(black))
		}
		art, err := babatext.NewASCIIArt(assets, src, opts...)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if err := art.WriteFile(c.Args().Get(1)); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func readSource(path string, fps int) (*babatext.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjpeg", ".mjpg":
		return babatext.DecodeMJPEG(f, fps)
	}
	return babatext.DecodeSource(f)
}

func adjustments(c *cli.Context) []babatext.Adjustment {
	var adjust []babatext.Adjustment
	if c.IsSet("gamma") {
		adjust = append(adjust, babatext.Gamma(c.Float64("gamma")))
	}
	if c.IsSet("brightness") {
		adjust = append(adjust, babatext.Brightness(c.Float64("brightness")))
	}
	if c.IsSet("sharpen") {
		adjust = append(adjust, babatext.Sharpen(c.Float64("sharpen")))
	}
	if c.IsSet("contrast") {
		adjust = append(adjust, babatext.Contrast(c.Float64("contrast")))
	}
	if c.IsSet("sigmoid-midpoint") || c.IsSet("sigmoid-factor") {
		adjust = append(adjust, babatext.Sigmoid(c.Float64("sigmoid-midpoint"), c.Float64("sigmoid-factor")))
	}
	if c.Bool("invert") {
		adjust = append(adjust, babatext.Invert())
	}
	return adjust
}
