package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/kevin-cantwell/babatext"
)

func main() {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "baba-says"
	app.Usage = "Render a sentence as a baba text style gif."
	app.UsageText = "baba-says [options] TEXT OUTPUT\n\n" +
		"   Use an uppercase first letter to denote adjectives.\n" +
		`   Use \n and \t for text layout.`
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "solid,s",
			Usage: "Make background solid instead of transparent",
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
			return cli.NewExitError(fmt.Sprintf("expected 2 arguments (input text and output file), got %d", c.NArg()), 2)
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

		background := babatext.Transparent
		if c.Bool("solid") {
			background, _ = cfg.Palette.Lookup("black")
			if !background.Opaque() {
				background = babatext.Black
			}
		}
		input := strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(c.Args().Get(0))
		text, err := babatext.NewText(assets, input, babatext.WithBackground(background))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if err := text.WriteFile(c.Args().Get(1)); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
