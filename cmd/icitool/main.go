package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	icitools "github.com/emmabritton/ici-tools"
	"github.com/emmabritton/ici-tools/swatch"
	"github.com/emmabritton/ici-tools/viewer"
	"github.com/urfave/cli/v2"
)

const defaultDB = "palettes.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type closer func()

// newTool opens the palette database, creating it when create is set. If
// the database doesn't exist and create isn't set the tool has no database.
func newTool(c *cli.Context, create bool) (*icitools.Tool, closer, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}

	file := c.String("db")
	if !create {
		if _, err := os.Stat(file); err != nil {
			return icitools.New(nil, logger), func() {}, nil
		}
	}

	db, err := icitools.NewPaletteDB(file)
	if err != nil {
		return nil, nil, err
	}

	return icitools.New(db, logger), func() { db.Close() }, nil
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		return cli.Exit(fmt.Sprintf("%s: expected %s", c.Command.HelpName, c.Command.ArgsUsage), 1)
	}
	return nil
}

func title(file string) string {
	base := filepath.Base(file)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return "Image"
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "icitool"
	app.Usage = "Convert images to ICI and manage ICI/ICA palettes"
	app.Version = "1.0.0"

	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output `FILE`, defaults to the input with a new extension",
	}
	paletteFlag := &cli.StringFlag{
		Name:    "palette",
		Aliases: []string{"p"},
		Usage:   "replacement palette from a swatch, ICI or ICA `FILE`",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ICITOOL_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to palette database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert a PNG, BMP, TIFF, TGA, JPEG or WebP image to ICI",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.StringFlag{
					Name:  "palette-name",
					Usage: "store the palette in the database as `NAME` and reference it",
				},
			},
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				t, done, err := newTool(c, c.String("palette-name") != "")
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if _, err := t.Convert(c.Args().First(), c.String("output"), c.String("palette-name")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "png",
			Usage:     "Convert an ICI or ICA image to PNG",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag,
				paletteFlag,
				&cli.IntFlag{
					Name:  "frame",
					Usage: "animation frame `N` to write",
				},
			},
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				t, done, err := newTool(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if _, err := t.ToPNG(c.Args().First(), c.String("palette"), c.String("output"), c.Int("frame")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "view",
			Usage:     "Display an ICI or ICA image, press Escape to close",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				paletteFlag,
				&cli.IntFlag{
					Name:  "scale",
					Value: 4,
					Usage: "window scale `FACTOR`",
				},
			},
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, 1); err != nil {
					return err
				}

				t, done, err := newTool(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				m, err := t.Open(c.Args().First(), c.String("palette"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := viewer.Run(m, title(c.Args().First()), c.Int("scale")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "palette",
			Usage: "Manage palettes",
			Subcommands: []*cli.Command{
				{
					Name:      "extract",
					Usage:     "Write the palette of an ICI or ICA image to a swatch file",
					ArgsUsage: "FILE",
					Flags:     []cli.Flag{outputFlag},
					Action: func(c *cli.Context) error {
						if err := requireArgs(c, 1); err != nil {
							return err
						}

						t, done, err := newTool(c, false)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer done()

						if _, err := t.ExtractPalette(c.Args().First(), c.String("output")); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
				{
					Name:      "set",
					Usage:     "Replace the palette of ICI or ICA images",
					ArgsUsage: "SOURCE TARGET...",
					Action: func(c *cli.Context) error {
						if err := requireArgs(c, 2); err != nil {
							return err
						}

						t, done, err := newTool(c, false)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer done()

						outcomes, err := t.SetPalette(c.Args().First(), c.Args().Tail())
						if err != nil {
							return cli.Exit(err, 1)
						}

						failed := 0
						for _, o := range outcomes {
							if o.Err != nil {
								fmt.Fprintf(c.App.ErrWriter, "Error for %s: %s\n", o.File, o.Err)
								failed++
							}
						}
						if failed == len(outcomes) {
							return cli.Exit(errors.New("no palettes were set"), 1)
						}

						return nil
					},
				},
				{
					Name:      "add",
					Usage:     "Store a palette in the database",
					ArgsUsage: "NAME FILE",
					Action: func(c *cli.Context) error {
						if err := requireArgs(c, 2); err != nil {
							return err
						}

						t, done, err := newTool(c, true)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer done()

						id, err := t.StorePalette(c.Args().Get(0), c.Args().Get(1))
						if err != nil {
							return cli.Exit(err, 1)
						}
						fmt.Fprintln(c.App.Writer, id)

						return nil
					},
				},
				{
					Name:  "list",
					Usage: "List the palettes in the database",
					Action: func(c *cli.Context) error {
						t, done, err := newTool(c, true)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer done()

						palettes, err := t.Palettes()
						if err != nil {
							return cli.Exit(err, 1)
						}
						for _, sp := range palettes {
							colors := make([]string, len(sp.Palette))
							for i, col := range sp.Palette {
								colors[i] = swatch.Hex(col)
							}
							fmt.Fprintf(c.App.Writer, "%d\t%s\t%d\t%s\n", sp.ID, sp.Name, len(sp.Palette), strings.Join(colors, " "))
						}

						return nil
					},
				},
			},
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
