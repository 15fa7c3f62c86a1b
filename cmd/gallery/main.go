package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/bodgit/gallery"
	"github.com/bodgit/gallery/effect"
	"github.com/bodgit/gallery/task"
	"github.com/bodgit/gallery/view"
	"github.com/urfave/cli/v2"
)

const defaultDB = "gallery.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openGallery(c *cli.Context) (*gallery.Gallery, error) {
	return gallery.New(c.String("db"), c.String("library"), newLogger(c))
}

func photoID(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid photo identifier %q", c.Args().First())
	}
	return id, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "gallery"
	app.Usage = "Photo gallery management utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GALLERY_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "library",
			EnvVars: []string{"GALLERY_LIBRARY"},
			Value:   cwd,
			Usage:   "path to photo library",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "scan",
			Usage:       "Scan the photo library and update the metadata cache",
			Description: "",
			Action: func(c *cli.Context) error {
				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				ctx, cancel := signalContext()
				defer cancel()

				if err := g.Scan(ctx); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List photos in the metadata cache",
			Description: "",
			Action: func(c *cli.Context) error {
				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				photos, err := g.Photos()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, p := range photos {
					fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", p.ID, p.Name, p.URI)
				}

				return nil
			},
		},
		{
			Name:        "edit",
			Usage:       "Apply an effect to a photo and save the result",
			Description: "",
			ArgsUsage:   "ID",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "effect",
					Aliases:  []string{"e"},
					Usage:    "effect to apply (greyscale, invert)",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "replace",
					Usage: "replace the original photo rather than saving a new one",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				id, err := photoID(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				e, err := effect.ParseEffect(c.String("effect"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				ctx, cancel := signalContext()
				defer cancel()

				loop := task.NewLoop(1)

				var result error
				t := g.EditAsync(ctx, loop, id, e, func(m image.Image, err error) {
					defer loop.Close()
					if err != nil {
						result = err
						return
					}

					var p *gallery.Photo
					if c.Bool("replace") {
						p, err = g.Replace(id, m)
					} else {
						p, err = g.Save(m)
					}
					if err != nil {
						result = err
						return
					}

					fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", p.ID, p.Name, p.URI)
				})
				defer t.Wait()

				if err := loop.Run(ctx); err != nil {
					t.Cancel()
					return cli.Exit(err, 1)
				}

				if result != nil {
					return cli.Exit(result, 1)
				}

				return nil
			},
		},
		{
			Name:        "delete",
			Usage:       "Delete a photo from the library",
			Description: "",
			ArgsUsage:   "ID",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				id, err := photoID(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				if err := g.Delete(id); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "thumbnail",
			Usage:       "Write the thumbnail of a photo",
			Description: "",
			ArgsUsage:   "ID FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				id, err := photoID(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				b, err := g.Thumbnail(id)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := ioutil.WriteFile(c.Args().Get(1), b, 0644); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "view",
			Usage:       "Render a photo as it appears in a viewport",
			Description: "Gestures are applied in order: --zoom toggles the zoom, each --drag pans while zoomed.",
			ArgsUsage:   "ID FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 1080,
					Usage: "viewport width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 1920,
					Usage: "viewport height",
				},
				&cli.BoolFlag{
					Name:  "zoom",
					Usage: "double tap to zoom",
				},
				&cli.StringSliceFlag{
					Name:  "drag",
					Usage: "drag gesture as x0,y0:x1,y1",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				id, err := photoID(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				var events []view.Event
				if c.Bool("zoom") {
					events = append(events, view.DoubleTap{})
				}
				for _, d := range c.StringSlice("drag") {
					e, err := parseDrag(d)
					if err != nil {
						return cli.Exit(err, 1)
					}
					events = append(events, e...)
				}

				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				m, err := g.Open(id)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w, h := c.Int("width"), c.Int("height")
				b := m.Bounds()

				vc := view.New()
				vc.LoadImage(view.Sz(float64(w), float64(h)), view.Sz(float64(b.Dx()), float64(b.Dy())))
				for _, e := range events {
					vc.Handle(e)
				}

				if err := writePNG(c.Args().Get(1), vc.RenderViewport(m, w, h, color.Black)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "reset",
			Usage:       "Empty the metadata cache",
			Description: "",
			Action: func(c *cli.Context) error {
				g, err := openGallery(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				if err := g.Reset(); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
