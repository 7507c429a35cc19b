package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"os"
	"strings"
	"time"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
	"github.com/ironsheep/hextech-overlay/internal/capture"
	"github.com/ironsheep/hextech-overlay/internal/config"
	"github.com/ironsheep/hextech-overlay/internal/dataset"
	"github.com/ironsheep/hextech-overlay/internal/imaging"
	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/ocr"
	"github.com/ironsheep/hextech-overlay/internal/overlay"
)

func inspectCmd(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	src := fs.String("image", "", "screenshot to analyze (required)")
	hero := fs.String("hero", "", "hero name or alias (required)")
	origin := fs.String("origin", "", "screen position x,y of the screenshot's top-left pixel")
	frame := fs.String("frame", "", "also render the overlay frame to this PNG")

	cfg, err := setup(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *src == "" || *hero == "" {
		fmt.Fprintln(os.Stderr, "inspect needs -image and -hero")
		return 2
	}
	if err := inspect(cfg, *src, *hero, *origin, *frame); err != nil {
		logger.Named("main").Error().Err(err).Msg("inspect failed")
		return 1
	}
	return 0
}

func inspect(cfg *config.Config, src, query, originFlag, framePath string) error {
	origin, err := parsePoint(originFlag)
	if err != nil {
		return err
	}
	idx, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	hero, err := resolveHero(idx, query)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	an := analyzer.New(analyzer.Options{
		Regions:   regions(cfg),
		Heroes:    idx.Heroes(),
		Capture:   capture.FileFactory(src, origin, cache),
		Recognize: ocr.TesseractFactory(ocrOptions(cfg)),
		Scale:     cfg.Capture.Scale,
		Contrast:  cfg.Capture.Contrast,
		Logger:    logger.Named("analyzer"),
	})
	defer an.Close()

	results, err := an.Analyze(context.Background(), hero)
	if err != nil {
		return err
	}

	fmt.Printf("hero: %s\n", hero)
	for _, r := range an.Regions() {
		res := results[r.Key]
		mark := ""
		if res.IsBest {
			mark = "  <- best"
		}
		fmt.Printf("%-8s %-24q %s%s\n", r.Key, res.Recognized, oneLine(res.Label()), mark)
	}

	if framePath == "" {
		return nil
	}
	return renderFrame(cfg, cache, src, an.Regions(), results, origin, framePath)
}

// resolveHero accepts a hero key directly, or a query that resolves to a
// single hero.
func resolveHero(idx *dataset.Index, query string) (string, error) {
	if hero, ok := idx.Canonical(query); ok {
		return hero, nil
	}
	candidates, _ := idx.Search(query)
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no hero matches %q", query)
	case 1:
		if hero, ok := idx.Canonical(candidates[0]); ok {
			return hero, nil
		}
		return "", fmt.Errorf("no data for hero %q", candidates[0])
	default:
		return "", fmt.Errorf("%q matches several heroes: %v", query, candidates)
	}
}

// renderFrame paints the results the way the live overlay would and
// composites the frame over the screenshot.
func renderFrame(cfg *config.Config, cache *imaging.ImageCache, src string, regs []analyzer.Region, results analyzer.Results, origin image.Point, path string) error {
	shot, err := cache.Load(src)
	if err != nil {
		return err
	}
	palette, err := overlay.ParsePalette(cfg.Overlay.Palette.Normal, cfg.Overlay.Palette.Best, cfg.Overlay.Palette.Status, cfg.Overlay.Palette.Error)
	if err != nil {
		return err
	}

	canvas := &overlay.Canvas{}
	r := overlay.NewRenderer(overlay.Options{
		Layout: overlay.Layout{
			Desktop: image.Rectangle{Min: origin, Max: origin.Add(shot.Bounds().Size())},
			Regions: regs,
			Lift:    cfg.Overlay.LabelLift,
		},
		Palette: palette,
		Painter: canvas,
		Logger:  logger.Named("overlay"),
	})
	r.Post(overlay.Update{Results: results})
	r.Step(time.Now())

	out := image.NewRGBA(image.Rectangle{Max: shot.Bounds().Size()})
	draw.Draw(out, out.Bounds(), shot, shot.Bounds().Min, draw.Src)
	if frame := canvas.Frame(); frame != nil {
		draw.Draw(out, out.Bounds(), frame, image.Point{}, draw.Over)
	}
	if err := imaging.Save(out, path); err != nil {
		return err
	}
	fmt.Printf("frame written to %s\n", path)
	return nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " | ")
}
