package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/hextech-overlay/internal/capture"
	"github.com/ironsheep/hextech-overlay/internal/config"
	"github.com/ironsheep/hextech-overlay/internal/imaging"
	"github.com/ironsheep/hextech-overlay/internal/logger"
)

func calibrateCmd(args []string) int {
	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	src := fs.String("image", "", "screenshot to draw on (default: capture the desktop now)")
	origin := fs.String("origin", "", "screen position x,y of the screenshot's top-left pixel")
	out := fs.String("out", "calibration.png", "output PNG")
	grid := fs.Int("grid", 100, "grid spacing in pixels, 0 to disable")

	cfg, err := setup(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := calibrate(cfg, *src, *origin, *out, *grid); err != nil {
		logger.Named("main").Error().Err(err).Msg("calibration failed")
		return 1
	}
	fmt.Printf("calibration sheet written to %s\n", *out)
	return 0
}

func calibrate(cfg *config.Config, src, originFlag, out string, grid int) error {
	var (
		img    image.Image
		origin image.Point
	)
	if src == "" {
		shot, desktop, err := capture.Full()
		if err != nil {
			return err
		}
		img, origin = shot, desktop.Min
	} else {
		var err error
		if img, err = imaging.Decode(src); err != nil {
			return err
		}
		if origin, err = parsePoint(originFlag); err != nil {
			return err
		}
	}

	// Sheet coordinates are image-relative; labels show screen coordinates.
	rects := make([]imaging.NamedRect, 0, len(cfg.Regions))
	for _, r := range cfg.Regions {
		rect := r.Rect().Sub(origin).Add(img.Bounds().Min)
		if !rect.In(img.Bounds()) {
			logger.Named("main").Warn().Str("region", r.Key).Stringer("rect", r.Rect()).Msg("region outside screenshot")
		}
		rects = append(rects, imaging.NamedRect{Name: r.Key, Rect: rect})
	}

	sheet := imaging.CalibrationSheet(img, rects, grid, origin.Sub(img.Bounds().Min))
	return imaging.Save(sheet, out)
}
