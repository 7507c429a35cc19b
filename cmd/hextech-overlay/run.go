package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
	"github.com/ironsheep/hextech-overlay/internal/capture"
	"github.com/ironsheep/hextech-overlay/internal/config"
	"github.com/ironsheep/hextech-overlay/internal/console"
	"github.com/ironsheep/hextech-overlay/internal/hotkey"
	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/ocr"
	"github.com/ironsheep/hextech-overlay/internal/overlay"
	"github.com/ironsheep/hextech-overlay/internal/overlay/remote"
	"github.com/ironsheep/hextech-overlay/internal/session"
)

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := run(cfg); err != nil {
		logger.Named("main").Error().Err(err).Msg("overlay stopped")
		return 1
	}
	return 0
}

func run(cfg *config.Config) error {
	log := logger.Named("main")
	in := console.New(os.Stdin, os.Stdout)

	idx, err := loadIndex(cfg)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DatasetPath()).Msg("ranking dataset missing")
		in.Printf("cannot load %s: %v\npress Enter to exit...", cfg.DatasetPath(), err)
		_, _ = in.ReadLine(context.Background())
		return err
	}
	if len(idx.HeroKeys()) == 0 {
		return errors.New("dataset has no heroes")
	}

	desktop, err := capture.Desktop()
	if err != nil {
		return err
	}
	log.Info().Stringer("desktop", desktop).Msg("virtual desktop")

	an := analyzer.New(analyzer.Options{
		Regions:   regions(cfg),
		Heroes:    idx.Heroes(),
		Capture:   capture.ScreenFactory,
		Recognize: ocr.TesseractFactory(ocrOptions(cfg)),
		Scale:     cfg.Capture.Scale,
		Contrast:  cfg.Capture.Contrast,
		Logger:    logger.Named("analyzer"),
	})
	defer an.Close()

	palette, err := overlay.ParsePalette(cfg.Overlay.Palette.Normal, cfg.Overlay.Palette.Best, cfg.Overlay.Palette.Status, cfg.Overlay.Palette.Error)
	if err != nil {
		return err
	}
	painters := overlay.Multi{overlay.LogPainter{Log: logger.Named("overlay")}}
	if cfg.Overlay.FrameDump != "" {
		painters = append(painters, &overlay.Canvas{DumpPath: cfg.Overlay.FrameDump})
	}
	var browser *remote.Server
	if cfg.Remote.Addr != "" {
		browser = remote.New(logger.Named("remote"))
		painters = append(painters, browser)
	}

	renderer := overlay.NewRenderer(overlay.Options{
		Layout:    overlay.Layout{Desktop: desktop, Regions: an.Regions(), Lift: cfg.Overlay.LabelLift},
		Palette:   palette,
		Painter:   painters,
		ResultTTL: cfg.Overlay.ResultTTL,
		StatusTTL: cfg.Overlay.StatusTTL,
		Tick:      cfg.Overlay.Tick,
		Logger:    logger.Named("overlay"),
	})

	keys, err := hotkey.Listen(logger.Named("hotkey"), cfg.Session.AnalyzeKey, cfg.Session.ResetKey)
	if err != nil {
		return err
	}
	defer keys.Close()

	ctrl := session.New(session.Options{
		Console:         in,
		Hotkeys:         keys,
		Analyzer:        an,
		Index:           idx,
		Overlay:         renderer,
		AnalyzeKey:      cfg.Session.AnalyzeKey,
		ResetKey:        cfg.Session.ResetKey,
		AnalyzeDebounce: cfg.Session.AnalyzeDebounce,
		ResetDebounce:   cfg.Session.ResetDebounce,
		Logger:          logger.Named("session"),
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return renderer.Run(gctx) })
	if browser != nil {
		g.Go(func() error { return browser.ListenAndServe(gctx, cfg.Remote.Addr) })
	}
	g.Go(func() error {
		defer cancel()
		err := ctrl.Run(gctx)
		if errors.Is(err, io.EOF) {
			log.Info().Msg("console closed")
			return nil
		}
		return err
	})

	log.Info().Int("regions", len(cfg.Regions)).Str("analyze", cfg.Session.AnalyzeKey).Str("reset", cfg.Session.ResetKey).Msg("overlay running")
	return g.Wait()
}
