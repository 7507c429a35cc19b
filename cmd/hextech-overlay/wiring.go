package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
	"github.com/ironsheep/hextech-overlay/internal/config"
	"github.com/ironsheep/hextech-overlay/internal/dataset"
	"github.com/ironsheep/hextech-overlay/internal/logger"
	"github.com/ironsheep/hextech-overlay/internal/ocr"
)

// setup parses the common -config flag plus fs's own flags, loads the
// configuration and initializes logging.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	path := fs.String("config", envOr("HEXTECH_CONFIG", "config.yaml"), "configuration file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Named("main").Debug().
		Str("version", Version).
		Str("commit", GitCommit).
		Str("config", *path).
		Msg("configuration loaded")
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadIndex loads the mandatory dataset and the optional tier and alias
// dictionaries. Only a dataset failure is returned.
func loadIndex(cfg *config.Config) (*dataset.Index, error) {
	log := logger.Named("dataset")

	var tiers map[string]dataset.Tier
	if p := cfg.TiersPath(); p != "" {
		t, err := dataset.LoadTiers(p)
		if err != nil {
			log.Warn().Err(err).Msg("tier dictionary unusable, all tiers unknown")
		} else {
			tiers = t
		}
	}

	heroes, stats, err := dataset.Load(cfg.DatasetPath(), tiers)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("heroes", stats.Heroes).
		Int("augments", stats.Augments).
		Int("skipped", stats.Skipped).
		Int("duplicates", stats.Duplicates).
		Bool("gbk", stats.GBKFallback).
		Int("tiered", len(tiers)).
		Msg("dataset loaded")

	var aliases dataset.AliasIndex
	if p := cfg.AliasesPath(); p != "" {
		a, err := dataset.LoadAliases(p)
		if err != nil {
			log.Warn().Err(err).Msg("alias dictionary unusable, search is approximate only")
		} else {
			aliases = a
			log.Info().Int("keys", len(a)).Msg("aliases loaded")
		}
	}

	return dataset.NewIndex(heroes, aliases, nil), nil
}

func regions(cfg *config.Config) []analyzer.Region {
	out := make([]analyzer.Region, 0, len(cfg.Regions))
	for _, r := range cfg.Regions {
		out = append(out, analyzer.Region{Key: r.Key, Rect: r.Rect()})
	}
	return out
}

func ocrOptions(cfg *config.Config) ocr.Options {
	return ocr.Options{
		Language:       cfg.OCR.Language,
		TessdataPrefix: cfg.OCR.TessdataPrefix,
		PageSegMode:    cfg.OCR.PageSegMode,
	}
}

// parsePoint reads "x,y".
func parsePoint(s string) (image.Point, error) {
	var p image.Point
	if s == "" {
		return p, nil
	}
	if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
		return p, fmt.Errorf("invalid point %q, want x,y: %w", s, err)
	}
	return p, nil
}
