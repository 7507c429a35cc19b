package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Env is a prefixed view over environment variables, e.g. HEXTECH_LOG_LEVEL.
type Env struct {
	prefix string
	lookup func(string) (string, bool)
}

func (e Env) get(key string) (string, bool) {
	v, ok := e.lookup(e.prefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e Env) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e Env) duration(key string, dst *time.Duration) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s %q (e.g. 250ms, 2s): %w", e.prefix, key, v, err)
	}
	*dst = d
	return nil
}

func (e Env) float(key string, dst *float64) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s%s %q: %w", e.prefix, key, v, err)
	}
	*dst = f
	return nil
}

func applyEnv(c *Config, e Env) error {
	e.str("DATA_DIR", &c.Data.Dir)
	e.str("DATASET", &c.Data.Dataset)
	e.str("TIERS", &c.Data.Tiers)
	e.str("ALIASES", &c.Data.Aliases)
	e.str("OCR_LANGUAGE", &c.OCR.Language)
	e.str("TESSDATA_PREFIX", &c.OCR.TessdataPrefix)
	e.str("ANALYZE_KEY", &c.Session.AnalyzeKey)
	e.str("RESET_KEY", &c.Session.ResetKey)
	e.str("REMOTE_ADDR", &c.Remote.Addr)
	e.str("FRAME_DUMP", &c.Overlay.FrameDump)
	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)

	if err := e.float("CAPTURE_SCALE", &c.Capture.Scale); err != nil {
		return err
	}
	for key, dst := range map[string]*time.Duration{
		"RESULT_TTL":       &c.Overlay.ResultTTL,
		"STATUS_TTL":       &c.Overlay.StatusTTL,
		"ANALYZE_DEBOUNCE": &c.Session.AnalyzeDebounce,
		"RESET_DEBOUNCE":   &c.Session.ResetDebounce,
	} {
		if err := e.duration(key, dst); err != nil {
			return err
		}
	}
	return nil
}
