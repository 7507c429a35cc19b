// Package config loads the overlay configuration from an optional YAML file,
// applies HEXTECH_* environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/hextech-overlay/internal/hotkey"
)

// Config holds all overlay configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Regions []Region      `yaml:"regions" validate:"min=1,unique=Key,dive"`
	Capture CaptureConfig `yaml:"capture"`
	OCR     OCRConfig     `yaml:"ocr"`
	Overlay OverlayConfig `yaml:"overlay"`
	Session SessionConfig `yaml:"session"`
	Remote  RemoteConfig  `yaml:"remote"`
	Log     LogConfig     `yaml:"log"`
}

// DataConfig locates the ranking dataset and its optional companions. Relative
// file names are resolved against Dir.
type DataConfig struct {
	Dir     string `yaml:"dir"`
	Dataset string `yaml:"dataset" validate:"required"`
	Tiers   string `yaml:"tiers"`
	Aliases string `yaml:"aliases"`
}

// Region is a fixed screen rectangle expected to show one augment name.
type Region struct {
	Key    string `yaml:"key" validate:"required"`
	Left   int    `yaml:"left"`
	Top    int    `yaml:"top"`
	Width  int    `yaml:"width" validate:"gt=0"`
	Height int    `yaml:"height" validate:"gt=0"`
}

// Rect returns the region in screen coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// CaptureConfig controls region preprocessing before recognition.
type CaptureConfig struct {
	Scale    float64 `yaml:"scale" validate:"gte=1,lte=4"`
	Contrast float64 `yaml:"contrast" validate:"gte=-100,lte=100"`
}

// OCRConfig configures the tesseract workers.
type OCRConfig struct {
	Language       string `yaml:"language" validate:"required"`
	TessdataPrefix string `yaml:"tessdata_prefix"`
	PageSegMode    int    `yaml:"page_seg_mode" validate:"gte=0,lte=13"`
}

// OverlayConfig controls label placement and lifetimes.
type OverlayConfig struct {
	ResultTTL time.Duration `yaml:"result_ttl" validate:"gt=0"`
	StatusTTL time.Duration `yaml:"status_ttl" validate:"gt=0"`
	Tick      time.Duration `yaml:"tick" validate:"gt=0"`
	// LabelLift is how far above the first region the result row is drawn.
	LabelLift int           `yaml:"label_lift"`
	Palette   PaletteConfig `yaml:"palette"`
	FrameDump string        `yaml:"frame_dump"`
}

// PaletteConfig holds label colors as #RRGGBB.
type PaletteConfig struct {
	Normal string `yaml:"normal" validate:"hexcolor"`
	Best   string `yaml:"best" validate:"hexcolor"`
	Status string `yaml:"status" validate:"hexcolor"`
	Error  string `yaml:"error" validate:"hexcolor"`
}

// SessionConfig names the hotkeys and their debounce windows.
type SessionConfig struct {
	AnalyzeKey      string        `yaml:"analyze_key" validate:"required"`
	ResetKey        string        `yaml:"reset_key" validate:"required,nefield=AnalyzeKey"`
	AnalyzeDebounce time.Duration `yaml:"analyze_debounce" validate:"gte=0"`
	ResetDebounce   time.Duration `yaml:"reset_debounce" validate:"gte=0"`
}

// RemoteConfig enables the browser-source painter when Addr is set.
type RemoteConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error off disabled"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// Default returns the reference deployment: three regions on a 1080p-class
// layout, F6 to analyze and F8 to reset.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:     "data",
			Dataset: "hero_augments.csv",
			Tiers:   "tiers.json",
			Aliases: "pinyin_map.json",
		},
		Regions: []Region{
			{Key: "hex_1", Left: 650, Top: 540, Width: 320, Height: 60},
			{Key: "hex_2", Left: 1130, Top: 540, Width: 320, Height: 60},
			{Key: "hex_3", Left: 1600, Top: 540, Width: 320, Height: 60},
		},
		Capture: CaptureConfig{Scale: 2},
		OCR: OCRConfig{
			Language:    "chi_sim",
			PageSegMode: 7,
		},
		Overlay: OverlayConfig{
			ResultTTL: 5 * time.Second,
			StatusTTL: 2 * time.Second,
			Tick:      50 * time.Millisecond,
			LabelLift: 120,
			Palette: PaletteConfig{
				Normal: "#00FF00",
				Best:   "#FFD700",
				Status: "#FFFF00",
				Error:  "#FF3333",
			},
		},
		Session: SessionConfig{
			AnalyzeKey:      "F6",
			ResetKey:        "F8",
			AnalyzeDebounce: time.Second,
			ResetDebounce:   500 * time.Millisecond,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads path (if it exists) over the defaults, applies environment
// overrides and validates. An empty path or a missing file yields defaults.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg, Env{prefix: "HEXTECH_", lookup: lookup}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and rewrites the session hotkeys to
// their canonical names, so "f6" and "F6" name the same key.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	analyze, err := hotkey.Canonical(c.Session.AnalyzeKey)
	if err != nil {
		return fmt.Errorf("invalid config: Session.AnalyzeKey: %w", err)
	}
	reset, err := hotkey.Canonical(c.Session.ResetKey)
	if err != nil {
		return fmt.Errorf("invalid config: Session.ResetKey: %w", err)
	}
	if analyze == reset {
		return fmt.Errorf("invalid config: Session.ResetKey %q is the analyze key", c.Session.ResetKey)
	}
	c.Session.AnalyzeKey, c.Session.ResetKey = analyze, reset
	return nil
}

// DatasetPath returns the resolved ranking dataset path.
func (c *Config) DatasetPath() string { return c.resolve(c.Data.Dataset) }

// TiersPath returns the resolved tier dictionary path, or "" when disabled.
func (c *Config) TiersPath() string { return c.resolve(c.Data.Tiers) }

// AliasesPath returns the resolved alias dictionary path, or "" when disabled.
func (c *Config) AliasesPath() string { return c.resolve(c.Data.Aliases) }

func (c *Config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.Data.Dir == "" {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}
