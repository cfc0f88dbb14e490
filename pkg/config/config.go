// Package config loads and saves the area-labeler settings file.
//
// The file is TOML:
//
//	[backend]
//	url = "http://localhost:5000"
//	timeout = "30s"
//
//	[canvas]
//	width = 750
//	height = 750
//
// Missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ha1tch/area-labeler/pkg/backend"
	"github.com/ha1tch/area-labeler/pkg/render"
	"github.com/ha1tch/area-labeler/pkg/session"
)

// Environment variables that override the file.
const (
	EnvBackend = "AREA_LABELER_BACKEND"
	EnvConfig  = "AREA_LABELER_CONFIG"
)

// FileName is the settings file in the home directory.
const FileName = ".area-labeler.toml"

// Backend configures the labelling service.
type Backend struct {
	URL       string `toml:"url"`
	Timeout   string `toml:"timeout"`
	Subsample int    `toml:"subsample"`
}

// Canvas configures output images.
type Canvas struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Padding    float64 `toml:"padding"`
	Background string  `toml:"background"`
}

// Style configures stroke colours and widths.
type Style struct {
	Stroke        string  `toml:"stroke"`
	OuterWidth    float64 `toml:"outer_width"`
	InnerWidth    float64 `toml:"inner_width"`
	Skeleton      string  `toml:"skeleton"`
	SkeletonWidth float64 `toml:"skeleton_width"`
	Text          string  `toml:"text"`
	LabelLine     string  `toml:"label_line"`
}

// Label configures the interactive label.
type Label struct {
	Text string `toml:"text"`
}

// Editor holds labeledit settings.
type Editor struct {
	FileType   string `toml:"file_type"` // "png" or "svg"
	LastDir    string `toml:"last_dir"`
	OpenViewer bool   `toml:"open_viewer"`
}

// Config is the whole settings file.
type Config struct {
	Backend Backend `toml:"backend"`
	Canvas  Canvas  `toml:"canvas"`
	Style   Style   `toml:"style"`
	Label   Label   `toml:"label"`
	Editor  Editor  `toml:"editor"`
}

// Default returns the built-in settings.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		Backend: Backend{
			URL:     "http://localhost:5000",
			Timeout: backend.DefaultTimeout.String(),
		},
		Canvas: Canvas{
			Width:      750,
			Height:     750,
			Padding:    10,
			Background: render.DefaultBackground,
		},
		Style: Style{
			Stroke:        render.DefaultStroke,
			OuterWidth:    2,
			InnerWidth:    1,
			Skeleton:      render.DefaultSkeleton,
			SkeletonWidth: 1,
			Text:          render.DefaultText,
			LabelLine:     render.DefaultArc,
		},
		Label: Label{Text: session.DefaultText},
		Editor: Editor{
			FileType:   "png",
			LastDir:    cwd,
			OpenViewer: true,
		},
	}
}

// Path resolves the settings file: flagPath if set, then $AREA_LABELER_CONFIG,
// then ~/.area-labeler.toml.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if u := os.Getenv(EnvBackend); u != "" {
		cfg.Backend.URL = u
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	data = append([]byte("# area-labeler configuration\n"), data...)
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Padding < 0 {
		return fmt.Errorf("canvas padding %v is negative", c.Canvas.Padding)
	}
	switch c.Editor.FileType {
	case "png", "svg":
	default:
		return fmt.Errorf("editor file_type %q: want png or svg", c.Editor.FileType)
	}
	return nil
}

// Timeout parses the backend timeout. An empty value means the default.
func (c Config) Timeout() (time.Duration, error) {
	if c.Backend.Timeout == "" {
		return backend.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil {
		return 0, fmt.Errorf("backend timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("backend timeout %s must be positive", d)
	}
	return d, nil
}

// Client builds a backend client from the settings.
func (c Config) Client() (*backend.Client, error) {
	d, err := c.Timeout()
	if err != nil {
		return nil, err
	}
	return backend.NewClient(c.Backend.URL,
		backend.WithTimeout(d),
		backend.WithSubsample(c.Backend.Subsample),
	)
}

// PolygonStyle returns the area border style.
func (c Config) PolygonStyle() render.PolygonStyle {
	return render.PolygonStyle{
		Color:      c.Style.Stroke,
		OuterWidth: c.Style.OuterWidth,
		InnerWidth: c.Style.InnerWidth,
	}
}

// SessionStyle returns the interactive drawing style.
func (c Config) SessionStyle() session.Style {
	return session.Style{
		Background:    c.Canvas.Background,
		Stroke:        c.Style.Stroke,
		StrokeWidth:   c.Style.InnerWidth,
		Skeleton:      c.Style.Skeleton,
		SkeletonWidth: c.Style.SkeletonWidth,
		Placement: render.PlacementStyle{
			TextColor: c.Style.Text,
			LineColor: c.Style.LabelLine,
			LineWidth: c.Style.InnerWidth,
		},
	}
}
