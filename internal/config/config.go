// Package config loads vflow settings.
//
// Settings come from three layers, lowest first: the built-in defaults, an
// optional TOML or YAML file, and VFLOW_* environment variables. The format
// of the file is chosen by its extension. A missing file is not an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all vflow settings.
type Config struct {
	Viewport  ViewportConfig  `toml:"viewport" yaml:"viewport"`
	Layout    LayoutConfig    `toml:"layout" yaml:"layout"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// ViewportConfig configures the window controller.
type ViewportConfig struct {
	// MarginFactor is the size of each pre-materialized margin in
	// viewport heights. Must be greater than 1.
	MarginFactor float64 `toml:"margin_factor" yaml:"margin_factor"`

	// MinMarginRows is the minimum number of rows in each margin.
	MinMarginRows int `toml:"min_margin_rows" yaml:"min_margin_rows"`

	// CacheSize is the row cache capacity.
	CacheSize int `toml:"cache_size" yaml:"cache_size"`

	WrapText                  bool `toml:"wrap_text" yaml:"wrap_text"`
	HighlightCurrentParagraph bool `toml:"highlight_current_paragraph" yaml:"highlight_current_paragraph"`

	PaddingTop    float64 `toml:"padding_top" yaml:"padding_top"`
	PaddingBottom float64 `toml:"padding_bottom" yaml:"padding_bottom"`
	PaddingLeft   float64 `toml:"padding_left" yaml:"padding_left"`
	PaddingRight  float64 `toml:"padding_right" yaml:"padding_right"`

	// HorizontalGuard is scroll room past the widest row.
	HorizontalGuard float64 `toml:"horizontal_guard" yaml:"horizontal_guard"`

	// MinViewportWidth is the narrowest width rows are wrapped at.
	MinViewportWidth float64 `toml:"min_viewport_width" yaml:"min_viewport_width"`

	// LineNumbers shows the line-number gutter.
	LineNumbers bool `toml:"line_numbers" yaml:"line_numbers"`
}

// LayoutConfig configures paragraph layout.
type LayoutConfig struct {
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// CellWidth and LineHeight convert cells to pixels. Both are 1 in a
	// terminal.
	CellWidth  float64 `toml:"cell_width" yaml:"cell_width"`
	LineHeight float64 `toml:"line_height" yaml:"line_height"`

	WrapAtWord bool `toml:"wrap_at_word" yaml:"wrap_at_word"`
}

// HighlightConfig configures syntax highlighting.
type HighlightConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Theme   string `toml:"theme" yaml:"theme"`

	// Language forces a lexer. Empty detects it from the file name.
	Language string `toml:"language" yaml:"language"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error or disabled.
	Level string `toml:"level" yaml:"level"`

	// File is the log file path. Logging is disabled when it is empty.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Viewport: ViewportConfig{
			MarginFactor:              3.0,
			MinMarginRows:             4,
			CacheSize:                 512,
			HighlightCurrentParagraph: true,
			HorizontalGuard:           1,
			MinViewportWidth:          1,
			LineNumbers:               true,
		},
		Layout: LayoutConfig{
			TabWidth:   4,
			CellWidth:  1,
			LineHeight: 1,
			WrapAtWord: true,
		},
		Highlight: HighlightConfig{
			Enabled: true,
			Theme:   "monokai",
		},
		Log: LogConfig{
			Level: "disabled",
		},
	}
}

// DefaultPath returns the default config file location,
// <user config dir>/vflow/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vflow", "config.toml")
}

// Load reads the settings from path and the process environment. An empty
// path or a missing file yields the defaults with environment overrides.
func Load(path string) (Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (Config, error) {
	cfg := Default()

	data, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	data = DeepMerge(data, envOverrides(environ))

	if len(data) > 0 {
		if err := decode(data, &cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// readFile parses the file at path into a generic map.
func readFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	data := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(raw, &data); err != nil {
			return nil, tomlParseError(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return data, nil
}

func tomlParseError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

// decode applies a merged settings map to cfg. Keys that name no setting
// are rejected.
func decode(data map[string]any, cfg *Config, path string) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if path == "" {
			path = "environment"
		}
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// TOML encodes the settings as a TOML document.
func (c Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

// DeepMerge merges src into dst. Nested maps merge recursively; any other
// value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch {
	case c.Viewport.MarginFactor <= 1:
		return outOfRange("viewport.margin_factor", "must be greater than 1", c.Viewport.MarginFactor)
	case c.Viewport.MinMarginRows < 0:
		return outOfRange("viewport.min_margin_rows", "must not be negative", c.Viewport.MinMarginRows)
	case c.Viewport.CacheSize < 1:
		return outOfRange("viewport.cache_size", "must be at least 1", c.Viewport.CacheSize)
	case c.Layout.TabWidth < 1:
		return outOfRange("layout.tab_width", "must be at least 1", c.Layout.TabWidth)
	case c.Layout.CellWidth <= 0:
		return outOfRange("layout.cell_width", "must be positive", c.Layout.CellWidth)
	case c.Layout.LineHeight <= 0:
		return outOfRange("layout.line_height", "must be positive", c.Layout.LineHeight)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error", "disabled":
	default:
		return &ValidationError{
			Path:    "log.level",
			Message: "must be one of debug, info, warn, error, disabled",
			Value:   c.Log.Level,
			Code:    ErrCodeInvalidEnum,
		}
	}
	return nil
}

func outOfRange(path, msg string, v any) error {
	return &ValidationError{Path: path, Message: msg, Value: v, Code: ErrCodeOutOfRange}
}
