package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/egograph/pkg/logging"
	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/navigate"
	"github.com/Dicklesworthstone/egograph/pkg/theme"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// File holds egograph configuration.
type File struct {
	Graph     string            `yaml:"graph" toml:"graph"`           // Graph JSON path
	BasePath  string            `yaml:"base_path" toml:"base_path"`   // Path prefix of pages on the site
	Origin    string            `yaml:"origin" toml:"origin"`         // Absolute site origin
	Suffix    string            `yaml:"suffix" toml:"suffix"`         // Appended to slugs
	Theme     string            `yaml:"theme" toml:"theme"`           // auto, light or dark
	Colors    map[string]string `yaml:"colors" toml:"colors"`         // Palette overrides by role
	VisitedDB string            `yaml:"visited_db" toml:"visited_db"` // SQLite path; in-memory when empty
	Log       logging.Options   `yaml:"log" toml:"log"`
	Local     viz.Config        `yaml:"local" toml:"local"`
	Global    viz.Config        `yaml:"global" toml:"global"`
}

// Default returns the default configuration.
func Default() *File {
	return &File{
		Graph:  "contentIndex.json",
		Origin: "http://localhost:8080",
		Suffix: navigate.DefaultSuffix,
		Theme:  "auto",
		Log:    logging.Options{Level: "info"},
		Local:  viz.DefaultLocal(),
		Global: viz.DefaultGlobal(),
	}
}

// Dir returns the egograph config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "egograph")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
// Keys absent from the file keep their default values.
func Load(path string) (*File, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, filepath.Ext(path), cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Graph) && cfg.Graph != "" {
		cfg.Graph = filepath.Join(filepath.Dir(path), cfg.Graph)
	}
	return cfg, nil
}

// Decode parses YAML (.yaml, .yml) or TOML (.toml) into cfg.
func Decode(data []byte, ext string, cfg *File) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse yaml: %w", err)
		}
		return nil
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Save writes cfg to path in the format its extension names.
func Save(cfg *File, path string) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		enc.Close()
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Viz returns the local or global visualization config.
func (f *File) Viz(global bool) viz.Config {
	if global {
		return f.Global
	}
	return f.Local
}

// Resolver builds the navigation resolver for the configured site.
func (f *File) Resolver(nodes []model.Node) (*navigate.Resolver, error) {
	return navigate.NewResolver(f.Origin, f.BasePath, f.Suffix, nodes)
}

// Palette resolves the configured color scheme and applies overrides.
func (f *File) Palette() theme.Palette {
	return theme.Resolve(theme.ParseScheme(f.Theme)).WithOverrides(f.Colors)
}
