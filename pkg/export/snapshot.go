package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/navigate"
	"github.com/Dicklesworthstone/egograph/pkg/scene"
	"github.com/Dicklesworthstone/egograph/pkg/theme"
	"github.com/Dicklesworthstone/egograph/pkg/visited"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

// ErrUnsupportedFormat is returned for snapshot formats other than png and svg.
var ErrUnsupportedFormat = errors.New("export: unsupported snapshot format")

// Snapshot defaults.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTicks  = 300
	fitPadding    = 40
)

// SnapshotOptions configures a headless render of one neighborhood
type SnapshotOptions struct {
	Graph  model.Graph
	Focus  string
	Config viz.Config
	Path   string
	Format string // png or svg; inferred from Path when empty
	Width  int
	Height int
	Ticks  int  // Physics steps before drawing (default 300)
	Labels bool // Show every label regardless of zoom

	Palette  *theme.Palette
	Tracker  *visited.Tracker
	Resolver *navigate.Resolver
	Logger   *zap.Logger
}

// snapshotFormat returns the output format, preferring the explicit one.
func snapshotFormat(format, path string) string {
	format = strings.ToLower(format)
	if format == "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if ext == "png" || ext == "svg" {
			format = ext
		} else {
			format = "svg"
		}
	}
	return format
}

// SaveSnapshot lays out the neighborhood of opts.Focus, fits it to the
// canvas and writes a single frame to opts.Path.
func SaveSnapshot(ctx context.Context, opts SnapshotOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Ticks <= 0 {
		opts.Ticks = DefaultTicks
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	format := snapshotFormat(opts.Format, opts.Path)
	var (
		surface scene.Surface
		write   func() error
	)
	switch format {
	case "png":
		r, err := scene.NewRasterSurface(opts.Width, opts.Height, scene.RasterOptions{Header: true})
		if err != nil {
			return err
		}
		surface = r
		write = func() error { return r.SavePNG(opts.Path) }
	case "svg":
		s, err := scene.NewSVGSurface(opts.Width, opts.Height)
		if err != nil {
			return err
		}
		surface = s
		write = func() error {
			f, err := os.Create(opts.Path)
			if err != nil {
				return err
			}
			if _, err := s.WriteTo(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cfg := opts.Config
	if opts.Labels && cfg.OpacityScale < 5 {
		cfg.OpacityScale = 5
	}

	v, err := viz.New(ctx, viz.Options{
		Graph:    opts.Graph,
		Focus:    opts.Focus,
		Config:   cfg,
		Width:    float64(opts.Width),
		Height:   float64(opts.Height),
		Surface:  surface,
		Palette:  opts.Palette,
		Tracker:  opts.Tracker,
		Resolver: opts.Resolver,
		Logger:   logger,
	})
	if err != nil {
		surface.Release()
		return err
	}
	defer v.Teardown()

	ticks := 0
	for ticks < opts.Ticks && v.Tick() {
		ticks++
		if ticks%50 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	v.FitView(fitPadding)
	if err := v.Step(); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := write(); err != nil {
		return fmt.Errorf("write %s: %w", opts.Path, err)
	}
	logger.Info("snapshot written",
		zap.String("focus", opts.Focus),
		zap.String("path", opts.Path),
		zap.Int("ticks", ticks),
		zap.Int("nodes", len(v.Store().Nodes)))
	return nil
}

// SnapshotPath is the file a focus is rendered to inside dir.
func SnapshotPath(dir, focus, format string) string {
	name := createSlug(focus)
	if name == "" {
		name = "graph"
	}
	return filepath.Join(dir, name+"."+snapshotFormat(format, ""))
}

// uniquePaths assigns every focus its own file in dir. Foci whose slugs
// collide get a numeric suffix in the order they appear.
func uniquePaths(dir string, foci []string, format string) []string {
	paths := make([]string, len(foci))
	used := make(map[string]bool, len(foci))
	for i, focus := range foci {
		p := SnapshotPath(dir, focus, format)
		ext := filepath.Ext(p)
		stem := strings.TrimSuffix(p, ext)
		for n := 2; used[p]; n++ {
			p = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		used[p] = true
		paths[i] = p
	}
	return paths
}

// RenderAll renders one snapshot per focus into dir concurrently. It returns
// the written paths in the order of foci.
func RenderAll(ctx context.Context, base SnapshotOptions, foci []string, dir string) ([]string, error) {
	paths := uniquePaths(dir, foci, base.Format)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, focus := range foci {
		focus := focus
		opts := base
		opts.Focus = focus
		opts.Path = paths[i]
		g.Go(func() error {
			if err := SaveSnapshot(ctx, opts); err != nil {
				return fmt.Errorf("render %s: %w", focus, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
