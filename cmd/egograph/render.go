package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/egograph/pkg/export"
)

func renderCmd() *cobra.Command {
	var (
		foci   []string
		format string
		out    string
		ticks  int
		width  int
		height int
		labels bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write neighborhood graphs as PNG or SVG files",
		Long: "render lays out the neighborhood of each --focus page and writes one\n" +
			"image per page into --out. Without --focus every page is rendered.",
		Example: "  egograph render --focus notes/go --format svg\n" +
			"  egograph render --out site/graphs --labels",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			if len(foci) == 0 {
				for _, n := range g.Nodes {
					if !n.IsTag() {
						foci = append(foci, n.ID)
					}
				}
			}
			resolver, err := cfg.Resolver(g.Nodes)
			if err != nil {
				return err
			}
			pal := cfg.Palette()

			paths, err := export.RenderAll(cmd.Context(), export.SnapshotOptions{
				Graph:    g,
				Config:   cfg.Viz(global),
				Format:   format,
				Width:    width,
				Height:   height,
				Ticks:    ticks,
				Labels:   labels,
				Palette:  &pal,
				Resolver: resolver,
				Logger:   logger,
			}, foci, out)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&foci, "focus", "f", nil, "Pages to render (repeatable; default all pages)")
	cmd.Flags().StringVar(&format, "format", "png", "Image format: png or svg")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	cmd.Flags().IntVar(&ticks, "ticks", export.DefaultTicks, "Physics steps before drawing")
	cmd.Flags().IntVar(&width, "width", export.DefaultWidth, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", export.DefaultHeight, "Image height in pixels")
	cmd.Flags().BoolVar(&labels, "labels", false, "Show every label")
	cmd.Flags().BoolVar(&global, "global", false, "Use the global graph settings")
	return cmd
}
