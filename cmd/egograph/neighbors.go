package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/egograph/pkg/export"
	"github.com/Dicklesworthstone/egograph/pkg/neighborhood"
)

const maxWrap = 120

func neighborsCmd() *cobra.Command {
	var (
		focus  string
		depth  int
		global bool
		format string
	)

	cmd := &cobra.Command{
		Use:     "neighbors",
		Aliases: []string{"nb"},
		Short:   "Report the pages around a page as markdown or JSON",
		Example: "  egograph neighbors --focus notes/go\n" +
			"  egograph neighbors --focus notes/go --depth 2 --format json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			vc := cfg.Viz(global)
			if !cmd.Flags().Changed("depth") {
				depth = vc.Depth
			}
			if vc.ShowTags {
				g = g.WithTags(vc.RemoveTags)
			}

			resolver, err := cfg.Resolver(g.Nodes)
			if err != nil {
				return err
			}
			tracker, closeTracker, err := openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer closeTracker()
			seen, err := tracker.Visited(cmd.Context())
			if err != nil {
				logger.Warn("read visited pages", zap.Error(err))
			}

			res := neighborhood.Extract(g, focus, depth)
			report := export.NewReport(res, focus, depth, seen, resolver.Resolve)

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "markdown", "md":
				md, err := export.GenerateMarkdown(report, "Neighborhood of "+focus)
				if err != nil {
					return err
				}
				return writeMarkdown(cmd.OutOrStdout(), md)
			default:
				return fmt.Errorf("unknown format %q (want markdown or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&focus, "focus", "f", "", "Page to report on")
	cmd.Flags().IntVarP(&depth, "depth", "d", 1, "Link hops to include; negative for the whole graph")
	cmd.Flags().BoolVar(&global, "global", false, "Use the global graph settings")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or json")
	_ = cmd.MarkFlagRequired("focus")
	return cmd
}

// writeMarkdown styles md with glamour when w is a terminal and writes it
// raw otherwise.
func writeMarkdown(w io.Writer, md string) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, md)
		return err
	}

	width := 80
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
		width = min(cols, maxWrap)
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		// Fallback to raw markdown
		logger.Debug("render markdown", zap.Error(err))
		out = md
	}
	_, err = io.WriteString(w, strings.TrimRight(out, " \n\r\t")+"\n")
	return err
}
