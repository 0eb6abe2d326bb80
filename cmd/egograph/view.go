package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/ui"
)

var errNotTerminal = errors.New("view needs an interactive terminal")

func viewCmd() *cobra.Command {
	var (
		focus  string
		global bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a page's neighborhood in the terminal",
		Example: "  egograph view --focus notes/go\n" +
			"  egograph view --global --watch",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := cmd.OutOrStdout().(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
				return errNotTerminal
			}
			g, err := loadGraph()
			if err != nil {
				return err
			}
			if focus == "" {
				if focus, err = pickFocus(g); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			tracker, closeTracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker()

			// Log lines on stderr would tear the alternate screen.
			log := logger
			if cfg.Log.Path == "" {
				log = zap.NewNop()
			}

			return ui.Run(ctx, ui.Options{
				Graph:      g,
				GraphPath:  cfg.Graph,
				Watch:      watch,
				Focus:      focus,
				Global:     global,
				Local:      cfg.Local,
				GlobalConf: cfg.Global,
				Palette:    cfg.Palette(),
				Tracker:    tracker,
				Resolver:   cfg.Resolver,
				Logger:     log,
			})
		},
	}

	cmd.Flags().StringVarP(&focus, "focus", "f", "", "Page to center on (prompted when empty)")
	cmd.Flags().BoolVar(&global, "global", false, "Start with the whole-site graph")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload when the graph file changes")
	return cmd
}

// pickFocus asks the user for a page when no focus was given.
func pickFocus(g model.Graph) (string, error) {
	var pages []model.Node
	for _, n := range g.Nodes {
		if !n.IsTag() {
			pages = append(pages, n)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("graph %s has no pages", cfg.Graph)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Label() < pages[j].Label() })

	options := make([]huh.Option[string], 0, len(pages))
	for _, n := range pages {
		options = append(options, huh.NewOption(n.Label(), n.ID))
	}

	var focus string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Focus page").
				Options(options...).
				Height(12).
				Filtering(true).
				Value(&focus),
		),
	).Run()
	if err != nil {
		return "", err
	}
	return focus, nil
}
