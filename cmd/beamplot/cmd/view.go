package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"gioui.org/app"
	"github.com/spf13/cobra"

	appui "github.com/openbeamline/beamplot/internal/ui"
	"github.com/openbeamline/beamplot/pkg/plot"
	"github.com/openbeamline/beamplot/pkg/tao"
)

var viewPlace []string

var viewCmd = &cobra.Command{
	Use:   "view [session_file]",
	Short: "View composed graphs in an interactive window",
	Long: `Opens the engine's placed graphs in an interactive Gio-based viewer.

Everything pending in the engine's place buffer is placed first; --place
adds explicit placements on top.

Controls:
  Drag / Arrow Keys - Pan
  Scroll Wheel, =/- - Zoom
  Space             - Fit graphs to window
  Tab               - Next region
  R                 - Refresh current region from the engine
  G                 - Toggle grid
  D                 - Toggle dark mode
  Q / Escape        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringArrayVar(&viewPlace, "place", nil,
		"place a template, as graph or graph:region (repeatable)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conn, err := openConn(ctx, args)
	if err != nil {
		return err
	}
	client := tao.NewClient(conn)
	defer client.Close()

	manager := plot.NewManager(client)
	placed, err := manager.PlaceAll(ctx)
	if err != nil {
		return fmt.Errorf("placing buffered graphs: %w", err)
	}
	for _, entry := range viewPlace {
		graphName, regionName, _ := strings.Cut(entry, ":")
		graphs, err := manager.Place(ctx, graphName, regionName)
		if err != nil {
			return fmt.Errorf("placing %s: %w", entry, err)
		}
		if len(graphs) > 0 {
			placed[graphs[0].Frame().RegionName] = graphs
		}
	}
	if len(placed) == 0 {
		return fmt.Errorf("nothing to show: no buffered placements and no --place")
	}

	if verbose {
		for region, graphs := range placed {
			fmt.Printf("region %s: %d graph(s)\n", region, len(graphs))
		}
	}

	go func() {
		ui := appui.New(nil, manager)
		if err := ui.Run(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
