package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbeamline/beamplot/pkg/tao"
)

var graphsCmd = &cobra.Command{
	Use:   "graphs [session_file]",
	Short: "List display regions and pending placements",
	Long: `Lists the engine's display regions with what each one shows, and the
templates waiting in the place buffer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraphs,
}

func init() {
	rootCmd.AddCommand(graphsCmd)
}

func runGraphs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conn, err := openConn(ctx, args)
	if err != nil {
		return err
	}
	client := tao.NewClient(conn)
	defer client.Close()

	listings, err := client.Regions(ctx)
	if err != nil {
		return fmt.Errorf("listing regions: %w", err)
	}
	fmt.Printf("Regions: %d\n", len(listings))
	for _, l := range listings {
		visible := " "
		if l.Visible {
			visible = "*"
		}
		name := l.PlotName
		if name == "" {
			name = "(empty)"
		}
		fmt.Printf("  %s %3d  %-16s %s\n", visible, l.Index, l.Region, name)
	}

	buffer, err := client.PlaceBuffer(ctx)
	if err != nil {
		// Older engines have no place buffer query.
		if verbose {
			fmt.Printf("place buffer unavailable: %v\n", err)
		}
		return nil
	}
	if len(buffer) > 0 {
		fmt.Printf("Pending placements: %d\n", len(buffer))
		for _, entry := range buffer {
			fmt.Printf("    %-16s %s\n", entry.Region, entry.Graph)
		}
	}
	return nil
}
