package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbeamline/beamplot/pkg/plot"
	"github.com/openbeamline/beamplot/pkg/tao"
)

var recordOut string

var recordCmd = &cobra.Command{
	Use:   "record --exec <engine> -o <session_file>",
	Short: "Record an engine session for later replay",
	Long: `Drives a live engine through a full composition pass (placing everything
in its place buffer) and writes every command and response to a session
file that view and graphs can replay without the engine.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordOut, "out", "o", "session.sexp", "session file to write")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	if engineExec == "" {
		return fmt.Errorf("record needs a live engine, set --exec")
	}
	ctx := context.Background()

	pipe, err := tao.StartPipe(ctx, engineExec, engineArgs...)
	if err != nil {
		return err
	}
	recorder := tao.NewRecorder(pipe)
	client := tao.NewClient(recorder)
	defer client.Close()

	manager := plot.NewManager(client)
	placed, err := manager.PlaceAll(ctx)
	if err != nil {
		return fmt.Errorf("composing graphs: %w", err)
	}
	for region, graphs := range placed {
		fmt.Printf("recorded region %s: %d graph(s)\n", region, len(graphs))
	}

	f, err := os.Create(recordOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := recorder.Dump(f); err != nil {
		return fmt.Errorf("writing %s: %w", recordOut, err)
	}
	fmt.Printf("wrote %s\n", recordOut)
	return nil
}
