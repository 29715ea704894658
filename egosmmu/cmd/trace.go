package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/egosmmu/datarecording"
	"github.com/sarchlab/egosmmu/mem/vm"
)

var traceCmd = &cobra.Command{
	Use:   "trace <recording.sqlite3>",
	Short: "Print the MMU events stored by boot --record.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, _ := cmd.Flags().GetInt("pid")
		limit, _ := cmd.Flags().GetInt("limit")

		return printTrace(cmd.Context(), os.Stdout, args[0], vm.PID(pid), limit)
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().Int("pid", -1, "Only print events that involve this process.")
	traceCmd.Flags().Int("limit", 0, "Print at most this many events.")
}

func printTrace(
	ctx context.Context,
	w io.Writer,
	path string,
	pid vm.PID,
	limit int,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	events, err := vm.ReadEvents(ctx, reader, pid, limit)
	if err != nil {
		return err
	}

	for _, e := range events {
		switch {
		case e.Frame >= 0:
			fmt.Fprintf(w, "%6d %-20s %-10s pid=%d frame=%d page=0x%05x\n",
				e.Seq, e.Where, e.What, e.PID, e.Frame, e.PageNo)
		default:
			fmt.Fprintf(w, "%6d %-20s %-10s pid=%d -> pid=%d\n",
				e.Seq, e.Where, e.What, e.FromID, e.ToID)
		}
	}

	return nil
}
