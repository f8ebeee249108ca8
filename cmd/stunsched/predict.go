package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stunsched/stunsched/internal/predict"
)

var predictJSON bool
var predictQuiet bool

func init() {
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "emit the result as JSON")
	predictCmd.Flags().BoolVar(&predictQuiet, "quiet", false, "suppress progress output")
	rootCmd.AddCommand(predictCmd)
}

var predictCmd = &cobra.Command{
	Use:   "predict PROJECT.yaml",
	Short: "Estimate a project's completion time",
	Long: `predict runs the same search as optimize but reports only the
answer most callers actually want: how long the project will take. The
full per-task schedule is still computed (it costs nothing extra once
the search has converged) and is included with --json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject(args[0])
		if err != nil {
			return err
		}

		driver := predict.NewDriver(cfg.Optimizer.NumJobs)
		future, err := driver.StartPrediction(cmd.Context(), project, cfg.Tuning())
		if err != nil {
			return err
		}

		if !predictQuiet {
			printEvents(future.Bus)
		}

		result, ok := future.Wait(context.Background())
		if !ok {
			return cmd.Context().Err()
		}

		if predictJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Schedule)
		}

		fmt.Fprintf(os.Stdout, "estimated completion: %.1fs\n", result.Schedule.MakespanSeconds)
		return nil
	},
}
