package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stunsched/stunsched/internal/predict"
)

var optimizeJSON bool
var optimizeQuiet bool

func init() {
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "emit the final schedule as JSON")
	optimizeCmd.Flags().BoolVar(&optimizeQuiet, "quiet", false, "suppress progress output, print only the final schedule")
	rootCmd.AddCommand(optimizeCmd)
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize PROJECT.yaml",
	Short: "Find the fastest valid schedule for a project",
	Long: `optimize runs the full stochastic-tunneling search and prints the
resulting schedule: which agent runs which task, in what order, and
when each is expected to start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject(args[0])
		if err != nil {
			return err
		}

		driver := predict.NewDriver(cfg.Optimizer.NumJobs)
		future, err := driver.StartScheduleOptimization(cmd.Context(), project, cfg.Tuning())
		if err != nil {
			return err
		}

		if !optimizeQuiet {
			printEvents(future.Bus)
		}

		result, ok := future.Wait(context.Background())
		if !ok {
			return cmd.Context().Err()
		}
		return printSchedule(result.Schedule, optimizeJSON)
	},
}
