// Command stunsched is the CLI front-end over the STUN schedule
// optimizer: parse a project description, run the optimizer or the
// repeated-sampling histogram mode, or serve the same core over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stunsched/stunsched/internal/runtimeconfig"
)

// ─── Root command ───────────────────────────────────────────────────────────

var cfgPath string
var cfg runtimeconfig.Config

var rootCmd = &cobra.Command{
	Use:   "stunsched",
	Short: "Stochastic-tunneling project-completion estimator",
	Long: `stunsched estimates how long a project will take and how to
schedule it, using a stochastic-tunneling Monte Carlo search over task
assignments. It answers two questions: given a project description of
agents, tasks, and dependencies, what is the fastest valid schedule,
and how long will it take?`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			cfgPath = runtimeconfig.DefaultPath()
		}
		loaded, err := runtimeconfig.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.toml (default ~/.stunsched/config.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stunsched: %v\n", err)
		os.Exit(1)
	}
}
