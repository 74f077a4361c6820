package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand はCLIのルートコマンドを作成
func newRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "kibalone",
		Short: "Prompt dispatch and orchestration for the Kibalone 3D studio",
		Long: `Kibalone classifies free-text 3D studio prompts, turns complex ones into
ordered multi-step plans over the tool registry and optionally executes
them against the generation services.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $KIBALONE_CONFIG, then built-in defaults)")

	configPath := func() string { return cfgFile }

	rootCmd.AddCommand(
		newServeCommand(configPath),
		newPlanCommand(configPath),
		newDispatchCommand(configPath),
		newToolsCommand(configPath),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				cmd.Printf("kibalone version %s\n", version)
			},
		},
	)

	return rootCmd
}
