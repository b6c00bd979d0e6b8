// Command planctl runs the business plan pipeline from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"example.com/ai-business-plan/backend/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "planctl",
		Short: "Business plan pipeline tools",
		Long: `Tools for the business plan generation service.

Configuration is read from the environment (and ENV_FILE / .env), the same way the server reads it.

Examples:
  planctl generate --input form.json --output plan.json
  planctl generate --input form.json --persist --user 6f1c...
  planctl token --user 6f1c...
  planctl targets
`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-field balancing details")

	cmd.AddCommand(generateCmd())
	cmd.AddCommand(tokenCmd())
	cmd.AddCommand(targetsCmd())

	return cmd
}

func loadConfig() (config.Config, error) {
	if os.Getenv("ENV_FILE") == "" {
		if _, err := os.Stat(".env"); err == nil {
			_ = os.Setenv("ENV_FILE", ".env")
		}
	}

	return config.Load()
}
