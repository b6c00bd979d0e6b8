package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/ai-business-plan/backend/internal/balance"
)

func targetsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the effective balance target table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := balance.LoadTargets(file)
			if err != nil {
				return err
			}

			return printTargets(cmd, targets)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML target table (default: embedded table or BALANCE_TARGETS_FILE)")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if file == "" {
			file = strings.TrimSpace(os.Getenv("BALANCE_TARGETS_FILE"))
		}
	}

	return cmd
}

func printTargets(cmd *cobra.Command, targets balance.Targets) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tMIN\tMAX\tMARKDOWN\tDETERMINISTIC")
	for _, target := range targets.All() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%t\t%t\n", target.Path, target.Min, target.Max, target.Markdown, target.Deterministic)
	}

	return w.Flush()
}
