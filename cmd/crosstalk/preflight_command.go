package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crosstalk/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check external tools and directories before processing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := colorize("ok", ansiGreen, color)
				if !result.Passed {
					status = colorize("FAIL", ansiRed, color)
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				rows))

			if !preflight.AllPassed(results) {
				return fmt.Errorf("preflight found problems; fix the failing checks above")
			}
			return nil
		},
	}
}
