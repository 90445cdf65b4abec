package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"crosstalk/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent processing runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, runsPayload(runs))
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						string(run.Kind),
						string(run.Status),
						run.SourcePath,
						speakerCell(run),
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Kind", "Status", "Source", "Speakers", "Started"},
					rows, 4))

				summary, err := store.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d total: %d completed, %d failed, %d running\n",
					summary.Total, summary.Completed, summary.Failed, summary.Running)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

type runView struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	SourcePath   string    `json:"source_path"`
	Language     string    `json:"language,omitempty"`
	Model        string    `json:"model,omitempty"`
	Method       string    `json:"method,omitempty"`
	SpeakerCount int       `json:"speaker_count,omitempty"`
	SegmentCount int       `json:"segment_count,omitempty"`
	TurnCount    int       `json:"turn_count,omitempty"`
	OutputPath   string    `json:"output_path,omitempty"`
	ReportPath   string    `json:"report_path,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func runsPayload(runs []runstore.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{
			ID:           run.ID,
			Kind:         string(run.Kind),
			Status:       string(run.Status),
			SourcePath:   run.SourcePath,
			Language:     run.Language,
			Model:        run.Model,
			Method:       run.Method,
			SpeakerCount: run.SpeakerCount,
			SegmentCount: run.SegmentCount,
			TurnCount:    run.TurnCount,
			OutputPath:   run.OutputPath,
			ReportPath:   run.ReportPath,
			ErrorMessage: run.ErrorMessage,
			CreatedAt:    run.CreatedAt,
			UpdatedAt:    run.UpdatedAt,
		})
	}
	return views
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func speakerCell(run runstore.Run) string {
	if run.SpeakerCount <= 0 {
		return "-"
	}
	return strconv.Itoa(run.SpeakerCount)
}
