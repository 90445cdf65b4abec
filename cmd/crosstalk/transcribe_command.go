package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crosstalk/internal/pipeline"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var model string
	var language string

	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe an audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Whisper.Model = model
			}
			if language != "" {
				cfg.Whisper.Language = language
			}

			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				result, err := p.Transcribe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Transcribed %d segments (language: %s)\n", len(result.Segments), result.Language)
				fmt.Fprintf(out, "Transcript: %s\n", result.OutputPath)
				fmt.Fprintf(out, "Report:     %s\n", result.ReportPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Whisper model (overrides config)")
	cmd.Flags().StringVar(&language, "language", "", "Audio language, or 'auto' (overrides config)")
	return cmd
}
