package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crosstalk/internal/config"
	"crosstalk/internal/pipeline"
	"crosstalk/internal/textdiar"
)

func newTextDiarCommand(ctx *commandContext) *cobra.Command {
	var method string
	var speakers int
	var maxSpeakers int
	var sentences bool
	var mergeShort bool
	var mergeThreshold int
	var localEmbeddings bool

	cmd := &cobra.Command{
		Use:   "textdiar [file]",
		Short: "Assign speaker labels to transcript text without audio",
		Long: "Assign pseudo-speaker labels (SPK1, SPK2, ...) to plain transcript text. " +
			"Reads from the given file, or from stdin when no file is named.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts, err := textDiarOptions(cfg.TextDiar, method, speakers, maxSpeakers,
				sentences, mergeShort, mergeThreshold, cmd.Flags().Changed)
			if err != nil {
				return err
			}

			sourcePath := "stdin"
			var text string
			if len(args) == 1 {
				sourcePath = args[0]
				data, err := os.ReadFile(sourcePath)
				if err != nil {
					return fmt.Errorf("read transcript: %w", err)
				}
				text = string(data)
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			return ctx.withPipeline(func(p *pipeline.Pipeline) error {
				if localEmbeddings {
					p.WithDiarizer(textdiar.New(textdiar.LocalEmbedder{}, nil, nil))
				}
				result, err := p.TextDiarize(cmd.Context(), sourcePath, text, opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, strings.TrimRight(result.Text, "\n"))
				if result.OutputPath != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Labeled transcript: %s\n", result.OutputPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "Labeling method: alternating, block, paragraph, fixed, auto, keep")
	cmd.Flags().IntVar(&speakers, "speakers", 0, "Speaker count for alternating/block/paragraph/fixed")
	cmd.Flags().IntVar(&maxSpeakers, "max-speakers", 0, "Upper bound on speakers for auto")
	cmd.Flags().BoolVar(&sentences, "sentences", false, "Split lines into sentence units")
	cmd.Flags().BoolVar(&mergeShort, "merge-short", false, "Merge consecutive short units")
	cmd.Flags().IntVar(&mergeThreshold, "merge-threshold", 0, "Unit length below which merging applies")
	cmd.Flags().BoolVar(&localEmbeddings, "local", false, "Cluster with local TF-IDF vectors instead of a sentence-transformer model")
	return cmd
}

// textDiarOptions layers flag overrides on top of configuration defaults.
// Boolean flags only override when actually set so config-enabled behavior
// survives an unset flag.
func textDiarOptions(defaults config.TextDiar, method string, speakers, maxSpeakers int,
	sentences, mergeShort bool, mergeThreshold int, changed func(string) bool) (textdiar.Options, error) {
	name := defaults.Method
	if method != "" {
		name = method
	}
	parsed, err := textdiar.ParseMethod(name)
	if err != nil {
		return textdiar.Options{}, err
	}

	opts := textdiar.Options{
		Method:         parsed,
		Speakers:       defaults.Speakers,
		MaxSpeakers:    defaults.MaxSpeakers,
		SentenceUnits:  defaults.SentenceUnits,
		MergeShort:     defaults.MergeShort,
		MergeThreshold: defaults.MergeThreshold,
	}
	if speakers > 0 {
		opts.Speakers = speakers
	}
	if maxSpeakers > 0 {
		opts.MaxSpeakers = maxSpeakers
	}
	if changed("sentences") {
		opts.SentenceUnits = sentences
	}
	if changed("merge-short") {
		opts.MergeShort = mergeShort
	}
	if mergeThreshold > 0 {
		opts.MergeThreshold = mergeThreshold
	}
	return opts, nil
}
