package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crosstalk/internal/segline"
)

func newRenameCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:         "rename <transcript> OLD=NEW [OLD=NEW...]",
		Short:       "Rename speaker labels in a rendered transcript",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			names, err := parseRenamePairs(args[1:])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}

			renamed := segline.RenameSpeakers(string(data), names)
			if write {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat transcript: %w", err)
				}
				if err := os.WriteFile(path, []byte(renamed), info.Mode().Perm()); err != nil {
					return fmt.Errorf("write transcript: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Renamed %d speakers in %s\n", len(names), path)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renamed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file in place instead of printing")
	return cmd
}

func parseRenamePairs(pairs []string) (map[string]string, error) {
	names := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		old, name, found := strings.Cut(pair, "=")
		old = strings.TrimSpace(old)
		name = strings.TrimSpace(name)
		if !found || old == "" || name == "" {
			return nil, fmt.Errorf("invalid rename %q, expected OLD=NEW", pair)
		}
		names[old] = name
	}
	return names, nil
}
