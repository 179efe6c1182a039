package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cv-polisher/internal/polish"
)

func newPromptCmd() *cobra.Command {
	var flags fieldFlags
	var maxLen int
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the completion prompt built from the given fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := flags.fields(maxLen)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), polish.BuildPrompt(fields))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&maxLen, "max-field-length", 5000, "Maximum characters per field")
	return cmd
}
