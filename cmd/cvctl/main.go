// Command cvctl runs the CV polisher pipeline from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cv-polisher/internal/shared/telemetry"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cvctl",
		Short:         "CV polisher developer tool",
		Long:          "cvctl builds polish prompts, runs completions against the configured provider and renders text to PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPromptCmd(), newPolishCmd(), newRenderCmd())
	return root
}

func main() {
	telemetry.Configure("warn", "console")
	defer telemetry.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		telemetry.Sync()
		os.Exit(1)
	}
}
