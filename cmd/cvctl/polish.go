package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cv-polisher/internal/bootstrap"
	"cv-polisher/internal/polish"
	"cv-polisher/internal/render"
	"cv-polisher/internal/shared/config"
)

func newPolishCmd() *cobra.Command {
	var flags fieldFlags
	var outPath string
	cmd := &cobra.Command{
		Use:   "polish",
		Short: "Polish a CV with the configured completion provider",
		Long:  "Runs one completion using AI_API_KEY, AI_API_URL and LLM_MODEL from the environment, prints the result and optionally writes it as PDF.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			fields, err := flags.fields(cfg.MaxFieldLength)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if cfg.PolishTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.PolishTimeout)
				defer cancel()
			}

			client, closeFn, err := bootstrap.BuildLLM(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			text, err := client.Complete(ctx, polish.BuildPrompt(fields))
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
				return err
			}
			if outPath == "" {
				return nil
			}
			return writePDF(outPath, text)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the polished CV as PDF to this path")
	return cmd
}

func writePDF(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.NewPDF(render.DefaultLayout()).Render(f, text); err != nil {
		f.Close()
		return &polish.RenderError{Err: err}
	}
	return f.Close()
}
