package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cv-polisher/internal/extract"
	"cv-polisher/internal/polish"
	"cv-polisher/internal/render"
)

func newRenderCmd() *cobra.Command {
	var inPath, outPath string
	var verify bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a text file to PDF with the download layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readInput(cmd, inPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				text = polish.Placeholder
			}
			if err := writePDF(outPath, text); err != nil {
				return err
			}
			if verify {
				if err := verifyPDF(outPath, text); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "OK: wrote %s\n", outPath)
			return err
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "-", "Input text file, - for stdin")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PDF path (required)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Extract the written PDF and check every input line is present")
	if err := cmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	return cmd
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// verifyPDF checks that each non-blank input line appears in the extracted
// text, in order. Extraction drops whitespace between runs, so lines are
// compared with spaces removed.
func verifyPDF(path, text string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	got, err := extract.PDFText(context.Background(), data)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}
	got = squash(got)
	pos := 0
	for i, line := range render.Lines(text, render.DefaultLayout().TabWidth) {
		want := squash(line)
		if want == "" {
			continue
		}
		idx := strings.Index(got[pos:], want)
		if idx < 0 {
			return fmt.Errorf("verify: line %d %q not found in rendered pdf", i+1, line)
		}
		pos += idx + len(want)
	}
	return nil
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
