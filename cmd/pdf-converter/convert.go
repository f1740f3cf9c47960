package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/internal/convert"
	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/pdf"
	"github.com/spherical/pdf-converter/internal/server"
)

type convertOptions struct {
	input  string
	format string
	output string
}

// newConvertCmd creates the convert subcommand.
func newConvertCmd() *cobra.Command {
	opts := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file.pdf>",
		Short: "Convert a local PDF file",
		Long: `Convert a local PDF into text, page images, JSON or CSV.

The output is written next to the input unless --output is given:
  report.pdf --to text    -> report.txt
  report.pdf --to images  -> report_images.zip
  report.pdf --to json    -> report.json
  report.pdf --to csv     -> report.csv`,
		Example: `  pdf-converter convert report.pdf --to csv
  pdf-converter convert scans/invoice.pdf --to images --output /tmp/invoice.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := convert.NewService(pdf.NewEngine(cfg.Conversion.ImageDPI), convert.Config{
				ScratchDir:     cfg.Conversion.ScratchDir,
				MaxUploadBytes: cfg.Conversion.MaxUploadBytes,
			}, logger)
			if err != nil {
				return fmt.Errorf("create conversion service: %w", err)
			}

			ui := NewUI(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)
			if _, err := runConvert(ctx, svc, ui, opts); err != nil {
				ui.Error("%s", describeError(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "to", "t", string(domain.FormatText),
		fmt.Sprintf("output format (%s)", strings.Join(formatNames(), "|")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: next to the input)")

	return cmd
}

// runConvert converts opts.input and writes the artifact, returning the
// path it was written to.
func runConvert(ctx context.Context, conv server.Converter, ui *UI, opts convertOptions) (string, error) {
	format, err := domain.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", opts.input, err)
	}

	ui.Info("Converting %s (%s) to %s", filepath.Base(opts.input), humanize.IBytes(uint64(len(data))), format)

	progress := ui.NewPageProgress("Processing pages")
	start := time.Now()

	result, err := conv.Convert(ctx, domain.ConversionRequest{
		Source:   data,
		Filename: filepath.Base(opts.input),
		Format:   format,
		Progress: progress.Update,
	})
	progress.Finish()
	if err != nil {
		return "", err
	}

	if format == domain.FormatText && strings.TrimSpace(string(result.Data)) == "" {
		ui.Warning("No text could be extracted; the PDF may contain only scanned images")
	}

	dest := opts.output
	if dest == "" {
		dest = filepath.Join(filepath.Dir(opts.input), result.Filename)
	}
	if err := os.WriteFile(dest, result.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	ui.Success("Wrote %s (%s) in %s", dest, humanize.IBytes(uint64(len(result.Data))), time.Since(start).Round(time.Millisecond))
	return dest, nil
}

// describeError renders conversion failures the way the upload form does.
func describeError(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if de.Type == domain.ErrorTypeInvalidInput {
			return de.Detail()
		}
		return "Conversion failed: " + de.Detail()
	}
	return err.Error()
}

func formatNames() []string {
	names := make([]string, len(domain.Formats))
	for i, f := range domain.Formats {
		names[i] = string(f)
	}
	return names
}
