package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/export"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/extract"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/parser"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/service"
)

// ErrProblemsFound is returned in strict mode when the result carries errors.
var ErrProblemsFound = errors.New("conversion reported errors")

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
	formatJSON = "json"
)

type convertOptions struct {
	format    string
	out       string
	extractor string
	pdftotext string
	strict    bool
}

func newConvertCmd() *cobra.Command {
	opts := convertOptions{}

	convertCmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert journal documents into a payslip table",
		Long: `Convert parses every document into one table. The same staff member and
month may appear in several documents; their lines are added together.

Errors and ignored lines are logged to stderr. With --format json they are
also part of the output.

Use --extractor text to read journals that were already converted to text,
with pages separated by form feeds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args)
		},
	}

	convertCmd.Flags().StringVarP(&opts.format, "format", "f", formatCSV, "output format: csv, xlsx or json")
	convertCmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVar(&opts.extractor, "extractor", envOr("EXTRACTOR", string(extract.KindPdftotext)), "text extractor: pdftotext, native or text")
	convertCmd.Flags().StringVar(&opts.pdftotext, "pdftotext", envOr("PDFTOTEXT_PATH", "pdftotext"), "path to the pdftotext binary")
	convertCmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when the conversion reports errors")

	return convertCmd
}

func runConvert(cmd *cobra.Command, opts convertOptions, paths []string) error {
	switch opts.format {
	case formatCSV, formatXLSX, formatJSON:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	extractor, err := extract.New(extract.Kind(opts.extractor), opts.pdftotext)
	if err != nil {
		return err
	}

	logger := slog.Default()
	svc := service.NewConvertService(extractor, logger)
	if extract.Kind(opts.extractor) == extract.KindText {
		svc.WithAcceptedTypes("text/plain")
	}

	docs := make([]service.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	res, err := svc.Convert(cmd.Context(), docs)
	if err != nil {
		return err
	}

	for _, msg := range res.Errors {
		logger.Warn(msg)
	}
	for _, line := range res.Ignored {
		logger.Debug("ignored line", slog.String("line", line))
	}

	if err := writeResult(cmd.OutOrStdout(), opts, res); err != nil {
		return err
	}

	if opts.strict && len(res.Errors) > 0 {
		return fmt.Errorf("%w: %d", ErrProblemsFound, len(res.Errors))
	}
	return nil
}

func readDocument(path string) (service.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return service.Document{
		Name:        filepath.Base(path),
		ContentType: contentType(path, data),
		Data:        data,
	}, nil
}

// contentType guesses from the extension first and the content second.
func contentType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func writeResult(stdout io.Writer, opts convertOptions, res *parser.Result) (err error) {
	w := stdout
	if opts.out != "" {
		f, createErr := os.Create(opts.out)
		if createErr != nil {
			return fmt.Errorf("failed to create output: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	switch opts.format {
	case formatXLSX:
		return export.Write(w, res)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		_, err = io.WriteString(w, res.CSV)
		return err
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
