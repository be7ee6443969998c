// Package extract turns uploaded journal documents into pages of text lines.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dslipak/pdf"
)

// ErrUnknownKind is returned by New for an extractor name it does not know.
var ErrUnknownKind = errors.New("unknown extractor")

// Extractor reads a document and returns its text, one slice of lines per page.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) ([][]string, error)
}

// Kind identifies an extractor implementation
type Kind string

const (
	KindPdftotext Kind = "pdftotext"
	KindNative    Kind = "native"
	KindText      Kind = "text"
)

// New creates an extractor. path is only used by the pdftotext kind.
func New(kind Kind, path string) (Extractor, error) {
	switch kind {
	case KindPdftotext:
		if path == "" {
			path = "pdftotext"
		}
		return &Pdftotext{Path: path}, nil
	case KindNative:
		return &Native{}, nil
	case KindText:
		return &Text{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Pdftotext runs poppler's pdftotext in raw mode, which keeps the text in
// content stream order and the table borders on the lines they belong to.
type Pdftotext struct {
	Path string
}

func (p *Pdftotext) Extract(ctx context.Context, r io.Reader) ([][]string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Path, "-raw", "-enc", "UTF-8", "-", "-")
	cmd.Stdin = r
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return SplitPages(stdout.String()), nil
}

// Native extracts text in-process. It does not see page breaks, so the whole
// document comes back as a single page.
type Native struct{}

func (n *Native) Extract(ctx context.Context, r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	text, err := doc.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return nil, fmt.Errorf("failed to read extracted text: %w", err)
	}
	return SplitPages(buf.String()), nil
}

// Text reads documents that are already plain text, pages separated by form feeds.
type Text struct{}

func (t *Text) Extract(ctx context.Context, r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return SplitPages(string(data)), nil
}

// SplitPages splits text into pages on form feeds and pages into lines. A
// trailing form feed does not produce an empty page.
func SplitPages(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\f")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\f")
	pages := make([][]string, len(raw))
	for i, page := range raw {
		pages[i] = strings.Split(page, "\n")
	}
	return pages
}
