package extract

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{"empty", "", nil},
		{"single page", "a\nb", [][]string{{"a", "b"}}},
		{"two pages", "a\nb\fc", [][]string{{"a", "b"}, {"c"}}},
		{"trailing form feed", "a\fb\n\f", [][]string{{"a"}, {"b", ""}}},
		{"crlf", "a\r\nb", [][]string{{"a", "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPages(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	e, err := New(KindPdftotext, "")
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", e.(*Pdftotext).Path)

	e, err = New(KindPdftotext, "/usr/local/bin/pdftotext")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/pdftotext", e.(*Pdftotext).Path)

	e, err = New(KindNative, "")
	require.NoError(t, err)
	assert.IsType(t, &Native{}, e)

	e, err = New(KindText, "")
	require.NoError(t, err)
	assert.IsType(t, &Text{}, e)

	_, err = New("ocr", "")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestText_Extract(t *testing.T) {
	pages, err := (&Text{}).Extract(context.Background(), strings.NewReader("│123456 DUPONT\n│ │\fNr 1 van 01/03/2024"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"│123456 DUPONT", "│ │"}, {"Nr 1 van 01/03/2024"}}, pages)
}

func TestNative_ExtractRejectsNonPDF(t *testing.T) {
	_, err := (&Native{}).Extract(context.Background(), strings.NewReader("not a pdf"))
	assert.Error(t, err)
}

func TestPdftotext_ExtractFailure(t *testing.T) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		t.Skip("pdftotext not installed")
	}
	_, err := (&Pdftotext{Path: "pdftotext"}).Extract(context.Background(), strings.NewReader("not a pdf"))
	assert.Error(t, err)
}

func TestPdftotext_MissingBinary(t *testing.T) {
	_, err := (&Pdftotext{Path: "/nonexistent/pdftotext"}).Extract(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}
