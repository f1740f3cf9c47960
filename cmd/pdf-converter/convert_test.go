package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-converter/internal/domain"
)

type stubConverter struct {
	result *domain.ConversionResult
	err    error
	last   domain.ConversionRequest
}

func (s *stubConverter) Convert(_ context.Context, req domain.ConversionRequest) (*domain.ConversionResult, error) {
	s.last = req
	if req.Progress != nil {
		req.Progress(1, 2)
		req.Progress(2, 2)
	}
	return s.result, s.err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o600))
	return path
}

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewUI(&out, &errOut, true), &out, &errOut
}

func TestRunConvert_WritesNextToInput(t *testing.T) {
	input := writeInput(t)
	stub := &stubConverter{result: &domain.ConversionResult{
		Data:        []byte("Page Number,Text\n1,hello\n"),
		Filename:    "report.csv",
		ContentType: "text/csv",
	}}
	ui, out, _ := newTestUI()

	dest, err := runConvert(context.Background(), stub, ui, convertOptions{input: input, format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(input), "report.csv"), dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Page Number,Text\n1,hello\n", string(data))

	assert.Equal(t, "report.pdf", stub.last.Filename)
	assert.Equal(t, domain.FormatCSV, stub.last.Format)
	assert.Equal(t, []byte("%PDF-1.7"), stub.last.Source)
	assert.Contains(t, out.String(), "✓ Wrote")
}

func TestRunConvert_ExplicitOutput(t *testing.T) {
	input := writeInput(t)
	dest := filepath.Join(t.TempDir(), "pages.zip")
	stub := &stubConverter{result: &domain.ConversionResult{Data: []byte("PK"), Filename: "report_images.zip"}}
	ui, _, _ := newTestUI()

	got, err := runConvert(context.Background(), stub, ui, convertOptions{input: input, format: "images", output: dest})
	require.NoError(t, err)
	assert.Equal(t, dest, got)
	assert.FileExists(t, dest)
}

func TestRunConvert_WarnsOnEmptyText(t *testing.T) {
	input := writeInput(t)
	stub := &stubConverter{result: &domain.ConversionResult{Data: []byte(" \n\n "), Filename: "report.txt"}}
	ui, _, errOut := newTestUI()

	_, err := runConvert(context.Background(), stub, ui, convertOptions{input: input, format: "text"})
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "No text could be extracted")
}

func TestRunConvert_Errors(t *testing.T) {
	input := writeInput(t)

	t.Run("unknown format", func(t *testing.T) {
		stub := &stubConverter{}
		ui, _, _ := newTestUI()
		_, err := runConvert(context.Background(), stub, ui, convertOptions{input: input, format: "docx"})
		assert.True(t, domain.IsType(err, domain.ErrorTypeInvalidInput))
		assert.Empty(t, stub.last.Filename)
	})

	t.Run("missing input", func(t *testing.T) {
		ui, _, _ := newTestUI()
		_, err := runConvert(context.Background(), &stubConverter{}, ui, convertOptions{input: filepath.Join(t.TempDir(), "nope.pdf"), format: "text"})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("conversion failure", func(t *testing.T) {
		stub := &stubConverter{err: domain.ParseError("Failed to open PDF", errors.New("no objects found"))}
		ui, _, _ := newTestUI()
		_, err := runConvert(context.Background(), stub, ui, convertOptions{input: input, format: "json"})
		assert.True(t, domain.IsType(err, domain.ErrorTypeParse))
		assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "report.json"))
	})
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "uploaded file is empty", describeError(domain.ValidationError("uploaded file is empty", nil)))
	assert.Equal(t, "Conversion failed: Failed to open PDF: bad xref",
		describeError(domain.ParseError("Failed to open PDF", errors.New("bad xref"))))
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}
