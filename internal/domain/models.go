package domain

import (
	"fmt"
	"strings"
)

// Format is the output kind requested for a conversion
type Format string

const (
	FormatText   Format = "text"
	FormatImages Format = "images"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
)

// Formats lists every supported output format in presentation order
var Formats = []Format{FormatText, FormatImages, FormatJSON, FormatCSV}

// ParseFormat maps a conversionType form value onto a Format
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", ValidationError(fmt.Sprintf("invalid conversion type %q (expected one of %s)", s, formatList()), nil)
	}
	return f, nil
}

// Valid reports whether f is one of the supported formats
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatImages, FormatJSON, FormatCSV:
		return true
	}
	return false
}

// Suffix replaces the source ".pdf" extension in the output filename
func (f Format) Suffix() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatImages:
		return "_images.zip"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	}
	return ""
}

// ContentType is the MIME type of the converted artifact
func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain"
	case FormatImages:
		return "application/zip"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	}
	return "application/octet-stream"
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ConversionRequest is one uploaded file plus the requested output kind
type ConversionRequest struct {
	Source   []byte
	Filename string
	Format   Format

	// Progress is called after each page is processed. Optional.
	Progress func(done, total int)
}

// ConversionResult is the converted artifact handed back to the caller
type ConversionResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Metadata is the document-level section of the JSON output
type Metadata struct {
	PageCount int    `json:"page_count"`
	Author    string `json:"author"`
	Title     string `json:"title"`
}

// PageText is one entry of the JSON pages section
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// JSONDocument is the top-level JSON output
type JSONDocument struct {
	Metadata Metadata   `json:"metadata"`
	Pages    []PageText `json:"pages"`
}
