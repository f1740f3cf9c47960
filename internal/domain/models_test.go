package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "text", input: "text", want: FormatText},
		{name: "images", input: "images", want: FormatImages},
		{name: "json", input: "json", want: FormatJSON},
		{name: "csv", input: "csv", want: FormatCSV},
		{name: "empty", input: "", wantErr: true},
		{name: "upper case", input: "CSV", wantErr: true},
		{name: "unknown", input: "docx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) expected error", tt.input)
				}
				if !IsType(err, ErrorTypeInvalidInput) {
					t.Errorf("Expected invalid_input error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat_SuffixAndContentType(t *testing.T) {
	tests := []struct {
		format      Format
		suffix      string
		contentType string
	}{
		{FormatText, ".txt", "text/plain"},
		{FormatImages, "_images.zip", "application/zip"},
		{FormatJSON, ".json", "application/json"},
		{FormatCSV, ".csv", "text/csv"},
	}

	for _, tt := range tests {
		if got := tt.format.Suffix(); got != tt.suffix {
			t.Errorf("%s.Suffix() = %q, want %q", tt.format, got, tt.suffix)
		}
		if got := tt.format.ContentType(); got != tt.contentType {
			t.Errorf("%s.ContentType() = %q, want %q", tt.format, got, tt.contentType)
		}
	}
}

func TestTypeOf_WrappedError(t *testing.T) {
	cause := errors.New("xref table broken")
	err := fmt.Errorf("convert: %w", ParseError("failed to open PDF", cause))

	if got := TypeOf(err); got != ErrorTypeParse {
		t.Errorf("TypeOf() = %q, want %q", got, ErrorTypeParse)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected the cause to stay reachable through Unwrap")
	}
	if TypeOf(cause) != "" {
		t.Error("Expected plain errors to have no type")
	}
}

func TestDomainError_Detail(t *testing.T) {
	err := ParseError("failed to open PDF", errors.New("no objects found"))
	if got, want := err.Detail(), "failed to open PDF: no objects found"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
	if got, want := err.Error(), "[parse] failed to open PDF: no objects found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := ValidationError("file is empty", nil).Detail(); got != "file is empty" {
		t.Errorf("Detail() = %q", got)
	}
}
