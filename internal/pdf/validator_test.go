package pdf

import (
	"strings"
	"testing"

	"github.com/spherical/pdf-converter/internal/domain"
)

func TestValidator_ValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{name: "valid pdf", filename: "report.pdf", size: 1024},
		{name: "upper case extension", filename: "REPORT.PDF", size: 1024},
		{name: "exactly at limit", filename: "a.pdf", size: 4096},
		{name: "empty filename", filename: "", size: 10, wantErr: "filename cannot be empty"},
		{name: "blank filename", filename: "   ", size: 10, wantErr: "filename cannot be empty"},
		{name: "text file", filename: "file.txt", size: 10, wantErr: "only .pdf files"},
		{name: "no extension", filename: "report", size: 10, wantErr: "only .pdf files"},
		{name: "pdf in the middle", filename: "report.pdf.exe", size: 10, wantErr: "only .pdf files"},
		{name: "zero bytes", filename: "empty.pdf", size: 0, wantErr: "empty"},
		{name: "over limit", filename: "big.pdf", size: 4097, wantErr: "too large"},
	}

	v := NewValidator(4096)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
			if !domain.IsType(err, domain.ErrorTypeInvalidInput) {
				t.Errorf("Expected invalid_input, got %v", err)
			}
		})
	}
}

func TestValidator_NoLimit(t *testing.T) {
	if err := NewValidator(0).ValidateUpload("huge.pdf", 1<<40); err != nil {
		t.Errorf("Unexpected error with limit disabled: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My Report (final).pdf", "My_Report_final.pdf"},
		{"../../etc/passwd", "etc_passwd"},
		{`..\..\windows\system32.pdf`, "windows_system32.pdf"},
		{"résumé.pdf", "resume.pdf"},
		{".hidden.pdf", "hidden.pdf"},
		{"日本語", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
