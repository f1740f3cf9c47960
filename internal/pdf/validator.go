package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spherical/pdf-converter/internal/domain"
)

// Validator provides input validation for uploaded PDF files
type Validator struct {
	maxBytes int64
}

// NewValidator creates a new validator. maxBytes <= 0 disables the size cap.
func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// ValidateUpload validates the client-supplied filename and payload size
func (v *Validator) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return domain.ValidationError("filename cannot be empty", nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		if ext == "" {
			return domain.ValidationError("invalid file type: only .pdf files are accepted", nil)
		}
		return domain.ValidationError(fmt.Sprintf("invalid file type: only .pdf files are accepted (got %s)", ext), nil)
	}

	if size <= 0 {
		return domain.ValidationError("uploaded file is empty", nil)
	}

	if v.maxBytes > 0 && size > v.maxBytes {
		return domain.ValidationError(fmt.Sprintf("file is too large (%s, limit %s)",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(v.maxBytes))), nil)
	}

	return nil
}
