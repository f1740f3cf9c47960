// Package convert turns an uploaded PDF into a text, image archive, JSON or
// CSV artifact.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/pdf"
)

// fallbackFilename is used when nothing of the client-supplied name survives
// sanitization.
const fallbackFilename = "document.pdf"

// Config holds the per-service settings of the conversion pipeline
type Config struct {
	// ScratchDir receives the temporary copy of each upload
	ScratchDir string

	// MaxUploadBytes caps the accepted upload size; <= 0 disables the cap
	MaxUploadBytes int64
}

// Service orchestrates a single PDF conversion
type Service struct {
	opener     domain.Opener
	validator  *pdf.Validator
	scratchDir string
	logger     *observability.Logger
}

// NewService creates a new conversion service. The scratch directory is
// created if it does not exist.
func NewService(opener domain.Opener, cfg Config, logger *observability.Logger) (*Service, error) {
	if opener == nil {
		return nil, errors.New("convert: opener is required")
	}
	if strings.TrimSpace(cfg.ScratchDir) == "" {
		return nil, errors.New("convert: scratch directory is required")
	}
	if err := os.MkdirAll(cfg.ScratchDir, 0o750); err != nil {
		return nil, domain.IOError("Failed to create scratch directory", err)
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Service{
		opener:     opener,
		validator:  pdf.NewValidator(cfg.MaxUploadBytes),
		scratchDir: cfg.ScratchDir,
		logger:     logger.WithOperation("convert"),
	}, nil
}

// Convert validates the request, runs it through the PDF engine and
// serializes the result. The temporary artifact and the document handle are
// released on every return path.
func (s *Service) Convert(ctx context.Context, req domain.ConversionRequest) (*domain.ConversionResult, error) {
	startTime := time.Now()

	if err := s.validate(req); err != nil {
		return nil, err
	}

	name := safeName(req.Filename)
	logger := s.logger.With().
		Str("filename", name).
		Str("format", string(req.Format)).
		Logger()

	path, err := s.persist(name, req.Source)
	if err != nil {
		return nil, err
	}
	defer s.remove(logger, path)

	doc, err := s.opener.Open(path)
	if err != nil {
		if domain.TypeOf(err) == "" {
			err = domain.ParseError("Failed to open PDF", err)
		}
		logger.Warn().Err(err).Msg("Failed to open PDF")
		return nil, err
	}
	defer func() {
		if err := doc.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close PDF document")
		}
	}()

	logger.Debug().Int("pages", doc.PageCount()).Msg("Opened PDF")

	data, err := s.encode(ctx, doc, req)
	if err != nil {
		logger.Warn().Err(err).Msg("Conversion failed")
		return nil, err
	}

	logger.Info().
		Int("pages", doc.PageCount()).
		Int("bytes", len(data)).
		Dur("duration", time.Since(startTime)).
		Msg("Conversion complete")

	return &domain.ConversionResult{
		Data:        data,
		Filename:    OutputFilename(name, req.Format),
		ContentType: req.Format.ContentType(),
	}, nil
}

// validate rejects a request before any filesystem work happens
func (s *Service) validate(req domain.ConversionRequest) error {
	if req.Source == nil {
		return domain.ValidationError("no file was supplied", nil)
	}
	if err := s.validator.ValidateUpload(req.Filename, int64(len(req.Source))); err != nil {
		return err
	}
	if !req.Format.Valid() {
		_, err := domain.ParseFormat(string(req.Format))
		return err
	}
	return nil
}

// encode dispatches to the encoder of the requested format
func (s *Service) encode(ctx context.Context, doc domain.Document, req domain.ConversionRequest) ([]byte, error) {
	switch req.Format {
	case domain.FormatText:
		return encodeText(ctx, doc, req.Progress)
	case domain.FormatImages:
		return encodeImages(ctx, doc, req.Progress)
	case domain.FormatJSON:
		return encodeJSON(ctx, doc, req.Progress)
	case domain.FormatCSV:
		return encodeCSV(ctx, doc, req.Progress)
	}
	return nil, domain.ValidationError(fmt.Sprintf("invalid conversion type %q", req.Format), nil)
}

// persist writes the upload to a uniquely named file in the scratch directory
func (s *Service) persist(name string, data []byte) (string, error) {
	path := filepath.Join(s.scratchDir, uuid.NewString()+"_"+name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", domain.IOError("Failed to create temporary file", err)
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", domain.IOError("Failed to write temporary file", err)
	}

	return path, nil
}

// remove deletes the temporary artifact. Failures are logged only so that a
// finished conversion is still returned.
func (s *Service) remove(logger *observability.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error().
			Err(domain.IOError("Failed to remove temporary file", err)).
			Str("path", path).
			Msg("Cleanup failed")
	}
}

// safeName sanitizes the client filename, falling back to a fixed name when
// the sanitized result no longer looks like a PDF.
func safeName(filename string) string {
	name := pdf.SanitizeFilename(filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") || len(name) == len(".pdf") {
		return fallbackFilename
	}
	return name
}

// OutputFilename replaces the extension of a source filename with the
// suffix of the target format.
func OutputFilename(source string, format domain.Format) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	if base == "" {
		base = strings.TrimSuffix(fallbackFilename, ".pdf")
	}
	return base + format.Suffix()
}
