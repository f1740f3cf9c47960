// Package server exposes the conversion service over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/observability"
)

const (
	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to disk.
	multipartMemory = 32 << 20

	// formOverhead leaves room for multipart boundaries and the
	// conversionType field on top of the file size cap.
	formOverhead = 1 << 20
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var formatLabels = map[domain.Format]string{
	domain.FormatText:   "Plain text (.txt)",
	domain.FormatImages: "Page images (.zip of PNG)",
	domain.FormatJSON:   "JSON (.json)",
	domain.FormatCSV:    "CSV (.csv)",
}

// Converter runs a single conversion
type Converter interface {
	Convert(ctx context.Context, req domain.ConversionRequest) (*domain.ConversionResult, error)
}

// Handler serves the upload form and the conversion endpoint.
type Handler struct {
	logger         *observability.Logger
	converter      Converter
	maxUploadBytes int64
}

// NewHandler creates a new conversion handler. maxUploadBytes <= 0 disables
// the request body cap.
func NewHandler(logger *observability.Logger, converter Converter, maxUploadBytes int64) *Handler {
	return &Handler{
		logger:         logger,
		converter:      converter,
		maxUploadBytes: maxUploadBytes,
	}
}

type formatOption struct {
	Value string
	Label string
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Formats   []formatOption
		MaxUpload string
	}{}
	for _, f := range domain.Formats {
		data.Formats = append(data.Formats, formatOption{Value: string(f), Label: formatLabels[f]})
	}
	if h.maxUploadBytes > 0 {
		data.MaxUpload = humanize.IBytes(uint64(h.maxUploadBytes))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render upload form")
	}
}

// Convert handles POST /convert.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(chimiddleware.GetReqID(r.Context()))

	if h.maxUploadBytes > 0 {
		limit := h.maxUploadBytes + formOverhead
		if r.ContentLength > limit {
			h.writeTooLarge(w)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.writeTooLarge(w)
		case errors.Is(err, http.ErrNotMultipart):
			h.redirectToForm(w, r)
		default:
			h.writeText(w, http.StatusBadRequest, "Invalid upload: "+err.Error())
		}
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove multipart temp files")
		}
	}()

	file, header, err := r.FormFile("pdfFile")
	if err != nil {
		h.redirectToForm(w, r)
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		h.redirectToForm(w, r)
		return
	}

	format, err := domain.ParseFormat(r.FormValue("conversionType"))
	if err != nil {
		h.writeError(w, logger, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, logger, domain.IOError("Failed to read upload", err))
		return
	}

	result, err := h.converter.Convert(r.Context(), domain.ConversionRequest{
		Source:   data,
		Filename: header.Filename,
		Format:   format,
	})
	if err != nil {
		h.writeError(w, logger, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": result.Filename,
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy","service":"pdf-converter"}`))
}

func (h *Handler) redirectToForm(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// writeError maps a conversion error onto a plain-text response
func (h *Handler) writeError(w http.ResponseWriter, logger *observability.Logger, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Type == domain.ErrorTypeInvalidInput {
		logger.Info().Str("reason", de.Detail()).Msg("Rejected conversion request")
		h.writeText(w, http.StatusBadRequest, de.Detail())
		return
	}

	logger.Error().Err(err).Msg("Conversion failed")

	switch {
	case de != nil:
		h.writeText(w, http.StatusInternalServerError, "Conversion failed: "+de.Detail())
	case errors.Is(err, context.DeadlineExceeded):
		h.writeText(w, http.StatusInternalServerError, "Conversion failed: request timed out")
	default:
		h.writeText(w, http.StatusInternalServerError, "Conversion failed: "+err.Error())
	}
}

func (h *Handler) writeTooLarge(w http.ResponseWriter) {
	h.writeText(w, http.StatusRequestEntityTooLarge,
		"File is too large (limit "+humanize.IBytes(uint64(h.maxUploadBytes))+")")
}

func (h *Handler) writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, message+"\n")
}
