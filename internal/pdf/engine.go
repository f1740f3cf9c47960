package pdf

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/spherical/pdf-converter/internal/domain"
)

// DefaultDPI is MuPDF's native page resolution
const DefaultDPI = 72

// Engine implements domain.Opener using go-fitz
type Engine struct {
	dpi float64
}

// NewEngine creates a new MuPDF-backed engine rendering pages at dpi.
// A non-positive dpi selects DefaultDPI.
func NewEngine(dpi int) *Engine {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Engine{dpi: float64(dpi)}
}

// Open opens the PDF at path
func (e *Engine) Open(path string) (domain.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, domain.ParseError("Failed to open PDF", err)
	}
	return &document{doc: doc, dpi: e.dpi}, nil
}

type document struct {
	doc *fitz.Document
	dpi float64
}

func (d *document) PageCount() int {
	return d.doc.NumPage()
}

func (d *document) Page(i int) domain.Page {
	return &page{doc: d, index: i}
}

func (d *document) Metadata() domain.Metadata {
	info := d.doc.Metadata()
	return domain.Metadata{
		PageCount: d.doc.NumPage(),
		Author:    infoString(info["author"]),
		Title:     infoString(info["title"]),
	}
}

// infoString cleans a document information value. MuPDF fills a fixed-size
// C buffer, so the value ends at the first NUL.
func infoString(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func (d *document) Close() error {
	return d.doc.Close()
}

type page struct {
	doc   *document
	index int
}

func (p *page) Number() int {
	return p.index + 1
}

func (p *page) Text() (string, error) {
	text, err := p.doc.doc.Text(p.index)
	if err != nil {
		return "", domain.ParseError(fmt.Sprintf("Failed to extract text from page %d", p.Number()), err)
	}
	return text, nil
}

func (p *page) Rasterize() ([]byte, error) {
	img, err := p.doc.doc.ImagePNG(p.index, p.doc.dpi)
	if err != nil {
		return nil, domain.ParseError(fmt.Sprintf("Failed to render page %d", p.Number()), err)
	}
	return img, nil
}
