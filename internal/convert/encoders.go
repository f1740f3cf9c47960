package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spherical/pdf-converter/internal/domain"
)

// csvHeader is the first row of the CSV output
var csvHeader = []string{"Page Number", "Text"}

// eachPage calls fn for every page in document order, checking for
// cancellation before each page and reporting progress after it.
func eachPage(ctx context.Context, doc domain.Document, progress func(done, total int), fn func(p domain.Page) error) error {
	total := doc.PageCount()
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(doc.Page(i)); err != nil {
			return err
		}

		if progress != nil {
			progress(i+1, total)
		}
	}
	return nil
}

// pageText extracts the text of p, typing untyped engine failures as parse errors
func pageText(p domain.Page) (string, error) {
	text, err := p.Text()
	if err != nil {
		if domain.TypeOf(err) == "" {
			err = domain.ParseError(fmt.Sprintf("Failed to extract text from page %d", p.Number()), err)
		}
		return "", err
	}
	return text, nil
}

// encodeText joins the text of every page with a line break
func encodeText(ctx context.Context, doc domain.Document, progress func(done, total int)) ([]byte, error) {
	texts := make([]string, 0, doc.PageCount())
	err := eachPage(ctx, doc, progress, func(p domain.Page) error {
		text, err := pageText(p)
		if err != nil {
			return err
		}
		texts = append(texts, text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(texts, "\n")), nil
}

// encodeImages renders every page to PNG and packs them into a deflated ZIP
// archive as page_<n>.png
func encodeImages(ctx context.Context, doc domain.Document, progress func(done, total int)) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := eachPage(ctx, doc, progress, func(p domain.Page) error {
		img, err := p.Rasterize()
		if err != nil {
			if domain.TypeOf(err) == "" {
				err = domain.ParseError(fmt.Sprintf("Failed to render page %d", p.Number()), err)
			}
			return err
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   fmt.Sprintf("page_%d.png", p.Number()),
			Method: zip.Deflate,
		})
		if err != nil {
			return domain.SerializationError(fmt.Sprintf("Failed to add page %d to archive", p.Number()), err)
		}
		if _, err := w.Write(img); err != nil {
			return domain.SerializationError(fmt.Sprintf("Failed to write page %d to archive", p.Number()), err)
		}
		return nil
	})
	if err != nil {
		_ = zw.Close()
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, domain.SerializationError("Failed to finalize archive", err)
	}
	return buf.Bytes(), nil
}

// encodeJSON emits the document metadata followed by the text of each page
func encodeJSON(ctx context.Context, doc domain.Document, progress func(done, total int)) ([]byte, error) {
	out := domain.JSONDocument{
		Metadata: doc.Metadata(),
		Pages:    make([]domain.PageText, 0, doc.PageCount()),
	}
	out.Metadata.PageCount = doc.PageCount()

	err := eachPage(ctx, doc, progress, func(p domain.Page) error {
		text, err := pageText(p)
		if err != nil {
			return err
		}
		out.Pages = append(out.Pages, domain.PageText{PageNumber: p.Number(), Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, domain.SerializationError("Failed to encode JSON", err)
	}
	return data, nil
}

// encodeCSV emits one "Page Number,Text" row per page
func encodeCSV(ctx context.Context, doc domain.Document, progress func(done, total int)) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, domain.SerializationError("Failed to write CSV header", err)
	}

	err := eachPage(ctx, doc, progress, func(p domain.Page) error {
		text, err := pageText(p)
		if err != nil {
			return err
		}
		if err := w.Write([]string{strconv.Itoa(p.Number()), text}); err != nil {
			return domain.SerializationError(fmt.Sprintf("Failed to write CSV row for page %d", p.Number()), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.SerializationError("Failed to flush CSV", err)
	}
	return buf.Bytes(), nil
}
