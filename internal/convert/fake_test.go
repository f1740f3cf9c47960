package convert

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spherical/pdf-converter/internal/domain"
)

// fakeOpener stands in for the MuPDF engine. Every opened document is
// recorded so tests can assert on paths and on Close.
type fakeOpener struct {
	pages   []string
	meta    domain.Metadata
	openErr error
	textErr map[int]error // keyed by 1-based page number
	rastErr map[int]error

	// onOpen runs against the persisted upload before the document is opened
	onOpen func(path string)

	mu     sync.Mutex
	opened []*fakeDocument
}

func newFakeOpener(pages ...string) *fakeOpener {
	return &fakeOpener{pages: pages}
}

func (o *fakeOpener) Open(path string) (domain.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("fake opener: %w", err)
	}
	if o.onOpen != nil {
		o.onOpen(path)
	}
	if o.openErr != nil {
		return nil, o.openErr
	}

	doc := &fakeDocument{opener: o, path: path}
	o.mu.Lock()
	o.opened = append(o.opened, doc)
	o.mu.Unlock()
	return doc, nil
}

func (o *fakeOpener) documents() []*fakeDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeDocument(nil), o.opened...)
}

type fakeDocument struct {
	opener *fakeOpener
	path   string

	mu     sync.Mutex
	closed bool
}

func (d *fakeDocument) PageCount() int {
	return len(d.opener.pages)
}

func (d *fakeDocument) Page(i int) domain.Page {
	return &fakePage{doc: d, index: i}
}

func (d *fakeDocument) Metadata() domain.Metadata {
	return d.opener.meta
}

func (d *fakeDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("fake document closed twice")
	}
	d.closed = true
	return nil
}

func (d *fakeDocument) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakePage struct {
	doc   *fakeDocument
	index int
}

func (p *fakePage) Number() int {
	return p.index + 1
}

func (p *fakePage) Text() (string, error) {
	if err := p.doc.opener.textErr[p.Number()]; err != nil {
		return "", err
	}
	return p.doc.opener.pages[p.index], nil
}

func (p *fakePage) Rasterize() ([]byte, error) {
	if err := p.doc.opener.rastErr[p.Number()]; err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("\x89PNG fake image of page %d", p.Number())), nil
}
