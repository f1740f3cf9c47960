package domain

// Opener opens a PDF stored on disk
type Opener interface {
	// Open parses the file at path. The caller owns the returned Document
	// and must Close it.
	Open(path string) (Document, error)
}

// Document is an opened PDF. It is owned by a single conversion and is
// never shared between requests.
type Document interface {
	// PageCount returns the number of pages
	PageCount() int

	// Page returns the page at the zero-based index i
	Page(i int) Page

	// Metadata returns the document information dictionary
	Metadata() Metadata

	// Close releases the underlying engine resources
	Close() error
}

// Page is a read-only view of one page. It must not be used after its
// Document is closed.
type Page interface {
	// Number is the 1-based position of the page in the document
	Number() int

	// Text extracts the text layer of the page
	Text() (string, error)

	// Rasterize renders the page as a PNG image
	Rasterize() ([]byte, error)
}
