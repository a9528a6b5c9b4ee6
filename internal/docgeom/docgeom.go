// Package docgeom abstracts the document-parsing capability the layout
// profiler consumes: page geometry, embedded image placement, glyph counts,
// and word bounding boxes. The default provider is backed by pdfcpu; tests
// and alternative formats plug in through the Opener interface.
package docgeom

// Box is an axis-aligned bounding box in page units.
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Area returns the box area. Inverted or degenerate boxes yield zero,
// never a negative value.
func (b Box) Area() float64 {
	w := b.X1 - b.X0
	h := b.Y1 - b.Y0
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w * h
}

// Page exposes the per-page geometry the profiler needs.
type Page interface {
	// Width returns the page width in page units.
	Width() float64
	// Height returns the page height in page units.
	Height() float64
	// Images returns the placement boxes of embedded images on the page.
	Images() []Box
	// CharCount returns the number of visible glyphs on the page.
	CharCount() int
	// ExtractWords returns approximate word bounding boxes. A failure here
	// is recoverable: callers treat the page as having no words.
	ExtractWords() ([]Box, error)
}

// Document is an opened document ready for page iteration.
type Document interface {
	PageCount() int
	// Metadata returns document-level info fields (Title, Author, Producer...).
	Metadata() map[string]string
	// Pages returns the document's pages in order.
	Pages() []Page
	Close() error
}

// Opener opens a document at a filesystem path.
type Opener interface {
	Open(path string) (Document, error)
}
