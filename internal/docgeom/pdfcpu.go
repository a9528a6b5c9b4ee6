package docgeom

import (
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	apperrors "go-doc-inspector/internal/errors"
	"go-doc-inspector/internal/logger"
)

// PDFOpener opens PDF documents through pdfcpu. Geometry is recovered by
// parsing page content streams, so image placement and word boxes are
// approximations rather than rendered coordinates.
type PDFOpener struct {
	conf *model.Configuration
}

// NewPDFOpener creates a PDF-backed Opener with default parser settings.
func NewPDFOpener() *PDFOpener {
	return &PDFOpener{conf: model.NewDefaultConfiguration()}
}

// Open parses the PDF at path and materializes all page geometry eagerly.
// The returned Document holds no open file handles.
func (o *PDFOpener) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewInputNotFoundError("document not found: "+path, err)
		}
		return nil, apperrors.NewDocumentUnreadableError("failed to open document", err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, o.conf)
	if err != nil {
		return nil, apperrors.NewDocumentUnreadableError("failed to parse document", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, apperrors.NewDocumentUnreadableError("failed to read page dimensions", err)
	}

	doc := &pdfDocument{metadata: infoFields(ctx)}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		page := &pdfPage{}
		if pageNr-1 < len(dims) {
			page.width = dims[pageNr-1].Width
			page.height = dims[pageNr-1].Height
		}

		hasImages := len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0
		content := readPageContent(ctx, pageNr)
		if content == nil {
			logger.WithField("page", pageNr).Debug("No readable content stream for page")
			if hasImages {
				// Image objects exist but placement is unknown; assume the
				// page is the image, which is the common scanned-page shape.
				page.images = []Box{{X0: 0, Y0: 0, X1: page.width, Y1: page.height}}
			}
			doc.pages = append(doc.pages, page)
			continue
		}

		parsed := parseContent(content, hasImages)
		page.images = parsed.imageBoxes
		page.words = parsed.wordBoxes
		page.charCount = parsed.charCount
		if hasImages && len(page.images) == 0 {
			page.images = []Box{{X0: 0, Y0: 0, X1: page.width, Y1: page.height}}
		}
		doc.pages = append(doc.pages, page)
	}

	return doc, nil
}

func readPageContent(ctx *model.Context, pageNr int) []byte {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return nil
	}
	return data
}

// infoFields collects the document information dictionary entries pdfcpu
// surfaces on the cross-reference table.
func infoFields(ctx *model.Context) map[string]string {
	meta := make(map[string]string)
	put := func(key, val string) {
		if val != "" {
			meta[key] = val
		}
	}
	put("Title", ctx.Title)
	put("Author", ctx.Author)
	put("Subject", ctx.Subject)
	put("Creator", ctx.Creator)
	put("Producer", ctx.Producer)
	return meta
}

type pdfDocument struct {
	metadata map[string]string
	pages    []Page
}

func (d *pdfDocument) PageCount() int              { return len(d.pages) }
func (d *pdfDocument) Metadata() map[string]string { return d.metadata }
func (d *pdfDocument) Pages() []Page               { return d.pages }
func (d *pdfDocument) Close() error                { return nil }

type pdfPage struct {
	width     float64
	height    float64
	images    []Box
	words     []Box
	charCount int
}

func (p *pdfPage) Width() float64  { return p.width }
func (p *pdfPage) Height() float64 { return p.height }
func (p *pdfPage) Images() []Box   { return p.images }
func (p *pdfPage) CharCount() int  { return p.charCount }

func (p *pdfPage) ExtractWords() ([]Box, error) { return p.words, nil }
