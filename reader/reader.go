package reader

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/textrun/contentstream"
	"github.com/tsawler/textrun/logging"
)

// Reader reads pages of a PDF document. Container parsing (cross-reference
// tables, object streams, filters, the page tree) is delegated to pdfcpu.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	ctx    *model.Context
	closer io.Closer

	// fonts caches each page's font table
	fonts map[int]*FontTable
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file

	return r, nil
}

// NewReader reads a PDF document from rs. The caller keeps ownership of rs;
// Close does not close it.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	logging.Logger().Debug("opened PDF", "version", ctx.XRefTable.Version().String(), "pages", ctx.PageCount)

	return &Reader{
		ctx:   ctx,
		fonts: make(map[int]*FontTable),
	}, nil
}

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Version returns the PDF version (e.g. "1.7").
func (r *Reader) Version() string {
	return r.ctx.XRefTable.Version().String()
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() (int, error) {
	return r.ctx.PageCount, nil
}

// PageContent returns the decoded content of a page (1-based). Multiple
// content streams are concatenated. A page without content returns nil.
func (r *Reader) PageContent(page int) ([]byte, error) {
	if err := r.checkPage(page); err != nil {
		return nil, err
	}

	rd, err := pdfcpu.ExtractPageContent(r.ctx, page)
	if err != nil {
		return nil, fmt.Errorf("page %d: failed to extract content: %w", page, err)
	}
	if rd == nil {
		return nil, nil
	}

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("page %d: failed to read content: %w", page, err)
	}
	return data, nil
}

// PageOperations returns the parsed content stream operations of a page
// (1-based).
func (r *Reader) PageOperations(page int) ([]contentstream.Operation, error) {
	data, err := r.PageContent(page)
	if err != nil {
		return nil, err
	}

	ops, err := contentstream.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("page %d: failed to parse content stream: %w", page, err)
	}

	logging.Logger().Debug("parsed page content", "page", page, "bytes", len(data), "operations", len(ops))
	return ops, nil
}

// PageFonts returns the font table of a page (1-based). Fonts are loaded on
// first use and the table is cached for the life of the Reader.
func (r *Reader) PageFonts(page int) (*FontTable, error) {
	if t, ok := r.fonts[page]; ok {
		return t, nil
	}
	if err := r.checkPage(page); err != nil {
		return nil, err
	}

	_, _, inherited, err := r.ctx.PageDict(page, true)
	if err != nil {
		return nil, fmt.Errorf("page %d: failed to load page dictionary: %w", page, err)
	}

	t := &FontTable{ctx: r.ctx, page: page, loaded: make(map[string]fontEntry)}
	if inherited != nil && inherited.Resources != nil {
		fonts, err := r.ctx.DereferenceDict(inherited.Resources["Font"])
		if err != nil {
			return nil, fmt.Errorf("page %d: failed to resolve font resources: %w", page, err)
		}
		t.dict = fonts
	}

	r.fonts[page] = t
	return t, nil
}

func (r *Reader) checkPage(page int) error {
	if page < 1 || page > r.ctx.PageCount {
		return fmt.Errorf("page %d out of range (document has %d pages)", page, r.ctx.PageCount)
	}
	return nil
}
