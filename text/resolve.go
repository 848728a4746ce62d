package text

import (
	"github.com/tsawler/textrun/font"
	"github.com/tsawler/textrun/logging"
)

// Resolver decodes runs against one page's font table. Each font's encoding
// is built once and reused for every run drawn with it.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	table font.Table
	opts  Options
	fonts map[string]*resolvedFont
}

type resolvedFont struct {
	enc      *font.Encoding
	avgWidth float64
	err      error
}

// NewResolver creates a resolver for a page's font table.
func NewResolver(table font.Table, opts Options) *Resolver {
	return &Resolver{
		table: table,
		opts:  opts.withDefaults(),
		fonts: make(map[string]*resolvedFont),
	}
}

// Resolve decodes run's bytes with its font's encoding.
//
// Errors are *font.FontLookupError, *font.MapParseError,
// *font.UnmappedCharacterError or *font.InvalidEncodingError.
func (r *Resolver) Resolve(run RawGlyphRun) (DecodedGlyphRun, error) {
	f := r.lookup(run.Font)
	if f.err != nil {
		return DecodedGlyphRun{}, f.err
	}

	s, err := f.enc.Decode(run.Raw)
	if err != nil {
		return DecodedGlyphRun{}, err
	}

	return DecodedGlyphRun{RawGlyphRun: run, Text: s, AvgWidth: f.avgWidth}, nil
}

func (r *Resolver) lookup(name string) *resolvedFont {
	if f, ok := r.fonts[name]; ok {
		return f
	}

	f := &resolvedFont{}
	r.fonts[name] = f

	res, err := r.table.Font(name)
	if err != nil {
		f.err = &font.FontLookupError{Font: name, Err: err}
		return f
	}
	if res == nil {
		f.err = &font.FontLookupError{Font: name, Err: font.ErrFontNotFound}
		return f
	}

	if res.Name == "" {
		named := *res
		named.Name = name
		res = &named
	}

	f.enc, f.err = font.NewEncoding(res)
	f.avgWidth = res.AvgWidth(r.opts.FallbackAvgWidth)

	if f.err == nil {
		logging.Logger().Debug("resolved font",
			"font", name, "base", res.BaseFont, "subtype", res.Subtype,
			"direct", f.enc.IsDirect(), "codeWidth", f.enc.CodeWidth(), "avgWidth", f.avgWidth)
	}
	return f
}
