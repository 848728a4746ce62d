package reader

import (
	"fmt"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/textrun/font"
	"github.com/tsawler/textrun/logging"
)

// FontTable is a page's /Font resource dictionary. It implements font.Table
// and loads each font the first time it is asked for.
type FontTable struct {
	ctx  *model.Context
	page int
	dict types.Dict

	loaded map[string]fontEntry
}

type fontEntry struct {
	res *font.Resource
	err error
}

var _ font.Table = (*FontTable)(nil)

// Names returns the sorted resource names of the page's fonts.
func (t *FontTable) Names() []string {
	names := make([]string, 0, len(t.dict))
	for name := range t.dict {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Font implements font.Table.
func (t *FontTable) Font(name string) (*font.Resource, error) {
	if e, ok := t.loaded[name]; ok {
		return e.res, e.err
	}

	res, err := t.load(name)
	t.loaded[name] = fontEntry{res: res, err: err}
	if err != nil {
		logging.Logger().Warn("failed to load font", "page", t.page, "font", name, "error", err)
	}
	return res, err
}

func (t *FontTable) load(name string) (*font.Resource, error) {
	obj, ok := t.dict.Find(name)
	if !ok {
		return nil, font.ErrFontNotFound
	}

	d, err := t.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve font dictionary: %w", err)
	}
	if d == nil {
		return nil, font.ErrFontNotFound
	}

	res := &font.Resource{
		Name:     name,
		BaseFont: nameEntry(d, "BaseFont"),
		Subtype:  nameEntry(d, "Subtype"),
	}

	if tu, ok := d.Find("ToUnicode"); ok {
		data, err := t.streamContent(tu)
		if err != nil {
			return nil, fmt.Errorf("failed to load ToUnicode stream: %w", err)
		}
		res.ToUnicode = data
	}

	desc, err := t.descriptor(d)
	if err != nil {
		return nil, err
	}
	res.Descriptor = desc

	return res, nil
}

// descriptor reads the font's /FontDescriptor or, for composite fonts, the
// descriptor of the first descendant font.
func (t *FontTable) descriptor(d types.Dict) (*font.Descriptor, error) {
	obj, ok := d.Find("FontDescriptor")
	if !ok && nameEntry(d, "Subtype") == "Type0" {
		descendants, err := t.ctx.DereferenceArray(d["DescendantFonts"])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve descendant fonts: %w", err)
		}
		if len(descendants) > 0 {
			cid, err := t.ctx.DereferenceDict(descendants[0])
			if err != nil {
				return nil, fmt.Errorf("failed to resolve descendant font: %w", err)
			}
			obj, ok = cid.Find("FontDescriptor")
		}
	}
	if !ok {
		return nil, nil
	}

	fd, err := t.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve font descriptor: %w", err)
	}
	if fd == nil {
		return nil, nil
	}

	desc := &font.Descriptor{FontName: nameEntry(fd, "FontName")}
	if v, ok := t.number(fd, "Flags"); ok {
		desc.Flags = int(v)
	}
	if v, ok := t.number(fd, "MaxWidth"); ok {
		desc.MaxWidth = v
	}
	if v, ok := t.number(fd, "MissingWidth"); ok {
		desc.MissingWidth = v
	}
	if v, ok := t.number(fd, "AvgWidth"); ok {
		desc.AvgWidth, desc.HasAvgWidth = v, true
	}
	return desc, nil
}

func (t *FontTable) streamContent(obj types.Object) ([]byte, error) {
	sd, _, err := t.ctx.DereferenceStreamDict(obj)
	if err != nil {
		return nil, err
	}
	if sd == nil {
		return nil, fmt.Errorf("not a stream")
	}
	if err := sd.Decode(); err != nil {
		return nil, err
	}
	return sd.Content, nil
}

// number reads a numeric entry, following an indirect reference.
func (t *FontTable) number(d types.Dict, key string) (float64, bool) {
	obj, ok := d.Find(key)
	if !ok {
		return 0, false
	}
	obj, err := t.ctx.Dereference(obj)
	if err != nil {
		return 0, false
	}

	switch v := obj.(type) {
	case types.Integer:
		return float64(v.Value()), true
	case types.Float:
		return v.Value(), true
	}
	return 0, false
}

func nameEntry(d types.Dict, key string) string {
	if n, ok := d[key].(types.Name); ok {
		return n.Value()
	}
	return ""
}
