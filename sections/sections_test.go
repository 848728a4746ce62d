package sections

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pages [][]string
	fail  map[int]error
	calls []int
}

func (s *fakeSource) PageCount() (int, error) {
	return len(s.pages), nil
}

func (s *fakeSource) PageStrings(page int) ([]string, error) {
	s.calls = append(s.calls, page)
	if err := s.fail[page]; err != nil {
		return nil, err
	}
	return s.pages[page-1], nil
}

func appendix() *fakeSource {
	return &fakeSource{pages: [][]string{
		{"Sectional Appendix", "December 2025", "i"},
		{"Table of Contents", "Introduction", "iii", "Index of Locations", "xii", "Diagrams", "1", "ii"},
		{"Introduction", "Some text", "iii"},
		{"Index of Locations", "Name", "Location", "Diagram", "Notes", "Acton Bridge", "MD101-001", "Footer", "xii"},
		{"Index of Locations", "Name", "Location", "Diagram", "Bletchley", "MD102-004", "Crewe", "MD103-002", "Footer", "xiii"},
		{"Index of Locations", "Name", "Location", "Diagram", "Euston", "MD101-001", "Footer", "xiv"},
		{"Diagrams", "MD101", "1"},
		{"Index of Locations", "Name", "Location", "Diagram", "Not", "Included", "Footer", "2"},
	}}
}

func TestFindTOCEntry(t *testing.T) {
	label, page, err := FindTOCEntry(appendix(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "xii", label)
	assert.Equal(t, 2, page)
}

func TestFindTOCEntryErrors(t *testing.T) {
	src := &fakeSource{pages: [][]string{{"Cover"}, {"Body", "1"}}}
	_, _, err := FindTOCEntry(src, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoTableOfContents)

	src = &fakeSource{pages: [][]string{{"Table of Contents", "Introduction", "3"}}}
	_, page, err := FindTOCEntry(src, DefaultOptions())
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Equal(t, 1, page)

	// Entry is the last string, so there is no label after it
	src = &fakeSource{pages: [][]string{{"Table of Contents", "Index of Locations"}}}
	_, _, err = FindTOCEntry(src, DefaultOptions())
	assert.ErrorIs(t, err, ErrEntryNotFound)

	cause := errors.New("bad page")
	src = &fakeSource{pages: [][]string{{"x"}}, fail: map[int]error{1: cause}}
	_, _, err = FindTOCEntry(src, DefaultOptions())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "page 1")
}

func TestFindLabelledPage(t *testing.T) {
	src := appendix()

	page, err := FindLabelledPage(src, "xii", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, page)

	_, err = FindLabelledPage(src, "xii", 5)
	assert.ErrorIs(t, err, ErrLabelNotFound)

	page, err = FindLabelledPage(src, "i", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
}

func TestFindLabelledPageSkipsEmptyPages(t *testing.T) {
	src := &fakeSource{pages: [][]string{{}, {"body", "7"}}}

	page, err := FindLabelledPage(src, "7", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page)
}

func TestCollectIndex(t *testing.T) {
	src := appendix()

	idx, err := CollectIndex(src, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, &Index{
		Label:     "xii",
		TOCPage:   2,
		FirstPage: 4,
		LastPage:  6,
		Entries:   []string{"Acton Bridge", "MD101-001", "Bletchley", "MD102-004", "Crewe", "MD103-002", "Euston", "MD101-001"},
	}, idx)

	// Stops at the first page without the continuation marker
	assert.NotContains(t, src.calls, 8)
}

func TestCollectIndexDoesNotAliasPages(t *testing.T) {
	src := appendix()

	idx, err := CollectIndex(src, DefaultOptions())
	require.NoError(t, err)

	idx.Entries[0] = "changed"
	assert.Equal(t, "Acton Bridge", src.pages[3][5])
}

func TestCollectIndexLastPage(t *testing.T) {
	src := &fakeSource{pages: [][]string{
		{"Table of Contents", "Index of Locations", "2"},
		{"Index of Locations", "Name", "Location", "Diagram", "Notes", "A", "B", "Footer", "2"},
	}}

	idx, err := CollectIndex(src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, idx.Entries)
	assert.Equal(t, 2, idx.LastPage)
}

func TestCollectIndexShortPage(t *testing.T) {
	src := &fakeSource{pages: [][]string{
		{"Table of Contents", "Index of Locations", "2"},
		{"Index", "Footer", "2"},
	}}

	_, err := CollectIndex(src, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestCollectIndexShortContinuationEndsSection(t *testing.T) {
	src := &fakeSource{pages: [][]string{
		{"Table of Contents", "Index of Locations", "2"},
		{"Index of Locations", "Name", "Location", "Diagram", "Notes", "A", "Footer", "2"},
		{"3"},
	}}

	idx, err := CollectIndex(src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, idx.Entries)
}

func TestCollectIndexCustomOptions(t *testing.T) {
	src := &fakeSource{pages: [][]string{
		{"Contents", "Glossary", "g1"},
		{"Glossary", "term", "def", "g1"},
		{"Glossary", "more", "x", "g2"},
	}}

	opts := Options{
		TOCMarker:          "Contents",
		Entry:              "Glossary",
		FirstSkip:          1,
		ContinuationSkip:   1,
		TrailerSkip:        1,
		MarkerIndex:        0,
		ContinuationMarker: "Glossary",
	}

	idx, err := CollectIndex(src, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"term", "def", "more", "x"}, idx.Entries)
}

func TestTrim(t *testing.T) {
	out, ok := trim([]string{"a", "b", "c", "d"}, 1, 1)
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, out)

	out, ok = trim([]string{"a", "b"}, 1, 1)
	assert.True(t, ok)
	assert.Empty(t, out)

	_, ok = trim([]string{"a"}, 1, 1)
	assert.False(t, ok)
}
