// Package sections locates named sections of a document from its clustered
// page strings.
//
// A section is found the way a reader finds it: look up its entry in the
// table of contents, take the page label printed next to it, then turn
// pages until one ends with that label. [CollectIndex] does this for an
// index that spans several pages:
//
//	ext := textrun.Open("appendix.pdf")
//	defer ext.Close()
//
//	idx, err := sections.CollectIndex(ext, sections.DefaultOptions())
//	for _, entry := range idx.Entries {
//	    fmt.Println(entry)
//	}
//
// Matching is by exact string, so it depends on clustering producing the
// same strings the document shows.
package sections
