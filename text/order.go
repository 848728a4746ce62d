package text

import (
	"cmp"
	"slices"
)

// SortReadingOrder sorts runs top to bottom, then left to right: descending
// Y, ascending X. Runs at the same position keep their stream order.
func SortReadingOrder[R interface{ position() (float64, float64) }](runs []R) {
	slices.SortStableFunc(runs, func(a, b R) int {
		ax, ay := a.position()
		bx, by := b.position()
		if c := cmp.Compare(by, ay); c != 0 {
			return c
		}
		return cmp.Compare(ax, bx)
	})
}

func (r RawGlyphRun) position() (float64, float64) { return r.X, r.Y }
