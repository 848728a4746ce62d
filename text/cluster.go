package text

import (
	"math"
	"strings"
)

// Cluster merges runs, already in reading order, into words and lines.
//
// A run continues the current cluster when it uses the same font, starts
// within MaxAdvanceGap of where the cluster's text is expected to end, and
// sits within MaxBaselineDrift of its baseline. The expected end is the
// cluster's X plus its rune count times font size times average glyph width
// over 1000. A merged cluster keeps the position and font metrics of its
// first run.
func Cluster(runs []DecodedGlyphRun, opts Options) []DecodedGlyphRun {
	if len(runs) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	out := make([]DecodedGlyphRun, 0, len(runs))
	acc := runs[0]

	for _, r := range runs[1:] {
		if continues(acc, r, opts) {
			acc = acc.merge(r)
			continue
		}
		out = append(out, acc)
		acc = r
	}

	return append(out, acc)
}

func continues(acc, r DecodedGlyphRun, opts Options) bool {
	if r.Font != acc.Font {
		return false
	}
	dx := math.Abs(r.X - (acc.X + acc.advance()))
	dy := math.Abs(r.Y - acc.Y)
	return dx < opts.MaxAdvanceGap && dy < opts.MaxBaselineDrift
}

// ClusterStrings clusters runs and returns the trimmed text of each cluster,
// dropping clusters that are empty after trimming.
func ClusterStrings(runs []DecodedGlyphRun, opts Options) []string {
	clusters := Cluster(runs, opts)

	out := make([]string, 0, len(clusters))
	for _, c := range clusters {
		if s := strings.TrimSpace(c.Text); s != "" {
			out = append(out, s)
		}
	}
	return out
}
