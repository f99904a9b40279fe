package stylesheet

import (
	"sort"
	"strings"
)

// Edit replaces the source bytes [Start, End) with Text. Start == End is an
// insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

// ApplyEdits applies non-overlapping edits to src. Edits are applied in
// Start order; insertions at the same offset keep their relative order.
func ApplyEdits(src []byte, edits []Edit) string {
	sorted := append([]Edit(nil), edits...)
	sortEdits(sorted)

	var sb strings.Builder
	sb.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		if e.Start < pos || e.End > len(src) {
			continue
		}
		sb.Write(src[pos:e.Start])
		sb.WriteString(e.Text)
		pos = e.End
	}
	sb.Write(src[pos:])
	return sb.String()
}

func sortEdits(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start < edits[j].Start
	})
}

// outermost drops edits contained in another edit.
func outermost(edits []Edit) []Edit {
	sortEdits(edits)
	out := edits[:0]
	end := -1
	for _, e := range edits {
		if e.Start < end {
			continue
		}
		out = append(out, e)
		if e.End > end {
			end = e.End
		}
	}
	return out
}
