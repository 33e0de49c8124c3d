package search

import (
	"golang.org/x/text/cases"
)

// MatchSpan is a half-open rune range [Start, End) within a display name.
type MatchSpan struct {
	Start int
	End   int
}

// FindMatchSpan locates the first case-insensitive occurrence of query in name.
// Offsets are in runes of the original name so the renderer can highlight
// them cell by cell.
func FindMatchSpan(name, query string) (MatchSpan, bool) {
	if query == "" {
		return MatchSpan{}, false
	}
	folded, origin := foldWithOrigin(name)
	needle := foldString(query)
	if needle == "" {
		return MatchSpan{}, false
	}

	for start := 0; start+len(needle) <= len(folded); start++ {
		if folded[start:start+len(needle)] != needle {
			continue
		}
		end := start + len(needle) - 1
		return MatchSpan{Start: origin[start], End: origin[end] + 1}, true
	}
	return MatchSpan{}, false
}

// foldWithOrigin folds name rune by rune and records, for each byte of the
// folded string, the index of the rune it came from. Folding can expand a
// rune (ß becomes ss), so offsets cannot be mapped back by position alone.
func foldWithOrigin(name string) (string, []int) {
	caser := cases.Fold()
	buf := make([]byte, 0, len(name))
	origin := make([]int, 0, len(name))
	idx := 0
	for _, r := range name {
		part := caser.String(string(r))
		buf = append(buf, part...)
		for i := 0; i < len(part); i++ {
			origin = append(origin, idx)
		}
		idx++
	}
	return string(buf), origin
}
