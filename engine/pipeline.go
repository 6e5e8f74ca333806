package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
)

// Direction controls sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// mergeRows produces the merged sequence: every stored row with its patch
// applied, followed by overlay-only rows in overlay insertion order.
func mergeRows(rows []Row, index map[string]int, ov *overlay) []Row {
	merged := make([]Row, 0, len(rows)+len(ov.order))
	for _, r := range rows {
		merged = append(merged, ov.apply(r))
	}
	for _, id := range ov.order {
		if _, stored := index[id]; stored {
			continue
		}
		merged = append(merged, ov.build(id))
	}
	return merged
}

// filterRows keeps rows whose haystack contains the case-insensitive filter
// text. Empty text keeps everything.
func filterRows(rows []Row, text string) []Row {
	if text == "" {
		return rows
	}
	needle := strings.ToLower(text)
	kept := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(r.haystack(), needle) {
			kept = append(kept, r)
		}
	}
	return kept
}

// sortRows orders rows by the string form of field using the collator.
// A stable sort preserves relative order for equal keys; the zero field
// leaves filter-pass order untouched.
func sortRows(rows []Row, field Field, dir Direction, coll *collate.Collator) {
	if field == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := coll.CompareString(rows[i].Get(field), rows[j].Get(field))
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
}
