package engine

import (
	"strings"
	"testing"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func TestHaystackIncludesEveryField(t *testing.T) {
	r := Row{
		ID:          "row#42",
		Name:        "Ada Lovelace",
		Address:     "12 Analytical Way",
		Language:    "English",
		Version:     "1.2.3",
		State:       "NY",
		CreatedDate: "2024-03-01",
		IsNew:       true,
	}

	h := r.haystack()
	for _, want := range []string{"row#42", "ada lovelace", "12 analytical way", "english", "1.2.3", "ny", "2024-03-01", "true"} {
		if !strings.Contains(h, want) {
			t.Errorf("haystack missing %q: %q", want, h)
		}
	}
	if h != strings.ToLower(h) {
		t.Error("haystack must be lowercase")
	}
}

func TestOverlayApplyDoesNotMutateStoredRow(t *testing.T) {
	ov := newOverlay()
	ov.commit("a", FieldName, "Patched")

	stored := Row{ID: "a", Name: "Original"}
	merged := ov.apply(stored)

	if merged.Name != "Patched" || !merged.IsEdited {
		t.Errorf("expected patched merge, got %+v", merged)
	}
	if stored.Name != "Original" || stored.IsEdited {
		t.Errorf("stored row mutated: %+v", stored)
	}
}

func TestMergeRowsAppendsOverlayOnlyEntriesInOrder(t *testing.T) {
	ov := newOverlay()
	ov.commit("a", FieldName, "patched stored row")
	ov.add("x", map[Field]string{FieldName: "first added"})
	ov.add("y", map[Field]string{FieldName: "second added"})

	rows := []Row{{ID: "a"}, {ID: "b"}}
	index := map[string]int{"a": 0, "b": 1}

	merged := mergeRows(rows, index, ov)
	var ids []string
	for _, r := range merged {
		ids = append(ids, r.ID)
	}
	if got := strings.Join(ids, ","); got != "a,b,x,y" {
		t.Errorf("expected a,b,x,y, got %s", got)
	}
	if !merged[2].IsNew || !merged[3].IsNew {
		t.Error("overlay-only rows must be IsNew")
	}
	if merged[1].IsEdited {
		t.Error("unpatched stored row must not be IsEdited")
	}
}

func TestFilterRowsEmptyTextKeepsAll(t *testing.T) {
	rows := []Row{{ID: "1"}, {ID: "2"}}
	if got := filterRows(rows, ""); len(got) != 2 {
		t.Errorf("expected 2 rows, got %d", len(got))
	}
}

func TestSortRowsZeroFieldPreservesOrder(t *testing.T) {
	coll := collate.New(language.English)
	rows := []Row{{ID: "2", Name: "b"}, {ID: "1", Name: "a"}}
	sortRows(rows, "", Ascending, coll)
	if rows[0].ID != "2" {
		t.Error("zero sort field must preserve order")
	}
}

func TestSortRowsLocaleAware(t *testing.T) {
	coll := collate.New(language.English)
	rows := []Row{
		{ID: "1", Name: "zebra"},
		{ID: "2", Name: "Apple"},
		{ID: "3", Name: "apple"},
	}
	sortRows(rows, FieldName, Ascending, coll)
	// Collation orders case variants together rather than by byte value.
	if rows[2].Name != "zebra" {
		t.Errorf("expected zebra last, got %v", []string{rows[0].Name, rows[1].Name, rows[2].Name})
	}
}

func TestDirectionString(t *testing.T) {
	if Ascending.String() != "ascending" || Descending.String() != "descending" {
		t.Error("unexpected Direction strings")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusFetching, "fetching"},
		{StatusErrored, "errored"},
		{StatusExhausted, "exhausted"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
