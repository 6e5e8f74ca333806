package engine

import (
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jacentio/lattice/internal/rowid"
)

// Engine owns all tabular state for one viewing session: the fetched row
// store, the edit overlay, the selection set, and the pagination state
// machine. The presentation layer reads derived view rows and dispatches
// intents; it never touches engine structures directly.
//
// All methods are safe for concurrent use. The lock is released while a page
// fetch is on the wire, so edits, filtering, sorting, and selection proceed
// while a fetch is pending.
type Engine struct {
	mu     sync.Mutex
	source DataSource
	logger *slog.Logger
	coll   *collate.Collator

	rows  []Row
	index map[string]int // id -> position in rows

	ov  *overlay
	sel map[string]struct{}

	filterText string
	sortField  Field // "" = unsorted, preserve source order
	sortDir    Direction

	editing   bool
	editID    string
	editField Field

	status   Status
	cursor   Cursor
	inFlight bool
	gen      uint64
	fetchErr error

	changes chan struct{}
}

// New creates an Engine over source. The source must be non-nil.
// No fetch is issued; callers start the initial load with FetchNext.
func New(source DataSource, config Config) *Engine {
	config.validate()
	return &Engine{
		source:  source,
		logger:  config.Logger,
		coll:    collate.New(language.Make(config.Locale)),
		index:   make(map[string]int),
		ov:      newOverlay(),
		sel:     make(map[string]struct{}),
		changes: make(chan struct{}, 1),
	}
}

// Changes signals after every state change. The channel is coalescing:
// a pending signal absorbs later ones, so observers re-read full state on
// each receive rather than counting events.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

// notify is safe to call with or without the lock held; the send never blocks.
func (e *Engine) notify() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}

// ViewRows recomputes and returns the presented sequence: stored rows merged
// with their patches, plus overlay-only rows, filtered and sorted. The slice
// is owned by the caller.
func (e *Engine) ViewRows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewRowsLocked()
}

func (e *Engine) viewRowsLocked() []Row {
	merged := mergeRows(e.rows, e.index, e.ov)
	merged = filterRows(merged, e.filterText)
	sortRows(merged, e.sortField, e.sortDir, e.coll)
	return merged
}

// RowCount returns the number of fetched rows (overlay-only rows excluded).
func (e *Engine) RowCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rows)
}

// --- Filtering and sorting ---

// SetFilterText sets the active filter. Matching is a case-insensitive
// substring test across the string form of every field, including the id and
// the transient booleans rendered as text.
func (e *Engine) SetFilterText(text string) {
	e.mu.Lock()
	e.filterText = text
	e.mu.Unlock()
	e.notify()
}

// FilterText returns the active filter text.
func (e *Engine) FilterText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filterText
}

// SetSort sets the active sort field and direction.
func (e *Engine) SetSort(f Field, dir Direction) error {
	if !f.Valid() {
		return ErrUnknownField
	}
	e.mu.Lock()
	e.sortField = f
	e.sortDir = dir
	e.mu.Unlock()
	e.notify()
	return nil
}

// ToggleSort flips direction when f is already the sort field, otherwise
// sorts ascending by f.
func (e *Engine) ToggleSort(f Field) error {
	if !f.Valid() {
		return ErrUnknownField
	}
	e.mu.Lock()
	if e.sortField == f {
		if e.sortDir == Ascending {
			e.sortDir = Descending
		} else {
			e.sortDir = Ascending
		}
	} else {
		e.sortField = f
		e.sortDir = Ascending
	}
	e.mu.Unlock()
	e.notify()
	return nil
}

// ClearSort restores filter-pass order.
func (e *Engine) ClearSort() {
	e.mu.Lock()
	e.sortField = ""
	e.sortDir = Ascending
	e.mu.Unlock()
	e.notify()
}

// Sort returns the active sort field ("" when unsorted) and direction.
func (e *Engine) Sort() (Field, Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortField, e.sortDir
}

// --- Editing ---

// CommitEdit merges a single field value into the patch for rowID, creating
// the patch if absent. Values are accepted unconditionally; only the field
// name is validated. The fetched row is never mutated. A matching editing
// cursor is cleared.
func (e *Engine) CommitEdit(rowID string, f Field, value string) error {
	if !f.Valid() {
		return ErrUnknownField
	}
	e.mu.Lock()
	e.ov.commit(rowID, f, value)
	if e.editing && e.editID == rowID && e.editField == f {
		e.editing = false
	}
	e.mu.Unlock()
	e.notify()
	return nil
}

// AddRow creates a locally owned row from the given initial fields and
// returns its id. The row exists only in the overlay for the session; ids are
// minted with a reserved prefix so they can never collide with source ids.
func (e *Engine) AddRow(initial map[Field]string) (string, error) {
	for f := range initial {
		if !f.Valid() {
			return "", ErrUnknownField
		}
	}
	id := rowid.New()
	e.mu.Lock()
	e.ov.add(id, initial)
	e.mu.Unlock()
	e.notify()
	return id, nil
}

// BeginEdit places the modal editing cursor on one cell. At most one cell is
// editable at a time; a previous cursor is replaced.
func (e *Engine) BeginEdit(rowID string, f Field) error {
	if !f.Valid() {
		return ErrUnknownField
	}
	e.mu.Lock()
	e.editing = true
	e.editID = rowID
	e.editField = f
	e.mu.Unlock()
	e.notify()
	return nil
}

// CancelEdit clears the editing cursor, discarding nothing from the overlay;
// the in-progress value lives in the presentation layer.
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	e.editing = false
	e.mu.Unlock()
	e.notify()
}

// Editing returns the cell under the modal editing cursor, if any.
func (e *Engine) Editing() (rowID string, f Field, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editing {
		return "", "", false
	}
	return e.editID, e.editField, true
}

// --- Selection ---

// ToggleSelect flips membership of id in the selection set. Selection is
// independent of filtering: a selected id stays selected when a filter hides
// its row.
func (e *Engine) ToggleSelect(id string) {
	e.mu.Lock()
	if _, ok := e.sel[id]; ok {
		delete(e.sel, id)
	} else {
		e.sel[id] = struct{}{}
	}
	e.mu.Unlock()
	e.notify()
}

// ToggleSelectAll clears the selection when the selected count equals the
// nonzero count of currently visible view rows; otherwise it replaces the
// selection with exactly the visible view rows' ids.
func (e *Engine) ToggleSelectAll() {
	e.mu.Lock()
	visible := e.viewRowsLocked()
	if len(e.sel) == len(visible) && len(visible) > 0 {
		e.sel = make(map[string]struct{})
	} else {
		e.sel = make(map[string]struct{}, len(visible))
		for _, r := range visible {
			e.sel[r.ID] = struct{}{}
		}
	}
	e.mu.Unlock()
	e.notify()
}

// Selected reports whether id is in the selection set.
func (e *Engine) Selected(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.sel[id]
	return ok
}

// SelectedCount returns the size of the selection set, including ids whose
// rows are currently filtered out.
func (e *Engine) SelectedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sel)
}

// SelectedIDs returns the selected ids in lexical order.
func (e *Engine) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.sel))
	for id := range e.sel {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
