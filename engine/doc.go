// Package engine implements an in-memory tabular data engine with incremental
// page loading, a local edit overlay, and a filter/sort/select view pipeline.
//
// Lattice is designed for interactive table viewers that stream rows from a
// remote source one page at a time while the user edits, filters, sorts, and
// selects locally. Fetched rows are never mutated in place; edits live in a
// session-local overlay that is merged over fetched truth on every read.
//
// # Key Features
//
//   - Cursor-based incremental loading with at most one fetch in flight
//   - Generation-tagged fetches (stale results after a reset are discarded)
//   - Non-destructive edit overlay with last-write-wins field patches
//   - Locally created rows that exist only in the overlay
//   - Merge -> filter -> sort view pipeline, recomputed on every read
//   - Locale-aware, stable sorting
//   - View-scoped select-all semantics
//
// # Usage
//
// An Engine is constructed over a [DataSource] and driven by presentation
// intents:
//
//	eng := engine.New(src, engine.DefaultConfig())
//	if err := eng.FetchNext(ctx); err != nil { ... } // initial load
//
//	eng.SetFilterText("ada")
//	eng.ToggleSort(engine.FieldName)
//	rows := eng.ViewRows()
//
// The presentation layer owns rendering and scroll detection; it reports
// proximity to the bottom of the viewport via [Engine.ScrollNearBottom],
// which is the only trigger for incremental loading after the initial fetch.
// State changes are signalled on [Engine.Changes] so observers can repaint.
//
// Edits are never written back to the source. A fetch failure is surfaced as
// [StatusErrored] and recovered only by an explicit [Engine.Retry], which
// discards all fetched pages and restarts from the first cursor.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrUnknownField] - a field name outside the fixed row schema
//   - [ErrBadCursor] - a data source was handed a cursor it did not produce
package engine
