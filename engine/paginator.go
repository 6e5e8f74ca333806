package engine

import (
	"context"
	"fmt"
)

// Status reports the position of the pagination state machine.
type Status int

const (
	// StatusIdle means no fetch is in flight and more pages may remain.
	StatusIdle Status = iota

	// StatusFetching means exactly one page request is on the wire.
	StatusFetching

	// StatusErrored means the last fetch failed; recovery requires Retry.
	StatusErrored

	// StatusExhausted means the source reported no continuation cursor.
	// Terminal for FetchNext, not for Retry.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusErrored:
		return "errored"
	case StatusExhausted:
		return "exhausted"
	}
	return "idle"
}

// Status returns the pagination status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// FetchErr returns the error from the last failed fetch, or nil.
func (e *Engine) FetchErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fetchErr
}

// FetchNext loads the next page from the source and appends it to the row
// store. It is a no-op while a fetch is in flight, after exhaustion, and in
// the errored state (the engine never retries implicitly). The engine lock is
// released for the duration of the source call, so all other operations
// proceed while the fetch is pending.
//
// On failure the row store and cursor are untouched and the status becomes
// StatusErrored. Each fetch is tagged with the current generation; results
// arriving after a Retry reset are discarded.
func (e *Engine) FetchNext(ctx context.Context) error {
	e.mu.Lock()
	if e.inFlight || e.status == StatusExhausted || e.status == StatusErrored {
		e.mu.Unlock()
		return nil
	}
	e.inFlight = true
	e.status = StatusFetching
	gen := e.gen
	cursor := e.cursor
	e.mu.Unlock()
	e.notify()

	page, err := e.source.FetchPage(ctx, cursor)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		// The session was reset while this fetch was on the wire. Its
		// results belong to a discarded generation; current state must
		// not be touched.
		e.logger.Debug("discarding stale page", "cursor", string(cursor), "generation", gen)
		return nil
	}
	e.inFlight = false

	if err != nil {
		e.fetchErr = fmt.Errorf("lattice: fetch page at cursor %q: %w", cursor, err)
		e.status = StatusErrored
		e.logger.Error("page fetch failed", "cursor", string(cursor), "error", err)
		e.notify()
		return e.fetchErr
	}

	added := 0
	for _, r := range page.Rows {
		if _, dup := e.index[r.ID]; dup {
			e.logger.Warn("dropping row with duplicate id", "id", r.ID)
			continue
		}
		// Transient flags are engine-derived, never source truth.
		r.IsNew = false
		r.IsEdited = false
		e.index[r.ID] = len(e.rows)
		e.rows = append(e.rows, r)
		added++
	}

	if page.Next == "" {
		e.status = StatusExhausted
	} else {
		e.cursor = page.Next
		e.status = StatusIdle
	}
	e.logger.Debug("page appended",
		"rows", added,
		"total", len(e.rows),
		"status", e.status.String(),
	)
	e.notify()
	return nil
}

// Retry clears the error state and restarts fetching from the first cursor.
// All fetched pages are discarded and the selection is cleared; the edit
// overlay survives, so local patches reapply when their rows return. The
// generation counter advances so that any fetch still on the wire lands dead.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	e.rows = nil
	e.index = make(map[string]int)
	e.cursor = ""
	e.fetchErr = nil
	e.inFlight = false
	e.status = StatusIdle
	e.sel = make(map[string]struct{})
	e.mu.Unlock()
	e.notify()

	return e.FetchNext(ctx)
}

// ScrollNearBottom is the scroll-trigger entry point. The presentation layer
// calls it with true when the viewport is within its threshold distance of
// the bottom; the engine then requests the next page unless a fetch is
// already in flight, the source is exhausted, or the last fetch errored.
func (e *Engine) ScrollNearBottom(ctx context.Context, near bool) error {
	if !near {
		return nil
	}
	return e.FetchNext(ctx)
}
