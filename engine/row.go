package engine

import (
	"context"
	"strconv"
	"strings"
)

// Field identifies one column of the fixed row schema.
type Field string

const (
	FieldName        Field = "name"
	FieldAddress     Field = "address"
	FieldLanguage    Field = "language"
	FieldVersion     Field = "version"
	FieldState       Field = "state"
	FieldCreatedDate Field = "createdDate"
)

// Fields lists the editable fields in display order.
var Fields = []Field{
	FieldName,
	FieldAddress,
	FieldLanguage,
	FieldVersion,
	FieldState,
	FieldCreatedDate,
}

// Valid reports whether f names a field of the row schema.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldAddress, FieldLanguage, FieldVersion, FieldState, FieldCreatedDate:
		return true
	}
	return false
}

// Row is a single record. ID is unique within the engine and immutable.
// IsNew and IsEdited are derived by the engine, never sent on the wire.
type Row struct {
	ID          string `json:"id" dynamodbav:"id"`
	Name        string `json:"name" dynamodbav:"name"`
	Address     string `json:"address" dynamodbav:"address"`
	Language    string `json:"language" dynamodbav:"language"`
	Version     string `json:"version" dynamodbav:"version"`
	State       string `json:"state" dynamodbav:"state"`
	CreatedDate string `json:"createdDate" dynamodbav:"created_date"`

	// IsNew marks rows created locally; such rows never came from the source.
	IsNew bool `json:"-" dynamodbav:"-"`

	// IsEdited marks rows with at least one committed local patch.
	IsEdited bool `json:"-" dynamodbav:"-"`
}

// Get returns the string form of the named field, or "" for unknown fields.
func (r Row) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldAddress:
		return r.Address
	case FieldLanguage:
		return r.Language
	case FieldVersion:
		return r.Version
	case FieldState:
		return r.State
	case FieldCreatedDate:
		return r.CreatedDate
	}
	return ""
}

// set assigns a field by name. Unknown fields are ignored; callers are
// expected to validate with Field.Valid first.
func (r *Row) set(f Field, v string) {
	switch f {
	case FieldName:
		r.Name = v
	case FieldAddress:
		r.Address = v
	case FieldLanguage:
		r.Language = v
	case FieldVersion:
		r.Version = v
	case FieldState:
		r.State = v
	case FieldCreatedDate:
		r.CreatedDate = v
	}
}

// haystack returns the lowercase text the filter matches against: every
// field value including the id and the transient booleans rendered as text.
func (r Row) haystack() string {
	parts := make([]string, 0, len(Fields)+3)
	parts = append(parts, r.ID)
	for _, f := range Fields {
		parts = append(parts, r.Get(f))
	}
	parts = append(parts, strconv.FormatBool(r.IsNew), strconv.FormatBool(r.IsEdited))
	return strings.ToLower(strings.Join(parts, " "))
}

// Cursor is an opaque continuation token. The zero value requests the first
// page; data sources own its interpretation and must never return the zero
// value as a continuation.
type Cursor string

// Page is the result of one fetch.
type Page struct {
	// Rows is the ordered batch of records.
	Rows []Row `json:"rows"`

	// Next is the continuation cursor. Empty means the source is exhausted.
	Next Cursor `json:"nextCursor,omitempty"`
}

// DataSource supplies pages of rows. Implementations are responsible for
// genuine source-side pagination; the engine never slices a larger payload.
type DataSource interface {
	// FetchPage returns the page at cursor. The engine issues at most one
	// FetchPage call at a time per generation.
	FetchPage(ctx context.Context, cursor Cursor) (Page, error)
}
