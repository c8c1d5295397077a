// Package store implements the ticket row store: two logical tables
// (pending and processed) addressed through four primitive operations.
// The backing store offers no transactions, so row identity is an opaque
// handle valid only between reads; callers re-resolve handles with a
// fresh ReadAll before any mutation that may follow another mutation.
package store

import (
	"context"
	"errors"
)

// Column positions in the canonical row schema (schema version 1).
const (
	ColTimestamp = iota
	ColName
	ColEmail
	ColIssueType
	ColMessage
	ColSentiment
	ColIssueTypeLabel
	ColAutoReply
	NumColumns
)

// Header is the canonical header row, created on first access when a
// table is missing.
var Header = []string{"Timestamp", "Name", "Email", "IssueType", "Message", "Sentiment", "IssueType_Label", "AutoReply"}

// ErrRowNotFound indicates the addressed row no longer exists, typically
// because a mutation invalidated the handle.
var ErrRowNotFound = errors.New("row not found")

// RowID is an opaque row handle. It is only guaranteed valid until the
// next mutation of the table it came from.
type RowID int64

// Row is a raw table row paired with its handle.
type Row struct {
	ID    RowID
	Cells []string
}

// Table exposes the four primitive operations the row store supports.
// Every operation can fail independently; there is no way to group them.
type Table interface {
	// Name returns the logical table name, used in error context.
	Name() string

	// Ensure creates the table with the canonical header if it does not
	// exist. Idempotent; never clobbers existing data.
	Ensure(ctx context.Context) error

	// ReadAll returns a point-in-time snapshot of every data row.
	ReadAll(ctx context.Context) ([]Row, error)

	// Append inserts a new row and returns its handle.
	Append(ctx context.Context, cells []string) (RowID, error)

	// UpdateCells overwrites the given columns of one row. Returns
	// ErrRowNotFound (wrapped) if the handle is stale.
	UpdateCells(ctx context.Context, id RowID, updates map[int]string) error

	// Delete removes one row. Returns ErrRowNotFound (wrapped) if the
	// row is already gone. Deleting can invalidate other handles.
	Delete(ctx context.Context, id RowID) error
}
