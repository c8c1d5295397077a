package store

import (
	"context"
	"fmt"
	"sync"
)

// MemTable is an in-memory Table with spreadsheet semantics: row 1 is the
// header, data rows are addressed by their absolute 1-based position, and
// deleting a row shifts every handle below it. Used for local development
// and for exercising the handle-invalidation hazard in tests.
type MemTable struct {
	name   string
	mu     sync.Mutex
	header []string
	rows   [][]string
}

// NewMemTable creates an empty in-memory table.
func NewMemTable(name string) *MemTable {
	return &MemTable{name: name}
}

// Name returns the logical table name.
func (t *MemTable) Name() string {
	return t.name
}

// Ensure sets the canonical header if the table has none yet.
func (t *MemTable) Ensure(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.header == nil {
		t.header = append([]string(nil), Header...)
	}
	return nil
}

// ReadAll returns a snapshot of all data rows. Handles are absolute sheet
// positions: the first data row is 2, after the header.
func (t *MemTable) ReadAll(_ context.Context) ([]Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]Row, 0, len(t.rows))
	for i, cells := range t.rows {
		rows = append(rows, Row{
			ID:    RowID(i + 2),
			Cells: append([]string(nil), cells...),
		})
	}
	return rows, nil
}

// Append adds a row to the bottom of the table.
func (t *MemTable) Append(_ context.Context, cells []string) (RowID, error) {
	if len(cells) != NumColumns {
		return 0, fmt.Errorf("append to %s: expected %d cells, got %d", t.name, NumColumns, len(cells))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append(t.rows, append([]string(nil), cells...))
	return RowID(len(t.rows) + 1), nil
}

// UpdateCells overwrites the given columns of one row in place.
func (t *MemTable) UpdateCells(_ context.Context, id RowID, updates map[int]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(id) - 2
	if idx < 0 || idx >= len(t.rows) {
		return fmt.Errorf("update %s row %d: %w", t.name, id, ErrRowNotFound)
	}

	for col, value := range updates {
		if col < 0 || col >= NumColumns {
			return fmt.Errorf("update %s row %d: column %d out of range", t.name, id, col)
		}
		t.rows[idx][col] = value
	}
	return nil
}

// Delete removes one row. Every handle below the deleted row is
// invalidated: the rows shift up by one position.
func (t *MemTable) Delete(_ context.Context, id RowID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(id) - 2
	if idx < 0 || idx >= len(t.rows) {
		return fmt.Errorf("delete %s row %d: %w", t.name, id, ErrRowNotFound)
	}

	t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
	return nil
}
