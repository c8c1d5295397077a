package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// sqlColumns maps schema column positions to SQL column names.
var sqlColumns = []string{"ts", "customer_name", "email", "issue_type", "message", "sentiment", "issue_type_label", "auto_reply"}

// SQLTable is a Table backed by a SQL database through sqlx. Supports
// MySQL and PostgreSQL. Row handles are the underlying primary key, so
// unlike sheet-style backends they survive deletes of other rows — but
// callers must not rely on that, the Table contract stays positional.
type SQLTable struct {
	db     *sqlx.DB
	name   string
	driver string
}

// NewSQLTable creates a Table bound to the given database table name.
func NewSQLTable(db *sqlx.DB, name string) *SQLTable {
	return &SQLTable{
		db:     db,
		name:   name,
		driver: db.DriverName(),
	}
}

// Name returns the logical table name.
func (t *SQLTable) Name() string {
	return t.name
}

// Ensure creates the table if it does not exist. CREATE TABLE IF NOT
// EXISTS is idempotent and never touches existing rows.
func (t *SQLTable) Ensure(ctx context.Context) error {
	pk := "row_id BIGINT PRIMARY KEY AUTO_INCREMENT"
	if t.driver == "postgres" {
		pk = "row_id BIGSERIAL PRIMARY KEY"
	}

	cols := make([]string, 0, NumColumns+1)
	cols = append(cols, pk)
	for _, col := range sqlColumns {
		cols = append(cols, col+" TEXT")
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, strings.Join(cols, ", "))
	if _, err := t.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure table %s: %w", t.name, err)
	}
	return nil
}

// ReadAll returns every data row ordered by insertion.
func (t *SQLTable) ReadAll(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf("SELECT row_id, %s FROM %s ORDER BY row_id", strings.Join(sqlColumns, ", "), t.name)

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.name, err)
	}
	defer func() { _ = rows.Close() }()

	var result []Row
	for rows.Next() {
		var id int64
		scanned := make([]sql.NullString, NumColumns)
		dest := make([]interface{}, 0, NumColumns+1)
		dest = append(dest, &id)
		for i := range scanned {
			dest = append(dest, &scanned[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read %s: %w", t.name, err)
		}

		cells := make([]string, NumColumns)
		for i, s := range scanned {
			cells[i] = s.String
		}
		result = append(result, Row{ID: RowID(id), Cells: cells})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", t.name, err)
	}
	return result, nil
}

// Append inserts a new row and returns its handle.
func (t *SQLTable) Append(ctx context.Context, cells []string) (RowID, error) {
	if len(cells) != NumColumns {
		return 0, fmt.Errorf("append to %s: expected %d cells, got %d", t.name, NumColumns, len(cells))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", NumColumns), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(sqlColumns, ", "), placeholders)

	args := make([]interface{}, NumColumns)
	for i, c := range cells {
		args[i] = c
	}

	if t.driver == "postgres" {
		var id int64
		query = t.db.Rebind(query + " RETURNING row_id")
		if err := t.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("append to %s: %w", t.name, err)
		}
		return RowID(id), nil
	}

	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", t.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", t.name, err)
	}
	return RowID(id), nil
}

// UpdateCells overwrites the given columns of one row.
func (t *SQLTable) UpdateCells(ctx context.Context, id RowID, updates map[int]string) error {
	if len(updates) == 0 {
		return nil
	}

	cols := make([]int, 0, len(updates))
	for col := range updates {
		if col < 0 || col >= NumColumns {
			return fmt.Errorf("update %s row %d: column %d out of range", t.name, id, col)
		}
		cols = append(cols, col)
	}
	sort.Ints(cols)

	assignments := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for _, col := range cols {
		assignments = append(assignments, sqlColumns[col]+" = ?")
		args = append(args, updates[col])
	}
	args = append(args, int64(id))

	query := fmt.Sprintf("UPDATE %s SET %s WHERE row_id = ?", t.name, strings.Join(assignments, ", "))
	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", t.name, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", t.name, id, err)
	}
	if affected == 0 {
		// MySQL reports zero affected rows when the new values equal the
		// old ones, and repeating an update must stay a no-op. Only a
		// genuinely missing row is an error.
		var count int
		check := t.db.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE row_id = ?", t.name))
		if err := t.db.QueryRowContext(ctx, check, int64(id)).Scan(&count); err != nil {
			return fmt.Errorf("update %s row %d: %w", t.name, id, err)
		}
		if count == 0 {
			return fmt.Errorf("update %s row %d: %w", t.name, id, ErrRowNotFound)
		}
	}
	return nil
}

// Delete removes one row.
func (t *SQLTable) Delete(ctx context.Context, id RowID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE row_id = ?", t.name)
	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), int64(id))
	if err != nil {
		return fmt.Errorf("delete %s row %d: %w", t.name, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s row %d: %w", t.name, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s row %d: %w", t.name, id, ErrRowNotFound)
	}
	return nil
}
