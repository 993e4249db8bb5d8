package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Layouts for the text-encoded temporal columns. The container stores dates
// and timestamps as text so field devices on any platform read them the same.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02 15:04:05"
)

// Container is one snapshot file. It is a single-file embedded database:
// self-contained, transportable, openable without the server present.
type Container struct {
	db   *sql.DB
	path string
}

// Create makes a fresh snapshot file at path with every table created empty
// and the schema version row written. The file must not already exist as a
// populated container; export always starts from scratch.
func Create(ctx context.Context, path string) (*Container, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	c := &Container{db: db, path: path}
	for _, spec := range Tables {
		if _, err := db.ExecContext(ctx, spec.CreateSQL()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", spec.Name, err)
		}
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO "+TableVersion+" (version) VALUES (?)", SchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to write schema version: %w", err)
	}
	return c, nil
}

// Open opens an existing snapshot file without validating it; call Verify
// before reading rows.
func Open(path string) (*Container, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &CorruptError{Err: err}
	}
	return &Container{db: db, path: path}, nil
}

// Close releases the underlying file handle.
func (c *Container) Close() error {
	return c.db.Close()
}

// Path returns the location of the container file.
func (c *Container) Path() string {
	return c.path
}

// Verify checks that every required table is present. A file that cannot be
// enumerated at all yields a CorruptError; a readable file with tables
// missing yields a SchemaError naming them.
func (c *Container) Verify(ctx context.Context) error {
	rows, err := c.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return &CorruptError{Err: err}
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return &CorruptError{Err: err}
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return &CorruptError{Err: err}
	}

	var missing []string
	for _, name := range RequiredTables {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// InsertRow writes one row positionally. values must match the table's
// declared column order exactly.
func (c *Container) InsertRow(ctx context.Context, table string, values ...any) error {
	spec, ok := Spec(table)
	if !ok {
		return fmt.Errorf("unknown snapshot table %q", table)
	}
	if len(values) != len(spec.Columns) {
		return fmt.Errorf("table %s expects %d values, got %d", table, len(spec.Columns), len(values))
	}
	if _, err := c.db.ExecContext(ctx, spec.InsertSQL(), values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// ReadRows streams a table's rows in id order, invoking fn once per row with
// a positional scan function. Readers must scan in declared column order.
func (c *Container) ReadRows(ctx context.Context, table string, fn func(scan func(dest ...any) error) error) error {
	spec, ok := Spec(table)
	if !ok {
		return fmt.Errorf("unknown snapshot table %q", table)
	}
	rows, err := c.db.QueryContext(ctx, spec.SelectSQL())
	if err != nil {
		return &CorruptError{Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows.Scan); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountRows returns the number of rows in a table.
func (c *Container) CountRows(ctx context.Context, table string) (int, error) {
	if _, ok := Spec(table); !ok {
		return 0, fmt.Errorf("unknown snapshot table %q", table)
	}
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, &CorruptError{Err: err}
	}
	return n, nil
}

// Compact reclaims free pages so the artifact's size reflects live data only.
func (c *Container) Compact(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to compact snapshot: %w", err)
	}
	return nil
}

// nullTime encodes an optional timestamp as text, nil stays NULL.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(TimeLayout)
}

// nullDate encodes an optional date as text, nil stays NULL.
func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}
