package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dayboard-cli/internal/model"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("item not found")

// ItemsRepo persists items in a single SQLite file. The column is named
// "ord" because ORDER is a keyword.
type ItemsRepo struct {
	db *sql.DB
}

func OpenRepo(ctx context.Context, path string) (*ItemsRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single-writer local service; serialize access at the pool level so
	// concurrent requests queue instead of hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, err
	}
	r := &ItemsRepo{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *ItemsRepo) Close() error { return r.db.Close() }

func (r *ItemsRepo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	completed  INTEGER NOT NULL DEFAULT 0,
	type       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	priority   TEXT NOT NULL,
	due_date   TEXT,
	ord        INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_due ON items(due_date);
`)
	return err
}

const itemCols = "id, text, notes, completed, type, category, priority, due_date, ord, created_at"

func scanItem(scan func(dest ...any) error) (model.Item, error) {
	var it model.Item
	var completed int
	var due sql.NullString
	var createdAt string
	if err := scan(&it.ID, &it.Text, &it.Notes, &completed, &it.Type, &it.Category, &it.Priority, &due, &it.Order, &createdAt); err != nil {
		return model.Item{}, err
	}
	it.Completed = completed != 0
	if due.Valid {
		d := model.Date(due.String)
		it.DueDate = &d
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("bad created_at for %s: %w", it.ID, err)
	}
	it.CreatedAt = t
	return it, nil
}

func itemArgs(it model.Item) []any {
	completed := 0
	if it.Completed {
		completed = 1
	}
	var due any
	if it.DueDate != nil {
		due = string(*it.DueDate)
	}
	return []any{
		it.ID, it.Text, it.Notes, completed, string(it.Type), it.Category,
		string(it.Priority), due, it.Order, it.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// List returns all items ordered by due date, then order, then id, so the
// initial fetch arrives in a stable sequence.
func (r *ItemsRepo) List(ctx context.Context) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemCols+" FROM items ORDER BY due_date IS NULL, due_date, ord, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ItemsRepo) Create(ctx context.Context, items []model.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO items ("+itemCols+") VALUES (?,?,?,?,?,?,?,?,?,?)",
			itemArgs(it)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update fully replaces the mutable fields of one item.
func (r *ItemsRepo) Update(ctx context.Context, it model.Item) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE items SET text=?, notes=?, completed=?, type=?, category=?, priority=?, due_date=?, ord=?
WHERE id=?`,
		updateArgs(it)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, it.ID)
	}
	return nil
}

func updateArgs(it model.Item) []any {
	completed := 0
	if it.Completed {
		completed = 1
	}
	var due any
	if it.DueDate != nil {
		due = string(*it.DueDate)
	}
	return []any{it.Text, it.Notes, completed, string(it.Type), it.Category, string(it.Priority), due, it.Order, it.ID}
}

// BulkUpdate applies full replacements in one transaction. Unknown ids fail
// the whole batch; the client treats that as a transient failure and rolls
// back its optimistic state.
func (r *ItemsRepo) BulkUpdate(ctx context.Context, items []model.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, it := range items {
		res, err := tx.ExecContext(ctx, `
UPDATE items SET text=?, notes=?, completed=?, type=?, category=?, priority=?, due_date=?, ord=?
WHERE id=?`,
			updateArgs(it)...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, it.ID)
		}
	}
	return tx.Commit()
}

func (r *ItemsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
