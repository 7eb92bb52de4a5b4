package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"dashboard/internal/models"
	"dashboard/internal/storage"
)

// Store wraps access to the SQLite database and exposes the dashboard collections.
type Store struct {
	db     *sql.DB
	path   string
	logger *logrus.Logger
}

var _ storage.Backend = (*Store)(nil)

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *logrus.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, path: dbPath, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.WithField("path", dbPath).Info("sqlite store ready")
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SnapshotTo writes a transactionally consistent copy of the database into dir
// with VACUUM INTO. The copy keeps the database file name.
func (s *Store) SnapshotTo(ctx context.Context, dir string) ([]string, error) {
	target := filepath.Join(dir, filepath.Base(s.path))
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, target); err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	return []string{target}, nil
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            priority TEXT NOT NULL DEFAULT '',
            created TEXT NOT NULL DEFAULT '',
            done_by TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL,
            title TEXT NOT NULL,
            url TEXT NOT NULL,
            description TEXT,
            category TEXT,
            created TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_id ON bookmarks(id);`,
		`CREATE TABLE IF NOT EXISTS notes (
            id INTEGER PRIMARY KEY CHECK (id = 1),
            text TEXT NOT NULL
        );`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type todoRow struct {
	id  int64
	raw models.RawTodo
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listTodoRows(ctx context.Context, q queryer) ([]todoRow, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, description, priority, created, done_by FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []todoRow
	for rows.Next() {
		var r todoRow
		var doneBy sql.NullString
		if err := rows.Scan(&r.id, &r.raw.Name, &r.raw.Description, &r.raw.Priority, &r.raw.Created, &doneBy); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		if doneBy.Valid {
			r.raw.DoneBy = &doneBy.String
		}
		todos = append(todos, r)
	}
	return todos, rows.Err()
}

func insertTodo(ctx context.Context, tx *sql.Tx, t models.RawTodo) error {
	var doneBy sql.NullString
	if t.DoneBy != nil {
		doneBy = sql.NullString{String: *t.DoneBy, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO todos(name, description, priority, created, done_by) VALUES(?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.Priority, t.Created, doneBy)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// ListTodos retrieves all todos in insertion order.
func (s *Store) ListTodos(ctx context.Context) ([]models.RawTodo, error) {
	rows, err := listTodoRows(ctx, s.db)
	if err != nil {
		return nil, err
	}
	todos := make([]models.RawTodo, 0, len(rows))
	for _, r := range rows {
		todos = append(todos, r.raw)
	}
	return todos, nil
}

// AddTodo appends a todo exactly as given.
func (s *Store) AddTodo(ctx context.Context, todo models.RawTodo) (models.RawTodo, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return insertTodo(ctx, tx, todo)
	})
	if err != nil {
		return models.RawTodo{}, err
	}
	return todo, nil
}

// ReplaceTodo deletes the todo whose derived key matches and appends the replacement.
func (s *Store) ReplaceTodo(ctx context.Context, key string, todo models.RawTodo) (storage.EditOutcome, error) {
	outcome := storage.Appended
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := listTodoRows(ctx, tx)
		if err != nil {
			return err
		}

		key := models.DeriveKey(key)
		var matched []int64
		for _, r := range rows {
			if models.DeriveKey(r.raw.Name) == key {
				matched = append(matched, r.id)
			}
		}
		if len(matched) > 1 {
			return fmt.Errorf("edit todo: %w: %q (%d matches)", storage.ErrAmbiguousKey, key, len(matched))
		}
		if len(matched) == 1 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, matched[0]); err != nil {
				return fmt.Errorf("delete todo: %w", err)
			}
			outcome = storage.Replaced
		}
		return insertTodo(ctx, tx, todo)
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

// RemoveTodo deletes every todo named exactly name.
func (s *Store) RemoveTodo(ctx context.Context, name string) (storage.RemoveOutcome, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE name = ?`, name)
	if err != nil {
		return storage.NotFound, fmt.Errorf("remove todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.NotFound, err
	}
	if affected == 0 {
		return storage.NotFound, nil
	}
	return storage.Removed, nil
}

// ReadNotes returns the saved notes or "" when none exist.
func (s *Store) ReadNotes(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT text FROM notes WHERE id = 1`).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return text, nil
}

// WriteNotes replaces the notes text.
func (s *Store) WriteNotes(ctx context.Context, text string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO notes(id, text) VALUES(1, ?) ON CONFLICT(id) DO UPDATE SET text = excluded.text`, text)
	if err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}

const bookmarkColumns = `id, title, url, description, category, created`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (models.Bookmark, error) {
	var b models.Bookmark
	var description, category sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &b.URL, &description, &category, &b.Created); err != nil {
		return models.Bookmark{}, err
	}
	if description.Valid {
		b.Description = &description.String
	}
	if category.Valid {
		b.Category = &category.String
	}
	return b, nil
}

// ListBookmarks returns bookmarks in insertion order.
func (s *Store) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []models.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// AddBookmark stores b with its caller-assigned id.
func (s *Store) AddBookmark(ctx context.Context, b models.Bookmark) (models.Bookmark, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO bookmarks(`+bookmarkColumns+`) VALUES(?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.URL, nullable(b.Description), nullable(b.Category), b.Created)
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("insert bookmark: %w", err)
	}
	return b, nil
}

// UpdateBookmark merges patch into the first stored bookmark with the given id.
// Ids come from millisecond clocks, so duplicates are possible and the oldest wins.
func (s *Store) UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	var updated models.Bookmark
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var seq int64
		err := tx.QueryRowContext(ctx, `SELECT seq FROM bookmarks WHERE id = ? ORDER BY seq LIMIT 1`, id).Scan(&seq)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("edit bookmark %s: %w", id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get bookmark: %w", err)
		}
		current, err := scanBookmark(tx.QueryRowContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks WHERE seq = ?`, seq))
		if err != nil {
			return fmt.Errorf("get bookmark: %w", err)
		}

		updated = patch.Apply(current)
		_, err = tx.ExecContext(ctx, `UPDATE bookmarks SET title = ?, url = ?, description = ?, category = ? WHERE seq = ?`,
			updated.Title, updated.URL, nullable(updated.Description), nullable(updated.Category), seq)
		if err != nil {
			return fmt.Errorf("update bookmark: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Bookmark{}, err
	}
	return updated, nil
}

// RemoveBookmark deletes every bookmark with the id. Unknown ids are not an error.
func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
