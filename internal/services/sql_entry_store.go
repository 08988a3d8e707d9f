package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

// arrayColumn binds a []string to the image_paths column in both directions.
type arrayColumn interface {
	driver.Valuer
	sql.Scanner
}

type dialect struct {
	name   string
	rebind func(query string) string
	array  func(paths *[]string) arrayColumn
	// readTx opens the snapshot Stats reads through.
	readTx *sql.TxOptions
}

// postgresDialect stores image paths in a native TEXT[] column.
var postgresDialect = dialect{
	name:   "postgres",
	rebind: dollarPlaceholders,
	array: func(paths *[]string) arrayColumn {
		return pq.Array(paths)
	},
	// READ COMMITTED would take a new snapshot per statement.
	readTx: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
}

// sqliteDialect stores image paths as a JSON array in a TEXT column.
var sqliteDialect = dialect{
	name:   "sqlite",
	rebind: func(q string) string { return q },
	array: func(paths *[]string) arrayColumn {
		return (*jsonPaths)(paths)
	},
	// A SQLite transaction reads from a single snapshot.
	readTx: nil,
}

// dollarPlaceholders rewrites "?" placeholders to PostgreSQL's $1, $2, ...
func dollarPlaceholders(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type jsonPaths []string

func (p *jsonPaths) Value() (driver.Value, error) {
	if p == nil || *p == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(*p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *jsonPaths) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("image_paths: unsupported type %T", src)
	}
	return json.Unmarshal(data, (*[]string)(p))
}

// SQLEntryStore implements EntryStore over database/sql.
type SQLEntryStore struct {
	db *sql.DB
	d  dialect
}

// NewPostgresEntryStore returns a store over a lib/pq connection pool.
func NewPostgresEntryStore(db *sql.DB) *SQLEntryStore {
	return &SQLEntryStore{db: db, d: postgresDialect}
}

// NewSQLiteEntryStore returns a store over a modernc.org/sqlite database.
func NewSQLiteEntryStore(db *sql.DB) *SQLEntryStore {
	return &SQLEntryStore{db: db, d: sqliteDialect}
}

const upsertEntrySQL = `
	INSERT INTO journal_entries (entry_date, content, image_paths)
	VALUES (?, ?, ?)
	ON CONFLICT (entry_date) DO UPDATE SET
		content = excluded.content,
		image_paths = excluded.image_paths,
		updated_at = CURRENT_TIMESTAMP
	RETURNING id`

func (s *SQLEntryStore) Save(ctx context.Context, date string, content *string, imagePaths []string) (*models.Entry, error) {
	if err := ValidateDate("date", date); err != nil {
		return nil, err
	}
	paths := NormalizeImagePaths(imagePaths)
	pathsValue, err := s.d.array(&paths).Value()
	if err != nil {
		return nil, &StorageError{Op: "encode image paths", Err: err}
	}
	var contentValue interface{}
	if content != nil {
		contentValue = *content
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &StorageError{Op: "begin save", Err: err}
	}

	var id int64
	err = tx.QueryRowContext(ctx, s.d.rebind(upsertEntrySQL), date, contentValue, pathsValue).Scan(&id)
	if err != nil {
		tx.Rollback()
		return nil, &StorageError{Op: "save entry " + date, Err: err}
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, &StorageError{Op: "commit entry " + date, Err: err}
	}

	return &models.Entry{ID: id, Date: date, Content: content, ImagePaths: paths}, nil
}

func (s *SQLEntryStore) GetByDate(ctx context.Context, date string) (*models.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, s.d.rebind(`
		SELECT id, entry_date, content, image_paths
		FROM journal_entries
		WHERE entry_date = ?`), date)

	entry, err := s.scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StorageError{Op: "get entry " + date, Err: err}
	}
	return entry, true, nil
}

func (s *SQLEntryStore) ListAll(ctx context.Context) ([]models.EntrySummary, error) {
	entries, err := s.queryEntries(ctx, "list entries", `
		SELECT id, entry_date, content, image_paths
		FROM journal_entries
		ORDER BY entry_date DESC`)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.EntrySummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, summarize(e))
	}
	return summaries, nil
}

func (s *SQLEntryStore) RangeQuery(ctx context.Context, from, to string) ([]models.Entry, error) {
	if err := ValidateDate("fromDate", from); err != nil {
		return nil, err
	}
	if err := ValidateDate("toDate", to); err != nil {
		return nil, err
	}
	return s.queryEntries(ctx, "range query", `
		SELECT id, entry_date, content, image_paths
		FROM journal_entries
		WHERE entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date ASC`, from, to)
}

// Stats reads the totals and the per-month counts from one snapshot, so
// total_entries always equals the sum of entries_per_month.
func (s *SQLEntryStore) Stats(ctx context.Context) (*models.DashboardStats, error) {
	tx, err := s.db.BeginTx(ctx, s.d.readTx)
	if err != nil {
		return nil, &StorageError{Op: "begin stats", Err: err}
	}
	defer tx.Rollback()

	var total int
	var chars int64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(content)), 0)
		FROM journal_entries`).Scan(&total, &chars)
	if err != nil {
		return nil, &StorageError{Op: "count entries", Err: err}
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT substr(entry_date, 1, 7) AS month, COUNT(*)
		FROM journal_entries
		GROUP BY substr(entry_date, 1, 7)
		ORDER BY month`)
	if err != nil {
		return nil, &StorageError{Op: "entries per month", Err: err}
	}
	defer rows.Close()

	months := make([]models.MonthCount, 0)
	for rows.Next() {
		var m models.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, &StorageError{Op: "scan month", Err: err}
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "entries per month", Err: err}
	}

	return newDashboardStats(total, chars, months), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLEntryStore) scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e       models.Entry
		content sql.NullString
		paths   []string
	)
	if err := row.Scan(&e.ID, &e.Date, &content, s.d.array(&paths)); err != nil {
		return nil, err
	}
	if content.Valid {
		text := content.String
		e.Content = &text
	}
	e.ImagePaths = NormalizeImagePaths(paths)
	return &e, nil
}

func (s *SQLEntryStore) queryEntries(ctx context.Context, op, query string, args ...interface{}) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(query), args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	entries := make([]models.Entry, 0)
	for rows.Next() {
		e, err := s.scanEntry(rows)
		if err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return entries, nil
}
