package announcement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLiteRepository stores announcements in a local SQLite file. Timestamps are
// unix nanoseconds and attachments are JSON text.
type SQLiteRepository struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// NewSQLiteRepository constructs a SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, nowFunc: time.Now}
}

const sqliteColumns = `id, title, content, attachments, created_at, updated_at`

func (r *SQLiteRepository) Create(ctx context.Context, in Input) (Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return Announcement{}, storeErr("encode", err)
	}
	now := r.nowFunc().UnixNano()

	query := `
INSERT INTO announcements (` + sqliteColumns + `)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + sqliteColumns + `;`

	a, err := scanSQLite(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), in.Title, string(in.Content), string(attachments), now, now))
	if err != nil {
		return Announcement{}, storeErr("create", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id uuid.UUID) (Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `SELECT ` + sqliteColumns + ` FROM announcements WHERE id = ?;`

	a, err := scanSQLite(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Announcement{}, ErrNotFound
		}
		return Announcement{}, storeErr("get", err)
	}
	return a, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `SELECT ` + sqliteColumns + ` FROM announcements ORDER BY created_at DESC, id DESC;`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer rows.Close()

	list := []Announcement{}
	for rows.Next() {
		a, err := scanSQLite(rows)
		if err != nil {
			return nil, storeErr("scan", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list", err)
	}
	return list, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id uuid.UUID, in Input) (Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return Announcement{}, storeErr("encode", err)
	}

	query := `
UPDATE announcements
SET title = ?,
    content = ?,
    attachments = ?,
    updated_at = MAX(?, created_at + 1)
WHERE id = ?
RETURNING ` + sqliteColumns + `;`

	a, err := scanSQLite(r.db.QueryRowContext(ctx, query,
		in.Title, string(in.Content), string(attachments), r.nowFunc().UnixNano(), id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Announcement{}, ErrNotFound
		}
		return Announcement{}, storeErr("update", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?;`, id.String())
	if err != nil {
		return storeErr("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func scanSQLite(row rowScanner) (Announcement, error) {
	var (
		a                    Announcement
		id, content, rawJSON string
		created, updated     int64
	)
	if err := row.Scan(&id, &a.Title, &content, &rawJSON, &created, &updated); err != nil {
		return Announcement{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Announcement{}, err
	}
	items, err := decodeAttachments([]byte(rawJSON))
	if err != nil {
		return Announcement{}, err
	}
	a.ID = parsed
	a.Content = Content(content)
	a.Attachments = items
	a.CreatedAt = time.Unix(0, created).UTC()
	a.UpdatedAt = time.Unix(0, updated).UTC()
	return a, nil
}
