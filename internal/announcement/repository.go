package announcement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repositoryTimeout = 5 * time.Second

// Repository persists announcements.
type Repository interface {
	Create(ctx context.Context, in Input) (Announcement, error)
	Get(ctx context.Context, id uuid.UUID) (Announcement, error)
	List(ctx context.Context) ([]Announcement, error)
	Update(ctx context.Context, id uuid.UUID, in Input) (Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// PostgresRepository stores announcements in PostgreSQL with attachments as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL-backed repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const pgColumns = `id, title, content, attachments, created_at, updated_at`

// Create inserts a new announcement; created_at and updated_at share one NOW().
func (r *PostgresRepository) Create(ctx context.Context, in Input) (Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return Announcement{}, storeErr("encode", err)
	}

	query := `
INSERT INTO announcements (id, title, content, attachments)
VALUES ($1, $2, $3, $4)
RETURNING ` + pgColumns + `;`

	a, err := scanPostgres(r.pool.QueryRow(ctx, query, uuid.New(), in.Title, string(in.Content), attachments))
	if err != nil {
		return Announcement{}, storeErr("create", err)
	}
	return a, nil
}

// Get fetches one announcement by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `SELECT ` + pgColumns + ` FROM announcements WHERE id = $1;`

	a, err := scanPostgres(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Announcement{}, ErrNotFound
		}
		return Announcement{}, storeErr("get", err)
	}
	return a, nil
}

// List returns every announcement, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `SELECT ` + pgColumns + ` FROM announcements ORDER BY created_at DESC, id DESC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer rows.Close()

	list := []Announcement{}
	for rows.Next() {
		a, err := scanPostgres(rows)
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

// Update replaces title, content and attachments wholesale and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, in Input) (Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	attachments, err := encodeAttachments(in.Attachments)
	if err != nil {
		return Announcement{}, storeErr("encode", err)
	}

	// updated_at must move past created_at even inside the same clock tick
	query := `
UPDATE announcements
SET title = $2,
    content = $3,
    attachments = $4,
    updated_at = GREATEST(NOW(), created_at + INTERVAL '1 microsecond')
WHERE id = $1
RETURNING ` + pgColumns + `;`

	a, err := scanPostgres(r.pool.QueryRow(ctx, query, id, in.Title, string(in.Content), attachments))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Announcement{}, ErrNotFound
		}
		return Announcement{}, storeErr("update", err)
	}
	return a, nil
}

// Delete removes the record. Attachment blobs are left untouched.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1;`, id)
	if err != nil {
		return storeErr("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	if err := r.pool.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func scanPostgres(row rowScanner) (Announcement, error) {
	var (
		a           Announcement
		content     string
		attachments []byte
	)
	if err := row.Scan(&a.ID, &a.Title, &content, &attachments, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Announcement{}, err
	}
	items, err := decodeAttachments(attachments)
	if err != nil {
		return Announcement{}, err
	}
	a.Content = Content(content)
	a.Attachments = items
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}
