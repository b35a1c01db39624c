package artifact

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, limit int) ([]*Record, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, filename, mime_type, size, kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Filename, rec.MimeType, rec.Size, rec.Kind, rec.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, mime_type, size, kind, created_at
		FROM artifacts WHERE id = ?
	`, id)
	return r.scanRecord(row)
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, mime_type, size, kind, created_at
		FROM artifacts ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.MimeType, &rec.Size, &rec.Kind, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) scanRecord(row *sql.Row) (*Record, error) {
	var rec Record
	var createdAt string

	err := row.Scan(&rec.ID, &rec.Filename, &rec.MimeType, &rec.Size, &rec.Kind, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}
