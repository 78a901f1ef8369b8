package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for gallery items.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new gallery store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const itemColumns = `id, title, caption, category, file_path, thumb_path,
	mime_type, size_bytes, created_by, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	it := &Item{}
	err := row.Scan(
		&it.ID,
		&it.Title,
		&it.Caption,
		&it.Category,
		&it.FilePath,
		&it.ThumbPath,
		&it.MimeType,
		&it.SizeBytes,
		&it.CreatedBy,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Create inserts a new gallery item and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Item, error) {
	query := fmt.Sprintf(`INSERT INTO gallery_items
		(title, caption, category, file_path, thumb_path, mime_type, size_bytes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, itemColumns)

	it, err := scanItem(s.pool.QueryRow(ctx, query,
		in.Title, in.Caption, in.Category, in.FilePath, in.ThumbPath,
		in.MimeType, in.SizeBytes, in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating gallery item: %w", err)
	}
	return it, nil
}

// GetByID retrieves a gallery item by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM gallery_items WHERE id = $1`, itemColumns)
	return scanItem(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of gallery items ordered newest first, plus the
// total count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Item, int, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}
	if params.Query != "" {
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE $%d OR caption ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Query+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM gallery_items %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting gallery items: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM gallery_items %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		itemColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing gallery items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning gallery row: %w", err)
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// Update performs a partial update of the metadata fields. File fields are
// immutable after upload.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Item, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Caption != nil {
		setClauses = append(setClauses, fmt.Sprintf("caption = $%d", argIdx))
		args = append(args, *in.Caption)
		argIdx++
	}
	if in.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *in.Category)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE gallery_items SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, itemColumns)

	return scanItem(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a gallery item by id and returns the stored file paths for
// best-effort removal from disk.
func (s *Store) Delete(ctx context.Context, id string) (filePath, thumbPath string, err error) {
	err = s.pool.QueryRow(ctx,
		`DELETE FROM gallery_items WHERE id = $1 RETURNING file_path, thumb_path`, id).
		Scan(&filePath, &thumbPath)
	if err != nil {
		return "", "", err
	}
	return filePath, thumbPath, nil
}
