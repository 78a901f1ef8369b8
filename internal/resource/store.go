package resource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for resources.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new resource store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const resourceColumns = `id, title, description, category, file_path,
	mime_type, size_bytes, downloads, created_by, created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	r := &Resource{}
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Category,
		&r.FilePath,
		&r.MimeType,
		&r.SizeBytes,
		&r.Downloads,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new resource and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Resource, error) {
	query := fmt.Sprintf(`INSERT INTO resources
		(title, description, category, file_path, mime_type, size_bytes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, resourceColumns)

	r, err := scanResource(s.pool.QueryRow(ctx, query,
		in.Title, in.Description, in.Category, in.FilePath, in.MimeType,
		in.SizeBytes, in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return r, nil
}

// GetByID retrieves a resource by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM resources WHERE id = $1`, resourceColumns)
	return scanResource(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of resources ordered newest first, plus the
// total count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Resource, int, error) {
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
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Query+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM resources %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting resources: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM resources %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		resourceColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning resource row: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, total, rows.Err()
}

// Update performs a partial update of the metadata fields. File fields are
// immutable after upload.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Resource, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
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
	query := fmt.Sprintf(`UPDATE resources SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, resourceColumns)

	return scanResource(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a resource by id and returns the stored file path for
// best-effort removal from disk.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	var filePath string
	err := s.pool.QueryRow(ctx,
		`DELETE FROM resources WHERE id = $1 RETURNING file_path`, id).Scan(&filePath)
	if err != nil {
		return "", err
	}
	return filePath, nil
}

// IncrementDownloads atomically bumps the download counter and returns the
// resource so the handler can serve the file.
func (s *Store) IncrementDownloads(ctx context.Context, id string) (*Resource, error) {
	query := fmt.Sprintf(
		`UPDATE resources SET downloads = downloads + 1 WHERE id = $1 RETURNING %s`, resourceColumns)
	return scanResource(s.pool.QueryRow(ctx, query, id))
}
