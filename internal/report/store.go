package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for reports.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new report store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const reportColumns = `id, title, description, report_type, report_date,
	file_path, mime_type, size_bytes, created_by, created_at, updated_at`

func scanReport(row pgx.Row) (*Report, error) {
	r := &Report{}
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.ReportType,
		&r.ReportDate,
		&r.FilePath,
		&r.MimeType,
		&r.SizeBytes,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new report and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Report, error) {
	reportType := in.ReportType
	if reportType == "" {
		reportType = TypeOther
	}
	reportDate := time.Now().UTC()
	if in.ReportDate != nil {
		reportDate = *in.ReportDate
	}

	query := fmt.Sprintf(`INSERT INTO reports
		(title, description, report_type, report_date, file_path, mime_type, size_bytes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, reportColumns)

	r, err := scanReport(s.pool.QueryRow(ctx, query,
		in.Title, in.Description, reportType, reportDate, in.FilePath,
		in.MimeType, in.SizeBytes, in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return r, nil
}

// GetByID retrieves a report by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, reportColumns)
	return scanReport(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of reports ordered by report date descending,
// plus the total count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Report, int, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.ReportType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("report_type = $%d", argIdx))
		args = append(args, params.ReportType)
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
		fmt.Sprintf(`SELECT count(*) FROM reports %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting reports: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM reports %s ORDER BY report_date DESC LIMIT $%d OFFSET $%d`,
		reportColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning report row: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, total, rows.Err()
}

// Update performs a partial update on the report with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Report, error) {
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
	if in.ReportType != nil {
		setClauses = append(setClauses, fmt.Sprintf("report_type = $%d", argIdx))
		args = append(args, *in.ReportType)
		argIdx++
	}
	if in.ReportDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("report_date = $%d", argIdx))
		args = append(args, *in.ReportDate)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE reports SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, reportColumns)

	return scanReport(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a report by id and returns the stored file path for
// best-effort removal from disk.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	var filePath string
	err := s.pool.QueryRow(ctx,
		`DELETE FROM reports WHERE id = $1 RETURNING file_path`, id).Scan(&filePath)
	if err != nil {
		return "", err
	}
	return filePath, nil
}
