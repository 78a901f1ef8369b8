package leadership

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for leadership positions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new leadership store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const positionColumns = `id, name, title, bio, email, phone, photo_path,
	display_order, active, created_at, updated_at`

func scanPosition(row pgx.Row) (*Position, error) {
	p := &Position{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Title,
		&p.Bio,
		&p.Email,
		&p.Phone,
		&p.PhotoPath,
		&p.DisplayOrder,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new leadership position and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Position, error) {
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	query := fmt.Sprintf(`INSERT INTO leadership_positions
		(name, title, bio, email, phone, photo_path, display_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, positionColumns)

	p, err := scanPosition(s.pool.QueryRow(ctx, query,
		in.Name, in.Title, in.Bio, in.Email, in.Phone, in.PhotoPath,
		in.DisplayOrder, active))
	if err != nil {
		return nil, fmt.Errorf("creating leadership position: %w", err)
	}
	return p, nil
}

// GetByID retrieves a position by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Position, error) {
	query := fmt.Sprintf(`SELECT %s FROM leadership_positions WHERE id = $1`, positionColumns)
	return scanPosition(s.pool.QueryRow(ctx, query, id))
}

// List returns positions ordered for display. When activeOnly is set, inactive
// positions are omitted.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]*Position, error) {
	where := ""
	if activeOnly {
		where = "WHERE active = true"
	}
	query := fmt.Sprintf(
		`SELECT %s FROM leadership_positions %s ORDER BY display_order ASC, created_at ASC`,
		positionColumns, where)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing leadership positions: %w", err)
	}
	defer rows.Close()

	var positions []*Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning leadership row: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Update performs a partial update on the position with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Position, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Bio != nil {
		setClauses = append(setClauses, fmt.Sprintf("bio = $%d", argIdx))
		args = append(args, *in.Bio)
		argIdx++
	}
	if in.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *in.Email)
		argIdx++
	}
	if in.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, *in.Phone)
		argIdx++
	}
	if in.PhotoPath != nil {
		setClauses = append(setClauses, fmt.Sprintf("photo_path = $%d", argIdx))
		args = append(args, *in.PhotoPath)
		argIdx++
	}
	if in.DisplayOrder != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_order = $%d", argIdx))
		args = append(args, *in.DisplayOrder)
		argIdx++
	}
	if in.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *in.Active)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leadership_positions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, positionColumns)

	return scanPosition(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a position by id and returns the stored photo path for
// best-effort file removal.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	var photoPath string
	err := s.pool.QueryRow(ctx,
		`DELETE FROM leadership_positions WHERE id = $1 RETURNING photo_path`, id).Scan(&photoPath)
	if err != nil {
		return "", err
	}
	return photoPath, nil
}
