package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenDuration = time.Hour

// Store provides database operations for administrative accounts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new account store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const accountColumns = `id, username, email, password_hash, first_name, last_name,
	role, status, last_login, reset_token, reset_token_expiry, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	a := &Account{}
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.Role,
		&a.Status,
		&a.LastLogin,
		&a.ResetToken,
		&a.ResetExpiry,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new account with a bcrypt-hashed password. Username and
// email uniqueness is enforced by the store's unique indexes; a concurrent
// duplicate insert surfaces as a constraint error rather than racing through.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = "editor"
	}
	status := in.Status
	if status == "" {
		status = "active"
	}

	query := fmt.Sprintf(`INSERT INTO accounts
		(username, email, password_hash, first_name, last_name, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, accountColumns)

	a, err := scanAccount(s.pool.QueryRow(ctx, query,
		in.Username, in.Email, string(hash), in.FirstName, in.LastName, role, status))
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return a, nil
}

// GetByID retrieves an account by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, id))
}

// GetByLogin retrieves an account by username or email. The email comparison
// is case-insensitive, matching the lower(email) unique index.
func (s *Store) GetByLogin(ctx context.Context, login string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE username = $1 OR lower(email) = lower($1)`,
		accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, login))
}

// List returns all accounts ordered by created_at DESC.
func (s *Store) List(ctx context.Context) ([]*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY created_at DESC`, accountColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Update performs a partial update on the account with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Account, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, *in.Username)
		argIdx++
	}
	if in.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *in.Email)
		argIdx++
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argIdx))
		args = append(args, string(hash))
		argIdx++
	}
	if in.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", argIdx))
		args = append(args, *in.FirstName)
		argIdx++
	}
	if in.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", argIdx))
		args = append(args, *in.LastName)
		argIdx++
	}
	if in.Role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *in.Role)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, accountColumns)

	a, err := scanAccount(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an account by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TouchLastLogin stamps the last successful authentication time.
func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE accounts SET last_login = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func CheckPassword(a *Account, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// SetResetToken generates a password-reset token with a one-hour expiry for
// the account matching the given email. Returns the plaintext token.
func (s *Store) SetResetToken(ctx context.Context, email string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	plaintext := hex.EncodeToString(b)
	expiry := time.Now().UTC().Add(resetTokenDuration)

	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET reset_token = $1, reset_token_expiry = $2 WHERE lower(email) = lower($3)`,
		plaintext, expiry, email)
	if err != nil {
		return "", fmt.Errorf("storing reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", pgx.ErrNoRows
	}
	return plaintext, nil
}

// ResetPassword consumes an unexpired reset token and replaces the password.
// The token fields are cleared in the same statement so a token cannot be
// replayed.
func (s *Store) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts
		 SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL, updated_at = now()
		 WHERE reset_token = $2 AND reset_token_expiry > now()`,
		string(hash), resetToken)
	if err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
