package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubworks/clubd/internal/crypto"
)

// Store provides database operations for site settings. Secret values are
// encrypted with the configured cipher before they reach the database; a nil
// cipher stores them as-is.
type Store struct {
	pool   *pgxpool.Pool
	cipher *crypto.Cipher
}

// NewStore creates a new settings store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool, cipher *crypto.Cipher) *Store {
	return &Store{pool: pool, cipher: cipher}
}

const settingColumns = `id, key, value, secret, updated_by, created_at, updated_at`

func scanSetting(row pgx.Row) (*Setting, error) {
	st := &Setting{}
	err := row.Scan(
		&st.ID,
		&st.Key,
		&st.Value,
		&st.Secret,
		&st.UpdatedBy,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) decodeValue(st *Setting) error {
	if !st.Secret {
		return nil
	}
	value, err := s.cipher.Decrypt(st.Value)
	if err != nil {
		return fmt.Errorf("decrypting setting %q: %w", st.Key, err)
	}
	st.Value = value
	return nil
}

// Upsert writes a setting by key, creating it when missing. The secret flag is
// sticky: omitting it on update keeps the stored flag.
func (s *Store) Upsert(ctx context.Context, in UpsertInput, updatedBy string) (*Setting, error) {
	secret := false
	if in.Secret != nil {
		secret = *in.Secret
	} else {
		existing, err := s.Get(ctx, in.Key)
		if err == nil {
			secret = existing.Secret
		} else if err != pgx.ErrNoRows {
			return nil, err
		}
	}

	value := in.Value
	if secret {
		var err error
		value, err = s.cipher.Encrypt(in.Value)
		if err != nil {
			return nil, fmt.Errorf("encrypting setting %q: %w", in.Key, err)
		}
	}

	query := fmt.Sprintf(`INSERT INTO settings (key, value, secret, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, secret = EXCLUDED.secret,
			updated_by = EXCLUDED.updated_by, updated_at = $5
		RETURNING %s`, settingColumns)

	st, err := scanSetting(s.pool.QueryRow(ctx, query,
		in.Key, value, secret, updatedBy, time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("upserting setting: %w", err)
	}
	if err := s.decodeValue(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Get retrieves a setting by key with the value decrypted.
func (s *Store) Get(ctx context.Context, key string) (*Setting, error) {
	query := fmt.Sprintf(`SELECT %s FROM settings WHERE key = $1`, settingColumns)
	st, err := scanSetting(s.pool.QueryRow(ctx, query, key))
	if err != nil {
		return nil, err
	}
	if err := s.decodeValue(st); err != nil {
		return nil, err
	}
	return st, nil
}

// List returns all settings ordered by key, decrypted. Callers serving list
// responses should redact secrets via Setting.Redacted.
func (s *Store) List(ctx context.Context) ([]*Setting, error) {
	query := fmt.Sprintf(`SELECT %s FROM settings ORDER BY key ASC`, settingColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var list []*Setting
	for rows.Next() {
		st, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning setting row: %w", err)
		}
		if err := s.decodeValue(st); err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// Delete removes a setting by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("deleting setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const flagColumns = `id, name, enabled, description, updated_by, created_at, updated_at`

func scanFlag(row pgx.Row) (*Flag, error) {
	f := &Flag{}
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Enabled,
		&f.Description,
		&f.UpdatedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFlag inserts a new feature flag. The unique index on name rejects
// duplicates.
func (s *Store) CreateFlag(ctx context.Context, in FlagInput, updatedBy string) (*Flag, error) {
	query := fmt.Sprintf(`INSERT INTO feature_flags (name, enabled, description, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, flagColumns)

	f, err := scanFlag(s.pool.QueryRow(ctx, query, in.Name, in.Enabled, in.Description, updatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating feature flag: %w", err)
	}
	return f, nil
}

// GetFlag retrieves a feature flag by name.
func (s *Store) GetFlag(ctx context.Context, name string) (*Flag, error) {
	query := fmt.Sprintf(`SELECT %s FROM feature_flags WHERE name = $1`, flagColumns)
	return scanFlag(s.pool.QueryRow(ctx, query, name))
}

// ListFlags returns all feature flags ordered by name.
func (s *Store) ListFlags(ctx context.Context) ([]*Flag, error) {
	query := fmt.Sprintf(`SELECT %s FROM feature_flags ORDER BY name ASC`, flagColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing feature flags: %w", err)
	}
	defer rows.Close()

	var flags []*Flag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning feature flag row: %w", err)
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

// UpdateFlag performs a partial update on the flag with the given name.
func (s *Store) UpdateFlag(ctx context.Context, name string, in FlagUpdate, updatedBy string) (*Flag, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Enabled != nil {
		setClauses = append(setClauses, fmt.Sprintf("enabled = $%d", argIdx))
		args = append(args, *in.Enabled)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetFlag(ctx, name)
	}

	setClauses = append(setClauses,
		fmt.Sprintf("updated_by = $%d", argIdx),
		fmt.Sprintf("updated_at = $%d", argIdx+1))
	args = append(args, updatedBy, time.Now().UTC())
	argIdx += 2

	args = append(args, name)
	query := fmt.Sprintf(`UPDATE feature_flags SET %s WHERE name = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, flagColumns)

	return scanFlag(s.pool.QueryRow(ctx, query, args...))
}

// DeleteFlag removes a feature flag by name.
func (s *Store) DeleteFlag(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM feature_flags WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting feature flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
