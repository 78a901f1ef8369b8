package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for news posts, comments and likes.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new news store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const postColumns = `id, title, body, category, published, views, cover_path,
	created_by, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Body,
		&p.Category,
		&p.Published,
		&p.Views,
		&p.CoverPath,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Post, error) {
	query := fmt.Sprintf(`INSERT INTO news
		(title, body, category, published, cover_path, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, postColumns)

	p, err := scanPost(s.pool.QueryRow(ctx, query,
		in.Title, in.Body, in.Category, in.Published, in.CoverPath, in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating news post: %w", err)
	}
	return p, nil
}

// GetByID retrieves a post by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE id = $1`, postColumns)
	return scanPost(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of posts ordered newest first, plus the total
// count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Post, int, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.PublishedOnly {
		whereClauses = append(whereClauses, "published = true")
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}
	if params.Query != "" {
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Query+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM news %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting news posts: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM news %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		postColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing news posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning news row: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// Update performs a partial update on the post with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Post, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Body != nil {
		setClauses = append(setClauses, fmt.Sprintf("body = $%d", argIdx))
		args = append(args, *in.Body)
		argIdx++
	}
	if in.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *in.Category)
		argIdx++
	}
	if in.Published != nil {
		setClauses = append(setClauses, fmt.Sprintf("published = $%d", argIdx))
		args = append(args, *in.Published)
		argIdx++
	}
	if in.CoverPath != nil {
		setClauses = append(setClauses, fmt.Sprintf("cover_path = $%d", argIdx))
		args = append(args, *in.CoverPath)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE news SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, postColumns)

	return scanPost(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a post by id (comments and likes cascade) and returns the
// stored cover path for best-effort file removal.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	var coverPath string
	err := s.pool.QueryRow(ctx,
		`DELETE FROM news WHERE id = $1 RETURNING cover_path`, id).Scan(&coverPath)
	if err != nil {
		return "", err
	}
	return coverPath, nil
}

// IncrementViews atomically bumps the view counter. Concurrent increments do
// not lose updates: the addition happens inside the single UPDATE statement.
func (s *Store) IncrementViews(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE news SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("incrementing views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const commentColumns = `id, post_id, user_id, user_name, user_email, body, created_at, updated_at`

func scanComment(row pgx.Row) (*Comment, error) {
	c := &Comment{}
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.UserID,
		&c.UserName,
		&c.UserEmail,
		&c.Body,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns all comments on a post, newest first.
func (s *Store) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM news_comments WHERE post_id = $1 ORDER BY created_at DESC`, commentColumns)
	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment inserts a comment with the author identity snapshotted at
// write time.
func (s *Store) CreateComment(ctx context.Context, in CommentInput) (*Comment, error) {
	query := fmt.Sprintf(`INSERT INTO news_comments
		(post_id, user_id, user_name, user_email, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, commentColumns)

	c, err := scanComment(s.pool.QueryRow(ctx, query,
		in.PostID, in.UserID, in.UserName, in.UserEmail, in.Body))
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return c, nil
}

// UpdateComment edits a comment body, but only when it is owned by callerID.
// The ownership condition lives in the WHERE clause, so a comment owned by
// someone else (or by a guest) comes back as pgx.ErrNoRows — callers must not
// distinguish "missing" from "not yours".
func (s *Store) UpdateComment(ctx context.Context, id, callerID, body string) (*Comment, error) {
	query := fmt.Sprintf(`UPDATE news_comments
		SET body = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
		RETURNING %s`, commentColumns)

	return scanComment(s.pool.QueryRow(ctx, query, body, time.Now().UTC(), id, callerID))
}

// DeleteComment removes a comment owned by callerID, with the same
// ownership-in-WHERE contract as UpdateComment.
func (s *Store) DeleteComment(ctx context.Context, id, callerID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM news_comments WHERE id = $1 AND user_id = $2`, id, callerID)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ToggleLike adds or removes the caller's like on a post and reports the
// resulting state plus the post's like count.
func (s *Store) ToggleLike(ctx context.Context, postID, userID, userName string) (liked bool, count int, err error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM news_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("removing like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO news_likes (post_id, user_id, user_name) VALUES ($1, $2, $3)`,
			postID, userID, userName)
		if err != nil {
			return false, 0, fmt.Errorf("adding like: %w", err)
		}
		liked = true
	}

	err = s.pool.QueryRow(ctx,
		`SELECT count(*) FROM news_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return liked, 0, fmt.Errorf("counting likes: %w", err)
	}
	return liked, count, nil
}

// LikeCount returns the number of likes on a post.
func (s *Store) LikeCount(ctx context.Context, postID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM news_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}
	return count, nil
}
