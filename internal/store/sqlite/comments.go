package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment
// queries. Must match the scan order in scanComment.
const commentColumns = `id, created_at, updated_at, is_deleted, content, owner_id, post_id`

// scanComment scans a sql.Row (or sql.Rows via its Scan method) into a domain.Comment.
func scanComment(sc scanner) (*domain.Comment, error) {
	var c domain.Comment

	var (
		createdAt string
		updatedAt string
		isDeleted int
	)

	err := sc.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&isDeleted,
		&c.Content,
		&c.OwnerID,
		&c.PostID,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	c.Deleted = isDeleted != 0

	return &c, nil
}

// CreateComment inserts a new comment and assigns its generated ID.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (created_at, updated_at, is_deleted, content, owner_id, post_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(comment.CreatedAt),
		formatTime(comment.UpdatedAt),
		boolToInt(comment.Deleted),
		comment.Content,
		comment.OwnerID,
		comment.PostID,
	)
	if err != nil {
		return err
	}

	comment.ID, err = result.LastInsertId()
	return err
}

// GetComment retrieves a comment by ID with its owner loaded.
// Soft-deleted comments are invisible unless includeDeleted is set.
// Returns store.ErrNotFound otherwise.
func (s *Store) GetComment(ctx context.Context, id int64, includeDeleted bool) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`+liveClause(includeDeleted), id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := loadCommentOwners(ctx, s.db, []*domain.Comment{c}, includeDeleted); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns one window of comments ordered by ID, plus the
// total count under the same predicate. A non-zero filter.PostID
// restricts both the count and the window to that post.
func (s *Store) ListComments(ctx context.Context, w store.Window, filter store.CommentFilter, includeDeleted bool) (*store.Page[*domain.Comment], error) {
	where := "WHERE 1 = 1"
	var args []any
	if filter.PostID != 0 {
		where += " AND post_id = ?"
		args = append(args, filter.PostID)
	}
	if !includeDeleted {
		where += " AND is_deleted = 0"
	}

	return queryPage(ctx, s, w,
		`SELECT COUNT(*) FROM comments `+where,
		`SELECT `+commentColumns+` FROM comments `+where+` ORDER BY id ASC LIMIT ? OFFSET ?`,
		args, scanComment,
		func(ctx context.Context, q querier, comments []*domain.Comment) error {
			return loadCommentOwners(ctx, q, comments, includeDeleted)
		})
}

// UpdateComment performs a full row update on an existing live comment.
// Owner and post references are deliberately absent: both are fixed at
// creation. Returns store.ErrNotFound if the comment does not exist or
// is deleted.
func (s *Store) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET
			updated_at = ?,
			content = ?
		WHERE id = ? AND is_deleted = 0`,
		formatTime(comment.UpdatedAt),
		comment.Content,
		comment.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteComment performs a soft delete by setting is_deleted and updated_at.
// Returns store.ErrNotFound if the comment does not exist or is already deleted.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// loadCommentOwners populates OwnerUser for a batch of comments with a
// single query. On default reads soft-deleted owners are filtered out
// like any other record, leaving OwnerUser nil.
func loadCommentOwners(ctx context.Context, q querier, comments []*domain.Comment, includeDeleted bool) error {
	if len(comments) == 0 {
		return nil
	}

	ownerIDs := make([]any, 0, len(comments))
	seen := make(map[int64]bool, len(comments))
	for _, c := range comments {
		if !seen[c.OwnerID] {
			seen[c.OwnerID] = true
			ownerIDs = append(ownerIDs, c.OwnerID)
		}
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ownerIDs))+`)`+liveClause(includeDeleted),
		ownerIDs...)
	if err != nil {
		return err
	}
	defer rows.Close()

	owners := make(map[int64]*domain.User, len(ownerIDs))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return err
		}
		owners[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range comments {
		c.OwnerUser = owners[c.OwnerID]
	}
	return nil
}
