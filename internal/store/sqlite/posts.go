package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// postColumns is the ordered list of columns selected in post queries.
// Must match the scan order in scanPost.
const postColumns = `id, created_at, updated_at, is_deleted, title, content, owner_id`

// scanPost scans a sql.Row (or sql.Rows via its Scan method) into a domain.Post.
func scanPost(sc scanner) (*domain.Post, error) {
	var p domain.Post

	var (
		createdAt string
		updatedAt string
		isDeleted int
	)

	err := sc.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&isDeleted,
		&p.Title,
		&p.Content,
		&p.OwnerID,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	p.Deleted = isDeleted != 0

	return &p, nil
}

// CreatePost inserts a new post and assigns its generated ID.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (created_at, updated_at, is_deleted, title, content, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
		boolToInt(post.Deleted),
		post.Title,
		post.Content,
		post.OwnerID,
	)
	if err != nil {
		return err
	}

	post.ID, err = result.LastInsertId()
	return err
}

// GetPost retrieves a post by ID with its owner, comments and tags
// loaded. Soft-deleted posts are invisible unless includeDeleted is
// set; the flag also controls whether deleted owners, comments and
// tags show up in the loaded relations. Returns store.ErrNotFound
// otherwise.
func (s *Store) GetPost(ctx context.Context, id int64, includeDeleted bool) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`+liveClause(includeDeleted), id)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := loadPostRelations(ctx, s.db, []*domain.Post{p}, includeDeleted); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns one window of posts ordered by ID, plus the total
// count under the same predicate. Relations are loaded for every post
// in the window, inside the same snapshot as the page itself.
func (s *Store) ListPosts(ctx context.Context, w store.Window, includeDeleted bool) (*store.Page[*domain.Post], error) {
	where := "WHERE is_deleted = 0"
	if includeDeleted {
		where = ""
	}

	return queryPage(ctx, s, w,
		`SELECT COUNT(*) FROM posts `+where,
		`SELECT `+postColumns+` FROM posts `+where+` ORDER BY id ASC LIMIT ? OFFSET ?`,
		nil, scanPost,
		func(ctx context.Context, q querier, posts []*domain.Post) error {
			return loadPostRelations(ctx, q, posts, includeDeleted)
		})
}

// UpdatePost performs a full row update on an existing live post.
// The owner column is deliberately absent: ownership never changes.
// Returns store.ErrNotFound if the post does not exist or is deleted.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			updated_at = ?,
			title = ?,
			content = ?
		WHERE id = ? AND is_deleted = 0`,
		formatTime(post.UpdatedAt),
		post.Title,
		post.Content,
		post.ID,
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

// DeletePost performs a soft delete by setting is_deleted and updated_at.
// Returns store.ErrNotFound if the post does not exist or is already deleted.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE posts SET is_deleted = 1, updated_at = ?
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

// loadPostRelations populates OwnerUser, Comments and Tags for a batch
// of posts with one query per relation. Every relation honors the
// includeDeleted flag; on default reads a soft-deleted owner leaves
// OwnerUser nil rather than surfacing the deleted record.
func loadPostRelations(ctx context.Context, q querier, posts []*domain.Post, includeDeleted bool) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Post, len(posts))
	ids := make([]any, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
		p.Comments = []*domain.Comment{}
		p.Tags = []*domain.Tag{}
	}
	ph := placeholders(len(ids))

	// Owners.
	ownerIDs := make([]any, 0, len(posts))
	seen := make(map[int64]bool, len(posts))
	for _, p := range posts {
		if !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ownerIDs = append(ownerIDs, p.OwnerID)
		}
	}
	ownerRows, err := q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ownerIDs))+`)`+liveClause(includeDeleted),
		ownerIDs...)
	if err != nil {
		return err
	}
	owners := make(map[int64]*domain.User, len(ownerIDs))
	for ownerRows.Next() {
		u, err := scanUser(ownerRows)
		if err != nil {
			ownerRows.Close()
			return err
		}
		owners[u.ID] = u
	}
	if err := ownerRows.Err(); err != nil {
		return err
	}
	ownerRows.Close()
	for _, p := range posts {
		p.OwnerUser = owners[p.OwnerID]
	}

	// Comments.
	commentRows, err := q.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments
		 WHERE post_id IN (`+ph+`)`+liveClause(includeDeleted)+` ORDER BY id ASC`,
		ids...)
	if err != nil {
		return err
	}
	var comments []*domain.Comment
	for commentRows.Next() {
		c, err := scanComment(commentRows)
		if err != nil {
			commentRows.Close()
			return err
		}
		comments = append(comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return err
	}
	commentRows.Close()
	if err := loadCommentOwners(ctx, q, comments, includeDeleted); err != nil {
		return err
	}
	for _, c := range comments {
		if p := byID[c.PostID]; p != nil {
			p.Comments = append(p.Comments, c)
		}
	}

	// Tags.
	tagClause := ""
	if !includeDeleted {
		tagClause = " AND t.is_deleted = 0"
	}
	tagRows, err := q.QueryContext(ctx,
		`SELECT pt.post_id, t.id, t.created_at, t.updated_at, t.is_deleted, t.name
		 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		 WHERE pt.post_id IN (`+ph+`)`+tagClause+` ORDER BY t.id ASC`,
		ids...)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var postID int64
		var tag domain.Tag
		var createdAt, updatedAt string
		var isDeleted int
		if err := tagRows.Scan(&postID, &tag.ID, &createdAt, &updatedAt, &isDeleted, &tag.Name); err != nil {
			return err
		}
		if tag.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if tag.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		tag.Deleted = isDeleted != 0
		if p := byID[postID]; p != nil {
			p.Tags = append(p.Tags, &tag)
		}
	}
	return tagRows.Err()
}
