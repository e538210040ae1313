package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/util"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, created_at, updated_at, is_deleted, name`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(sc scanner) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
		isDeleted int
	)

	err := sc.Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
		&isDeleted,
		&t.Name,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	t.Deleted = isDeleted != 0

	return &t, nil
}

// CreateTag inserts a new tag and assigns its generated ID. The name
// is stored as given; uniqueness is judged on its slug-normalized key.
// Returns store.ErrAlreadyExists if a live tag already has the key.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (created_at, updated_at, is_deleted, name, name_key)
		VALUES (?, ?, ?, ?, ?)`,
		formatTime(tag.CreatedAt),
		formatTime(tag.UpdatedAt),
		boolToInt(tag.Deleted),
		tag.Name,
		util.NormalizeTagSlug(tag.Name),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("tag name already in use")
		}
		return err
	}

	tag.ID, err = result.LastInsertId()
	return err
}

// GetTag retrieves a tag by ID. Soft-deleted tags are invisible unless
// includeDeleted is set. Returns store.ErrNotFound otherwise.
func (s *Store) GetTag(ctx context.Context, id int64, includeDeleted bool) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`+liveClause(includeDeleted), id)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a live tag whose normalized key matches the
// normalized form of name, so lookups are spelling-insensitive like
// the uniqueness rule. Returns store.ErrNotFound if no live tag
// matches.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name_key = ? AND is_deleted = 0`,
		util.NormalizeTagSlug(name))

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns one window of tags ordered by ID, plus the total
// count under the same predicate.
func (s *Store) ListTags(ctx context.Context, w store.Window, includeDeleted bool) (*store.Page[*domain.Tag], error) {
	where := "WHERE is_deleted = 0"
	if includeDeleted {
		where = ""
	}

	return queryPage(ctx, s, w,
		`SELECT COUNT(*) FROM tags `+where,
		`SELECT `+tagColumns+` FROM tags `+where+` ORDER BY id ASC LIMIT ? OFFSET ?`,
		nil, scanTag, nil)
}

// UpdateTag performs a full row update on an existing live tag.
// Returns store.ErrNotFound if the tag does not exist or is deleted,
// store.ErrAlreadyExists if the new name's key collides with a live
// tag.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET
			updated_at = ?,
			name = ?,
			name_key = ?
		WHERE id = ? AND is_deleted = 0`,
		formatTime(tag.UpdatedAt),
		tag.Name,
		util.NormalizeTagSlug(tag.Name),
		tag.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("tag name already in use")
		}
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

// DeleteTag performs a soft delete by setting is_deleted and updated_at.
// Association rows stay in place; reads filter deleted tags out, so the
// tag disappears from its posts without touching them. Returns
// store.ErrNotFound if the tag does not exist or is already deleted.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tags SET is_deleted = 1, updated_at = ?
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

// AttachTag links a tag to a post. Idempotent: attaching an existing
// pair is a no-op. The post's updated_at is not advanced; membership is
// not a change to the post itself.
func (s *Store) AttachTag(ctx context.Context, postID, tagID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`,
		postID, tagID)
	return err
}

// DetachTag unlinks a tag from a post. Idempotent: detaching an absent
// pair is a no-op. The post's updated_at is not advanced.
func (s *Store) DetachTag(ctx context.Context, postID, tagID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = ? AND tag_id = ?`,
		postID, tagID)
	return err
}
