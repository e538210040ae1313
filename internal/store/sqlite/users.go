package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, is_deleted, email, password_hash, is_active, is_superuser`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(sc scanner) (*domain.User, error) {
	var u domain.User

	var (
		createdAt   string
		updatedAt   string
		isDeleted   int
		isActive    int
		isSuperuser int
	)

	err := sc.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&isDeleted,
		&u.Email,
		&u.PasswordHash,
		&isActive,
		&isSuperuser,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	u.Deleted = isDeleted != 0
	u.Active = isActive != 0
	u.Superuser = isSuperuser != 0

	return &u, nil
}

// CreateUser inserts a new user and assigns its generated ID.
// Returns store.ErrAlreadyExists if a live user already has the email.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	emailLower := strings.ToLower(strings.TrimSpace(user.Email))

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			created_at, updated_at, is_deleted, email, email_lower,
			password_hash, is_active, is_superuser
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		boolToInt(user.Deleted),
		user.Email,
		emailLower,
		user.PasswordHash,
		boolToInt(user.Active),
		boolToInt(user.Superuser),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("email already registered")
		}
		return err
	}

	user.ID, err = result.LastInsertId()
	return err
}

// GetUser retrieves a user by ID. Soft-deleted users are invisible
// unless includeDeleted is set. Returns store.ErrNotFound otherwise.
func (s *Store) GetUser(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`+liveClause(includeDeleted), id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a live user by case-insensitive email match.
// Returns store.ErrNotFound if no live user has the email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	lower := strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ? AND is_deleted = 0`, lower)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns one window of users ordered by ID, plus the total
// count under the same predicate.
func (s *Store) ListUsers(ctx context.Context, w store.Window, includeDeleted bool) (*store.Page[*domain.User], error) {
	where := "WHERE is_deleted = 0"
	if includeDeleted {
		where = ""
	}

	return queryPage(ctx, s, w,
		`SELECT COUNT(*) FROM users `+where,
		`SELECT `+userColumns+` FROM users `+where+` ORDER BY id ASC LIMIT ? OFFSET ?`,
		nil, scanUser, nil)
}

// UpdateUser performs a full row update on an existing live user.
// Returns store.ErrNotFound if the user does not exist or is deleted,
// store.ErrAlreadyExists if the new email collides with a live user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	emailLower := strings.ToLower(strings.TrimSpace(user.Email))

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?,
			email = ?,
			email_lower = ?,
			password_hash = ?,
			is_active = ?,
			is_superuser = ?
		WHERE id = ? AND is_deleted = 0`,
		formatTime(user.UpdatedAt),
		user.Email,
		emailLower,
		user.PasswordHash,
		boolToInt(user.Active),
		boolToInt(user.Superuser),
		user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("email already registered")
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

// DeleteUser performs a soft delete by setting is_deleted and updated_at.
// Returns store.ErrNotFound if the user does not exist or is already deleted.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_deleted = 1, updated_at = ?
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
