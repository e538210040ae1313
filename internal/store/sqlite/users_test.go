package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "Alice@Example.com")
	if user.ID == 0 {
		t.Fatal("CreateUser did not assign an ID")
	}

	got, err := s.GetUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.ID != user.ID {
		t.Errorf("ID: got %d, want %d", got.ID, user.ID)
	}
	if got.Email != "Alice@Example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "Alice@Example.com")
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if !got.Active {
		t.Error("Active: expected true")
	}
	if got.Superuser {
		t.Error("Superuser: expected false")
	}
	if got.Deleted {
		t.Error("Deleted: expected false")
	}

	// Timestamps should round-trip through RFC3339Nano.
	if got.CreatedAt.Unix() != user.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, user.CreatedAt)
	}
	if got.UpdatedAt.Unix() != user.UpdatedAt.Unix() {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, user.UpdatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), 9999, false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected status %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "dup@example.com")

	u := mustCreateUser(t, s, "other@example.com")
	u.Email = "DUP@example.com"
	u.Touch()

	// The live-email unique index is case-insensitive via email_lower.
	err := s.UpdateUser(ctx, u)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrAlreadyExists.Code {
		t.Errorf("expected status %d, got %d", store.ErrAlreadyExists.Code, storeErr.Code)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "Carol@Example.com")

	got, err := s.GetUserByEmail(ctx, "  carol@example.COM ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID: got %d, want %d", got.ID, user.ID)
	}
}

func TestDeleteUser_SoftDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "gone@example.com")

	if err := s.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// Invisible to normal reads.
	if _, err := s.GetUser(ctx, user.ID, false); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if _, err := s.GetUserByEmail(ctx, "gone@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found by email after delete, got %v", err)
	}

	// Still visible to include-deleted reads.
	got, err := s.GetUser(ctx, user.ID, true)
	if err != nil {
		t.Fatalf("GetUser(includeDeleted): %v", err)
	}
	if !got.Deleted {
		t.Error("expected Deleted=true")
	}

	// Deleting again reports not found.
	if err := s.DeleteUser(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestCreateUser_EmailReuseAfterDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := mustCreateUser(t, s, "reuse@example.com")
	if err := s.DeleteUser(ctx, first.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// The partial unique index only covers live rows, so the address
	// can be registered again.
	second := mustCreateUser(t, s, "reuse@example.com")
	if second.ID == first.ID {
		t.Error("expected a fresh row for the reused email")
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "before@example.com")
	user.Email = "after@example.com"
	user.Active = false
	user.Superuser = true
	user.Touch()

	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "after@example.com" {
		t.Errorf("Email: got %q", got.Email)
	}
	if got.Active {
		t.Error("Active: expected false")
	}
	if !got.Superuser {
		t.Error("Superuser: expected true")
	}
}

func TestUpdateUser_DeletedIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "frozen@example.com")
	if err := s.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	user.Email = "thawed@example.com"
	user.Touch()
	if err := s.UpdateUser(ctx, user); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found updating deleted user, got %v", err)
	}
}

func TestListUsers_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var deleted int64
	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		u := mustCreateUser(t, s, email)
		if i == 2 {
			deleted = u.ID
		}
	}
	if err := s.DeleteUser(ctx, deleted); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// Total counts only live rows and matches the page predicate.
	page, err := s.ListUsers(ctx, store.Window{Offset: 0, Limit: 2}, false)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Total != 4 {
		t.Errorf("Total: got %d, want 4", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("Items: got %d, want 2", len(page.Items))
	}
	if page.Offset != 0 || page.Limit != 2 {
		t.Errorf("window echo: got offset=%d limit=%d", page.Offset, page.Limit)
	}

	// Ordered by ID ascending across windows, deleted row skipped.
	next, err := s.ListUsers(ctx, store.Window{Offset: 2, Limit: 2}, false)
	if err != nil {
		t.Fatalf("ListUsers second window: %v", err)
	}
	if len(next.Items) != 2 {
		t.Fatalf("second window Items: got %d, want 2", len(next.Items))
	}
	if next.Items[0].ID <= page.Items[1].ID {
		t.Error("expected second window to continue after first")
	}
	for _, u := range append(page.Items, next.Items...) {
		if u.ID == deleted {
			t.Error("deleted user leaked into listing")
		}
	}

	// Include-deleted listing sees all five.
	all, err := s.ListUsers(ctx, store.DefaultWindow(), true)
	if err != nil {
		t.Fatalf("ListUsers includeDeleted: %v", err)
	}
	if all.Total != 5 {
		t.Errorf("includeDeleted Total: got %d, want 5", all.Total)
	}
}

func TestListUsers_OffsetPastEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "only@example.com")

	page, err := s.ListUsers(ctx, store.Window{Offset: 50, Limit: 10}, false)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Total: got %d, want 1", page.Total)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items: expected empty non-nil slice, got %#v", page.Items)
	}
}

func TestListUsers_InvalidWindow(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ListUsers(context.Background(), store.Window{Offset: -1, Limit: 10}, false)
	if err == nil {
		t.Fatal("expected error for negative offset")
	}

	_, err = s.ListUsers(context.Background(), store.Window{Offset: 0, Limit: 0}, false)
	if err == nil {
		t.Fatal("expected error for zero limit")
	}
}
