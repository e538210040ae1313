package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateAndGetComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "author@example.com")
	post := mustCreatePost(t, s, owner.ID, "Commented Post")
	comment := mustCreateComment(t, s, owner.ID, post.ID, "nice post")
	if comment.ID == 0 {
		t.Fatal("CreateComment did not assign an ID")
	}

	got, err := s.GetComment(ctx, comment.ID, false)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.Content != "nice post" {
		t.Errorf("Content: got %q", got.Content)
	}
	if got.OwnerID != owner.ID {
		t.Errorf("OwnerID: got %d, want %d", got.OwnerID, owner.ID)
	}
	if got.PostID != post.ID {
		t.Errorf("PostID: got %d, want %d", got.PostID, post.ID)
	}
	if got.OwnerUser == nil || got.OwnerUser.ID != owner.ID {
		t.Error("expected owner to be loaded")
	}
}

func TestGetComment_DeletedOwnerHidden(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := mustCreateUser(t, s, "author@example.com")
	commenter := mustCreateUser(t, s, "gone@example.com")
	post := mustCreatePost(t, s, author.ID, "Post")
	comment := mustCreateComment(t, s, commenter.ID, post.ID, "drive-by")
	if err := s.DeleteUser(ctx, commenter.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	got, err := s.GetComment(ctx, comment.ID, false)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.OwnerUser != nil {
		t.Errorf("expected deleted owner to stay hidden, got %+v", got.OwnerUser)
	}

	all, err := s.GetComment(ctx, comment.ID, true)
	if err != nil {
		t.Fatalf("GetComment(includeDeleted): %v", err)
	}
	if all.OwnerUser == nil || !all.OwnerUser.Deleted {
		t.Error("expected deleted owner loaded on include-deleted read")
	}
}

func TestDeleteComment_SoftDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "author@example.com")
	post := mustCreatePost(t, s, owner.ID, "Post")
	comment := mustCreateComment(t, s, owner.ID, post.ID, "fleeting")

	if err := s.DeleteComment(ctx, comment.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	if _, err := s.GetComment(ctx, comment.ID, false); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	got, err := s.GetComment(ctx, comment.ID, true)
	if err != nil {
		t.Fatalf("GetComment(includeDeleted): %v", err)
	}
	if !got.Deleted {
		t.Error("expected Deleted=true")
	}

	if err := s.DeleteComment(ctx, comment.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestUpdateComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "author@example.com")
	other := mustCreateUser(t, s, "other@example.com")
	post := mustCreatePost(t, s, owner.ID, "Post")
	second := mustCreatePost(t, s, owner.ID, "Second Post")
	comment := mustCreateComment(t, s, owner.ID, post.ID, "draft")

	comment.Content = "final"
	comment.OwnerID = other.ID // must be ignored by the update
	comment.PostID = second.ID // must be ignored by the update
	comment.Touch()

	if err := s.UpdateComment(ctx, comment); err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}

	got, err := s.GetComment(ctx, comment.ID, false)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.Content != "final" {
		t.Errorf("Content: got %q", got.Content)
	}
	if got.OwnerID != owner.ID {
		t.Errorf("OwnerID changed: got %d, want %d", got.OwnerID, owner.ID)
	}
	if got.PostID != post.ID {
		t.Errorf("PostID changed: got %d, want %d", got.PostID, post.ID)
	}
}

func TestListComments_FilterByPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "author@example.com")
	postA := mustCreatePost(t, s, owner.ID, "A")
	postB := mustCreatePost(t, s, owner.ID, "B")

	mustCreateComment(t, s, owner.ID, postA.ID, "a1")
	mustCreateComment(t, s, owner.ID, postA.ID, "a2")
	mustCreateComment(t, s, owner.ID, postB.ID, "b1")

	page, err := s.ListComments(ctx, store.DefaultWindow(), store.CommentFilter{PostID: postA.ID}, false)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total: got %d, want 2", page.Total)
	}
	for _, c := range page.Items {
		if c.PostID != postA.ID {
			t.Errorf("comment %d belongs to post %d", c.ID, c.PostID)
		}
		if c.OwnerUser == nil {
			t.Error("expected owner loaded in listing")
		}
	}

	all, err := s.ListComments(ctx, store.DefaultWindow(), store.CommentFilter{}, false)
	if err != nil {
		t.Fatalf("ListComments unfiltered: %v", err)
	}
	if all.Total != 3 {
		t.Errorf("unfiltered Total: got %d, want 3", all.Total)
	}
}

func TestListComments_ExcludesDeleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "author@example.com")
	post := mustCreatePost(t, s, owner.ID, "Post")

	keep := mustCreateComment(t, s, owner.ID, post.ID, "keep")
	drop := mustCreateComment(t, s, owner.ID, post.ID, "drop")
	if err := s.DeleteComment(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	page, err := s.ListComments(ctx, store.DefaultWindow(), store.CommentFilter{PostID: post.ID}, false)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != keep.ID {
		t.Errorf("expected only the live comment, got total=%d items=%d", page.Total, len(page.Items))
	}

	all, err := s.ListComments(ctx, store.DefaultWindow(), store.CommentFilter{PostID: post.ID}, true)
	if err != nil {
		t.Fatalf("ListComments includeDeleted: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("includeDeleted Total: got %d, want 2", all.Total)
	}
}
