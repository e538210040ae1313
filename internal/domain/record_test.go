package domain

import (
	"testing"
	"time"
)

func TestInitTimestamps(t *testing.T) {
	var r Record
	r.InitTimestamps()

	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be set")
	}
	if !r.CreatedAt.Equal(r.UpdatedAt) {
		t.Error("created_at and updated_at should match on init")
	}
}

func TestTouch_AdvancesUpdatedAt(t *testing.T) {
	var r Record
	r.InitTimestamps()
	before := r.UpdatedAt

	time.Sleep(time.Millisecond)
	r.Touch()

	if !r.UpdatedAt.After(before) {
		t.Error("Touch should advance updated_at")
	}
	if r.Deleted {
		t.Error("Touch must not affect the deleted flag")
	}
}

func TestMarkDeleted(t *testing.T) {
	var r Record
	r.InitTimestamps()
	before := r.UpdatedAt

	time.Sleep(time.Millisecond)
	r.MarkDeleted()

	if !r.Deleted {
		t.Error("MarkDeleted should set the flag")
	}
	if !r.UpdatedAt.After(before) {
		t.Error("MarkDeleted should advance updated_at")
	}
}
