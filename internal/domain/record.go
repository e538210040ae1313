package domain

import "time"

// Record provides the common lifecycle fields shared by every entity:
// creation/update timestamps and the soft-delete flag. It gets embedded
// in each domain type instead of being re-declared per entity.
type Record struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Deleted   bool      `json:"deleted"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the entity's own fields change. Association-only
// changes (tag membership) must not touch it.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (r *Record) InitTimestamps() {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}

// MarkDeleted flags the record as soft-deleted and advances UpdatedAt.
// Idempotent: marking an already-deleted record changes nothing visible
// beyond the timestamp, and callers resolve those to NotFound first.
func (r *Record) MarkDeleted() {
	r.Deleted = true
	r.UpdatedAt = time.Now().UTC()
}
