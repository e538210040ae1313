package domain

// Tag is a label attachable to posts. Tags have no owner; their
// lifecycle is superuser-only. Name uniqueness is scoped to the
// non-deleted subset, so a deleted tag's name can be reused.
type Tag struct {
	Record
	Name string `json:"name"`
}

// Owner implements Ownable. Tags are unowned.
func (t *Tag) Owner() (int64, bool) {
	return 0, false
}
