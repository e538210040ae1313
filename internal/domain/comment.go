package domain

// Comment is a reply attached to a post. Both the owner and the parent
// post reference are fixed at creation; only content is mutable.
type Comment struct {
	Record
	Content string `json:"content"`
	OwnerID int64  `json:"owner_id"`
	PostID  int64  `json:"post_id"`

	// Populated on reads, filtered to non-deleted owners.
	OwnerUser *User `json:"owner,omitempty"`
}

// Owner implements Ownable.
func (c *Comment) Owner() (int64, bool) {
	return c.OwnerID, true
}
