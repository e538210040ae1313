package domain

// Post is a piece of content created by a user. Ownership is fixed at
// creation; only title and content are mutable.
type Post struct {
	Record
	Title   string `json:"title"`
	Content string `json:"content"`
	OwnerID int64  `json:"owner_id"`

	// Related records, populated on reads. Always filtered to the
	// non-deleted subset unless the read itself was an authorized
	// include-deleted request.
	OwnerUser *User      `json:"owner,omitempty"`
	Comments  []*Comment `json:"comments,omitempty"`
	Tags      []*Tag     `json:"tags,omitempty"`
}

// Owner implements Ownable.
func (p *Post) Owner() (int64, bool) {
	return p.OwnerID, true
}
