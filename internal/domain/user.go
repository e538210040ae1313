package domain

// User represents an account in the system and doubles as the principal
// attached to authenticated requests.
type User struct {
	Record
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never serialized
	Active       bool   `json:"active"`
	Superuser    bool   `json:"superuser"`
}

// IsActive returns true if the account can authenticate and act.
func (u *User) IsActive() bool {
	return u.Active
}

// IsSuperuser returns true if the account holds unrestricted privilege.
func (u *User) IsSuperuser() bool {
	return u.Superuser
}

// Owner implements Ownable; a user owns itself.
func (u *User) Owner() (int64, bool) {
	return u.ID, true
}
