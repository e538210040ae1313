package domain

// Action is an operation a principal may attempt on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Ownable is implemented by every resource the policy can evaluate.
// Resources without an owner (tags) return ok=false.
type Ownable interface {
	Owner() (id int64, ok bool)
}

// Can is the authorization policy: a pure decision with no I/O.
//
// Precedence:
//  1. Superusers may perform any action on any resource.
//  2. Anyone authenticated may read and create.
//  3. Update/delete require ownership; unowned resources (tags) are
//     superuser-only for mutation.
//
// Registration is unauthenticated and sits outside this policy;
// viewing soft-deleted records is gated separately by CanViewDeleted.
func Can(principal *User, action Action, resource Ownable) bool {
	if principal == nil {
		return false
	}
	if principal.Superuser {
		return true
	}

	switch action {
	case ActionRead, ActionCreate:
		return true
	case ActionUpdate, ActionDelete:
		ownerID, owned := resource.Owner()
		if !owned {
			// Unowned resources: lifecycle is superuser-only.
			return false
		}
		return ownerID == principal.ID
	default:
		return false
	}
}

// CanViewDeleted reports whether the principal may request reads that
// include soft-deleted records. A non-superuser asking for that mode is
// an error at the call site, never a silent downgrade to normal mode.
func CanViewDeleted(principal *User) bool {
	return principal != nil && principal.Superuser
}

// CanManageTags reports whether the principal may create, update, or
// soft-delete tags.
func CanManageTags(principal *User) bool {
	return principal != nil && principal.Superuser
}

// CanEditPostTags reports whether the principal may attach or detach
// tags on the given post: the post's owner or a superuser.
func CanEditPostTags(principal *User, post *Post) bool {
	if principal == nil || post == nil {
		return false
	}
	return principal.Superuser || post.OwnerID == principal.ID
}
