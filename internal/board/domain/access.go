package domain

// Access is what a user may do on a board. Values are ordered.
type Access int

const (
	AccessNone Access = iota
	AccessPublic
	AccessMember
	AccessOwner
)

// AccessFor evaluates the board's policy for userID. Members must be loaded.
func (b *Board) AccessFor(userID uint) Access {
	switch {
	case b.UserID == userID:
		return AccessOwner
	case b.IsMember(userID):
		return AccessMember
	case b.IsPublic:
		return AccessPublic
	default:
		return AccessNone
	}
}

// CanRead: owner, member, or anyone when the board is public.
func (a Access) CanRead() bool { return a >= AccessPublic }

// CanEdit: owner or member. Governs cards, lists and subtasks.
func (a Access) CanEdit() bool { return a >= AccessMember }

func (a Access) IsOwner() bool { return a == AccessOwner }

func (a Access) String() string {
	switch a {
	case AccessOwner:
		return "owner"
	case AccessMember:
		return "member"
	case AccessPublic:
		return "public"
	default:
		return "none"
	}
}
