package domain

// UserRole is the role carried by the caller identity.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated caller. It is supplied by the transport layer
// and passed explicitly into every service operation.
type Identity struct {
	UserID string   `json:"userID"`
	Role   UserRole `json:"role"`
}

// IsElevated reports whether the identity bypasses ownership checks.
func (i Identity) IsElevated() bool {
	return i.Role == RoleAdmin
}

// CanAccess reports whether the identity may act on a resource owned by ownerID.
func (i Identity) CanAccess(ownerID string) bool {
	return i.IsElevated() || (i.UserID != "" && i.UserID == ownerID)
}
