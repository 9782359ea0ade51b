package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Identity is the verified caller of a request.
type Identity struct {
	ID   primitive.ObjectID
	Role Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Admin returns the admin capability for i. Only identities carrying the admin role
// obtain one; the zero AdminIdentity is rejected by every admin operation.
func (i Identity) Admin() (AdminIdentity, bool) {
	if !i.IsAdmin() || i.ID.IsZero() {
		return AdminIdentity{}, false
	}
	return AdminIdentity{id: i.ID}, true
}

type AdminIdentity struct {
	id primitive.ObjectID
}

func (a AdminIdentity) ID() primitive.ObjectID {
	return a.id
}

func (a AdminIdentity) Valid() bool {
	return !a.id.IsZero()
}
