package authz

import "github.com/google/uuid"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleIntern   = "intern"
)

// Actor is the resolved caller identity attached to every request.
type Actor struct {
	ID        uuid.UUID
	Role      string
	Superuser bool
}

// IsAdmin treats superusers as admins everywhere a role check applies.
func (a Actor) IsAdmin() bool {
	return a.Superuser || a.Role == RoleAdmin
}

// Refs names the identity references an entity carries. Entities fill in
// only the fields that exist for them; uuid.Nil fields never match.
type Refs struct {
	Owner      uuid.UUID
	Assignee   uuid.UUID
	Supervisor uuid.UUID
	Intern     uuid.UUID
}

func (r Refs) holds(id uuid.UUID) bool {
	if id == uuid.Nil {
		return false
	}
	return r.Owner == id || r.Assignee == id || r.Supervisor == id || r.Intern == id
}
