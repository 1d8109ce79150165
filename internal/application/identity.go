package application

import "github.com/platebook/platebook/internal/domain/entity"

// Identity is the authenticated caller, resolved by the auth middleware and
// passed into every mutating operation explicitly.
type Identity struct {
	UserID   string
	Username string
	Role     entity.Role
}

func (id Identity) IsModerator() bool {
	return id.Role == entity.RoleModerator
}
