package tramite

import "github.com/google/uuid"

// Role represents a workflow role held by a user
type Role string

const (
	RoleSuperadmin   Role = "superadmin"
	RoleAdmin        Role = "admin"
	RoleAutorizador  Role = "autorizador"
	RoleComprador    Role = "comprador"
	RolePresupuestos Role = "presupuestos"
	RoleTesoreria    Role = "tesoreria"
	RoleSolicitador  Role = "solicitador"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleAutorizador, RoleComprador,
		RolePresupuestos, RoleTesoreria, RoleSolicitador:
		return true
	}
	return false
}

// elevatedRoles are roles with approval authority somewhere in the chain.
// An owner holding any of these is steered toward revert instead of the
// self-service cancel path.
var elevatedRoles = []Role{RoleAdmin, RoleAutorizador, RoleComprador, RolePresupuestos, RoleTesoreria}

// Actor is the identity performing a workflow operation
type Actor struct {
	UserID uuid.UUID
	Roles  []Role
}

// HasRole checks whether the actor holds the given role
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks whether the actor holds at least one of the given roles
func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

// IsSuperadmin checks for the unconditional-bypass role
func (a Actor) IsSuperadmin() bool {
	return a.HasRole(RoleSuperadmin)
}

// IsElevated checks whether the actor holds any role with approval authority
func (a Actor) IsElevated() bool {
	return a.HasAnyRole(elevatedRoles...) || a.IsSuperadmin()
}
