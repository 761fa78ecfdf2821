package domain

import dErrors "homeward/pkg/domain-errors"

// Role classifies an authenticated identity. Roles are assigned by the
// authentication collaborator and carried in the access token; this service
// only consumes them.
type Role string

const (
	RoleAdopter Role = "adopter"
	RoleShelter Role = "shelter"
	RoleFoster  Role = "foster"
)

// ParseRole validates a role string from a token or query parameter.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdopter, RoleShelter, RoleFoster:
		return Role(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
}
