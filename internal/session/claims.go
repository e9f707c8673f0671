package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Known roles, in descending privilege order.
const (
	RoleAdmin        = "admin"
	RoleCollaborator = "collaborator"
	RoleUser         = "user"
)

// ParseRole extracts the role claim from a bearer token for UI gating only.
// The token is NOT verified here: the backend is the authority and rejects
// bad tokens on its own. Anything that does not parse as a JWT with a known
// role gates as a plain user.
func ParseRole(token string) string {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return RoleUser
	}
	role, _ := claims["role"].(string)
	switch role {
	case RoleAdmin, RoleCollaborator:
		return role
	default:
		return RoleUser
	}
}

// RoleAtLeast reports whether have grants the privileges of want.
func RoleAtLeast(have, want string) bool {
	rank := func(r string) int {
		switch r {
		case RoleAdmin:
			return 2
		case RoleCollaborator:
			return 1
		default:
			return 0
		}
	}
	return rank(have) >= rank(want)
}
