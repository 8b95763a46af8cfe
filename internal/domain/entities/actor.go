package entities

import (
	"fmt"
	"strings"
)

// ActorRole is the closed set of workflow roles. Keeping it a typed string
// (instead of free-form input) lets transition tables be checked exhaustively.
type ActorRole string

const (
	RoleSale     ActorRole = "sale"
	RolePreSale  ActorRole = "presale"
	RoleTechLead ActorRole = "techlead"
	RolePM       ActorRole = "pm"
	RoleAdmin    ActorRole = "admin"
)

// Actor identifies who is performing an operation. Supplied by the auth
// collaborator; role and ownership are still re-validated by the core.
type Actor struct {
	ID   string
	Role ActorRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func ParseActorRole(s string) (ActorRole, error) {
	switch ActorRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSale:
		return RoleSale, nil
	case RolePreSale:
		return RolePreSale, nil
	case RoleTechLead:
		return RoleTechLead, nil
	case RolePM:
		return RolePM, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown actor role %q", s)
	}
}
