package authz

import (
	"context"
	"errors"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

// ErrUnavailable reports that a role lookup could not be completed. It is
// distinct from "no role": callers must fail closed on it.
var ErrUnavailable = errors.New("role lookup unavailable")

// RoleReader is the single lookup the resolver needs; store.Store satisfies it.
type RoleReader interface {
	GetRoleAssignment(ctx context.Context, userID string) (models.RoleAssignment, error)
}

type Resolver struct {
	roles RoleReader
}

func NewResolver(roles RoleReader) *Resolver {
	return &Resolver{roles: roles}
}

// RoleOf returns the elevated role held by userID. A missing assignment row
// is RoleNone, not an error; any transport or store failure is ErrUnavailable.
func (r *Resolver) RoleOf(ctx context.Context, userID string) (string, error) {
	assignment, err := r.roles.GetRoleAssignment(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.RoleNone, nil
		}
		return models.RoleNone, ErrUnavailable
	}
	switch assignment.Role {
	case models.RoleAdmin, models.RoleModerator:
		return assignment.Role, nil
	default:
		return models.RoleNone, nil
	}
}

func (r *Resolver) IsAdmin(ctx context.Context, userID string) (bool, error) {
	role, err := r.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// IsModerator is true for moderators and admins; admin implies moderator.
func (r *Resolver) IsModerator(ctx context.Context, userID string) (bool, error) {
	role, err := r.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin || role == models.RoleModerator, nil
}
