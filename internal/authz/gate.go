package authz

import (
	"context"
	"log"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
)

// ActionResult is the outcome of a gated action. Denials carry a message and
// never a raw store error.
type ActionResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func denied(message string) ActionResult {
	return ActionResult{Success: false, Message: message}
}

// Store covers the writes the gate may perform once a check passes.
// store.Store satisfies it.
type Store interface {
	CreateRoleAssignment(ctx context.Context, userID, role string) (models.RoleAssignment, error)
	DeleteRoleAssignment(ctx context.Context, userID string) error
	DeleteApplication(ctx context.Context, applicationID string) error
	UpdateApplicationStatus(ctx context.Context, applicationID, status, notes string) error
	UpsertTeamSettings(ctx context.Context, settings models.TeamSettings) (models.TeamSettings, error)
}

// Gate performs role-protected writes. Every method resolves the acting
// user's role freshly at call time; a role value obtained earlier in the same
// interaction is never trusted. Lookup failures deny.
type Gate struct {
	store    Store
	resolver *Resolver
}

func NewGate(st Store, resolver *Resolver) *Gate {
	return &Gate{store: st, resolver: resolver}
}

// GrantRole assigns role to targetID. Both admin and moderator grants
// require an acting admin; moderators cannot extend anyone's privileges.
func (g *Gate) GrantRole(ctx context.Context, actorID, targetID, role string) ActionResult {
	if role != models.RoleAdmin && role != models.RoleModerator {
		return denied("unknown role")
	}

	isAdmin, err := g.resolver.IsAdmin(ctx, actorID)
	if err != nil {
		log.Printf("authz grant role=%s actor=%s: %v", role, actorID, err)
		return denied("role check unavailable, try again later")
	}
	if !isAdmin {
		if role == models.RoleAdmin {
			return denied("only existing admins can add new admins")
		}
		return denied("only admins can add moderators")
	}

	assignment, err := g.store.CreateRoleAssignment(ctx, targetID, role)
	if err != nil {
		log.Printf("authz grant role=%s target=%s: %v", role, targetID, err)
		return denied("could not grant role")
	}
	return ActionResult{
		Success: true,
		Message: role + " privileges granted successfully",
		Data:    assignment,
	}
}

// RevokeRole removes targetID's role assignment. Admin only.
func (g *Gate) RevokeRole(ctx context.Context, actorID, targetID string) ActionResult {
	isAdmin, err := g.resolver.IsAdmin(ctx, actorID)
	if err != nil {
		log.Printf("authz revoke actor=%s: %v", actorID, err)
		return denied("role check unavailable, try again later")
	}
	if !isAdmin {
		return denied("only admins can remove user roles")
	}

	if err := g.store.DeleteRoleAssignment(ctx, targetID); err != nil {
		log.Printf("authz revoke target=%s: %v", targetID, err)
		return denied("could not remove role")
	}
	return ActionResult{Success: true, Message: "role removed successfully"}
}

// DeleteApplication removes an application. Admin only.
func (g *Gate) DeleteApplication(ctx context.Context, actorID, applicationID string) ActionResult {
	isAdmin, err := g.resolver.IsAdmin(ctx, actorID)
	if err != nil {
		log.Printf("authz delete application actor=%s: %v", actorID, err)
		return denied("role check unavailable, try again later")
	}
	if !isAdmin {
		return denied("only admins can delete applications")
	}

	if err := g.store.DeleteApplication(ctx, applicationID); err != nil {
		log.Printf("authz delete application id=%s: %v", applicationID, err)
		return denied("could not delete application")
	}
	return ActionResult{Success: true, Message: "application deleted successfully"}
}

// UpdateApplicationStatus moves an application through review. Moderators
// and admins may review.
func (g *Gate) UpdateApplicationStatus(ctx context.Context, actorID, applicationID, status, notes string) ActionResult {
	switch status {
	case models.ApplicationPending, models.ApplicationAccepted, models.ApplicationRejected:
	default:
		return denied("unknown application status")
	}

	isModerator, err := g.resolver.IsModerator(ctx, actorID)
	if err != nil {
		log.Printf("authz review application actor=%s: %v", actorID, err)
		return denied("role check unavailable, try again later")
	}
	if !isModerator {
		return denied("only moderators can review applications")
	}

	if err := g.store.UpdateApplicationStatus(ctx, applicationID, status, notes); err != nil {
		log.Printf("authz review application id=%s: %v", applicationID, err)
		return denied("could not update application")
	}
	return ActionResult{Success: true, Message: "application updated successfully"}
}

// UpdateTeamSettings replaces the shared team settings. Admin only.
func (g *Gate) UpdateTeamSettings(ctx context.Context, actorID string, settings models.TeamSettings) ActionResult {
	isAdmin, err := g.resolver.IsAdmin(ctx, actorID)
	if err != nil {
		log.Printf("authz team settings actor=%s: %v", actorID, err)
		return denied("role check unavailable, try again later")
	}
	if !isAdmin {
		return denied("only admins can update team settings")
	}

	updated, err := g.store.UpsertTeamSettings(ctx, settings)
	if err != nil {
		log.Printf("authz team settings upsert: %v", err)
		return denied("could not update team settings")
	}
	return ActionResult{
		Success: true,
		Message: "team settings updated successfully",
		Data:    updated,
	}
}
