package store

import (
	"context"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
)

type SignUpInput struct {
	Email    string
	Password string
}

type ApplicationInput struct {
	UserID        string
	DiscordID     string
	RobloxID      string
	RobloxUser    string
	Age           int
	ActivityLevel int
	Experience    string
	OtherServers  string
	RuleAnswers   models.RuleAnswers
}

type Store interface {
	// Auth and sessions.
	CreateUser(ctx context.Context, input SignUpInput) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error

	// Role assignments.
	GetRoleAssignment(ctx context.Context, userID string) (models.RoleAssignment, error)
	CreateRoleAssignment(ctx context.Context, userID, role string) (models.RoleAssignment, error)
	DeleteRoleAssignment(ctx context.Context, userID string) error
	ListRoleAssignments(ctx context.Context) ([]models.RoleAssignment, error)

	// Applications.
	CreateApplication(ctx context.Context, input ApplicationInput) (models.Application, error)
	HasApplication(ctx context.Context, userID, seasonID string) (bool, error)
	ListApplications(ctx context.Context, status string) ([]models.Application, error)
	ListUserApplications(ctx context.Context, userID string) ([]models.ApplicationSummary, error)
	UpdateApplicationStatus(ctx context.Context, applicationID, status, notes string) error
	DeleteApplication(ctx context.Context, applicationID string) error
	GetActiveSeason(ctx context.Context) (models.ApplicationSeason, error)

	// Partner and sub-server directory.
	ListPartnerServers(ctx context.Context) ([]models.PartnerServer, error)
	CreatePartnerServer(ctx context.Context, partner models.PartnerServer) (models.PartnerServer, error)
	UpdatePartnerServer(ctx context.Context, partner models.PartnerServer) (models.PartnerServer, error)
	DeletePartnerServer(ctx context.Context, partnerID string) error
	ListSubServers(ctx context.Context) ([]models.SubServer, error)
	CreateSubServer(ctx context.Context, sub models.SubServer) (models.SubServer, error)
	UpdateSubServer(ctx context.Context, sub models.SubServer) (models.SubServer, error)
	DeleteSubServer(ctx context.Context, subID string) error

	// Profiles.
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)

	// Team settings.
	GetTeamSettings(ctx context.Context) (models.TeamSettings, error)
	UpsertTeamSettings(ctx context.Context, settings models.TeamSettings) (models.TeamSettings, error)

	// Aggregate counts for the admin dashboard.
	CountUsers(ctx context.Context) (int, error)
	CountProfiles(ctx context.Context) (int, error)
}
