package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

type fakeRoleReader struct {
	roleFn func(ctx context.Context, userID string) (models.RoleAssignment, error)
}

func (f fakeRoleReader) GetRoleAssignment(ctx context.Context, userID string) (models.RoleAssignment, error) {
	if f.roleFn == nil {
		return models.RoleAssignment{}, store.ErrNotFound
	}
	return f.roleFn(ctx, userID)
}

func roleReaderFor(roles map[string]string) fakeRoleReader {
	return fakeRoleReader{roleFn: func(ctx context.Context, userID string) (models.RoleAssignment, error) {
		role, ok := roles[userID]
		if !ok {
			return models.RoleAssignment{}, store.ErrNotFound
		}
		return models.RoleAssignment{ID: "a-1", UserID: userID, Role: role}, nil
	}}
}

func TestRoleOfNoRow(t *testing.T) {
	resolver := NewResolver(fakeRoleReader{})

	role, err := resolver.RoleOf(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != models.RoleNone {
		t.Fatalf("expected role none, got %q", role)
	}

	isAdmin, err := resolver.IsAdmin(context.Background(), "user-1")
	if err != nil || isAdmin {
		t.Fatalf("expected isAdmin false, got %v err=%v", isAdmin, err)
	}
	isModerator, err := resolver.IsModerator(context.Background(), "user-1")
	if err != nil || isModerator {
		t.Fatalf("expected isModerator false, got %v err=%v", isModerator, err)
	}
}

func TestRoleOfMatrix(t *testing.T) {
	reader := roleReaderFor(map[string]string{
		"admin-1": models.RoleAdmin,
		"mod-1":   models.RoleModerator,
	})
	resolver := NewResolver(reader)

	tests := []struct {
		name        string
		userID      string
		role        string
		isAdmin     bool
		isModerator bool
	}{
		{"admin", "admin-1", models.RoleAdmin, true, true},
		{"moderator", "mod-1", models.RoleModerator, false, true},
		{"plain user", "user-1", models.RoleNone, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			role, err := resolver.RoleOf(context.Background(), tc.userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if role != tc.role {
				t.Fatalf("expected role %q, got %q", tc.role, role)
			}
			isAdmin, _ := resolver.IsAdmin(context.Background(), tc.userID)
			if isAdmin != tc.isAdmin {
				t.Fatalf("expected isAdmin %v, got %v", tc.isAdmin, isAdmin)
			}
			isModerator, _ := resolver.IsModerator(context.Background(), tc.userID)
			if isModerator != tc.isModerator {
				t.Fatalf("expected isModerator %v, got %v", tc.isModerator, isModerator)
			}
		})
	}
}

func TestRoleOfUnavailable(t *testing.T) {
	reader := fakeRoleReader{roleFn: func(ctx context.Context, userID string) (models.RoleAssignment, error) {
		return models.RoleAssignment{}, errors.New("connection refused")
	}}
	resolver := NewResolver(reader)

	role, err := resolver.RoleOf(context.Background(), "user-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if role != models.RoleNone {
		t.Fatalf("expected role none on failure, got %q", role)
	}

	if _, err := resolver.IsAdmin(context.Background(), "user-1"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from IsAdmin, got %v", err)
	}
	if _, err := resolver.IsModerator(context.Background(), "user-1"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from IsModerator, got %v", err)
	}
}

func TestRoleOfUnknownRoleValue(t *testing.T) {
	reader := roleReaderFor(map[string]string{"user-1": "superuser"})
	resolver := NewResolver(reader)

	role, err := resolver.RoleOf(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != models.RoleNone {
		t.Fatalf("expected unknown role to resolve to none, got %q", role)
	}
}
