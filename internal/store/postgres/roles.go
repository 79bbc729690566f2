package postgres

import (
	"context"
	"errors"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Store) GetRoleAssignment(ctx context.Context, userID string) (models.RoleAssignment, error) {
	var assignment models.RoleAssignment
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, role, created_at
		FROM admin_users
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&assignment.ID, &assignment.UserID, &assignment.Role, &assignment.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RoleAssignment{}, store.ErrNotFound
		}
		return models.RoleAssignment{}, err
	}
	return assignment, nil
}

func (s *Store) CreateRoleAssignment(ctx context.Context, userID, role string) (models.RoleAssignment, error) {
	assignment := models.RoleAssignment{ID: uuid.NewString(), UserID: userID, Role: role}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO admin_users (id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING created_at
	`, assignment.ID, assignment.UserID, assignment.Role)
	if err := row.Scan(&assignment.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RoleAssignment{}, store.ErrDuplicate
		}
		return models.RoleAssignment{}, err
	}
	return assignment, nil
}

func (s *Store) DeleteRoleAssignment(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM admin_users
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListRoleAssignments(ctx context.Context) ([]models.RoleAssignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, role, created_at
		FROM admin_users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.RoleAssignment
	for rows.Next() {
		var assignment models.RoleAssignment
		if err := rows.Scan(&assignment.ID, &assignment.UserID, &assignment.Role, &assignment.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}
