package postgres

import (
	"context"
	"errors"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `
	id, user_id, season_id, discord_id, roblox_id, roblox_username,
	age, activity_level, admin_experience, other_servers,
	frp_understanding, vdm_understanding, taschen_rp_understanding,
	server_age_understanding, bodycam_understanding, friend_rule_violation,
	situation_handling, status, notes, created_at, updated_at`

func (s *Store) CreateApplication(ctx context.Context, input store.ApplicationInput) (models.Application, error) {
	season, err := s.GetActiveSeason(ctx)
	if err != nil {
		return models.Application{}, err
	}

	app := models.Application{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		SeasonID:      season.SeasonID,
		DiscordID:     input.DiscordID,
		RobloxID:      input.RobloxID,
		RobloxUser:    input.RobloxUser,
		Age:           input.Age,
		ActivityLevel: input.ActivityLevel,
		Experience:    input.Experience,
		OtherServers:  input.OtherServers,
		RuleAnswers:   input.RuleAnswers,
		Status:        models.ApplicationPending,
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO applications (
			id, user_id, season_id, discord_id, roblox_id, roblox_username,
			age, activity_level, admin_experience, other_servers,
			frp_understanding, vdm_understanding, taschen_rp_understanding,
			server_age_understanding, bodycam_understanding, friend_rule_violation,
			situation_handling, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`, app.ID, app.UserID, app.SeasonID, app.DiscordID, app.RobloxID, app.RobloxUser,
		app.Age, app.ActivityLevel, app.Experience, app.OtherServers,
		app.RuleAnswers.FRP, app.RuleAnswers.VDM, app.RuleAnswers.TaschenRP,
		app.RuleAnswers.ServerAge, app.RuleAnswers.Bodycam, app.RuleAnswers.FriendRule,
		app.RuleAnswers.Situation, app.Status)
	if err := row.Scan(&app.CreatedAt, &app.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.Application{}, store.ErrDuplicate
		}
		return models.Application{}, err
	}
	return app, nil
}

func (s *Store) HasApplication(ctx context.Context, userID, seasonID string) (bool, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE user_id = $1 AND season_id = $2
		)
	`, userID, seasonID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) ListApplications(ctx context.Context, status string) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Store) ListUserApplications(ctx context.Context, userID string) ([]models.ApplicationSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, status, created_at, updated_at
		FROM applications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ApplicationSummary
	for rows.Next() {
		var summary models.ApplicationSummary
		if err := rows.Scan(&summary.ID, &summary.Status, &summary.CreatedAt, &summary.UpdatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, applicationID, status, notes string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE applications
		SET status = $2, notes = $3, updated_at = NOW()
		WHERE id = $1
	`, applicationID, status, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, applicationID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM applications
		WHERE id = $1
	`, applicationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetActiveSeason(ctx context.Context) (models.ApplicationSeason, error) {
	var season models.ApplicationSeason
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, is_active, created_at
		FROM application_seasons
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`)
	if err := row.Scan(&season.SeasonID, &season.Name, &season.IsActive, &season.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ApplicationSeason{}, store.ErrNoActiveSeason
		}
		return models.ApplicationSeason{}, err
	}
	return season, nil
}

func scanApplication(rows pgx.Rows) (models.Application, error) {
	var app models.Application
	err := rows.Scan(
		&app.ID, &app.UserID, &app.SeasonID, &app.DiscordID, &app.RobloxID, &app.RobloxUser,
		&app.Age, &app.ActivityLevel, &app.Experience, &app.OtherServers,
		&app.RuleAnswers.FRP, &app.RuleAnswers.VDM, &app.RuleAnswers.TaschenRP,
		&app.RuleAnswers.ServerAge, &app.RuleAnswers.Bodycam, &app.RuleAnswers.FriendRule,
		&app.RuleAnswers.Situation, &app.Status, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	)
	return app, err
}
