package postgres

import (
	"context"
	"errors"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"

	"github.com/google/uuid"
)

func (s *Store) GetTeamSettings(ctx context.Context) (models.TeamSettings, error) {
	var settings models.TeamSettings
	row := s.pool.QueryRow(ctx, `
		SELECT id, meeting_day, meeting_time, meeting_frequency, meeting_location, meeting_notes, created_at, updated_at
		FROM team_settings
		ORDER BY created_at
		LIMIT 1
	`)
	err := row.Scan(&settings.ID, &settings.MeetingDay, &settings.MeetingTime,
		&settings.MeetingFrequency, &settings.MeetingLocation, &settings.MeetingNotes,
		&settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return models.TeamSettings{}, mapNoRows(err)
	}
	return settings, nil
}

func (s *Store) UpsertTeamSettings(ctx context.Context, settings models.TeamSettings) (models.TeamSettings, error) {
	existing, err := s.GetTeamSettings(ctx)
	if err == nil {
		settings.ID = existing.ID
		row := s.pool.QueryRow(ctx, `
			UPDATE team_settings
			SET meeting_day = $2, meeting_time = $3, meeting_frequency = $4,
			    meeting_location = $5, meeting_notes = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING created_at, updated_at
		`, settings.ID, settings.MeetingDay, settings.MeetingTime,
			settings.MeetingFrequency, settings.MeetingLocation, settings.MeetingNotes)
		if err := row.Scan(&settings.CreatedAt, &settings.UpdatedAt); err != nil {
			return models.TeamSettings{}, err
		}
		return settings, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.TeamSettings{}, err
	}

	settings.ID = uuid.NewString()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO team_settings (id, meeting_day, meeting_time, meeting_frequency, meeting_location, meeting_notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, settings.ID, settings.MeetingDay, settings.MeetingTime,
		settings.MeetingFrequency, settings.MeetingLocation, settings.MeetingNotes)
	if err := row.Scan(&settings.CreatedAt, &settings.UpdatedAt); err != nil {
		return models.TeamSettings{}, err
	}
	return settings, nil
}
