package postgres

import (
	"context"
	"database/sql"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var profile models.Profile
	var username, discordID, robloxID, avatarURL sql.NullString
	var usernameChanged sql.NullTime
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, username, discord_id, roblox_id, avatar_url, username_changed_at, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)
	err := row.Scan(&profile.UserID, &username, &discordID, &robloxID, &avatarURL,
		&usernameChanged, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return models.Profile{}, mapNoRows(err)
	}
	profile.Username = username.String
	profile.DiscordID = discordID.String
	profile.RobloxID = robloxID.String
	profile.AvatarURL = avatarURL.String
	profile.UsernameChanged = usernameChanged.Time
	return profile, nil
}

func (s *Store) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE profiles
		SET username = $2,
		    discord_id = $3,
		    roblox_id = $4,
		    avatar_url = $5,
		    username_changed_at = CASE WHEN username IS DISTINCT FROM $2 THEN NOW() ELSE username_changed_at END,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING created_at, updated_at
	`, profile.UserID, profile.Username, profile.DiscordID, profile.RobloxID, profile.AvatarURL)
	if err := row.Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return models.Profile{}, mapNoRows(err)
	}
	return profile, nil
}
