package postgres

import "context"

// CountUsers is the authoritative member count.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	row := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM users
	`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountProfiles is a proxy count used when the authoritative source is
// unavailable. Profiles are created alongside users, so this tracks the
// real number closely but is an approximation.
func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	var count int
	row := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM profiles
	`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
