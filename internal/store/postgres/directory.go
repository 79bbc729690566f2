package postgres

import (
	"context"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"

	"github.com/google/uuid"
)

func (s *Store) ListPartnerServers(ctx context.Context) ([]models.PartnerServer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, website, owner, members, type, logo_url, created_at, updated_at
		FROM partner_servers
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []models.PartnerServer
	for rows.Next() {
		var partner models.PartnerServer
		if err := rows.Scan(&partner.ID, &partner.Name, &partner.Description, &partner.Website,
			&partner.Owner, &partner.Members, &partner.Type, &partner.LogoURL,
			&partner.CreatedAt, &partner.UpdatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return partners, nil
}

func (s *Store) CreatePartnerServer(ctx context.Context, partner models.PartnerServer) (models.PartnerServer, error) {
	partner.ID = uuid.NewString()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO partner_servers (id, name, description, website, owner, members, type, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, partner.ID, partner.Name, partner.Description, partner.Website,
		partner.Owner, partner.Members, partner.Type, partner.LogoURL)
	if err := row.Scan(&partner.CreatedAt, &partner.UpdatedAt); err != nil {
		return models.PartnerServer{}, err
	}
	return partner, nil
}

func (s *Store) UpdatePartnerServer(ctx context.Context, partner models.PartnerServer) (models.PartnerServer, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE partner_servers
		SET name = $2, description = $3, website = $4, owner = $5, members = $6,
		    type = $7, logo_url = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, partner.ID, partner.Name, partner.Description, partner.Website,
		partner.Owner, partner.Members, partner.Type, partner.LogoURL)
	if err := row.Scan(&partner.CreatedAt, &partner.UpdatedAt); err != nil {
		return models.PartnerServer{}, mapNoRows(err)
	}
	return partner, nil
}

func (s *Store) DeletePartnerServer(ctx context.Context, partnerID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM partner_servers
		WHERE id = $1
	`, partnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListSubServers(ctx context.Context) ([]models.SubServer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, icon, color, status, link, created_at, updated_at
		FROM sub_servers
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.SubServer
	for rows.Next() {
		var sub models.SubServer
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Description, &sub.Icon, &sub.Color,
			&sub.Status, &sub.Link, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) CreateSubServer(ctx context.Context, sub models.SubServer) (models.SubServer, error) {
	sub.ID = uuid.NewString()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO sub_servers (id, name, description, icon, color, status, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, sub.ID, sub.Name, sub.Description, sub.Icon, sub.Color, sub.Status, sub.Link)
	if err := row.Scan(&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return models.SubServer{}, err
	}
	return sub, nil
}

func (s *Store) UpdateSubServer(ctx context.Context, sub models.SubServer) (models.SubServer, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE sub_servers
		SET name = $2, description = $3, icon = $4, color = $5, status = $6, link = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, sub.ID, sub.Name, sub.Description, sub.Icon, sub.Color, sub.Status, sub.Link)
	if err := row.Scan(&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return models.SubServer{}, mapNoRows(err)
	}
	return sub, nil
}

func (s *Store) DeleteSubServer(ctx context.Context, subID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sub_servers
		WHERE id = $1
	`, subID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
