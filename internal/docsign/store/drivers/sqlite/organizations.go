package sqlite

import (
	"context"
	"database/sql"

	"github.com/lexvault/docsign/internal/docsign/domain"
)

type organizationsRepo struct {
	q querier
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO organizations (id, name, owner_id)
		VALUES (?, ?, ?)`,
		o.ID, o.Name, mapStringNull(o.OwnerID),
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	var o domain.Organization
	var ownerID sql.NullString
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, owner_id FROM organizations WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &ownerID)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	o.OwnerID = mapNullString(ownerID)
	return o, nil
}

func (r *organizationsRepo) ListOrganizationsForUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT o.id, o.name, o.owner_id
		FROM organizations o
		JOIN user_organizations uo ON uo.organization_id = o.id
		WHERE uo.user_id = ?
		ORDER BY o.name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		var ownerID sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &ownerID); err != nil {
			return nil, err
		}
		o.OwnerID = mapNullString(ownerID)
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *organizationsRepo) AddMember(ctx context.Context, organizationID, userID string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_organizations (user_id, organization_id)
		VALUES (?, ?)`,
		userID, organizationID,
	)
	return err
}

func (r *organizationsRepo) IsMember(ctx context.Context, organizationID, userID string) (bool, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_organizations
		WHERE organization_id = ? AND user_id = ?`,
		organizationID, userID,
	).Scan(&count)
	return count > 0, err
}
