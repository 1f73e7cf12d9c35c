package service

import (
	"context"
	"errors"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
	"github.com/lexvault/docsign/pkg/idx"
)

// OrganizationService manages organizations and their memberships.
type OrganizationService struct {
	Store store.Store
}

// Create stores a new organization with the creator as owner and first
// member.
func (s *OrganizationService) Create(ctx context.Context, name, ownerID string) (domain.Organization, error) {
	org := domain.Organization{
		ID:      idx.New().String(),
		Name:    name,
		OwnerID: ownerID,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		return tx.Organizations().AddMember(ctx, org.ID, ownerID)
	})
	if err != nil {
		return domain.Organization{}, err
	}
	return org, nil
}

// AddMember adds a user to an organization. Only members may add members.
func (s *OrganizationService) AddMember(ctx context.Context, organizationID, actorID, userID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		member, err := tx.Organizations().IsMember(ctx, organizationID, actorID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotOrganizationMember
		}

		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return tx.Organizations().AddMember(ctx, organizationID, userID)
	})
}

// ListForUser returns the organizations the user belongs to.
func (s *OrganizationService) ListForUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	return s.Store.Organizations().ListOrganizationsForUser(ctx, userID)
}
