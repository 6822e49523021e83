package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/repository"
)

type OrganisationStore interface {
	FindByID(ctx context.Context, id string) (*model.CustomerOrganisation, error)
}

type OrganisationService struct {
	store OrganisationStore
}

func NewOrganisationService(store OrganisationStore) *OrganisationService {
	return &OrganisationService{store: store}
}

func (s *OrganisationService) Get(ctx context.Context, id string) (*model.CustomerOrganisation, error) {
	org, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrOrganisationNotFound) {
		return nil, fmt.Errorf("organisation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}
