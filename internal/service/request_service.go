package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/repository"
)

type RequestService struct {
	store RemovalRequestStore
}

func NewRequestService(store RemovalRequestStore) *RequestService {
	return &RequestService{store: store}
}

func (s *RequestService) Get(ctx context.Context, orgID string, txnUUID uuid.UUID) (*model.RemovalRequest, error) {
	req, err := s.store.FindByTransactionUUID(ctx, orgID, txnUUID)
	if errors.Is(err, repository.ErrRemovalRequestNotFound) {
		return nil, fmt.Errorf("removal request %s: %w", txnUUID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RequestService) List(ctx context.Context, orgID string, limit, offset int) ([]*model.RemovalRequest, int, error) {
	return s.store.ListByOrganisation(ctx, orgID, limit, offset)
}
