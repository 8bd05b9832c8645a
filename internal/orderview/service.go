package orderview

import (
	"context"
	"fmt"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/order"
)

type Service interface {
	List(ctx context.Context, viewer identity.Actor, filter Filter, limit, offset int32) ([]*OrderView, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, viewer identity.Actor, filter Filter, limit, offset int32) ([]*OrderView, error) {
	if filter.Status != nil && *filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", order.ErrInvalidOrder, *filter.Status)
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, viewer, filter, limit, offset)
}
