package catalog

import (
	"context"
	"fmt"
	"strings"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, limit, offset int32) ([]*Product, error)
	ListArtisanProducts(ctx context.Context, artisanID string) ([]*Product, error)
	CreateProduct(ctx context.Context, actor identity.Actor, in CreateProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, actor identity.Actor, id int64, in UpdateProductInput) (*Product, error)
	DeactivateProduct(ctx context.Context, actor identity.Actor, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetActive(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, limit, offset int32) ([]*Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListActive(ctx, limit, offset)
}

func (s *service) ListArtisanProducts(ctx context.Context, artisanID string) ([]*Product, error) {
	return s.repo.ListByArtisan(ctx, artisanID)
}

func (s *service) CreateProduct(ctx context.Context, actor identity.Actor, in CreateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CreateProduct"),
		zap.String("artisan_id", actor.ID),
	)

	if actor.Role != identity.RoleArtisan {
		return nil, ErrNotOwner
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	p := &Product{
		ArtisanID:     actor.ID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		PriceCents:    in.PriceCents,
		Category:      in.Category,
		Images:        in.Images,
		StockQuantity: in.StockQuantity,
		IsActive:      true,
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}
	p.ID = id

	log.Info("product created", zap.Int64("product_id", id))
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, actor identity.Actor, id int64, in UpdateProductInput) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ArtisanID != actor.ID {
		return nil, ErrNotOwner
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.Category != nil {
		p.Category = in.Category
	}
	if in.Images != nil {
		p.Images = in.Images
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeactivateProduct(ctx context.Context, actor identity.Actor, id int64) error {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if p.ArtisanID != actor.ID {
		return ErrNotOwner
	}
	return s.repo.Deactivate(ctx, id, actor.ID)
}

func validateCreate(in CreateProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if in.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}
