package user

import (
	"context"
	"fmt"
	"strings"

	"craftconnect-be/internal/identity"
)

type Service interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, actor identity.Actor, input UpdateProfileInput) (*Profile, error)
	MarkPhoneVerified(ctx context.Context, actor identity.Actor, phone string) error
	FeaturedArtisans(ctx context.Context) ([]ArtisanProfile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile upserts the caller's user row and, for artisans, the shop
// details in the same call.
func (s *service) UpdateProfile(ctx context.Context, actor identity.Actor, input UpdateProfileInput) (*Profile, error) {
	if input.FullName != nil && strings.TrimSpace(*input.FullName) == "" {
		return nil, fmt.Errorf("%w: full name cannot be blank", ErrInvalidProfile)
	}
	if input.hasArtisanFields() && actor.Role != identity.RoleArtisan {
		return nil, ErrNotArtisan
	}
	if input.YearsExperience != nil && *input.YearsExperience < 0 {
		return nil, fmt.Errorf("%w: years of experience cannot be negative", ErrInvalidProfile)
	}

	p := &Profile{
		ID:           actor.ID,
		Email:        actor.Email,
		UserType:     actor.Role,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Location:     input.Location,
		Bio:          input.Bio,
		ProfileImage: input.ProfileImage,
	}
	p, err := s.repo.UpsertProfile(ctx, p)
	if err != nil {
		return nil, err
	}

	if actor.Role == identity.RoleArtisan && input.hasArtisanFields() {
		a, err := s.repo.UpsertArtisanProfile(ctx, &ArtisanProfile{
			UserID:           actor.ID,
			CraftType:        input.CraftType,
			Specialty:        input.Specialty,
			YearsExperience:  input.YearsExperience,
			Story:            input.Story,
			WorkshopLocation: input.WorkshopLocation,
			SocialMediaLinks: input.SocialMediaLinks,
		})
		if err != nil {
			return nil, err
		}
		p.Artisan = a
	}

	return p, nil
}

func (s *service) MarkPhoneVerified(ctx context.Context, actor identity.Actor, phone string) error {
	return s.repo.MarkPhoneVerified(ctx, actor.ID, phone)
}

func (s *service) FeaturedArtisans(ctx context.Context) ([]ArtisanProfile, error) {
	return s.repo.FeaturedArtisans(ctx)
}
