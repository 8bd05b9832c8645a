package user

import (
	"context"
	"database/sql"
	"errors"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

const featuredArtisanLimit = 6

const artisanColumns = `a.user_id, a.craft_type, a.specialty, a.years_experience, a.story,
	       a.workshop_location, a.social_media_links, a.is_verified, a.created_at, a.updated_at,
	       u.full_name, u.location, u.profile_image`

type Repository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, p *Profile) (*Profile, error)
	MarkPhoneVerified(ctx context.Context, userID, phone string) error

	GetArtisanProfile(ctx context.Context, userID string) (*ArtisanProfile, error)
	UpsertArtisanProfile(ctx context.Context, a *ArtisanProfile) (*ArtisanProfile, error)
	FeaturedArtisans(ctx context.Context) ([]ArtisanProfile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.String("user_id", userID),
	)

	query := `
		SELECT id, email, user_type, full_name, phone, location, bio, profile_image, phone_verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var p Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.UserType, &p.FullName, &p.Phone, &p.Location, &p.Bio,
		&p.ProfileImage, &p.PhoneVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	if p.UserType == identity.RoleArtisan {
		a, err := r.GetArtisanProfile(ctx, userID)
		if err != nil && !errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		p.Artisan = a
	}

	return &p, nil
}

// UpsertProfile inserts the user row on first sign-in and refreshes the
// mutable fields on later calls.
func (r *repository) UpsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertProfile"),
		zap.String("user_id", p.ID),
	)

	query := `
		INSERT INTO users (id, email, user_type, full_name, phone, location, bio, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = COALESCE(EXCLUDED.full_name, users.full_name),
			phone = COALESCE(EXCLUDED.phone, users.phone),
			location = COALESCE(EXCLUDED.location, users.location),
			bio = COALESCE(EXCLUDED.bio, users.bio),
			profile_image = COALESCE(EXCLUDED.profile_image, users.profile_image),
			updated_at = NOW()
		RETURNING id, email, user_type, full_name, phone, location, bio, profile_image, phone_verified, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Email, p.UserType, p.FullName, p.Phone, p.Location, p.Bio, p.ProfileImage,
	).Scan(
		&p.ID, &p.Email, &p.UserType, &p.FullName, &p.Phone, &p.Location, &p.Bio,
		&p.ProfileImage, &p.PhoneVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert profile", zap.Error(err))
		return nil, err
	}

	log.Info("profile upserted")
	return p, nil
}

func (r *repository) MarkPhoneVerified(ctx context.Context, userID, phone string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MarkPhoneVerified"),
		zap.String("user_id", userID),
	)

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET phone = $1, phone_verified = TRUE, updated_at = NOW() WHERE id = $2",
		phone, userID,
	)
	if err != nil {
		log.Error("failed to mark phone verified", zap.Error(err))
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *repository) GetArtisanProfile(ctx context.Context, userID string) (*ArtisanProfile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetArtisanProfile"),
		zap.String("user_id", userID),
	)

	query := `
		SELECT ` + artisanColumns + `
		FROM artisan_profiles a
		INNER JOIN users u ON a.user_id = u.id
		WHERE a.user_id = $1
	`
	var a ArtisanProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&a.UserID, &a.CraftType, &a.Specialty, &a.YearsExperience, &a.Story,
		&a.WorkshopLocation, &a.SocialMediaLinks, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt,
		&a.FullName, &a.Location, &a.ProfileImage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan artisan profile", zap.Error(err))
		return nil, err
	}

	return &a, nil
}

func (r *repository) UpsertArtisanProfile(ctx context.Context, a *ArtisanProfile) (*ArtisanProfile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertArtisanProfile"),
		zap.String("user_id", a.UserID),
	)

	query := `
		INSERT INTO artisan_profiles (user_id, craft_type, specialty, years_experience, story, workshop_location, social_media_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			craft_type = COALESCE(EXCLUDED.craft_type, artisan_profiles.craft_type),
			specialty = COALESCE(EXCLUDED.specialty, artisan_profiles.specialty),
			years_experience = COALESCE(EXCLUDED.years_experience, artisan_profiles.years_experience),
			story = COALESCE(EXCLUDED.story, artisan_profiles.story),
			workshop_location = COALESCE(EXCLUDED.workshop_location, artisan_profiles.workshop_location),
			social_media_links = COALESCE(EXCLUDED.social_media_links, artisan_profiles.social_media_links),
			updated_at = NOW()
		RETURNING user_id, craft_type, specialty, years_experience, story, workshop_location, social_media_links, is_verified, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.UserID, a.CraftType, a.Specialty, a.YearsExperience, a.Story, a.WorkshopLocation, a.SocialMediaLinks,
	).Scan(
		&a.UserID, &a.CraftType, &a.Specialty, &a.YearsExperience, &a.Story,
		&a.WorkshopLocation, &a.SocialMediaLinks, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert artisan profile", zap.Error(err))
		return nil, err
	}

	log.Info("artisan profile upserted")
	return a, nil
}

// FeaturedArtisans returns the newest artisan shops for the landing page.
func (r *repository) FeaturedArtisans(ctx context.Context) ([]ArtisanProfile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FeaturedArtisans"),
	)

	query := `
		SELECT ` + artisanColumns + `
		FROM artisan_profiles a
		INNER JOIN users u ON a.user_id = u.id
		ORDER BY a.created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, featuredArtisanLimit)
	if err != nil {
		log.Error("failed to query featured artisans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var artisans []ArtisanProfile
	for rows.Next() {
		var a ArtisanProfile
		if err := rows.Scan(
			&a.UserID, &a.CraftType, &a.Specialty, &a.YearsExperience, &a.Story,
			&a.WorkshopLocation, &a.SocialMediaLinks, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt,
			&a.FullName, &a.Location, &a.ProfileImage,
		); err != nil {
			log.Error("failed to scan featured artisan", zap.Error(err))
			return nil, err
		}
		artisans = append(artisans, a)
	}
	return artisans, rows.Err()
}
