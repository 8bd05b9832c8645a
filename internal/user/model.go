package user

import (
	"time"

	"craftconnect-be/internal/identity"
)

// Profile is the account record for any authenticated user. IDs come from
// the external identity provider, so they are opaque strings.
type Profile struct {
	ID            string
	Email         string
	UserType      identity.Role
	FullName      *string
	Phone         *string
	Location      *string
	Bio           *string
	ProfileImage  *string
	PhoneVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Artisan is populated for artisan accounts that filled in shop details.
	Artisan *ArtisanProfile
}

// ArtisanProfile extends a profile with the public shop page fields.
type ArtisanProfile struct {
	UserID           string
	CraftType        *string
	Specialty        *string
	YearsExperience  *int
	Story            *string
	WorkshopLocation *string
	SocialMediaLinks *string
	IsVerified       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	FullName     *string
	Location     *string
	ProfileImage *string
}

type UpdateProfileInput struct {
	FullName     *string
	Phone        *string
	Location     *string
	Bio          *string
	ProfileImage *string

	// Artisan-only fields, rejected for buyer accounts.
	CraftType        *string
	Specialty        *string
	YearsExperience  *int
	Story            *string
	WorkshopLocation *string
	SocialMediaLinks *string
}

func (in UpdateProfileInput) hasArtisanFields() bool {
	return in.CraftType != nil || in.Specialty != nil || in.YearsExperience != nil ||
		in.Story != nil || in.WorkshopLocation != nil || in.SocialMediaLinks != nil
}
