package rest

import (
	"net/http"
	"time"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/user"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc user.Service
}

type artisanDetails struct {
	CraftType        *string `json:"craft_type,omitempty"`
	Specialty        *string `json:"specialty,omitempty"`
	YearsExperience  *int    `json:"years_experience,omitempty"`
	Story            *string `json:"story,omitempty"`
	WorkshopLocation *string `json:"workshop_location,omitempty"`
	SocialMediaLinks *string `json:"social_media_links,omitempty"`
	IsVerified       bool    `json:"is_verified"`
}

type profileResponse struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	UserType      identity.Role   `json:"user_type"`
	FullName      *string         `json:"full_name,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Location      *string         `json:"location,omitempty"`
	Bio           *string         `json:"bio,omitempty"`
	ProfileImage  *string         `json:"profile_image,omitempty"`
	PhoneVerified bool            `json:"phone_verified"`
	CreatedAt     time.Time       `json:"created_at"`
	Artisan       *artisanDetails `json:"artisan,omitempty"`
}

func toProfileResponse(p *user.Profile) profileResponse {
	out := profileResponse{
		ID:            p.ID,
		Email:         p.Email,
		UserType:      p.UserType,
		FullName:      p.FullName,
		Phone:         p.Phone,
		Location:      p.Location,
		Bio:           p.Bio,
		ProfileImage:  p.ProfileImage,
		PhoneVerified: p.PhoneVerified,
		CreatedAt:     p.CreatedAt,
	}
	if p.Artisan != nil {
		out.Artisan = &artisanDetails{
			CraftType:        p.Artisan.CraftType,
			Specialty:        p.Artisan.Specialty,
			YearsExperience:  p.Artisan.YearsExperience,
			Story:            p.Artisan.Story,
			WorkshopLocation: p.Artisan.WorkshopLocation,
			SocialMediaLinks: p.Artisan.SocialMediaLinks,
			IsVerified:       p.Artisan.IsVerified,
		}
	}
	return out
}

func (h *ProfileHandler) Get(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	p, err := h.svc.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

type updateProfileRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`

	CraftType        *string `json:"craft_type"`
	Specialty        *string `json:"specialty"`
	YearsExperience  *int    `json:"years_experience"`
	Story            *string `json:"story"`
	WorkshopLocation *string `json:"workshop_location"`
	SocialMediaLinks *string `json:"social_media_links"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.UpdateProfile(c.Request.Context(), actor, user.UpdateProfileInput{
		FullName:         req.FullName,
		Phone:            req.Phone,
		Location:         req.Location,
		Bio:              req.Bio,
		ProfileImage:     req.ProfileImage,
		CraftType:        req.CraftType,
		Specialty:        req.Specialty,
		YearsExperience:  req.YearsExperience,
		Story:            req.Story,
		WorkshopLocation: req.WorkshopLocation,
		SocialMediaLinks: req.SocialMediaLinks,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

type featuredArtisanResponse struct {
	UserID       string  `json:"user_id"`
	FullName     *string `json:"full_name,omitempty"`
	Location     *string `json:"location,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	CraftType    *string `json:"craft_type,omitempty"`
	Specialty    *string `json:"specialty,omitempty"`
	IsVerified   bool    `json:"is_verified"`
}

func (h *ProfileHandler) FeaturedArtisans(c *gin.Context) {
	artisans, err := h.svc.FeaturedArtisans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]featuredArtisanResponse, 0, len(artisans))
	for _, a := range artisans {
		out = append(out, featuredArtisanResponse{
			UserID:       a.UserID,
			FullName:     a.FullName,
			Location:     a.Location,
			ProfileImage: a.ProfileImage,
			CraftType:    a.CraftType,
			Specialty:    a.Specialty,
			IsVerified:   a.IsVerified,
		})
	}
	c.JSON(http.StatusOK, gin.H{"artisans": out})
}
