package artist

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const maxPortfolioImages = 30

// Service handles artist profile business logic
type Service struct {
	repo Repository
}

// NewService creates artist service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile creates or updates the caller's artist profile
func (s *Service) UpsertProfile(ctx context.Context, userID uuid.UUID, req *UpsertProfileRequest) (*Profile, error) {
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:                uuid.New(),
		UserID:            userID,
		Bio:               nullString(req.Bio),
		City:              nullString(req.City),
		StudioName:        nullString(req.StudioName),
		Styles:            req.Styles,
		InstagramHandle:   nullString(req.InstagramHandle),
		AcceptingBookings: true,
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.PortfolioImages = existing.PortfolioImages
		profile.AcceptingBookings = existing.AcceptingBookings
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = sql.NullFloat64{Float64: *req.HourlyRate, Valid: true}
	}
	if req.MinimumCharge != nil {
		profile.MinimumCharge = sql.NullFloat64{Float64: *req.MinimumCharge, Valid: true}
	}
	if req.AcceptingBookings != nil {
		profile.AcceptingBookings = *req.AcceptingBookings
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return s.getOrNotFound(ctx, userID)
}

// GetProfile returns an artist's profile by user id
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.getOrNotFound(ctx, userID)
}

// ListProfiles returns directory listings
func (s *Service) ListProfiles(ctx context.Context, filter ListFilter, limit, offset int) ([]*ListedProfile, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// AddPortfolioImage appends an image URL to the caller's portfolio
func (s *Service) AddPortfolioImage(ctx context.Context, userID uuid.UUID, imageURL string) (*Profile, error) {
	profile, err := s.getOrNotFound(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.PortfolioImages) >= maxPortfolioImages {
		return nil, ErrTooManyImages
	}

	images := append([]string(profile.PortfolioImages), imageURL)
	if err := s.repo.UpdatePortfolio(ctx, userID, images); err != nil {
		return nil, err
	}

	return s.getOrNotFound(ctx, userID)
}

// RemovePortfolioImage removes an image URL from the caller's portfolio
func (s *Service) RemovePortfolioImage(ctx context.Context, userID uuid.UUID, imageURL string) (*Profile, error) {
	profile, err := s.getOrNotFound(ctx, userID)
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(profile.PortfolioImages))
	for _, img := range profile.PortfolioImages {
		if img != imageURL {
			images = append(images, img)
		}
	}
	if err := s.repo.UpdatePortfolio(ctx, userID, images); err != nil {
		return nil, err
	}

	return s.getOrNotFound(ctx, userID)
}

func (s *Service) getOrNotFound(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
