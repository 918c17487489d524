package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/user"
	"github.com/inkmatch/inkmatch-api/internal/pkg/jwt"
	"github.com/inkmatch/inkmatch-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service) *Service {
	return &Service{userRepo: userRepo, jwtService: jwtService}
}

// Register creates a new account and issues a token pair
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         user.Role(req.Role),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: userResponseFromEntity(u), Tokens: tokens}, nil
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, user.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, u.ID); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: userResponseFromEntity(u), Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: userResponseFromEntity(u), Tokens: tokens}, nil
}

// Me returns the authenticated user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return userResponseFromEntity(u), nil
}

func (s *Service) issueTokens(u *user.User) (*TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTTL().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
