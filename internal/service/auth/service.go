package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftbook/shiftbook-backend/internal/domain/auth"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/database"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/jwt"
	"github.com/shiftbook/shiftbook-backend/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenPair, user.ProfileResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.TokenPair, user.ProfileResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

type ServiceImpl struct {
	db         *database.DB
	userRepo   user.Repository
	jwtService jwt.Service
	tokenRepo  postgresql.RefreshTokenRepository

	// Every operation runs under this deadline; once it passes the
	// operation is treated as failed.
	requestTimeout time.Duration
}

func NewService(db *database.DB, userRepo user.Repository, jwtService jwt.Service, tokenRepo postgresql.RefreshTokenRepository, requestTimeout time.Duration) *ServiceImpl {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &ServiceImpl{
		db:             db,
		userRepo:       userRepo,
		jwtService:     jwtService,
		tokenRepo:      tokenRepo,
		requestTimeout: requestTimeout,
	}
}

func (a *ServiceImpl) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.requestTimeout)
}

func (a *ServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenPair, user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, err
	}

	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.userRepo.Create(ctx, user.NewEmployee(req.Email, string(hash), req.FullName))
	if err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, err
	}

	pair, err := a.issueTokens(ctx, created)
	if err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, err
	}

	return pair, user.ToProfileResponse(created), nil
}

func (a *ServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenPair, user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, err
	}

	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenPair{}, user.ProfileResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenPair{}, user.ProfileResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, auth.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(ctx, userData)
	if err != nil {
		return auth.TokenPair{}, user.ProfileResponse{}, err
	}

	return pair, user.ToProfileResponse(userData), nil
}

// issueTokens generates the access/refresh pair and registers the refresh
// token inside one transaction.
func (a *ServiceImpl) issueTokens(ctx context.Context, u user.User) (auth.TokenPair, error) {
	var pair auth.TokenPair

	err := postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		var err error
		pair.AccessToken, pair.AccessExpiresAt, err = a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}

		pair.RefreshToken, pair.RefreshExpiresAt, err = a.jwtService.GenerateRefreshToken(u.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.tokenRepo.CreateRefreshToken(txCtx, u.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenPair{}, err
	}

	return pair, nil
}

// RefreshToken rotates the pair: the presented refresh token is verified,
// checked against the revocation registry, revoked, and replaced alongside a
// fresh access token.
func (a *ServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	token, err := jwtauth.VerifyToken(a.jwtService.JWTAuth(), refreshToken)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	revoked, err := a.tokenRepo.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}
	if revoked {
		return auth.TokenPair{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	if err := a.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	return a.issueTokens(ctx, userData)
}

func (a *ServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	a.jwtService.RevokeToken(accessToken)

	if refreshToken == "" {
		return nil
	}

	revoked, err := a.tokenRepo.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !revoked {
		if err := a.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	return nil
}
