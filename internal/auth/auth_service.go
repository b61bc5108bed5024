package auth

import (
	"context"
	"os"
	"time"

	autherrors "github.com/Wael-BenAbid/vfRH/internal/auth/errors"
	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	identities identity.Repository
}

func NewService(identities identity.Repository) Service {
	return &service{identities: identities}
}

func (s *service) Login(ctx context.Context, username, password string) (string, string, AuthResponse, error) {
	u, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// pending access requests cannot sign in until approved
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	accessToken, err := generateToken(u.ID.String(), u.Role, u.Superuser, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := generateToken(u.ID.String(), u.Role, u.Superuser, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapToAuthResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	if _, err := uuid.Parse(userID); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.identities.FindByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	newAccess, err := generateToken(u.ID.String(), u.Role, u.Superuser, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefresh, err := generateToken(u.ID.String(), u.Role, u.Superuser, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccess, newRefresh, mapToAuthResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	u, err := s.identities.FindByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrInvalidCredentials
	}

	resp := mapToAuthResponse(u)
	return &resp, nil
}

func generateToken(userID, role string, superuser bool, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"role":      role,
		"superuser": superuser,
		"exp":       time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u *identity.Identity) AuthResponse {
	return AuthResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Superuser: u.Superuser,
	}
}
