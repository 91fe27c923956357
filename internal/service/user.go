package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rokibulparves/sobol/internal/config"
	"github.com/rokibulparves/sobol/internal/model"
	"github.com/rokibulparves/sobol/internal/storage/postgres"
)

type UserService struct {
	Storage *postgres.Storage
	auth    config.AuthConfig
}

func NewUserService(s *postgres.Storage, auth config.AuthConfig) *UserService {
	return &UserService{Storage: s, auth: auth}
}

func (s *UserService) Register(ctx context.Context, email, password string) (string, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	u := model.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
	}
	if err := s.Storage.CreateUser(ctx, u); err != nil {
		return "", "", err
	}

	access, refresh, err := s.GenerateTokens(u.ID)
	if err != nil {
		return "", "", err
	}
	if err := s.Storage.UpdateRefreshToken(ctx, u.ID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, string, error) {
	u, err := s.Storage.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	access, refresh, err := s.GenerateTokens(u.ID)
	if err != nil {
		return "", "", err
	}
	if err := s.Storage.UpdateRefreshToken(ctx, u.ID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	user, err := s.Storage.GetUserByRefresh(ctx, refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}
	access, refresh, err := s.GenerateTokens(user.ID)
	if err != nil {
		return "", "", err
	}
	if err := s.Storage.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.Storage.GetUserByID(ctx, id)
}

// --- JWT helpers ---

func (s *UserService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	access, err := s.generateJWT(userID, s.auth.AccessExpiry)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.generateJWT(userID, s.auth.RefreshExpiry)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *UserService) generateJWT(userID uuid.UUID, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.JWTSecret))
}

func (s *UserService) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	claims := token.Claims.(jwt.MapClaims)
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("user_id not found or not a string")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid user_id format")
	}
	return userID, nil
}
