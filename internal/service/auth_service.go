package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/repository"
	"gorm.io/gorm"
)

// Claims carried by a session token. Identity itself is an external
// concern; this boundary only resolves a user id and the reviewer flag.
type Claims struct {
	UserID   uint `json:"uid"`
	Reviewer bool `json:"reviewer"`
	jwt.RegisteredClaims
}

type AuthService interface {
	IssueToken(username string) (string, error)
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
}

func NewAuthService(userRepo repository.UserRepository, secret string) AuthService {
	return &authService{userRepo: userRepo, secret: []byte(secret)}
}

func (s *authService) IssueToken(username string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("loading user %q: %w", username, err)
	}

	now := nowFunc()
	claims := &Claims{
		UserID:   user.ID,
		Reviewer: user.IsReviewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w: %v", apperr.ErrPermissionDenied, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperr.ErrPermissionDenied)
	}
	return claims, nil
}
