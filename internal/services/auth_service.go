package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crmdesk/internal/metrics"
	"crmdesk/internal/middleware"
	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Users   repositories.AdminUserRepository
	Secret  []byte
	TTL     time.Duration
	Metrics *metrics.Metrics

	now func() time.Time
}

func NewAuthService(users repositories.AdminUserRepository, secret string, ttl time.Duration, m *metrics.Metrics) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		Users:   users,
		Secret:  []byte(secret),
		TTL:     ttl,
		Metrics: m,
		now:     time.Now,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login checks the credentials and returns a signed token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", NewValidationError("email and password are required")
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		log.Printf("[auth][login] unknown email=%q", email)
		s.Metrics.Login("failure")
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("[auth][login] bcrypt mismatch id=%d", user.ID)
		s.Metrics.Login("failure")
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", err
	}
	s.Metrics.Login("success")
	log.Printf("[auth][login] success id=%d", user.ID)
	return token, nil
}

func (s *AuthService) IssueToken(user *models.AdminUser) (string, error) {
	now := s.now()
	claims := &middleware.Claims{
		AdminID: user.ID,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// EnsureAdmin creates the bootstrap admin when no account with that email
// exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.AdminUser{Email: email, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.Users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("[auth][seed] admin created id=%d email=%s", user.ID, user.Email)
	return nil
}
