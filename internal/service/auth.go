package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msomdec/hbnb/internal/domain"
)

// Authenticator checks an email and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// Claims is the identity carried by a validated token.
type Claims struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// AuthService issues and validates HS256 JWTs. Login attempts are limited
// per email address.
type AuthService struct {
	users     Authenticator
	jwtSecret []byte
	ttl       time.Duration
	limiter   *TokenBucket
}

// NewAuthService creates an AuthService. A nil limiter disables
// throttling.
func NewAuthService(users Authenticator, jwtSecret string, ttl time.Duration, limiter *TokenBucket) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		limiter:   limiter,
	}
}

// Login verifies credentials and returns a signed JWT token string.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if s.limiter != nil && !s.limiter.Allow(key) {
		return "", domain.ErrRateLimited
	}

	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return "", err
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if s.limiter != nil {
		s.limiter.Reset(key)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", fmt.Errorf("generate jwt: %w", err)
	}
	return token, nil
}

// ValidateToken parses and validates a JWT token string.
func (s *AuthService) ValidateToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return Claims{}, domain.ErrUnauthorized
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, domain.ErrUnauthorized
	}
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, domain.ErrUnauthorized
	}

	c := Claims{UserID: sub}
	c.Email, _ = mc["email"].(string)
	c.IsAdmin, _ = mc["is_admin"].(bool)
	return c, nil
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID(),
		"email":    user.Email(),
		"is_admin": user.IsAdmin(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
