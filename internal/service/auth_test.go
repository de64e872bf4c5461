package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/hbnb/internal/domain"
	"github.com/msomdec/hbnb/internal/repository/memory"
	"github.com/msomdec/hbnb/internal/security"
	"github.com/msomdec/hbnb/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-32b"

func newTestAuthService(t *testing.T, limiter *service.TokenBucket) (*service.AuthService, *service.Facade) {
	t.Helper()
	// Use cost 4 for fast tests.
	f := service.NewFacade(memory.NewStore(), security.NewBcryptHasher(4), service.WithLogger(quietLogger()))
	auth := service.NewAuthService(f, testJWTSecret, time.Hour, limiter)
	return auth, f
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, f := newTestAuthService(t, nil)
	ctx := context.Background()
	u := createUser(t, f, "login@example.com")

	token, err := auth.Login(ctx, "login@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != u.ID() || claims.Email != "login@example.com" || claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_AdminClaim(t *testing.T) {
	auth, f := newTestAuthService(t, nil)
	ctx := context.Background()
	u := createUser(t, f, "admin@example.com")
	if _, err := f.UpdateUser(ctx, u.ID(), service.UpdateUserInput{IsAdmin: ptr(true)}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	token, err := auth.Login(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if !claims.IsAdmin {
		t.Fatal("expected admin claim")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth, f := newTestAuthService(t, nil)
	createUser(t, f, "wrong@example.com")

	_, err := auth.Login(context.Background(), "wrong@example.com", "wrongpassword")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	auth, _ := newTestAuthService(t, nil)

	_, err := auth.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	limiter := service.NewTokenBucket(0, 2)
	t.Cleanup(limiter.Close)
	auth, f := newTestAuthService(t, limiter)
	ctx := context.Background()
	createUser(t, f, "slow@example.com")

	for i := 0; i < 2; i++ {
		if _, err := auth.Login(ctx, "slow@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	// The key is case and space insensitive.
	if _, err := auth.Login(ctx, " SLOW@example.com", "secret123"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsLimiter(t *testing.T) {
	limiter := service.NewTokenBucket(0, 2)
	t.Cleanup(limiter.Close)
	auth, f := newTestAuthService(t, limiter)
	ctx := context.Background()
	createUser(t, f, "reset@example.com")

	if _, err := auth.Login(ctx, "reset@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, "reset@example.com", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := auth.Login(ctx, "reset@example.com", "secret123"); err != nil {
			t.Fatalf("login %d after reset: %v", i+1, err)
		}
	}
}

func TestAuthService_JWT_InvalidToken(t *testing.T) {
	auth, _ := newTestAuthService(t, nil)

	if _, err := auth.ValidateToken("not-a-valid-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_JWT_TamperedToken(t *testing.T) {
	auth, f := newTestAuthService(t, nil)
	createUser(t, f, "tamper@example.com")

	token, err := auth.Login(context.Background(), "tamper@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := auth.ValidateToken(tampered); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_JWT_WrongSecret(t *testing.T) {
	auth, f := newTestAuthService(t, nil)
	createUser(t, f, "secret@example.com")

	token, err := auth.Login(context.Background(), "secret@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := service.NewAuthService(f, "another-secret-key-of-32-characters", time.Hour, nil)
	if _, err := other.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_JWT_Expired(t *testing.T) {
	_, f := newTestAuthService(t, nil)
	createUser(t, f, "expired@example.com")

	auth := service.NewAuthService(f, testJWTSecret, -time.Minute, nil)
	token, err := auth.Login(context.Background(), "expired@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := auth.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
