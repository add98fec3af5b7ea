package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

type stubAuthRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.nextID++
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned ID")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "bob", "pass")
	if _, err := svc.Register(context.Background(), "bob", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["username"] != "carol" {
		t.Fatalf("expected username claim, got %v", claims["username"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "dave", "goodpass")
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Verify_RoundTrip(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "erin", "pass")
	token, _, err := svc.Login(context.Background(), "erin", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if identity.Username != "erin" || identity.ID == 0 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthService_Verify_Missing(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Verify(""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthService_Verify_WrongKey(t *testing.T) {
	other := NewAuthService(newStubAuthRepo(), "other-secret", time.Hour)
	_, _ = other.Register(context.Background(), "mallory", "pass")
	token, _, err := other.Login(context.Background(), "mallory", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Verify_Expired(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       float64(1),
		"username": "trent",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	token, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestAuthService_Verify_Malformed(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Verify("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
