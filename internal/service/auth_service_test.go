package service

import (
	"errors"
	"testing"
	"time"

	"github.com/halcyonchat/halcyon-backend/internal/auth"
)

func newTestAuthService() (*AuthService, *mockUserRepo, *auth.Authenticator) {
	userRepo := newMockUserRepo()
	authenticator := auth.NewAuthenticator("test-secret", time.Hour)
	return NewAuthService(userRepo, authenticator), userRepo, authenticator
}

func TestRegisterAndLogin(t *testing.T) {
	svc, userRepo, authenticator := newTestAuthService()

	resp, err := svc.Register(RegisterInput{
		Username:    "Alice",
		Password:    "correct-horse-battery",
		DisplayName: "Alice A",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.User.Username != "alice" {
		t.Errorf("username = %q, want normalized lowercase alice", resp.User.Username)
	}

	claims, err := authenticator.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token user = %q, want %q", claims.UserID, resp.User.ID)
	}

	stored := userRepo.users[resp.User.ID]
	if stored.PasswordHash == "correct-horse-battery" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(LoginInput{Username: "ALICE", Password: "correct-horse-battery"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login resolved user %q, want %q", login.User.ID, resp.User.ID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(RegisterInput{Username: "alice", Password: "password123"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	// Same name in a different case collides after normalization.
	_, err := svc.Register(RegisterInput{Username: "Alice", Password: "password456"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.Register(RegisterInput{Username: "alice", Password: "password123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(LoginInput{Username: "alice", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginStoreFailureIsNotCredentialFailure(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()
	userRepo.findErr = errors.New("dial tcp: connection refused")

	_, err := svc.Login(LoginInput{Username: "alice", Password: "password123"})
	if err == nil {
		t.Fatal("store failure should surface to the caller")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("a store error must not be reported as invalid credentials")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, err := svc.Login(LoginInput{Username: "nobody", Password: "whatever123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestAuthService()
	resp, err := svc.Register(RegisterInput{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.Me(resp.User.ID)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}

	if _, err := svc.Me("missing-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
