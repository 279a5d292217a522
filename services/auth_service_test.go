package services

import (
	"context"
	"testing"
	"time"

	"github.com/HSouheill/storefront_backend/cache"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/security"
	"github.com/HSouheill/storefront_backend/testutil"
)

func newAuthFixture() (*AuthService, *testutil.Users, *security.Blacklist, *security.TokenManager) {
	users := testutil.NewUsers()
	tokens := security.NewTokenManager("test-secret", time.Hour)
	blacklist := security.NewBlacklist(cache.NewMemory())
	return NewAuthService(users, tokens, blacklist, NewAuditLogger(testutil.NewLogs())), users, blacklist, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users, _, tokens := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{Email: " Ada@Example.com ", Password: "hunter22", Name: "Ada"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Email != "ada@example.com" || reg.User.Role != models.RoleUser {
		t.Errorf("user = %+v", reg.User)
	}
	if _, claims, err := tokens.Parse(reg.Token); err != nil || claims.UserID != reg.User.ID.Hex() {
		t.Fatalf("issued token invalid: %v", err)
	}

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Password: "hunter22", Name: "Ada"}, "")
	wantKind(t, err, ErrConflict)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ADA@example.com", Password: "hunter22"}, "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !login.User.IsOnline {
		t.Error("login should mark the user online")
	}

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "wrong-password"}, "")
	wantKind(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "hunter22"}, "")
	wantKind(t, err, ErrUnauthorized)

	if _, err := users.Update(ctx, reg.User.ID, map[string]interface{}{"status": models.UserBanned}); err != nil {
		t.Fatal(err)
	}
	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "hunter22"}, "")
	wantKind(t, err, ErrForbidden)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, users, blacklist, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Password: "hunter22", Name: "Ada"}, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, reg.Token, reg.ExpiresAt, Actor{UserID: reg.User.ID}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !blacklist.IsRevoked(ctx, reg.Token) {
		t.Error("token not revoked")
	}
	u, _ := users.Get(ctx, reg.User.ID)
	if u.IsOnline {
		t.Error("user still online after logout")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Password: "hunter22", Name: "Ada"}, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	newPass := "correct-horse"
	_, err = svc.UpdateProfile(ctx, reg.User.ID, models.ProfileUpdate{CurrentPassword: "nope", NewPassword: &newPass})
	wantKind(t, err, ErrForbidden)

	name := "Ada L."
	u, err := svc.UpdateProfile(ctx, reg.User.ID, models.ProfileUpdate{Name: &name, CurrentPassword: "hunter22", NewPassword: &newPass})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "Ada L." {
		t.Errorf("name = %q", u.Name)
	}
	if _, err := svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: newPass}, ""); err != nil {
		t.Errorf("login with new password: %v", err)
	}

	_, err = svc.UpdateProfile(ctx, reg.User.ID, models.ProfileUpdate{})
	wantKind(t, err, ErrValidation)

	wantKind(t, svc.SetFCMToken(ctx, reg.User.ID, " "), ErrValidation)
	if err := svc.SetFCMToken(ctx, reg.User.ID, "device"); err != nil {
		t.Errorf("set fcm token: %v", err)
	}
}
