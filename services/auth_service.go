package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/repositories"
	"github.com/HSouheill/storefront_backend/security"
	"github.com/HSouheill/storefront_backend/utils"
)

type AuthService struct {
	users     UserStore
	tokens    *security.TokenManager
	blacklist *security.Blacklist
	audit     *AuditLogger
}

func NewAuthService(users UserStore, tokens *security.TokenManager, blacklist *security.Blacklist, audit *AuditLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, blacklist: blacklist, audit: audit}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, ip string) (*models.AuthResponse, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	if len(req.Password) < 8 {
		return nil, invalid("password must be at least 8 characters")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     models.RoleUser,
		Status:   models.UserActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storeErr(err, "user with this email")
	}
	s.audit.Info(ctx, models.LogAuth, Actor{UserID: u.ID, IP: ip}, "user registered", nil)
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ip string) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.audit.Warn(ctx, models.LogAuth, Actor{IP: ip}, "login failed", map[string]interface{}{"email": email})
		return nil, fail(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if !security.CheckPassword(u.Password, req.Password) {
		s.audit.Warn(ctx, models.LogAuth, Actor{UserID: u.ID, IP: ip}, "login failed", map[string]interface{}{"email": email})
		return nil, fail(ErrUnauthorized, "invalid email or password")
	}
	if u.Status != models.UserActive {
		return nil, fail(ErrForbidden, "account is %s", u.Status)
	}
	if err := s.users.TouchActivity(ctx, u.ID, time.Now().UTC()); err == nil {
		u.IsOnline = true
	}
	s.audit.Info(ctx, models.LogAuth, Actor{UserID: u.ID, Role: u.Role, IP: ip}, "user logged in", nil)
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*models.AuthResponse, error) {
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: exp, User: u}, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time, actor Actor) error {
	if err := s.blacklist.Revoke(ctx, token, expiresAt); err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, actor.UserID, bson.M{"isOnline": false}); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return storeErr(err, "user")
	}
	s.audit.Info(ctx, models.LogAuth, actor, "user logged out", nil)
	return nil
}

func (s *AuthService) Me(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.users.Get(ctx, id)
	return u, storeErr(err, "user")
}

func (s *AuthService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		set["name"] = name
	}
	if req.NewPassword != nil {
		if len(*req.NewPassword) < 8 {
			return nil, invalid("password must be at least 8 characters")
		}
		u, err := s.users.Get(ctx, id)
		if err != nil {
			return nil, storeErr(err, "user")
		}
		if !security.CheckPassword(u.Password, req.CurrentPassword) {
			return nil, fail(ErrForbidden, "current password is incorrect")
		}
		hash, err := security.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}
	if len(set) == 0 {
		return nil, invalid("nothing to update")
	}
	u, err := s.users.Update(ctx, id, set)
	return u, storeErr(err, "user")
}

func (s *AuthService) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return invalid("fcmToken is required")
	}
	_, err := s.users.Update(ctx, id, bson.M{"fcmToken": token})
	return storeErr(err, "user")
}
