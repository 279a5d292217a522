package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/security"
	"github.com/HSouheill/storefront_backend/utils"
)

// UserService is the admin side of user management.
type UserService struct {
	store UserStore
	audit *AuditLogger
}

func NewUserService(store UserStore, audit *AuditLogger) *UserService {
	return &UserService{store: store, audit: audit}
}

func (s *UserService) List(ctx context.Context, f models.UserFilter) (models.Page[models.User], error) {
	if f.Role != "" && !f.Role.Valid() {
		return models.Page[models.User]{}, invalid("invalid role %q", f.Role)
	}
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.User]{}, invalid("invalid status %q", f.Status)
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return models.Page[models.User]{}, storeErr(err, "users")
	}
	return models.NewPage(items, total, f.Pagination), nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.store.Get(ctx, id)
	return u, storeErr(err, "user")
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest, actor Actor) (*models.User, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	if len(req.Password) < 8 {
		return nil, invalid("password must be at least 8 characters")
	}
	u := &models.User{
		Email:      email,
		Name:       strings.TrimSpace(req.Name),
		Role:       req.Role,
		Status:     req.Status,
		Balance:    req.Balance,
		IsVerified: req.IsVerified,
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if !u.Role.Valid() || !u.Status.Valid() {
		return nil, invalid("invalid role or status")
	}
	if u.Balance < 0 {
		return nil, invalid("balance must not be negative")
	}
	if u.Password, err = security.HashPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, storeErr(err, "user with this email")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "user created", map[string]interface{}{"targetUserId": u.ID.Hex(), "role": string(u.Role)})
	return s.Get(ctx, u.ID)
}

func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.User, error) {
	var upd models.UserUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, invalid("invalid role %q", *upd.Role)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalid("invalid status %q", *upd.Status)
	}
	if upd.Balance != nil && *upd.Balance < 0 {
		return nil, invalid("balance must not be negative")
	}
	if upd.Email != nil {
		email, err := utils.SanitizeEmail(*upd.Email)
		if err != nil {
			return nil, invalid("%s", err.Error())
		}
		upd.Email = &email
	}
	if upd.Password != nil {
		if len(*upd.Password) < 8 {
			return nil, invalid("password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		upd.Password = &hash
	}
	set, err := toSet(upd)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	meta := map[string]interface{}{"targetUserId": id.Hex(), "fields": fieldNames(patch)}
	category := models.LogAdmin
	if upd.Balance != nil {
		meta["balance"] = *upd.Balance
		category = models.LogPayment
	}
	s.audit.Info(ctx, category, actor, "user updated", meta)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if id == actor.UserID {
		return fail(ErrConflict, "admins cannot delete their own account")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(err, "user")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "user deleted", map[string]interface{}{"targetUserId": id.Hex()})
	return nil
}
