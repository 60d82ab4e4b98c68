package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
)

// Register creates a local account. The role is always "user".
func (u *IdentityUseCase) Register(ctx context.Context, req usecase.RegisterRequest) (*entity.User, error) {
	email := entity.NormalizeEmail(req.Email)
	switch {
	case email == "":
		return nil, errs.Validationf("email is required")
	case req.Password == "":
		return nil, errs.Validationf("password is required")
	case len(req.Password) > entity.MaxPasswordLength:
		return nil, errs.Validationf("password must be at most %d bytes", entity.MaxPasswordLength)
	case strings.TrimSpace(req.Name) == "":
		return nil, errs.Validationf("name is required")
	}

	_, err := u.uow.GetUserRepository(ctx).GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errs.ErrDuplicateEmail
	case !errors.Is(err, errs.ErrUserNotFound):
		return nil, err
	}

	hash, err := u.hasher.Hash(req.Password)
	if errors.Is(err, errs.ErrValidation) {
		return nil, err
	}
	if err != nil {
		u.logger.Error("Failed to hash password", map[string]any{"error": err.Error()})
		return nil, errs.ErrInternalServer
	}

	user, err := entity.NewLocalUser(email, hash, req.Name, u.timeProvider)
	if err != nil {
		return nil, err
	}

	// The unique index still rejects a concurrent registration of the same email
	if err := u.createWithProfile(ctx, user); err != nil {
		if !errors.Is(err, errs.ErrDuplicateEmail) {
			u.logger.Error("Failed to create user", map[string]any{
				"email": email,
				"error": err.Error(),
			})
		}
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user.Sanitized(), nil
}

// EnsureAdmin provisions the operator-configured admin account.
// It registers the account when absent and promotes it otherwise.
func (u *IdentityUseCase) EnsureAdmin(ctx context.Context, email, password, name string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	users := u.uow.GetUserRepository(ctx)

	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrUserNotFound) {
		if name == "" {
			name = "Administrator"
		}
		user, err = u.Register(ctx, usecase.RegisterRequest{Email: email, Password: password, Name: name})
	}
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		u.logger.Info("Admin account already exists", map[string]any{"user_id": user.ID})
		return user.Sanitized(), nil
	}

	if err := users.UpdateRole(ctx, user.ID, entity.RoleAdmin); err != nil {
		return nil, err
	}
	user.Promote(u.timeProvider)

	u.logger.Info("Admin account provisioned", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user.Sanitized(), nil
}
