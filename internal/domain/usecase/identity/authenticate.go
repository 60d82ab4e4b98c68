package identity

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
)

// AuthenticateLocal checks an email and password pair
func (u *IdentityUseCase) AuthenticateLocal(ctx context.Context, email, password string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, errs.ErrUnknownUser
	}

	user, err := u.uow.GetUserRepository(ctx).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			u.logger.Info("Login rejected", map[string]any{"email": email, "reason": "unknown_user"})
			return nil, errs.ErrUnknownUser
		}
		return nil, err
	}

	// Accounts created through an identity provider have no local credential
	if !user.HasPassword() {
		u.logger.Info("Login rejected", map[string]any{"user_id": user.ID, "reason": "no_local_password"})
		return nil, errs.ErrBadCredential
	}

	if err := u.hasher.Compare(*user.PasswordHash, password); err != nil {
		u.logger.Info("Login rejected", map[string]any{"user_id": user.ID, "reason": "bad_credential"})
		return nil, errs.ErrBadCredential
	}

	return user.Sanitized(), nil
}

// AuthenticateExternal resolves the user vouched for by an identity provider,
// creating it on first sign-in and backfilling the external id on existing accounts
func (u *IdentityUseCase) AuthenticateExternal(ctx context.Context, profile entity.ExternalProfile) (*entity.User, error) {
	email := profile.NormalizedEmail()
	if email == "" {
		return nil, errs.ErrMissingEmail
	}

	users := u.uow.GetUserRepository(ctx)
	user, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrUserNotFound):
		return u.provisionExternal(ctx, profile)
	case err != nil:
		return nil, err
	}

	if !user.HasExternalID() && profile.Subject != "" {
		if err := users.UpdateExternalID(ctx, user.ID, profile.Subject); err != nil {
			return nil, err
		}
		user.LinkExternalID(profile.Subject, u.timeProvider)
		u.logger.Info("Linked external identity", map[string]any{
			"user_id":  user.ID,
			"provider": profile.Provider,
		})
	}

	return user.Sanitized(), nil
}

func (u *IdentityUseCase) provisionExternal(ctx context.Context, profile entity.ExternalProfile) (*entity.User, error) {
	user, err := entity.NewExternalUser(profile.NormalizedEmail(), profile.ResolvedName(), profile.Subject, u.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := u.createWithProfile(ctx, user); err != nil {
		// A concurrent first sign-in won the insert
		if errors.Is(err, errs.ErrDuplicateEmail) {
			existing, getErr := u.uow.GetUserRepository(ctx).GetByEmail(ctx, user.Email)
			if getErr != nil {
				return nil, getErr
			}
			return existing.Sanitized(), nil
		}
		u.logger.Error("Failed to provision external user", map[string]any{
			"email":    user.Email,
			"provider": profile.Provider,
			"error":    err.Error(),
		})
		return nil, err
	}

	u.logger.Info("User created from external identity", map[string]any{
		"user_id":  user.ID,
		"provider": profile.Provider,
	})
	return user.Sanitized(), nil
}
