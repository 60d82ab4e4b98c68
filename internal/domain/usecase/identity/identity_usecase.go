package identity

import (
	"context"
	"errors"
	"strconv"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
)

var _ usecase.IdentityUseCase = (*IdentityUseCase)(nil)

// IdentityUseCase resolves credentials to canonical users
type IdentityUseCase struct {
	uow           persistence.UnitOfWork
	hasher        coreport.PasswordHasher
	timeProvider  coreport.TimeProvider
	logger        coreport.Logger
	initialPoints int64
}

// NewIdentityUseCase creates a new IdentityUseCase.
// initialPoints is the balance of every newly created profile.
func NewIdentityUseCase(
	uow persistence.UnitOfWork,
	hasher coreport.PasswordHasher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	initialPoints int64,
) *IdentityUseCase {
	return &IdentityUseCase{
		uow:           uow,
		hasher:        hasher,
		timeProvider:  timeProvider,
		logger:        logger,
		initialPoints: initialPoints,
	}
}

// SerializeUser returns the opaque value kept in the session
func (u *IdentityUseCase) SerializeUser(user *entity.User) string {
	return strconv.FormatUint(user.ID, 10)
}

// DeserializeUser re-reads the user behind a session value.
// Unknown or malformed ids resolve to nil without an error.
func (u *IdentityUseCase) DeserializeUser(ctx context.Context, id string) (*entity.User, error) {
	userID, err := strconv.ParseUint(id, 10, 64)
	if err != nil || userID == 0 {
		return nil, nil
	}

	user, err := u.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

// createWithProfile inserts the user and its points profile in one unit of work
func (u *IdentityUseCase) createWithProfile(ctx context.Context, user *entity.User) error {
	return persistence.WithinTransaction(ctx, u.uow, func(txCtx context.Context) error {
		if err := u.uow.GetUserRepository(txCtx).Create(txCtx, user); err != nil {
			return err
		}

		profile, err := entity.NewProfile(user.ID, u.initialPoints, u.timeProvider)
		if err != nil {
			return err
		}
		return u.uow.GetProfileRepository(txCtx).Create(txCtx, profile)
	})
}
