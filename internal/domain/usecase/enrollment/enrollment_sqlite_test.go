package enrollment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqlFixture runs the use case against the gorm repositories on SQLite
type sqlFixture struct {
	tdb     *database.TestDBManager
	uow     persistence.UnitOfWork
	useCase *EnrollmentUseCase
	admin   *entity.User
}

func newSQLFixture(t *testing.T) *sqlFixture {
	t.Helper()
	tdb := database.NewTestDBManager(t)
	uow := tdb.Manager.CreateUnitOfWork()

	admin, err := entity.NewLocalUser("admin@example.com", "hash", "Admin", tdb.TimeProvider)
	require.NoError(t, err)
	admin.Role = entity.RoleAdmin
	require.NoError(t, uow.GetUserRepository(context.Background()).Create(context.Background(), admin))

	return &sqlFixture{
		tdb:     tdb,
		uow:     uow,
		useCase: NewEnrollmentUseCase(uow, tdb.TimeProvider, tdb.Logger),
		admin:   admin,
	}
}

func (f *sqlFixture) member(t *testing.T, email string, points int64) *entity.AuthenticatedIdentity {
	t.Helper()
	ctx := context.Background()
	user, err := entity.NewLocalUser(email, "hash", "Member", f.tdb.TimeProvider)
	require.NoError(t, err)
	require.NoError(t, f.uow.GetUserRepository(ctx).Create(ctx, user))

	profile, err := entity.NewProfile(user.ID, points, f.tdb.TimeProvider)
	require.NoError(t, err)
	require.NoError(t, f.uow.GetProfileRepository(ctx).Create(ctx, profile))
	return entity.NewAuthenticatedIdentity(user)
}

func (f *sqlFixture) class(t *testing.T, cost int64) *entity.Class {
	t.Helper()
	ctx := context.Background()
	class, err := entity.NewClass("Pilates", nil, f.tdb.TimeProvider.Now().Add(24*time.Hour), nil, cost, f.admin.ID, f.tdb.TimeProvider)
	require.NoError(t, err)
	require.NoError(t, f.uow.GetClassRepository(ctx).Create(ctx, class))
	return class
}

func (f *sqlFixture) points(t *testing.T, userID uint64) int64 {
	t.Helper()
	ctx := context.Background()
	profile, err := f.uow.GetProfileRepository(ctx).GetByUserID(ctx, userID)
	require.NoError(t, err)
	return profile.Points()
}

func TestEnrollWithSQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("Debits and records the enrollment", func(t *testing.T) {
		f := newSQLFixture(t)
		member := f.member(t, "sql-member@example.com", 80)
		class := f.class(t, 50)

		result, err := f.useCase.Enroll(ctx, member, class.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(30), result.NewPoints)
		assert.Equal(t, int64(30), f.points(t, member.UserID))

		_, err = f.useCase.Enroll(ctx, member, class.ID)
		assert.ErrorIs(t, err, errs.ErrAlreadyEnrolled)
		assert.Equal(t, int64(30), f.points(t, member.UserID))
	})

	t.Run("Insufficient points leaves no trace", func(t *testing.T) {
		f := newSQLFixture(t)
		member := f.member(t, "sql-poor@example.com", 30)
		class := f.class(t, 50)

		_, err := f.useCase.Enroll(ctx, member, class.ID)
		assert.ErrorIs(t, err, errs.ErrInsufficientPoints)
		assert.Equal(t, int64(30), f.points(t, member.UserID))

		exists, err := f.uow.GetEnrollmentRepository(ctx).Exists(ctx, member.UserID, class.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Concurrent requests for one class debit once", func(t *testing.T) {
		f := newSQLFixture(t)
		member := f.member(t, "sql-racer@example.com", 100)
		class := f.class(t, 30)

		const attempts = 8
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.useCase.Enroll(ctx, member, class.ID); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, errs.ErrAlreadyEnrolled)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, int64(70), f.points(t, member.UserID))
	})
	t.Run("Concurrent requests across classes never overdraw", func(t *testing.T) {
		f := newSQLFixture(t)
		member := f.member(t, "sql-spender@example.com", 100)

		const classCount = 5
		classes := make([]*entity.Class, classCount)
		for i := range classes {
			classes[i] = f.class(t, 60)
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0

		for _, class := range classes {
			wg.Add(1)
			go func(classID uint64) {
				defer wg.Done()
				if _, err := f.useCase.Enroll(ctx, member, classID); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, errs.ErrInsufficientPoints)
				}
			}(class.ID)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, int64(40), f.points(t, member.UserID))

		enrolled := 0
		for _, class := range classes {
			exists, err := f.uow.GetEnrollmentRepository(ctx).Exists(ctx, member.UserID, class.ID)
			require.NoError(t, err)
			if exists {
				enrolled++
			}
		}
		assert.Equal(t, 1, enrolled)
	})
}
