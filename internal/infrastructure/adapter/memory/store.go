package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
)

type enrollmentKey struct {
	userID  uint64
	classID uint64
}

// Store is an in-process data store with the same guarantees as the SQL schema:
// unique emails, one profile per user, unique (user_id, class_id) enrollments
// and a points balance that never goes negative.
type Store struct {
	mu sync.RWMutex

	users        map[uint64]*entity.User
	usersByEmail map[string]uint64
	profiles     map[uint64]*entity.Profile
	classes      map[uint64]*entity.Class
	enrollments  map[enrollmentKey]*entity.Enrollment

	nextUserID       uint64
	nextClassID      uint64
	nextEnrollmentID uint64

	// serializes units of work
	txMu sync.Mutex

	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewStore creates an empty store
func NewStore(timeProvider coreport.TimeProvider, logger coreport.Logger) *Store {
	return &Store{
		users:        make(map[uint64]*entity.User),
		usersByEmail: make(map[string]uint64),
		profiles:     make(map[uint64]*entity.Profile),
		classes:      make(map[uint64]*entity.Class),
		enrollments:  make(map[enrollmentKey]*entity.Enrollment),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

type txKey struct{}

// tx records undo operations applied on rollback in reverse order
type tx struct {
	undo []func()
	done bool
}

func txFromContext(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

func (s *Store) recordUndo(ctx context.Context, fn func()) {
	if t := txFromContext(ctx); t != nil {
		t.undo = append(t.undo, fn)
	}
}

// UnitOfWork returns the unit of work backed by this store
func (s *Store) UnitOfWork() persistence.UnitOfWork {
	return &unitOfWork{store: s}
}

// Users returns a user repository bound to the store
func (s *Store) Users() persistence.UserRepository { return &userRepository{store: s} }

// Profiles returns a profile repository bound to the store
func (s *Store) Profiles() persistence.ProfileRepository { return &profileRepository{store: s} }

// Classes returns a class repository bound to the store
func (s *Store) Classes() persistence.ClassRepository { return &classRepository{store: s} }

// Enrollments returns an enrollment repository bound to the store
func (s *Store) Enrollments() persistence.EnrollmentRepository {
	return &enrollmentRepository{store: s}
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if txFromContext(ctx) != nil {
		return ctx, errors.New("transaction already in progress")
	}
	u.store.txMu.Lock()
	return context.WithValue(ctx, txKey{}, &tx{}), nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	t := txFromContext(ctx)
	if t == nil {
		return errors.New("no transaction found in context")
	}
	if t.done {
		return errors.New("transaction has already been committed or rolled back")
	}
	t.done = true
	t.undo = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	t := txFromContext(ctx)
	if t == nil {
		return errors.New("no transaction found in context")
	}
	if t.done {
		return nil
	}
	u.store.logger.Debug("Rolling back in-memory transaction", map[string]any{"operations": len(t.undo)})
	u.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	u.store.mu.Unlock()
	t.done = true
	t.undo = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) GetUserRepository(context.Context) persistence.UserRepository {
	return u.store.Users()
}

func (u *unitOfWork) GetProfileRepository(context.Context) persistence.ProfileRepository {
	return u.store.Profiles()
}

func (u *unitOfWork) GetClassRepository(context.Context) persistence.ClassRepository {
	return u.store.Classes()
}

func (u *unitOfWork) GetEnrollmentRepository(context.Context) persistence.EnrollmentRepository {
	return u.store.Enrollments()
}

type userRepository struct {
	store *Store
}

func copyUser(u *entity.User) *entity.User {
	clone := *u
	return &clone
}

func (r *userRepository) GetByID(_ context.Context, id uint64) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.usersByEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return copyUser(r.store.users[id]), nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := entity.NormalizeEmail(user.Email)
	if _, taken := r.store.usersByEmail[email]; taken {
		return errs.ErrDuplicateEmail
	}

	r.store.nextUserID++
	user.ID = r.store.nextUserID
	user.Email = email
	user.Role = entity.ParseRole(string(user.Role))
	r.store.users[user.ID] = copyUser(user)
	r.store.usersByEmail[email] = user.ID

	id := user.ID
	r.store.recordUndo(ctx, func() {
		delete(r.store.users, id)
		delete(r.store.usersByEmail, email)
	})
	return nil
}

func (r *userRepository) UpdateExternalID(ctx context.Context, userID uint64, externalID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return errs.ErrUserNotFound
	}
	previous, previousUpdatedAt := user.ExternalID, user.UpdatedAt
	user.LinkExternalID(externalID, r.store.timeProvider)
	r.store.recordUndo(ctx, func() {
		user.ExternalID, user.UpdatedAt = previous, previousUpdatedAt
	})
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, userID uint64, role entity.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return errs.ErrUserNotFound
	}
	previous, previousUpdatedAt := user.Role, user.UpdatedAt
	user.Role = entity.ParseRole(string(role))
	user.UpdatedAt = r.store.timeProvider.Now()
	r.store.recordUndo(ctx, func() {
		user.Role, user.UpdatedAt = previous, previousUpdatedAt
	})
	return nil
}

type profileRepository struct {
	store *Store
}

func copyProfile(p *entity.Profile) *entity.Profile {
	return entity.RestoreProfile(p.UserID, p.Points(), p.CreatedAt, p.UpdatedAt)
}

func (r *profileRepository) GetByUserID(_ context.Context, userID uint64) (*entity.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profile, ok := r.store.profiles[userID]
	if !ok {
		return nil, errs.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[profile.UserID]; !ok {
		return errs.NewStoreError("insert profile", errors.New("foreign key violation: user does not exist"))
	}
	if _, exists := r.store.profiles[profile.UserID]; exists {
		return errs.NewStoreError("insert profile", errors.New("unique violation: profile already exists"))
	}
	if profile.Points() < 0 {
		return errs.NewStoreError("insert profile", errors.New("check violation: points must be non-negative"))
	}

	r.store.profiles[profile.UserID] = copyProfile(profile)
	userID := profile.UserID
	r.store.recordUndo(ctx, func() {
		delete(r.store.profiles, userID)
	})
	return nil
}

func (r *profileRepository) DeductPoints(ctx context.Context, userID uint64, cost int64) (*entity.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.profiles[userID]
	if !ok {
		return nil, errs.ErrProfileNotFound
	}

	updated := copyProfile(current)
	if err := updated.Deduct(cost, r.store.timeProvider); err != nil {
		return nil, err
	}
	r.store.profiles[userID] = updated

	r.store.recordUndo(ctx, func() {
		r.store.profiles[userID] = current
	})
	return copyProfile(updated), nil
}

type classRepository struct {
	store *Store
}

func copyClass(c *entity.Class) *entity.Class {
	clone := *c
	return &clone
}

func (r *classRepository) GetByID(_ context.Context, id uint64) (*entity.Class, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	class, ok := r.store.classes[id]
	if !ok {
		return nil, errs.ErrClassNotFound
	}
	return copyClass(class), nil
}

func (r *classRepository) Create(ctx context.Context, class *entity.Class) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[class.CreatedBy]; !ok {
		return errs.NewStoreError("insert class", errors.New("foreign key violation: creator does not exist"))
	}

	r.store.nextClassID++
	class.ID = r.store.nextClassID
	r.store.classes[class.ID] = copyClass(class)

	id := class.ID
	r.store.recordUndo(ctx, func() {
		delete(r.store.classes, id)
	})
	return nil
}

func (r *classRepository) ListBySchedule(_ context.Context) ([]*entity.Class, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	classes := make([]*entity.Class, 0, len(r.store.classes))
	for _, class := range r.store.classes {
		classes = append(classes, copyClass(class))
	}
	sort.Slice(classes, func(i, j int) bool {
		if !classes[i].ScheduledAt.Equal(classes[j].ScheduledAt) {
			return classes[i].ScheduledAt.Before(classes[j].ScheduledAt)
		}
		return classes[i].ID < classes[j].ID
	})
	return classes, nil
}

type enrollmentRepository struct {
	store *Store
}

func (r *enrollmentRepository) Exists(_ context.Context, userID, classID uint64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.enrollments[enrollmentKey{userID: userID, classID: classID}]
	return ok, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := enrollmentKey{userID: enrollment.UserID, classID: enrollment.ClassID}
	if _, exists := r.store.enrollments[key]; exists {
		return errs.ErrAlreadyEnrolled
	}
	if _, ok := r.store.users[enrollment.UserID]; !ok {
		return errs.NewStoreError("insert enrollment", errors.New("foreign key violation: user does not exist"))
	}
	if _, ok := r.store.classes[enrollment.ClassID]; !ok {
		return errs.NewStoreError("insert enrollment", errors.New("foreign key violation: class does not exist"))
	}

	r.store.nextEnrollmentID++
	enrollment.ID = r.store.nextEnrollmentID
	clone := *enrollment
	r.store.enrollments[key] = &clone

	r.store.recordUndo(ctx, func() {
		delete(r.store.enrollments, key)
	})
	return nil
}

// EnrollmentCount returns the number of enrollments held by the store
func (s *Store) EnrollmentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.enrollments)
}
