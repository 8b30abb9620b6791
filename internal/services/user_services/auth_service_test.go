// File: internal/services/user_services/auth_service_test.go
package user_services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/services"
)

type memoryUserRepo struct {
	byID   map[uint]*domain.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: make(map[uint]*domain.User), nextID: 1}
}

func (m *memoryUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = u
	return u, nil
}

func (m *memoryUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *memoryUserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *memoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, userID uint) error {
	delete(m.byID, userID)
	return nil
}

func (m *memoryUserRepo) ResetFailedAttempts(ctx context.Context, id uint) error {
	if u, ok := m.byID[id]; ok {
		u.FailedLoginAttempts = 0
		u.LastFailedLoginAt = nil
		u.LockedUntil = nil
	}
	return nil
}

func (m *memoryUserRepo) FindAllWithPagination(ctx context.Context, limit, offset int, search string) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memoryUserRepo) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var n int64
	for _, u := range m.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func newAuthFixture() (*AuthService, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	lockout := NewLockoutService(repo, &services.NoOpLogger{})
	svc := NewAuthService(repo, lockout, "test-secret-key", "+15559990000", &services.NoOpLogger{})
	return svc, repo
}

func TestRegister_PlayerAccount(t *testing.T) {
	svc, _ := newAuthFixture()

	u, err := svc.Register(context.Background(), "striker9", "striker9@example.com", "", "hunter2hunter2", domain.RolePlayer)
	require.NoError(t, err)

	assert.Equal(t, domain.RolePlayer, u.Role)
	assert.Equal(t, domain.PlanScout, u.Plan)
	assert.NotEqual(t, "hunter2hunter2", u.Password, "password stored hashed")
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "sneaky", "sneaky@example.com", "", "hunter2hunter2", domain.RoleAdmin)
	assert.Error(t, err, "admin is not self-assignable")
}

func TestRegister_AdminPhoneGrantsAdmin(t *testing.T) {
	svc, _ := newAuthFixture()

	u, err := svc.Register(context.Background(), "theboss", "boss@example.com", "+15559990000", "hunter2hunter2", domain.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "striker9", "a@example.com", "", "hunter2hunter2", domain.RolePlayer)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "striker9", "b@example.com", "", "hunter2hunter2", domain.RolePlayer)
	assert.Error(t, err)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "striker9", "striker9@example.com", "", "hunter2hunter2", domain.RolePlayer)
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "striker9", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RolePlayer, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "striker9", "striker9@example.com", "", "hunter2hunter2", domain.RolePlayer)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "striker9", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "striker9", "striker9@example.com", "", "hunter2hunter2", domain.RolePlayer)
	require.NoError(t, err)

	for i := 0; i < MaxFailedAttempts; i++ {
		_, _, err = svc.Login(ctx, "striker9", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	stored := repo.byID[registered.ID]
	require.NotNil(t, stored.LockedUntil)
	assert.True(t, stored.IsLocked(time.Now()))

	// even the right password is refused while locked
	_, _, err = svc.Login(ctx, "striker9", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_SuccessClearsFailedAttempts(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "striker9", "striker9@example.com", "", "hunter2hunter2", domain.RolePlayer)
	require.NoError(t, err)

	_, _, _ = svc.Login(ctx, "striker9", "wrong-password")
	require.Equal(t, 1, repo.byID[registered.ID].FailedLoginAttempts)

	_, _, err = svc.Login(ctx, "striker9", "hunter2hunter2")
	require.NoError(t, err)
	assert.Zero(t, repo.byID[registered.ID].FailedLoginAttempts)
}

func TestValidateJWTToken_RejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.ValidateJWTToken("not-a-token")
	assert.Error(t, err)
}
