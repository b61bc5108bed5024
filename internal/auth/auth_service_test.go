package auth

import (
	"context"
	"database/sql"
	"testing"

	autherrors "github.com/Wael-BenAbid/vfRH/internal/auth/errors"
	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeIdentityRepo struct {
	findByUsernameFn func(ctx context.Context, username string) (*identity.Identity, error)
	findByIDFn       func(ctx context.Context, id string) (*identity.Identity, error)
}

func (f *fakeIdentityRepo) WithTx(tx *sql.Tx) identity.Repository { return f }
func (f *fakeIdentityRepo) Create(ctx context.Context, u *identity.Identity) error {
	return nil
}
func (f *fakeIdentityRepo) FindAll(ctx context.Context) ([]identity.Identity, error) {
	return nil, nil
}
func (f *fakeIdentityRepo) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeIdentityRepo) FindByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	return f.findByUsernameFn(ctx, username)
}
func (f *fakeIdentityRepo) FindAdmins(ctx context.Context) ([]identity.Identity, error) {
	return nil, nil
}
func (f *fakeIdentityRepo) FindOptions(ctx context.Context) ([]identity.Identity, error) {
	return nil, nil
}
func (f *fakeIdentityRepo) HandleTaken(ctx context.Context, username, email string) (bool, error) {
	return false, nil
}
func (f *fakeIdentityRepo) Update(ctx context.Context, u *identity.Identity) error { return nil }
func (f *fakeIdentityRepo) Delete(ctx context.Context, id string) error            { return nil }

func activeUser(t *testing.T, password string) *identity.Identity {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &identity.Identity{
		ID:       uuid.New(),
		Username: "amira",
		Email:    "amira@example.com",
		Password: string(hashed),
		Role:     "employee",
		IsActive: true,
	}
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "secret123")
	repo := &fakeIdentityRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*identity.Identity, error) {
			assert.Equal(t, "amira", username)
			return u, nil
		},
	}

	svc := NewService(repo)

	access, refresh, resp, err := svc.Login(context.Background(), "amira", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, u.ID.String(), resp.ID)
	assert.Equal(t, "employee", resp.Role)
}

func TestService_Login_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "secret123")
	repo := &fakeIdentityRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*identity.Identity, error) {
			return u, nil
		},
	}

	svc := NewService(repo)

	_, _, _, err := svc.Login(context.Background(), "amira", "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_InactiveAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "secret123")
	u.IsActive = false
	repo := &fakeIdentityRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*identity.Identity, error) {
			return u, nil
		},
	}

	svc := NewService(repo)

	_, _, _, err := svc.Login(context.Background(), "amira", "secret123")
	assert.ErrorIs(t, err, autherrors.ErrAccountInactive)
}

func TestService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	u := activeUser(t, "secret123")
	repo := &fakeIdentityRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*identity.Identity, error) {
			return u, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*identity.Identity, error) {
			assert.Equal(t, u.ID.String(), id)
			return u, nil
		},
	}

	svc := NewService(repo)

	_, refresh, _, err := svc.Login(context.Background(), "amira", "secret123")
	assert.NoError(t, err)

	newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, u.ID.String(), resp.ID)
}

func TestService_RefreshToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := NewService(&fakeIdentityRepo{})

	_, _, _, err := svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestService_GetMe(t *testing.T) {
	u := activeUser(t, "secret123")
	repo := &fakeIdentityRepo{
		findByIDFn: func(ctx context.Context, id string) (*identity.Identity, error) {
			return u, nil
		},
	}

	svc := NewService(repo)

	resp, err := svc.GetMe(context.Background(), u.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, u.Username, resp.Username)

	_, err = svc.GetMe(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}
