package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	identityerrors "github.com/Wael-BenAbid/vfRH/internal/identity/errors"
	"github.com/Wael-BenAbid/vfRH/internal/notification"
	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	withTxFn         func(tx *sql.Tx) Repository
	createFn         func(ctx context.Context, u *Identity) error
	findAllFn        func(ctx context.Context) ([]Identity, error)
	findByIDFn       func(ctx context.Context, id string) (*Identity, error)
	findByUsernameFn func(ctx context.Context, username string) (*Identity, error)
	findAdminsFn     func(ctx context.Context) ([]Identity, error)
	findOptionsFn    func(ctx context.Context) ([]Identity, error)
	handleTakenFn    func(ctx context.Context, username, email string) (bool, error)
	updateFn         func(ctx context.Context, u *Identity) error
	deleteFn         func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                    { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, u *Identity) error   { return f.createFn(ctx, u) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]Identity, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Identity, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByUsername(ctx context.Context, username string) (*Identity, error) {
	return f.findByUsernameFn(ctx, username)
}
func (f *fakeRepo) FindAdmins(ctx context.Context) ([]Identity, error) { return f.findAdminsFn(ctx) }
func (f *fakeRepo) FindOptions(ctx context.Context) ([]Identity, error) {
	return f.findOptionsFn(ctx)
}
func (f *fakeRepo) HandleTaken(ctx context.Context, username, email string) (bool, error) {
	return f.handleTakenFn(ctx, username, email)
}
func (f *fakeRepo) Update(ctx context.Context, u *Identity) error { return f.updateFn(ctx, u) }
func (f *fakeRepo) Delete(ctx context.Context, id string) error   { return f.deleteFn(ctx, id) }

type fakeOutbox struct {
	events []notification.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) notification.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event notification.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]notification.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func TestService_Create_SignupActivatesImmediately(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved Identity
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.handleTakenFn = func(ctx context.Context, username, email string) (bool, error) { return false, nil }
	repo.createFn = func(ctx context.Context, u *Identity) error { saved = *u; return nil }
	repo.findAdminsFn = func(ctx context.Context) ([]Identity, error) {
		t.Fatal("signup must not fan out to admins")
		return nil, nil
	}

	svc := NewService(db, repo, &fakeOutbox{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateIdentityRequest{
		Username: "amira",
		Email:    "amira@example.com",
		Password: "secret123",
		Role:     "admin", // ignored on public signup
	}, ActivationImmediate)
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.Equal(t, authz.RoleEmployee, resp.Role)
	assert.Equal(t, "0.00", resp.LeaveBalance)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("secret123")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_AccessRequestNotifiesAdmins(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	admins := []Identity{
		{ID: uuid.New(), Email: "admin1@example.com", Role: authz.RoleAdmin},
		{ID: uuid.New(), Email: "admin2@example.com", Role: authz.RoleAdmin},
	}

	var saved Identity
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.handleTakenFn = func(ctx context.Context, username, email string) (bool, error) { return false, nil }
	repo.createFn = func(ctx context.Context, u *Identity) error { saved = *u; return nil }
	repo.findAdminsFn = func(ctx context.Context) ([]Identity, error) { return admins, nil }

	outbox := &fakeOutbox{}
	svc := NewService(db, repo, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateIdentityRequest{
		Username: "karim",
		Email:    "karim@example.com",
		Password: "secret123",
		Role:     "intern",
	}, ActivationPending)
	assert.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, authz.RoleIntern, resp.Role)
	assert.Equal(t, authz.RoleIntern, saved.Role)
	assert.Len(t, outbox.events, 2)
	for _, event := range outbox.events {
		assert.Equal(t, notification.EventAccessRequested, event.EventType)
	}
}

func TestService_Create_HandleTaken(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.handleTakenFn = func(ctx context.Context, username, email string) (bool, error) { return true, nil }
	repo.createFn = func(ctx context.Context, u *Identity) error {
		t.Fatal("taken handle must not be persisted")
		return nil
	}

	svc := NewService(db, repo, &fakeOutbox{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateIdentityRequest{
		Username: "amira",
		Email:    "amira@example.com",
		Password: "secret123",
	}, ActivationImmediate)
	assert.ErrorIs(t, err, identityerrors.ErrHandleTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stored := Identity{ID: uuid.New(), Username: "karim", Email: "karim@example.com", IsActive: false}

	var updated Identity
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Identity, error) { return &stored, nil }
	repo.updateFn = func(ctx context.Context, u *Identity) error { updated = *u; return nil }

	outbox := &fakeOutbox{}
	svc := NewService(db, repo, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}, stored.ID.String())
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.True(t, updated.IsActive)
	assert.Len(t, outbox.events, 1)
	assert.Equal(t, notification.EventUserApproved, outbox.events[0].EventType)
}

func TestService_Approve_AlreadyActive(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stored := Identity{ID: uuid.New(), IsActive: true}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Identity, error) { return &stored, nil }

	svc := NewService(db, repo, &fakeOutbox{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}, stored.ID.String())
	assert.ErrorIs(t, err, identityerrors.ErrAlreadyActive)
}

func TestService_Approve_NonAdminForbidden(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeOutbox{}, nil)

	_, err := svc.Approve(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}, uuid.New().String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Reject_QueuesThenDeletes(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	stored := Identity{ID: uuid.New(), Username: "karim", Email: "karim@example.com"}

	deleted := false
	outbox := &fakeOutbox{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Identity, error) { return &stored, nil }
	repo.deleteFn = func(ctx context.Context, id string) error {
		// notification must already be queued when the row goes away
		assert.Len(t, outbox.events, 1)
		deleted = true
		return nil
	}

	svc := NewService(db, repo, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.Reject(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}, stored.ID.String())
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, notification.EventUserRejected, outbox.events[0].EventType)
}

func TestService_Update_RoleChangeAdminOnly(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	owner := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}
	stored := Identity{ID: owner.ID, Role: authz.RoleEmployee}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Identity, error) { return &stored, nil }
	repo.updateFn = func(ctx context.Context, u *Identity) error { return nil }

	svc := NewService(db, repo, &fakeOutbox{}, nil)

	_, err := svc.Update(context.Background(), owner, owner.ID.String(), UpdateIdentityRequest{Role: authz.RoleAdmin})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}, owner.ID.String(), UpdateIdentityRequest{Role: authz.RoleIntern})
	assert.NoError(t, err)
	assert.Equal(t, authz.RoleIntern, resp.Role)
}

func TestService_GetAll_NonAdminSeesSelf(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	actor := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}
	self := Identity{ID: actor.ID, Username: "amira"}

	repo := &fakeRepo{}
	repo.findAllFn = func(ctx context.Context) ([]Identity, error) {
		t.Fatal("non-admin must not list everyone")
		return nil, nil
	}
	repo.findByIDFn = func(ctx context.Context, id string) (*Identity, error) {
		assert.Equal(t, actor.ID.String(), id)
		return &self, nil
	}

	svc := NewService(db, repo, &fakeOutbox{}, nil)

	rows, err := svc.GetAll(context.Background(), actor)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "amira", rows[0].Username)
}

func TestService_GetOptions_CacheHit(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	rdb, rmock := redismock.NewClientMock()
	cached := []IdentityOption{{ID: uuid.New().String(), Name: "Amira Ben Salah", Role: authz.RoleEmployee}}
	payload, _ := json.Marshal(cached)
	rmock.ExpectGet(OptionsCacheKey).SetVal(string(payload))

	repo := &fakeRepo{}
	repo.findOptionsFn = func(ctx context.Context) ([]Identity, error) {
		t.Fatal("cache hit must not query the database")
		return nil, nil
	}

	svc := NewService(db, repo, &fakeOutbox{}, rdb)

	resp, err := svc.GetOptions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, cached, resp)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestService_GetOptions_CacheMissFillsRedis(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	id := uuid.New()
	rows := []Identity{
		{ID: id, FirstName: "Amira", LastName: "Ben Salah", Role: authz.RoleEmployee},
	}
	expected := []IdentityOption{{ID: id.String(), Name: "Amira Ben Salah", Role: authz.RoleEmployee}}
	payload, _ := json.Marshal(expected)

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet(OptionsCacheKey).RedisNil()
	rmock.ExpectSet(OptionsCacheKey, payload, time.Hour).SetVal("OK")

	repo := &fakeRepo{}
	repo.findOptionsFn = func(ctx context.Context) ([]Identity, error) { return rows, nil }

	svc := NewService(db, repo, &fakeOutbox{}, rdb)

	resp, err := svc.GetOptions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestService_GetOptions_FallsBackToUsername(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findOptionsFn = func(ctx context.Context) ([]Identity, error) {
		return []Identity{{ID: uuid.New(), Username: "wael", Role: authz.RoleAdmin}}, nil
	}

	svc := NewService(db, repo, &fakeOutbox{}, nil)

	resp, err := svc.GetOptions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "wael", resp[0].Name)
}
