package leave

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	leaveerrors "github.com/Wael-BenAbid/vfRH/internal/leave/errors"
	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn         func(tx *sql.Tx) Repository
	createFn         func(ctx context.Context, l *Leave) error
	findAllFn        func(ctx context.Context) ([]Leave, error)
	findAllByOwnerFn func(ctx context.Context, ownerID string) ([]Leave, error)
	findByIDFn       func(ctx context.Context, id string) (*Leave, error)
	transitionFn     func(ctx context.Context, id, from, to string) (bool, error)
	deductFn         func(ctx context.Context, ownerID string, days int) error
	deleteFn         func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                 { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, l *Leave) error   { return f.createFn(ctx, l) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]Leave, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]Leave, error) {
	return f.findAllByOwnerFn(ctx, ownerID)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Leave, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	return f.transitionFn(ctx, id, from, to)
}
func (f *fakeRepo) DeductOwnerBalance(ctx context.Context, ownerID string, days int) error {
	return f.deductFn(ctx, ownerID, days)
}
func (f *fakeRepo) Delete(ctx context.Context, id string) error { return f.deleteFn(ctx, id) }

func adminActor() authz.Actor {
	return authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
}

func employeeActor() authz.Actor {
	return authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}
}

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	ctx := context.Background()
	actor := employeeActor()

	var saved Leave
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, l *Leave) error { saved = *l; return nil }

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, actor, CreateLeaveRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-05",
		Reason:    "vacation",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 5, resp.TotalDays)
	assert.Equal(t, actor.ID, saved.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{})

	_, err := svc.Create(context.Background(), employeeActor(), CreateLeaveRequest{
		StartDate: "2024-01-10",
		EndDate:   "2024-01-05",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

	_, err = svc.Create(context.Background(), employeeActor(), CreateLeaveRequest{
		StartDate: "not-a-date",
		EndDate:   "2024-01-05",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
}

func TestService_Approve_DeductsInclusiveDays(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	ctx := context.Background()
	ownerID := uuid.New()
	leaveID := uuid.New()

	stored := Leave{
		ID:        leaveID,
		OwnerID:   ownerID,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}

	var deductedDays int
	var deductedOwner string
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }
	repo.transitionFn = func(ctx context.Context, id, from, to string) (bool, error) {
		assert.Equal(t, StatusPending, from)
		assert.Equal(t, StatusApproved, to)
		return true, nil
	}
	repo.deductFn = func(ctx context.Context, owner string, days int) error {
		deductedOwner = owner
		deductedDays = days
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, adminActor(), leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.Equal(t, 5, deductedDays)
	assert.Equal(t, ownerID.String(), deductedOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_SingleDayDeductsOne(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	leaveID := uuid.New()
	stored := Leave{
		ID:        leaveID,
		OwnerID:   uuid.New(),
		StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}

	var deductedDays int
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }
	repo.transitionFn = func(ctx context.Context, id, from, to string) (bool, error) { return true, nil }
	repo.deductFn = func(ctx context.Context, owner string, days int) error {
		deductedDays = days
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Approve(context.Background(), adminActor(), leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, 1, deductedDays)
}

func TestService_Reject_DoesNotTouchBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	leaveID := uuid.New()
	stored := Leave{
		ID:        leaveID,
		OwnerID:   uuid.New(),
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }
	repo.transitionFn = func(ctx context.Context, id, from, to string) (bool, error) {
		assert.Equal(t, StatusRejected, to)
		return true, nil
	}
	repo.deductFn = func(ctx context.Context, owner string, days int) error {
		t.Fatal("reject must not deduct balance")
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reject(context.Background(), adminActor(), leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_NonPending(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	leaveID := uuid.New()
	stored := Leave{ID: leaveID, OwnerID: uuid.New(), Status: StatusApproved}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }
	repo.transitionFn = func(ctx context.Context, id, from, to string) (bool, error) {
		t.Fatal("non-pending request must not be updated")
		return false, nil
	}
	repo.deductFn = func(ctx context.Context, owner string, days int) error {
		t.Fatal("non-pending approval must not deduct balance")
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), adminActor(), leaveID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_LostRace(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	leaveID := uuid.New()
	stored := Leave{ID: leaveID, OwnerID: uuid.New(), Status: StatusPending}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }
	repo.transitionFn = func(ctx context.Context, id, from, to string) (bool, error) { return false, nil }
	repo.deductFn = func(ctx context.Context, owner string, days int) error {
		t.Fatal("lost race must not deduct balance")
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), adminActor(), leaveID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_EmployeeForbidden(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) {
		t.Fatal("authorization must run before any lookup")
		return nil, nil
	}

	svc := NewService(db, repo)

	_, err := svc.Approve(context.Background(), employeeActor(), uuid.New().String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_GetAll_Scoping(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	owner := employeeActor()
	other := Leave{ID: uuid.New(), OwnerID: uuid.New(), Status: StatusPending}
	own := Leave{ID: uuid.New(), OwnerID: owner.ID, Status: StatusPending}

	repo := &fakeRepo{}
	repo.findAllFn = func(ctx context.Context) ([]Leave, error) { return []Leave{other, own}, nil }
	repo.findAllByOwnerFn = func(ctx context.Context, ownerID string) ([]Leave, error) {
		assert.Equal(t, owner.ID.String(), ownerID)
		return []Leave{own}, nil
	}

	svc := NewService(db, repo)

	all, err := svc.GetAll(context.Background(), adminActor())
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.GetAll(context.Background(), owner)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, own.ID.String(), mine[0].ID)
}

func TestService_GetByID_OwnerOnly(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	owner := employeeActor()
	stored := Leave{ID: uuid.New(), OwnerID: owner.ID, Status: StatusPending}

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }

	svc := NewService(db, repo)

	resp, err := svc.GetByID(context.Background(), owner, stored.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, stored.ID.String(), resp.ID)

	_, err = svc.GetByID(context.Background(), employeeActor(), stored.ID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Approve_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{})

	_, err := svc.Approve(context.Background(), adminActor(), "not-a-uuid")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
}

func TestService_Delete_OwnerOrAdmin(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	owner := employeeActor()
	stored := Leave{ID: uuid.New(), OwnerID: owner.ID, Status: StatusPending}

	deleted := false
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) { return &stored, nil }
	repo.deleteFn = func(ctx context.Context, id string) error { deleted = true; return nil }

	svc := NewService(db, repo)

	err := svc.Delete(context.Background(), employeeActor(), stored.ID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.False(t, deleted)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err = svc.Delete(context.Background(), owner, stored.ID.String())
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_FindLeave_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Leave, error) {
		return nil, errors.New("record not found")
	}

	svc := NewService(db, repo)

	_, err := svc.GetByID(context.Background(), adminActor(), uuid.New().String())
	assert.Error(t, err)
}
