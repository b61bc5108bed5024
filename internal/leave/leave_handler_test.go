package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	"github.com/Wael-BenAbid/vfRH/internal/leave"
	leaveerrors "github.com/Wael-BenAbid/vfRH/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn  func(ctx context.Context, actor authz.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context, actor authz.Actor) ([]leave.LeaveResponse, error)
	getByIDFn func(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error)
	deleteFn  func(ctx context.Context, actor authz.Actor, id string) error
}

func (f *fakeService) Create(ctx context.Context, actor authz.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeService) GetAll(ctx context.Context, actor authz.Actor) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, actor)
}
func (f *fakeService) GetByID(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeService) Approve(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actor, id)
}
func (f *fakeService) Reject(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actor, id)
}
func (f *fakeService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	return f.deleteFn(ctx, actor, id)
}

func TestHandler_CreateAndGetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New()

	svc := &fakeService{
		createFn: func(ctx context.Context, actor authz.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, actorID, actor.ID)
			assert.Equal(t, "2024-01-01", req.StartDate)
			return leave.LeaveResponse{ID: uuid.New().String(), Status: "pending", TotalDays: 5}, nil
		},
		getAllFn: func(ctx context.Context, actor authz.Actor) ([]leave.LeaveResponse, error) {
			return []leave.LeaveResponse{{ID: uuid.New().String()}}, nil
		},
	}

	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(authz.ContextActorID, actorID.String())
	c.Set(authz.ContextRole, authz.RoleEmployee)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(
		`{"start_date":"2024-01-01","end_date":"2024-01-05","reason":"vacation"}`,
	))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "\"pending\"")

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Set(authz.ContextActorID, actorID.String())
	c2.Set(authz.ContextRole, authz.RoleEmployee)
	c2.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)
	h.GetAll(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestHandler_Create_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := leave.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{"start_date":""}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_Approve_NonPending(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		approveFn: func(ctx context.Context, actor authz.Actor, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		},
	}

	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(authz.ContextActorID, uuid.New().String())
	c.Set(authz.ContextRole, authz.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/x/approve", nil)
	h.Approve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "leave request is not pending")
}
