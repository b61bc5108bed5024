package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	leaveerrors "github.com/Wael-BenAbid/vfRH/internal/leave/errors"
	"github.com/Wael-BenAbid/vfRH/internal/shared/lifecycle"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// statusMachine makes the approval lifecycle explicit: only pending
// requests can move, approved/rejected are terminal.
var statusMachine = lifecycle.New(map[string][]string{
	StatusPending: {StatusApproved, StatusRejected},
})

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l := &Leave{
		ID:        uuid.New(),
		OwnerID:   actor.ID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("owner_id", l.OwnerID.String()),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]LeaveResponse, error) {
	var (
		rows []Leave
		err  error
	)
	if actor.IsAdmin() {
		rows, err = s.repo.FindAll(ctx)
	} else {
		rows, err = s.repo.FindAllByOwner(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	l, err := s.findLeave(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceLeave, authz.ActionRead, authz.Refs{Owner: l.OwnerID}); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, StatusRejected)
}

// transition moves a pending request to its decision. Approval deducts the
// inclusive day count from the owner's balance; the balance is allowed to
// go negative. The status update is guarded on the pending state so two
// concurrent approvals cannot deduct twice.
func (s *service) transition(ctx context.Context, actor authz.Actor, id, targetStatus string) (LeaveResponse, error) {
	s.logger.Debug("transition leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	action := authz.ActionApprove
	if targetStatus == StatusRejected {
		action = authz.ActionReject
	}
	if err := authz.Authorize(actor, authz.ResourceLeave, action, authz.Refs{}); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.findLeave(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !statusMachine.Can(l.Status, targetStatus) {
		s.logger.Warn("transition leave invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	moved, err := qtx.TransitionStatus(ctx, id, l.Status, targetStatus)
	if err != nil {
		s.logger.Error("transition leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		// lost the race: someone else already decided this request
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if targetStatus == StatusApproved {
		days := inclusiveDays(l.StartDate, l.EndDate)
		if err := qtx.DeductOwnerBalance(ctx, l.OwnerID.String(), days); err != nil {
			s.logger.Error("transition leave balance deduction failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = targetStatus
	s.logger.Info("transition leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	l, err := s.findLeave(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceLeave, authz.ActionDelete, authz.Refs{Owner: l.OwnerID}); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) findLeave(ctx context.Context, repo Repository, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

// inclusiveDays counts both endpoints: a one-day leave spans one day.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:        l.ID.String(),
		OwnerID:   l.OwnerID.String(),
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: inclusiveDays(l.StartDate, l.EndDate),
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp
}
