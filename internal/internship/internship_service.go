package internship

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	internshiperrors "github.com/Wael-BenAbid/vfRH/internal/internship/errors"
	"github.com/Wael-BenAbid/vfRH/internal/shared/lifecycle"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending    = "pending"
	StatusActive     = "active"
	StatusCompleted  = "completed"
	StatusTerminated = "terminated"
)

// The internship status set has no ordering: a supervisor may move an
// internship between any two members, so the machine only validates
// membership.
var statusMachine = lifecycle.Unrestricted(
	StatusPending,
	StatusActive,
	StatusCompleted,
	StatusTerminated,
)

//go:generate mockgen -source=internship_service.go -destination=mock/internship_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateInternshipRequest) (InternshipResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]InternshipResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (InternshipResponse, error)
	ChangeStatus(ctx context.Context, actor authz.Actor, id string, req ChangeStatusRequest) (InternshipResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("internship.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("internship.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateInternshipRequest) (InternshipResponse, error) {
	s.logger.Debug("create internship requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("intern_id", req.InternID),
	)

	internID, err := uuid.Parse(req.InternID)
	if err != nil {
		return InternshipResponse{}, internshiperrors.ErrInvalidInternshipID
	}
	supervisorID, err := uuid.Parse(req.SupervisorID)
	if err != nil {
		return InternshipResponse{}, internshiperrors.ErrInvalidInternshipID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return InternshipResponse{}, internshiperrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return InternshipResponse{}, internshiperrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return InternshipResponse{}, internshiperrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create internship begin tx failed", zap.Error(err))
		return InternshipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	i := &Internship{
		ID:           uuid.New(),
		InternID:     internID,
		SupervisorID: supervisorID,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       StatusPending,
	}

	if err := qtx.Create(ctx, i); err != nil {
		s.logger.Error("create internship persist failed", zap.Error(err))
		return InternshipResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create internship commit failed", zap.Error(err))
		return InternshipResponse{}, err
	}

	s.logger.Info("create internship success", zap.String("internship_id", i.ID.String()))
	return mapToResponse(*i), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]InternshipResponse, error) {
	var (
		rows []Internship
		err  error
	)
	switch {
	case actor.IsAdmin():
		rows, err = s.repo.FindAll(ctx)
	case actor.Role == authz.RoleIntern:
		rows, err = s.repo.FindAllByIntern(ctx, actor.ID.String())
	default:
		rows, err = s.repo.FindAllBySupervisor(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (InternshipResponse, error) {
	i, err := s.findInternship(ctx, s.repo, id)
	if err != nil {
		return InternshipResponse{}, err
	}
	refs := authz.Refs{Intern: i.InternID, Supervisor: i.SupervisorID}
	if err := authz.Authorize(actor, authz.ResourceInternship, authz.ActionRead, refs); err != nil {
		return InternshipResponse{}, err
	}
	return mapToResponse(*i), nil
}

// ChangeStatus moves the internship to any member of the status set. The
// supervisor of this internship or an admin may do it; the intern cannot
// move their own internship, so only the supervisor reference is checked.
func (s *service) ChangeStatus(ctx context.Context, actor authz.Actor, id string, req ChangeStatusRequest) (InternshipResponse, error) {
	s.logger.Debug("change internship status requested",
		zap.String("internship_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("status", req.Status),
	)

	if !statusMachine.IsState(req.Status) {
		return InternshipResponse{}, internshiperrors.ErrUnknownStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("change internship status begin tx failed", zap.Error(err))
		return InternshipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	i, err := s.findInternship(ctx, qtx, id)
	if err != nil {
		return InternshipResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceInternship, authz.ActionStatus, authz.Refs{Supervisor: i.SupervisorID}); err != nil {
		return InternshipResponse{}, err
	}

	if err := qtx.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("change internship status persist failed", zap.Error(err))
		return InternshipResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("change internship status commit failed", zap.Error(err))
		return InternshipResponse{}, err
	}

	i.Status = req.Status
	s.logger.Info("change internship status success",
		zap.String("internship_id", id),
		zap.String("status", req.Status),
	)
	return mapToResponse(*i), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	i, err := s.findInternship(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceInternship, authz.ActionDelete, authz.Refs{Supervisor: i.SupervisorID}); err != nil {
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

func (s *service) findInternship(ctx context.Context, repo Repository, id string) (*Internship, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, internshiperrors.ErrInvalidInternshipID
	}
	i, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internshiperrors.ErrInternshipNotFound
		}
		return nil, err
	}
	return i, nil
}

func mapToResponse(i Internship) InternshipResponse {
	return InternshipResponse{
		ID:           i.ID.String(),
		InternID:     i.InternID.String(),
		SupervisorID: i.SupervisorID.String(),
		StartDate:    i.StartDate.Format("2006-01-02"),
		EndDate:      i.EndDate.Format("2006-01-02"),
		Status:       i.Status,
		CreatedAt:    i.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []Internship) []InternshipResponse {
	resp := make([]InternshipResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp
}
