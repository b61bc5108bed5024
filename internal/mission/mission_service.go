package mission

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	missionerrors "github.com/Wael-BenAbid/vfRH/internal/mission/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=mission_service.go -destination=mock/mission_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateMissionRequest) (MissionResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]MissionResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (MissionResponse, error)
	Complete(ctx context.Context, actor authz.Actor, id string) (MissionResponse, error)
	Update(ctx context.Context, actor authz.Actor, id string, req UpdateMissionRequest) (MissionResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("mission.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mission.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateMissionRequest) (MissionResponse, error) {
	s.logger.Debug("create mission requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("assigned_to_id", req.AssignedToID),
	)

	assignedTo, err := uuid.Parse(req.AssignedToID)
	if err != nil {
		return MissionResponse{}, missionerrors.ErrUnknownAssignee
	}
	supervisor, err := uuid.Parse(req.SupervisorID)
	if err != nil {
		return MissionResponse{}, missionerrors.ErrUnknownSupervisor
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return MissionResponse{}, missionerrors.ErrInvalidDeadline
		}
		deadline = &d
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create mission begin tx failed", zap.Error(err))
		return MissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	m := &Mission{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: assignedTo,
		SupervisorID: supervisor,
		Deadline:     deadline,
	}

	if err := qtx.Create(ctx, m); err != nil {
		s.logger.Error("create mission persist failed", zap.Error(err))
		return MissionResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create mission commit failed", zap.Error(err))
		return MissionResponse{}, err
	}

	s.logger.Info("create mission success", zap.String("mission_id", m.ID.String()))
	return mapToResponse(*m), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]MissionResponse, error) {
	var (
		rows []Mission
		err  error
	)
	if actor.IsAdmin() {
		rows, err = s.repo.FindAll(ctx)
	} else {
		rows, err = s.repo.FindAllByParticipant(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (MissionResponse, error) {
	m, err := s.findMission(ctx, s.repo, id)
	if err != nil {
		return MissionResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceMission, authz.ActionRead, missionRefs(m)); err != nil {
		return MissionResponse{}, err
	}
	return mapToResponse(*m), nil
}

// Complete marks the mission done. Only the assignee or the supervisor may
// do it; admins get no shortcut here. Completing an already completed
// mission is a no-op success.
func (s *service) Complete(ctx context.Context, actor authz.Actor, id string) (MissionResponse, error) {
	s.logger.Debug("complete mission requested",
		zap.String("mission_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("complete mission begin tx failed", zap.Error(err))
		return MissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	m, err := s.findMission(ctx, qtx, id)
	if err != nil {
		return MissionResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceMission, authz.ActionComplete, missionRefs(m)); err != nil {
		return MissionResponse{}, err
	}

	if !m.Completed {
		if _, err := qtx.MarkCompleted(ctx, id); err != nil {
			s.logger.Error("complete mission persist failed", zap.Error(err))
			return MissionResponse{}, err
		}
		m.Completed = true
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("complete mission commit failed", zap.Error(err))
		return MissionResponse{}, err
	}

	s.logger.Info("complete mission success", zap.String("mission_id", id))
	return mapToResponse(*m), nil
}

func (s *service) Update(ctx context.Context, actor authz.Actor, id string, req UpdateMissionRequest) (MissionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	m, err := s.findMission(ctx, qtx, id)
	if err != nil {
		return MissionResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceMission, authz.ActionUpdate, missionRefs(m)); err != nil {
		return MissionResponse{}, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			m.Deadline = nil
		} else {
			d, err := time.Parse("2006-01-02", *req.Deadline)
			if err != nil {
				return MissionResponse{}, missionerrors.ErrInvalidDeadline
			}
			m.Deadline = &d
		}
	}

	if err := qtx.Update(ctx, m); err != nil {
		s.logger.Error("update mission persist failed", zap.Error(err))
		return MissionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return MissionResponse{}, err
	}

	return mapToResponse(*m), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	m, err := s.findMission(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceMission, authz.ActionDelete, missionRefs(m)); err != nil {
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

func (s *service) findMission(ctx context.Context, repo Repository, id string) (*Mission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, missionerrors.ErrInvalidMissionID
	}
	m, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, missionerrors.ErrMissionNotFound
		}
		return nil, err
	}
	return m, nil
}

func missionRefs(m *Mission) authz.Refs {
	return authz.Refs{Assignee: m.AssignedToID, Supervisor: m.SupervisorID}
}

// mapRepositoryError translates foreign key violations on the identity
// references into field-level input errors.
func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		if strings.Contains(pgErr.ConstraintName, "supervisor") {
			return missionerrors.ErrUnknownSupervisor
		}
		return missionerrors.ErrUnknownAssignee
	}
	return err
}

func mapToResponse(m Mission) MissionResponse {
	resp := MissionResponse{
		ID:           m.ID.String(),
		Title:        m.Title,
		Description:  m.Description,
		AssignedToID: m.AssignedToID.String(),
		SupervisorID: m.SupervisorID.String(),
		Completed:    m.Completed,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
	if m.Deadline != nil {
		d := m.Deadline.Format("2006-01-02")
		resp.Deadline = &d
	}
	return resp
}

func mapToListResponse(rows []Mission) []MissionResponse {
	resp := make([]MissionResponse, len(rows))
	for i, m := range rows {
		resp[i] = mapToResponse(m)
	}
	return resp
}
