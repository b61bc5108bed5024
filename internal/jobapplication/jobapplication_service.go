package jobapplication

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	jobapplicationerrors "github.com/Wael-BenAbid/vfRH/internal/jobapplication/errors"
	"github.com/Wael-BenAbid/vfRH/internal/notification"
	"github.com/Wael-BenAbid/vfRH/internal/shared/contextutil"
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

var statusMachine = lifecycle.New(map[string][]string{
	StatusPending: {StatusApproved, StatusRejected},
})

//go:generate mockgen -source=jobapplication_service.go -destination=mock/jobapplication_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateJobApplicationRequest) (JobApplicationResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]JobApplicationResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (JobApplicationResponse, error)
	Approve(ctx context.Context, actor authz.Actor, id string) (JobApplicationResponse, error)
	Reject(ctx context.Context, actor authz.Actor, id string) (JobApplicationResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox notification.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox notification.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("jobapplication.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobapplication.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

// Create accepts submissions from anyone. When the caller is authenticated
// the application is linked to their account; anonymous submissions keep a
// nil owner.
func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateJobApplicationRequest) (JobApplicationResponse, error) {
	s.logger.Debug("create job application requested",
		zap.String("email", req.Email),
		zap.String("application_type", req.ApplicationType),
	)

	var ownerID *uuid.UUID
	if actor.ID != uuid.Nil {
		id := actor.ID
		ownerID = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create job application begin tx failed", zap.Error(err))
		return JobApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a := &JobApplication{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		ApplicationType: req.ApplicationType,
		Position:        req.Position,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Education:       req.Education,
		Experience:      req.Experience,
		Motivation:      req.Motivation,
		CVFile:          req.CVFile,
		Status:          StatusPending,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create job application persist failed", zap.Error(err))
		return JobApplicationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create job application commit failed", zap.Error(err))
		return JobApplicationResponse{}, err
	}

	s.logger.Info("create job application success", zap.String("application_id", a.ID.String()))
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]JobApplicationResponse, error) {
	var (
		rows []JobApplication
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

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (JobApplicationResponse, error) {
	a, err := s.findApplication(ctx, s.repo, id)
	if err != nil {
		return JobApplicationResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceJobApplication, authz.ActionRead, applicationRefs(a)); err != nil {
		return JobApplicationResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Approve(ctx context.Context, actor authz.Actor, id string) (JobApplicationResponse, error) {
	return s.transition(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor authz.Actor, id string) (JobApplicationResponse, error) {
	return s.transition(ctx, actor, id, StatusRejected)
}

// transition decides a pending application. The applicant notification goes
// into the outbox inside the same transaction, so the decision commits with
// its notification queued; actual delivery is best effort and never blocks
// or reverts the decision.
func (s *service) transition(ctx context.Context, actor authz.Actor, id, targetStatus string) (JobApplicationResponse, error) {
	s.logger.Debug("transition job application requested",
		zap.String("application_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return JobApplicationResponse{}, jobapplicationerrors.ErrInvalidApplicationID
	}

	action := authz.ActionApprove
	if targetStatus == StatusRejected {
		action = authz.ActionReject
	}
	if err := authz.Authorize(actor, authz.ResourceJobApplication, action, authz.Refs{}); err != nil {
		return JobApplicationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition job application begin tx failed", zap.Error(err))
		return JobApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := s.findApplication(ctx, qtx, id)
	if err != nil {
		return JobApplicationResponse{}, err
	}
	if !statusMachine.Can(a.Status, targetStatus) {
		return JobApplicationResponse{}, jobapplicationerrors.ErrInvalidStatusTransition
	}

	moved, err := qtx.TransitionStatus(ctx, id, a.Status, targetStatus)
	if err != nil {
		s.logger.Error("transition job application persist failed", zap.Error(err))
		return JobApplicationResponse{}, err
	}
	if !moved {
		return JobApplicationResponse{}, jobapplicationerrors.ErrInvalidStatusTransition
	}

	if s.outbox != nil {
		if err := notification.Enqueue(ctx, s.outbox.WithTx(tx), "jobapplication", a.ID.String(), decisionEvent(ctx, a, targetStatus)); err != nil {
			s.logger.Error("transition job application outbox persist failed", zap.Error(err))
			return JobApplicationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition job application commit failed", zap.Error(err))
		return JobApplicationResponse{}, err
	}

	a.Status = targetStatus
	s.logger.Info("transition job application success",
		zap.String("application_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	a, err := s.findApplication(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceJobApplication, authz.ActionDelete, applicationRefs(a)); err != nil {
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

func (s *service) findApplication(ctx context.Context, repo Repository, id string) (*JobApplication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, jobapplicationerrors.ErrInvalidApplicationID
	}
	a, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jobapplicationerrors.ErrApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

func applicationRefs(a *JobApplication) authz.Refs {
	refs := authz.Refs{}
	if a.OwnerID != nil {
		refs.Owner = *a.OwnerID
	}
	return refs
}

func decisionEvent(ctx context.Context, a *JobApplication, targetStatus string) notification.MailEvent {
	eventType := notification.EventApplicationApproved
	subject := "Your application has been approved"
	body := fmt.Sprintf(
		"Hello %s %s, your application for the %s position has been approved. We will contact you with the next steps.",
		a.FirstName, a.LastName, a.Position,
	)
	if targetStatus == StatusRejected {
		eventType = notification.EventApplicationRejected
		subject = "Your application status"
		body = fmt.Sprintf(
			"Hello %s %s, thank you for applying for the %s position. We are unable to move forward with your application.",
			a.FirstName, a.LastName, a.Position,
		)
	}
	return notification.MailEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		Recipient:  a.Email,
		Subject:    subject,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
}

func mapToResponse(a JobApplication) JobApplicationResponse {
	resp := JobApplicationResponse{
		ID:              a.ID.String(),
		ApplicationType: a.ApplicationType,
		Position:        a.Position,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Email:           a.Email,
		Phone:           a.Phone,
		Education:       a.Education,
		Experience:      a.Experience,
		Motivation:      a.Motivation,
		CVFile:          a.CVFile,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
	if a.OwnerID != nil {
		owner := a.OwnerID.String()
		resp.OwnerID = &owner
	}
	return resp
}

func mapToListResponse(rows []JobApplication) []JobApplicationResponse {
	resp := make([]JobApplicationResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp
}
