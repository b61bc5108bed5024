package workhours

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
	workhourserrors "github.com/Wael-BenAbid/vfRH/internal/workhours/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var maxDailyHours = decimal.NewFromInt(24)

//go:generate mockgen -source=workhours_service.go -destination=mock/workhours_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateWorkHoursRequest) (WorkHoursResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]WorkHoursResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (WorkHoursResponse, error)
	Update(ctx context.Context, actor authz.Actor, id string, req UpdateWorkHoursRequest) (WorkHoursResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("workhours.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workhours.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Create logs hours for the caller. Logging hours on behalf of another
// identity requires admin.
func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateWorkHoursRequest) (WorkHoursResponse, error) {
	s.logger.Debug("create work hours requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("date", req.Date),
	)

	ownerID := actor.ID
	if req.OwnerID != "" {
		requested, err := uuid.Parse(req.OwnerID)
		if err != nil {
			return WorkHoursResponse{}, workhourserrors.ErrInvalidWorkHoursID
		}
		if requested != actor.ID && !actor.IsAdmin() {
			return WorkHoursResponse{}, apperror.ErrForbidden
		}
		ownerID = requested
	}

	hours, err := parseHours(req.HoursWorked)
	if err != nil {
		return WorkHoursResponse{}, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return WorkHoursResponse{}, workhourserrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create work hours begin tx failed", zap.Error(err))
		return WorkHoursResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	w := &WorkHours{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Date:        date,
		HoursWorked: hours,
	}

	if err := qtx.Create(ctx, w); err != nil {
		s.logger.Error("create work hours persist failed", zap.Error(err))
		return WorkHoursResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create work hours commit failed", zap.Error(err))
		return WorkHoursResponse{}, err
	}

	s.logger.Info("create work hours success",
		zap.String("work_hours_id", w.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return mapToResponse(*w), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]WorkHoursResponse, error) {
	var (
		rows []WorkHours
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

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (WorkHoursResponse, error) {
	w, err := s.findWorkHours(ctx, s.repo, id)
	if err != nil {
		return WorkHoursResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceWorkHours, authz.ActionRead, authz.Refs{Owner: w.OwnerID}); err != nil {
		return WorkHoursResponse{}, err
	}
	return mapToResponse(*w), nil
}

func (s *service) Update(ctx context.Context, actor authz.Actor, id string, req UpdateWorkHoursRequest) (WorkHoursResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkHoursResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	w, err := s.findWorkHours(ctx, qtx, id)
	if err != nil {
		return WorkHoursResponse{}, err
	}
	if err := authz.Authorize(actor, authz.ResourceWorkHours, authz.ActionUpdate, authz.Refs{Owner: w.OwnerID}); err != nil {
		return WorkHoursResponse{}, err
	}

	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return WorkHoursResponse{}, workhourserrors.ErrInvalidDateFormat
		}
		w.Date = d
	}
	if req.HoursWorked != nil {
		hours, err := parseHours(*req.HoursWorked)
		if err != nil {
			return WorkHoursResponse{}, err
		}
		w.HoursWorked = hours
	}

	if err := qtx.Update(ctx, w); err != nil {
		s.logger.Error("update work hours persist failed", zap.Error(err))
		return WorkHoursResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return WorkHoursResponse{}, err
	}

	return mapToResponse(*w), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	w, err := s.findWorkHours(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ResourceWorkHours, authz.ActionDelete, authz.Refs{Owner: w.OwnerID}); err != nil {
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

func (s *service) findWorkHours(ctx context.Context, repo Repository, id string) (*WorkHours, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, workhourserrors.ErrInvalidWorkHoursID
	}
	w, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workhourserrors.ErrWorkHoursNotFound
		}
		return nil, err
	}
	return w, nil
}

func parseHours(v string) (decimal.Decimal, error) {
	hours, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, workhourserrors.ErrInvalidHours
	}
	if hours.IsNegative() || hours.GreaterThan(maxDailyHours) {
		return decimal.Zero, workhourserrors.ErrInvalidHours
	}
	return hours, nil
}

func mapToResponse(w WorkHours) WorkHoursResponse {
	return WorkHoursResponse{
		ID:          w.ID.String(),
		OwnerID:     w.OwnerID.String(),
		Date:        w.Date.Format("2006-01-02"),
		HoursWorked: w.HoursWorked.StringFixed(2),
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []WorkHours) []WorkHoursResponse {
	resp := make([]WorkHoursResponse, len(rows))
	for i, w := range rows {
		resp[i] = mapToResponse(w)
	}
	return resp
}
