package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/authz"
	identityerrors "github.com/Wael-BenAbid/vfRH/internal/identity/errors"
	"github.com/Wael-BenAbid/vfRH/internal/notification"
	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
	"github.com/Wael-BenAbid/vfRH/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const OptionsCacheKey = "identities:options"

// ActivationPolicy parameterizes the single account-creation flow: public
// signup activates immediately with a forced employee role, while access
// requests stay inactive until an admin approves them.
type ActivationPolicy int

const (
	ActivationImmediate ActivationPolicy = iota
	ActivationPending
)

//go:generate mockgen -source=identity_service.go -destination=mock/identity_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateIdentityRequest, policy ActivationPolicy) (IdentityResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]IdentityResponse, error)
	GetOptions(ctx context.Context) ([]IdentityOption, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (IdentityResponse, error)
	Update(ctx context.Context, actor authz.Actor, id string, req UpdateIdentityRequest) (IdentityResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
	Approve(ctx context.Context, actor authz.Actor, id string) (IdentityResponse, error)
	Reject(ctx context.Context, actor authz.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox notification.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox notification.OutboxRepository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("identity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateIdentityRequest, policy ActivationPolicy) (IdentityResponse, error) {
	s.logger.Debug("create identity requested",
		zap.String("username", req.Username),
		zap.Int("activation_policy", int(policy)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create identity begin tx failed", zap.Error(err))
		return IdentityResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	taken, err := qtx.HandleTaken(ctx, req.Username, req.Email)
	if err != nil {
		s.logger.Error("create identity handle check failed", zap.Error(err))
		return IdentityResponse{}, err
	}
	if taken {
		return IdentityResponse{}, identityerrors.ErrHandleTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create identity hash password failed", zap.Error(err))
		return IdentityResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = authz.RoleEmployee
	}
	active := false
	if policy == ActivationImmediate {
		// public signup: always an active employee, requested role ignored
		role = authz.RoleEmployee
		active = true
	}

	u := &Identity{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Password:     string(hashed),
		Role:         role,
		LeaveBalance: decimal.Zero,
		IsActive:     active,
	}

	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("create identity persist failed", zap.Error(err))
		return IdentityResponse{}, mapRepositoryError(err)
	}

	if policy == ActivationPending {
		if err := s.notifyAdmins(ctx, tx, qtx, u); err != nil {
			s.logger.Error("create identity admin fan-out failed", zap.Error(err))
			return IdentityResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create identity commit failed", zap.Error(err))
		return IdentityResponse{}, err
	}
	s.invalidateOptions(ctx)
	s.logger.Info("create identity success",
		zap.String("identity_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.Bool("is_active", u.IsActive),
	)

	return mapToResponse(*u), nil
}

// notifyAdmins queues one access-request notification per admin identity,
// in the caller's transaction.
func (s *service) notifyAdmins(ctx context.Context, tx *sql.Tx, qtx Repository, u *Identity) error {
	if s.outbox == nil {
		return nil
	}

	admins, err := qtx.FindAdmins(ctx)
	if err != nil {
		return err
	}

	rid := contextutil.GetRequestID(ctx)
	outboxRepo := s.outbox.WithTx(tx)
	for _, admin := range admins {
		event := notification.MailEvent{
			EventType: notification.EventAccessRequested,
			RequestID: rid,
			Recipient: admin.Email,
			Subject:   "New access request",
			Body: fmt.Sprintf(
				"%s (%s) requested access with role %s. Review the request in the admin console.",
				u.Username, u.Email, u.Role,
			),
			OccurredAt: time.Now().UTC(),
		}
		if err := notification.Enqueue(ctx, outboxRepo, "identity", u.ID.String(), event); err != nil {
			return err
		}
	}
	return nil
}

// GetOptions lists active accounts as picker options. The listing is cached
// in redis for an hour; singleflight keeps a cold cache from stampeding the
// database when several admins open an assignment form at once.
func (s *service) GetOptions(ctx context.Context) ([]IdentityOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []IdentityOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}

		resp := make([]IdentityOption, len(rows))
		for i, u := range rows {
			name := u.FirstName + " " + u.LastName
			if u.FirstName == "" && u.LastName == "" {
				name = u.Username
			}
			resp[i] = IdentityOption{ID: u.ID.String(), Name: name, Role: u.Role}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, OptionsCacheKey, jsonData, time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]IdentityOption), nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate identity options cache",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]IdentityResponse, error) {
	if actor.IsAdmin() {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(rows), nil
	}

	// non-admins see only their own record
	u, err := s.repo.FindByID(ctx, actor.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []IdentityResponse{}, nil
		}
		return nil, err
	}
	return []IdentityResponse{mapToResponse(*u)}, nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (IdentityResponse, error) {
	target, err := uuid.Parse(id)
	if err != nil {
		return IdentityResponse{}, identityerrors.ErrInvalidIdentityID
	}
	if err := authz.Authorize(actor, authz.ResourceUser, authz.ActionRead, authz.Refs{Owner: target}); err != nil {
		return IdentityResponse{}, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IdentityResponse{}, identityerrors.ErrIdentityNotFound
		}
		return IdentityResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, actor authz.Actor, id string, req UpdateIdentityRequest) (IdentityResponse, error) {
	target, err := uuid.Parse(id)
	if err != nil {
		return IdentityResponse{}, identityerrors.ErrInvalidIdentityID
	}
	if err := authz.Authorize(actor, authz.ResourceUser, authz.ActionUpdate, authz.Refs{Owner: target}); err != nil {
		return IdentityResponse{}, err
	}
	if req.Role != "" && !actor.IsAdmin() {
		// only admins reassign roles
		return IdentityResponse{}, apperror.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IdentityResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IdentityResponse{}, identityerrors.ErrIdentityNotFound
		}
		return IdentityResponse{}, err
	}

	if req.Email != "" {
		u.Email = req.Email
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Role != "" {
		u.Role = req.Role
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update identity persist failed", zap.String("identity_id", id), zap.Error(err))
		return IdentityResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return IdentityResponse{}, err
	}
	s.invalidateOptions(ctx)

	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return identityerrors.ErrInvalidIdentityID
	}
	if err := authz.Authorize(actor, authz.ResourceUser, authz.ActionDelete, authz.Refs{}); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identityerrors.ErrIdentityNotFound
		}
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidateOptions(ctx)
	return nil
}

func (s *service) Approve(ctx context.Context, actor authz.Actor, id string) (IdentityResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return IdentityResponse{}, identityerrors.ErrInvalidIdentityID
	}
	if err := authz.Authorize(actor, authz.ResourceUser, authz.ActionApprove, authz.Refs{}); err != nil {
		return IdentityResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IdentityResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IdentityResponse{}, identityerrors.ErrIdentityNotFound
		}
		return IdentityResponse{}, err
	}
	if u.IsActive {
		return IdentityResponse{}, identityerrors.ErrAlreadyActive
	}

	u.IsActive = true
	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("approve identity persist failed", zap.String("identity_id", id), zap.Error(err))
		return IdentityResponse{}, err
	}

	if s.outbox != nil {
		event := notification.MailEvent{
			EventType:  notification.EventUserApproved,
			RequestID:  contextutil.GetRequestID(ctx),
			Recipient:  u.Email,
			Subject:    "Your account has been approved",
			Body:       fmt.Sprintf("Hello %s, your access request has been approved. You can now sign in.", u.Username),
			OccurredAt: time.Now().UTC(),
		}
		if err := notification.Enqueue(ctx, s.outbox.WithTx(tx), "identity", u.ID.String(), event); err != nil {
			s.logger.Error("approve identity outbox persist failed", zap.Error(err))
			return IdentityResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return IdentityResponse{}, err
	}
	s.invalidateOptions(ctx)
	s.logger.Info("approve identity success", zap.String("identity_id", id))

	return mapToResponse(*u), nil
}

// Reject removes the account entirely. The rejection notification goes into
// the outbox in the same transaction, before the row disappears.
func (s *service) Reject(ctx context.Context, actor authz.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return identityerrors.ErrInvalidIdentityID
	}
	if err := authz.Authorize(actor, authz.ResourceUser, authz.ActionReject, authz.Refs{}); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identityerrors.ErrIdentityNotFound
		}
		return err
	}

	if s.outbox != nil {
		event := notification.MailEvent{
			EventType:  notification.EventUserRejected,
			RequestID:  contextutil.GetRequestID(ctx),
			Recipient:  u.Email,
			Subject:    "Your access request",
			Body:       fmt.Sprintf("Hello %s, unfortunately your access request has been rejected.", u.Username),
			OccurredAt: time.Now().UTC(),
		}
		if err := notification.Enqueue(ctx, s.outbox.WithTx(tx), "identity", u.ID.String(), event); err != nil {
			s.logger.Error("reject identity outbox persist failed", zap.Error(err))
			return err
		}
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("reject identity delete failed", zap.String("identity_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidateOptions(ctx)
	s.logger.Info("reject identity success", zap.String("identity_id", id))

	return nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return identityerrors.ErrHandleTaken
	}
	return err
}

func mapToResponse(u Identity) IdentityResponse {
	return IdentityResponse{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		LeaveBalance: u.LeaveBalance.StringFixed(2),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapToListResponse(rows []Identity) []IdentityResponse {
	resp := make([]IdentityResponse, len(rows))
	for i, u := range rows {
		resp[i] = mapToResponse(u)
	}
	return resp
}
