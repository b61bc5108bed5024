package mission

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=mission_repo.go -destination=mock/mission_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *Mission) error
	FindAll(ctx context.Context) ([]Mission, error)
	FindAllByParticipant(ctx context.Context, identityID string) ([]Mission, error)
	FindByID(ctx context.Context, id string) (*Mission, error)
	MarkCompleted(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, m *Mission) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns the handle queries run on: the pool, or the bound transaction
// after WithTx, so the service's commit and rollback cover every statement.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
	db.Statement.ConnPool = r.tx
	return db
}

func (r *repository) Create(ctx context.Context, m *Mission) error {
	return r.conn(ctx).Create(m).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Mission, error) {
	var rows []Mission
	err := r.conn(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindAllByParticipant lists every mission the identity takes part in,
// whether as assignee or as supervisor.
func (r *repository) FindAllByParticipant(ctx context.Context, identityID string) ([]Mission, error) {
	var rows []Mission
	err := r.conn(ctx).
		Where("assigned_to_id = ? OR supervisor_id = ?", identityID, identityID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Mission, error) {
	var m Mission
	err := r.conn(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

// MarkCompleted flips completed false→true. Returns false when the mission
// was already completed, which callers treat as an idempotent no-op.
func (r *repository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).
		Model(&Mission{}).
		Where("id = ?", id).
		Where("completed = ?", false).
		Update("completed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Update(ctx context.Context, m *Mission) error {
	return r.conn(ctx).Save(m).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Mission{}, "id = ?", id).Error
}
