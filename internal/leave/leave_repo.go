package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]Leave, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	TransitionStatus(ctx context.Context, id, from, to string) (bool, error)
	DeductOwnerBalance(ctx context.Context, ownerID string, days int) error
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var rows []Leave
	err := r.conn(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByOwner(ctx context.Context, ownerID string) ([]Leave, error) {
	var rows []Leave
	err := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

// TransitionStatus applies a status-guarded update: the row moves only if
// it is still in the expected source state. Returns false when another
// caller won the race (or the state had already moved).
func (r *repository) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) DeductOwnerBalance(ctx context.Context, ownerID string, days int) error {
	return r.conn(ctx).
		Table("identities").
		Where("id = ?", ownerID).
		UpdateColumn("leave_balance", gorm.Expr("leave_balance - ?", days)).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Leave{}, "id = ?", id).Error
}
