package jobapplication

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=jobapplication_repo.go -destination=mock/jobapplication_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *JobApplication) error
	FindAll(ctx context.Context) ([]JobApplication, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]JobApplication, error)
	FindByID(ctx context.Context, id string) (*JobApplication, error)
	TransitionStatus(ctx context.Context, id, from, to string) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *JobApplication) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]JobApplication, error) {
	var rows []JobApplication
	err := r.conn(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByOwner(ctx context.Context, ownerID string) ([]JobApplication, error) {
	var rows []JobApplication
	err := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*JobApplication, error) {
	var a JobApplication
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

// TransitionStatus is guarded on the source state; false means the row had
// already left it.
func (r *repository) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.conn(ctx).
		Model(&JobApplication{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&JobApplication{}, "id = ?", id).Error
}
