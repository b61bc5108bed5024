package workhours

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=workhours_repo.go -destination=mock/workhours_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *WorkHours) error
	FindAll(ctx context.Context) ([]WorkHours, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]WorkHours, error)
	FindByID(ctx context.Context, id string) (*WorkHours, error)
	Update(ctx context.Context, w *WorkHours) error
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

func (r *repository) Create(ctx context.Context, w *WorkHours) error {
	return r.conn(ctx).Create(w).Error
}

func (r *repository) FindAll(ctx context.Context) ([]WorkHours, error) {
	var rows []WorkHours
	err := r.conn(ctx).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByOwner(ctx context.Context, ownerID string) ([]WorkHours, error) {
	var rows []WorkHours
	err := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*WorkHours, error) {
	var w WorkHours
	err := r.conn(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) Update(ctx context.Context, w *WorkHours) error {
	return r.conn(ctx).Save(w).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&WorkHours{}, "id = ?", id).Error
}
