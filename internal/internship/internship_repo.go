package internship

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=internship_repo.go -destination=mock/internship_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, i *Internship) error
	FindAll(ctx context.Context) ([]Internship, error)
	FindAllByIntern(ctx context.Context, internID string) ([]Internship, error)
	FindAllBySupervisor(ctx context.Context, supervisorID string) ([]Internship, error)
	FindByID(ctx context.Context, id string) (*Internship, error)
	UpdateStatus(ctx context.Context, id, status string) error
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

func (r *repository) Create(ctx context.Context, i *Internship) error {
	return r.conn(ctx).Create(i).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Internship, error) {
	var rows []Internship
	err := r.conn(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByIntern(ctx context.Context, internID string) ([]Internship, error) {
	var rows []Internship
	err := r.conn(ctx).
		Where("intern_id = ?", internID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllBySupervisor(ctx context.Context, supervisorID string) ([]Internship, error) {
	var rows []Internship
	err := r.conn(ctx).
		Where("supervisor_id = ?", supervisorID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Internship, error) {
	var i Internship
	err := r.conn(ctx).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.conn(ctx).
		Model(&Internship{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Internship{}, "id = ?", id).Error
}
