package identity

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=identity_repo.go -destination=mock/identity_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *Identity) error
	FindAll(ctx context.Context) ([]Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	FindByUsername(ctx context.Context, username string) (*Identity, error)
	FindAdmins(ctx context.Context) ([]Identity, error)
	FindOptions(ctx context.Context) ([]Identity, error)
	HandleTaken(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, u *Identity) error
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

func (r *repository) Create(ctx context.Context, u *Identity) error {
	return r.conn(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Identity, error) {
	var rows []Identity
	err := r.conn(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Identity, error) {
	var u Identity
	err := r.conn(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*Identity, error) {
	var u Identity
	err := r.conn(ctx).Where("username = ?", username).First(&u).Error
	return &u, err
}

func (r *repository) FindAdmins(ctx context.Context) ([]Identity, error) {
	var rows []Identity
	err := r.conn(ctx).
		Where("role = ? OR superuser", "admin").
		Find(&rows).Error
	return rows, err
}

// FindOptions returns the minimal projection used by assignment pickers.
func (r *repository) FindOptions(ctx context.Context) ([]Identity, error) {
	var rows []Identity
	err := r.conn(ctx).
		Select("id", "first_name", "last_name", "username", "role").
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HandleTaken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Identity{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, u *Identity) error {
	return r.conn(ctx).Save(u).Error
}

// Delete hard-deletes; dependent leave/mission/internship/application/work
// hour rows go with it through the FK ON DELETE CASCADE constraints.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Identity{}, "id = ?", id).Error
}
