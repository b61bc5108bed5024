package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Identity is a user account. Rejected access requests are hard-deleted, so
// there is no soft-delete column; dependent rows cascade at the FK level.
type Identity struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string          `gorm:"column:username;type:varchar(150);not null;uniqueIndex"`
	Email        string          `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	FirstName    string          `gorm:"column:first_name;type:varchar(100)"`
	LastName     string          `gorm:"column:last_name;type:varchar(100)"`
	Password     string          `gorm:"column:password;type:text;not null"`
	Role         string          `gorm:"column:role;type:varchar(10);not null;default:employee"`
	Superuser    bool            `gorm:"column:superuser;not null;default:false"`
	LeaveBalance decimal.Decimal `gorm:"column:leave_balance;type:numeric(6,2);not null;default:0"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Identity) TableName() string {
	return "identities"
}
