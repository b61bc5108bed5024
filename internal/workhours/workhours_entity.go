package workhours

import (
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkHours struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID     uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index"`
	Owner       *identity.Identity `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Date        time.Time          `gorm:"column:date;type:date;not null;index"`
	HoursWorked decimal.Decimal    `gorm:"column:hours_worked;type:numeric(4,2);not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkHours) TableName() string {
	return "work_hours"
}
