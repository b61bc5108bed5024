package leave

import (
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/google/uuid"
)

type Leave struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID   uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index"`
	Owner     *identity.Identity `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	StartDate time.Time          `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time          `gorm:"column:end_date;type:date;not null"`
	Reason    string             `gorm:"column:reason;type:text"`
	Status    string             `gorm:"column:status;type:varchar(10);not null;default:pending;index"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Leave) TableName() string {
	return "leaves"
}
