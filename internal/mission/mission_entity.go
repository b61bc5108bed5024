package mission

import (
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/google/uuid"
)

type Mission struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string             `gorm:"column:title;type:varchar(255);not null"`
	Description  string             `gorm:"column:description;type:text"`
	AssignedToID uuid.UUID          `gorm:"column:assigned_to_id;type:uuid;not null;index"`
	AssignedTo   *identity.Identity `gorm:"foreignKey:AssignedToID;constraint:OnDelete:CASCADE"`
	SupervisorID uuid.UUID          `gorm:"column:supervisor_id;type:uuid;not null;index"`
	Supervisor   *identity.Identity `gorm:"foreignKey:SupervisorID;constraint:OnDelete:CASCADE"`
	Deadline     *time.Time         `gorm:"column:deadline;type:date"`
	Completed    bool               `gorm:"column:completed;not null;default:false"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Mission) TableName() string {
	return "missions"
}
