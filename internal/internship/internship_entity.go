package internship

import (
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/google/uuid"
)

type Internship struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	InternID     uuid.UUID          `gorm:"column:intern_id;type:uuid;not null;index"`
	Intern       *identity.Identity `gorm:"foreignKey:InternID;constraint:OnDelete:CASCADE"`
	SupervisorID uuid.UUID          `gorm:"column:supervisor_id;type:uuid;not null;index"`
	Supervisor   *identity.Identity `gorm:"foreignKey:SupervisorID;constraint:OnDelete:CASCADE"`
	StartDate    time.Time          `gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time          `gorm:"column:end_date;type:date;not null"`
	Status       string             `gorm:"column:status;type:varchar(10);not null;default:pending;index"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Internship) TableName() string {
	return "internships"
}
