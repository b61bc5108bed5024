package jobapplication

import (
	"time"

	"github.com/Wael-BenAbid/vfRH/internal/identity"

	"github.com/google/uuid"
)

// OwnerID is nullable: anonymous applicants submit without an account.
type JobApplication struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID         *uuid.UUID         `gorm:"column:owner_id;type:uuid;index"`
	Owner           *identity.Identity `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	ApplicationType string             `gorm:"column:application_type;type:varchar(10);not null"`
	Position        string             `gorm:"column:position;type:varchar(255);not null"`
	FirstName       string             `gorm:"column:first_name;type:varchar(100);not null"`
	LastName        string             `gorm:"column:last_name;type:varchar(100);not null"`
	Email           string             `gorm:"column:email;type:varchar(255);not null;index"`
	Phone           string             `gorm:"column:phone;type:varchar(30)"`
	Education       string             `gorm:"column:education;type:text"`
	Experience      string             `gorm:"column:experience;type:text"`
	Motivation      string             `gorm:"column:motivation;type:text"`
	CVFile          string             `gorm:"column:cv_file;type:varchar(512)"`
	Status          string             `gorm:"column:status;type:varchar(10);not null;default:pending;index"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}
