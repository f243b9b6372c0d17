package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data. ConsultationFee is
// read at booking time and copied into the payment; later fee changes never
// reprice an existing appointment.
type DoctorProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	STRNumber       string          `gorm:"column:str_number;type:varchar(50);uniqueIndex;not null" json:"str_number"`
	Specialization  string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`

	// Relationships
	User    User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Windows []AvailabilityWindow `gorm:"foreignKey:DoctorID" json:"windows,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
