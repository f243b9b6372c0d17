package repository

import (
	"time"

	"telemed-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityWindowRepository interface {
	Create(db *gorm.DB, window *entity.AvailabilityWindow) error
	FindByID(db *gorm.DB, id int) (*entity.AvailabilityWindow, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.AvailabilityWindow, error)
	FindApprovedByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.AvailabilityWindow, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, filter *entity.WindowFilter) ([]entity.AvailabilityWindow, error)
	Update(db *gorm.DB, window *entity.AvailabilityWindow) error
	Delete(db *gorm.DB, id int) (int64, error)
}
