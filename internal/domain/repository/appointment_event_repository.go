package repository

import (
	"telemed-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentEventRepository interface {
	Create(db *gorm.DB, event *entity.AppointmentEvent) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.AppointmentEvent, error)
}
