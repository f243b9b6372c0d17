package repository

import (
	"telemed-booking/internal/domain/entity"
	domainRepo "telemed-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentEventRepository struct{}

func NewAppointmentEventRepository() domainRepo.AppointmentEventRepository {
	return &appointmentEventRepository{}
}

func (r *appointmentEventRepository) Create(db *gorm.DB, event *entity.AppointmentEvent) error {
	return db.Create(event).Error
}

func (r *appointmentEventRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.AppointmentEvent, error) {
	var events []entity.AppointmentEvent
	err := db.Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
