package repository

import (
	"telemed-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(db *gorm.DB, payment *entity.Payment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Payment, error)
	// FindByIDForUpdate locks the payment row for the duration of the
	// surrounding transaction so concurrent settle calls serialize.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*entity.Payment, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Payment, error)
	Update(db *gorm.DB, payment *entity.Payment) error
}
