package repository

import (
	"time"

	"telemed-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindLiveByDoctorAndSlot returns the non-cancelled appointment holding
	// the exact (doctor, timestamp) slot, if any.
	FindLiveByDoctorAndSlot(db *gorm.DB, doctorID uuid.UUID, scheduledAt time.Time) (*entity.Appointment, error)
	// ListTakenSlots returns the scheduled timestamps of all live appointments
	// for a doctor within [from, to).
	ListTakenSlots(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error)
	CountLiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
}
