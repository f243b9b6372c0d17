package repository

import (
	"errors"
	"time"

	"telemed-booking/internal/domain/entity"
	domainRepo "telemed-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").Preload("Window").Preload("Payment").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindLiveByDoctorAndSlot(db *gorm.DB, doctorID uuid.UUID, scheduledAt time.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("doctor_id = ? AND scheduled_at = ? AND status != ?",
		doctorID, scheduledAt, entity.AppointmentStatusCancelled).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListTakenSlots(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var taken []time.Time
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND scheduled_at >= ? AND scheduled_at < ? AND status != ?",
			doctorID, from, to, entity.AppointmentStatusCancelled).
		Order("scheduled_at ASC").
		Pluck("scheduled_at", &taken).Error
	if err != nil {
		return nil, err
	}
	return taken, nil
}

func (r *appointmentRepository) CountLiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND scheduled_at >= ? AND scheduled_at < ? AND status != ?",
			doctorID, from, to, entity.AppointmentStatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient.User").Preload("Payment").
		Where("doctor_id = ?", doctorID).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.User").Preload("Payment").
		Where("patient_id = ?", patientID).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").Preload("Payment").
		Order("scheduled_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Doctor", "Patient", "Window", "Payment").Save(appointment).Error
}
