package repository

import (
	"errors"
	"time"

	"telemed-booking/internal/domain/entity"
	domainRepo "telemed-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityWindowRepository struct{}

func NewAvailabilityWindowRepository() domainRepo.AvailabilityWindowRepository {
	return &availabilityWindowRepository{}
}

func (r *availabilityWindowRepository) Create(db *gorm.DB, window *entity.AvailabilityWindow) error {
	return db.Create(window).Error
}

func (r *availabilityWindowRepository) FindByID(db *gorm.DB, id int) (*entity.AvailabilityWindow, error) {
	var window entity.AvailabilityWindow
	err := db.Preload("Doctor.User").Where("id = ?", id).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

func (r *availabilityWindowRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.AvailabilityWindow, error) {
	var window entity.AvailabilityWindow
	err := db.Where("doctor_id = ? AND date = ?", doctorID, date.Format("2006-01-02")).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

func (r *availabilityWindowRepository) FindApprovedByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.AvailabilityWindow, error) {
	var window entity.AvailabilityWindow
	err := db.Where("doctor_id = ? AND date = ? AND approved = ?", doctorID, date.Format("2006-01-02"), true).
		First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

func (r *availabilityWindowRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, filter *entity.WindowFilter) ([]entity.AvailabilityWindow, error) {
	query := db.Where("doctor_id = ?", doctorID)

	if filter != nil {
		if filter.StartAt != "" {
			query = query.Where("date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("date <= ?", filter.EndAt)
		}
		if filter.ApprovedOnly {
			query = query.Where("approved = ?", true)
		}
	}

	var windows []entity.AvailabilityWindow
	err := query.Order("date ASC, start_time ASC").Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityWindowRepository) Update(db *gorm.DB, window *entity.AvailabilityWindow) error {
	return db.Omit("Doctor").Save(window).Error
}

func (r *availabilityWindowRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.AvailabilityWindow{})
	return result.RowsAffected, result.Error
}
