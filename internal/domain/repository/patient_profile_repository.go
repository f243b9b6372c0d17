package repository

import (
	"telemed-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
}
