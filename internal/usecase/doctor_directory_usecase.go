package usecase

import (
	"context"
	"errors"

	"telemed-booking/internal/converter"
	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrDoctorProfileNotFound = errors.New("doctor profile not found")

type DoctorDirectoryUsecase interface {
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
}

type doctorDirectoryUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorProfileRepository
}

func NewDoctorDirectoryUsecase(db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorProfileRepository) DoctorDirectoryUsecase {
	return &doctorDirectoryUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
	}
}

func (u *doctorDirectoryUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorProfileNotFound
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorDirectoryUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctor profiles: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(profiles),
		Total:   len(profiles),
	}, nil
}
