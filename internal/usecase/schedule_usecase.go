package usecase

import (
	"context"
	"errors"
	"time"

	"telemed-booking/internal/converter"
	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/delivery/http/middleware"
	"telemed-booking/internal/domain/entity"
	"telemed-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrWindowNotFound      = errors.New("availability window not found")
	ErrWindowHasDependents = errors.New("window has appointments and cannot be removed")
	ErrWindowNotOwned      = errors.New("window does not belong to you")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidDateOrder    = errors.New("end date must not be before start date")
	ErrActorMissing        = errors.New("user not found in context")
)

type ScheduleUsecase interface {
	UpsertWindows(ctx context.Context, req *dto.UpsertWindowsRequest) (*dto.WindowListResponse, error)
	EditWindow(ctx context.Context, windowID int, req *dto.EditWindowRequest) (*dto.WindowResponse, error)
	ApproveWindow(ctx context.Context, windowID int) (*dto.WindowResponse, error)
	RemoveWindow(ctx context.Context, windowID int) error
	GetWindow(ctx context.Context, windowID int) (*dto.WindowResponse, error)
	ListWindowsByDoctor(ctx context.Context, doctorID uuid.UUID, filter *entity.WindowFilter) (*dto.WindowListResponse, error)
}

type scheduleUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	windowRepo repository.AvailabilityWindowRepository
	apptRepo   repository.AppointmentRepository
	slotFloor  time.Duration
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	windowRepo repository.AvailabilityWindowRepository,
	apptRepo repository.AppointmentRepository,
	slotFloor time.Duration,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:         db,
		log:        log,
		windowRepo: windowRepo,
		apptRepo:   apptRepo,
		slotFloor:  slotFloor,
	}
}

// UpsertWindows creates one window per date in [start_date, end_date] for the
// acting doctor. Dates that already have a window are left untouched; there
// is never more than one window per (doctor, date).
func (u *scheduleUsecase) UpsertWindows(ctx context.Context, req *dto.UpsertWindowsRequest) (*dto.WindowListResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateOrder
	}

	// Validate the definition once; every date in the range shares it.
	candidate := entity.AvailabilityWindow{
		DoctorID:  doctorID,
		Date:      startDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
	}
	if err := candidate.Validate(u.slotFloor); err != nil {
		return nil, err
	}

	created := make([]entity.AvailabilityWindow, 0)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
			existing, err := u.windowRepo.FindByDoctorAndDate(tx, doctorID, date)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			window := entity.AvailabilityWindow{
				DoctorID:    doctorID,
				Date:        date,
				StartTime:   req.StartTime,
				EndTime:     req.EndTime,
				Capacity:    req.Capacity,
				SessionLink: req.SessionLink,
			}
			if err := u.windowRepo.Create(tx, &window); err != nil {
				return err
			}
			created = append(created, window)
		}
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to upsert windows for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	u.log.Infof("Windows created: doctor=%s, range=%s..%s, created=%d", doctorID, req.StartDate, req.EndDate, len(created))
	return &dto.WindowListResponse{
		Windows: converter.WindowsToResponses(created, u.slotFloor),
		Total:   len(created),
	}, nil
}

// EditWindow updates a window's definition and clears its approval flag, so
// re-approval is required before the window is bookable again.
func (u *scheduleUsecase) EditWindow(ctx context.Context, windowID int, req *dto.EditWindowRequest) (*dto.WindowResponse, error) {
	window, err := u.findOwnedWindow(ctx, windowID)
	if err != nil {
		return nil, err
	}

	if err := window.ApplyEdit(req.StartTime, req.EndTime, req.Capacity, req.SessionLink, u.slotFloor); err != nil {
		return nil, err
	}

	if err := u.windowRepo.Update(u.db.WithContext(ctx), window); err != nil {
		u.log.Warnf("Failed to update window %d: %+v", windowID, err)
		return nil, err
	}

	u.log.Infof("Window edited: id=%d, doctor=%s (approval cleared)", window.ID, window.DoctorID)
	return converter.WindowToResponse(window, u.slotFloor), nil
}

// ApproveWindow marks a window bookable. Admin only (enforced at the route).
func (u *scheduleUsecase) ApproveWindow(ctx context.Context, windowID int) (*dto.WindowResponse, error) {
	window, err := u.windowRepo.FindByID(u.db.WithContext(ctx), windowID)
	if err != nil {
		u.log.Warnf("Failed to find window %d: %+v", windowID, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrWindowNotFound
	}

	window.Approved = true
	if err := u.windowRepo.Update(u.db.WithContext(ctx), window); err != nil {
		u.log.Warnf("Failed to approve window %d: %+v", windowID, err)
		return nil, err
	}

	u.log.Infof("Window approved: id=%d, doctor=%s, date=%s", window.ID, window.DoctorID, window.Date.Format("2006-01-02"))
	return converter.WindowToResponse(window, u.slotFloor), nil
}

// RemoveWindow deletes a window unless a live appointment falls on its
// (doctor, date).
func (u *scheduleUsecase) RemoveWindow(ctx context.Context, windowID int) error {
	window, err := u.findOwnedWindow(ctx, windowID)
	if err != nil {
		return err
	}

	dayStart := window.Date
	dayEnd := dayStart.AddDate(0, 0, 1)
	dependents, err := u.apptRepo.CountLiveByDoctorBetween(u.db.WithContext(ctx), window.DoctorID, dayStart, dayEnd)
	if err != nil {
		u.log.Warnf("Failed to count appointments for window %d: %+v", windowID, err)
		return err
	}
	if dependents > 0 {
		return ErrWindowHasDependents
	}

	affected, err := u.windowRepo.Delete(u.db.WithContext(ctx), windowID)
	if err != nil {
		u.log.Warnf("Failed to delete window %d: %+v", windowID, err)
		return err
	}
	if affected == 0 {
		return ErrWindowNotFound
	}

	u.log.Infof("Window removed: id=%d, doctor=%s", windowID, window.DoctorID)
	return nil
}

func (u *scheduleUsecase) GetWindow(ctx context.Context, windowID int) (*dto.WindowResponse, error) {
	window, err := u.windowRepo.FindByID(u.db.WithContext(ctx), windowID)
	if err != nil {
		u.log.Warnf("Failed to find window %d: %+v", windowID, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrWindowNotFound
	}
	return converter.WindowToResponse(window, u.slotFloor), nil
}

func (u *scheduleUsecase) ListWindowsByDoctor(ctx context.Context, doctorID uuid.UUID, filter *entity.WindowFilter) (*dto.WindowListResponse, error) {
	windows, err := u.windowRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID, filter)
	if err != nil {
		u.log.Warnf("Failed to list windows for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.WindowListResponse{
		Windows: converter.WindowsToResponses(windows, u.slotFloor),
		Total:   len(windows),
	}, nil
}

// findOwnedWindow loads a window and verifies the acting doctor owns it.
// Admins pass the ownership check.
func (u *scheduleUsecase) findOwnedWindow(ctx context.Context, windowID int) (*entity.AvailabilityWindow, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}

	window, err := u.windowRepo.FindByID(u.db.WithContext(ctx), windowID)
	if err != nil {
		u.log.Warnf("Failed to find window %d: %+v", windowID, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrWindowNotFound
	}

	roleID, _ := middleware.GetRoleIDFromContext(ctx)
	if roleID != entity.RoleIDAdmin && window.DoctorID != actorID {
		return nil, ErrWindowNotOwned
	}
	return window, nil
}
