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
	"telemed-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
)

type AppointmentUsecase interface {
	Approve(ctx context.Context, appointmentID uuid.UUID, req *dto.DecideAppointmentRequest) (*dto.AppointmentResponse, error)
	Reject(ctx context.Context, appointmentID uuid.UUID, req *dto.DecideAppointmentRequest) (*dto.AppointmentResponse, error)
	CompleteEncounter(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	apptRepo   repository.AppointmentRepository
	windowRepo repository.AvailabilityWindowRepository
	notifier   *service.NotificationService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	apptRepo repository.AppointmentRepository,
	windowRepo repository.AvailabilityWindowRepository,
	notifier *service.NotificationService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:         db,
		log:        log,
		apptRepo:   apptRepo,
		windowRepo: windowRepo,
		notifier:   notifier,
	}
}

// Approve records the owning doctor's acceptance and re-attaches the window
// reference used for billing consistency.
func (u *appointmentUsecase) Approve(ctx context.Context, appointmentID uuid.UUID, req *dto.DecideAppointmentRequest) (*dto.AppointmentResponse, error) {
	doctorID, appointment, err := u.findOwnedByDoctor(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	day := time.Date(appointment.ScheduledAt.Year(), appointment.ScheduledAt.Month(), appointment.ScheduledAt.Day(),
		0, 0, 0, 0, appointment.ScheduledAt.Location())
	window, err := u.windowRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find window for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	windowID := 0
	if window != nil {
		windowID = window.ID
	} else if appointment.WindowID != nil {
		windowID = *appointment.WindowID
	}

	if err := appointment.Approve(windowID); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		appointment.DoctorNotes = req.Notes
	}

	if err := u.apptRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to approve appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.notifier.Notify(appointment.ID, &doctorID, entity.EventAppointmentApproved, entity.JSON{
		"doctor_id": doctorID.String(),
	})

	u.log.Infof("Appointment approved: id=%s, doctor=%s", appointmentID, doctorID)
	return converter.AppointmentToResponse(appointment), nil
}

// Reject records the owning doctor's refusal; rejected is terminal.
func (u *appointmentUsecase) Reject(ctx context.Context, appointmentID uuid.UUID, req *dto.DecideAppointmentRequest) (*dto.AppointmentResponse, error) {
	doctorID, appointment, err := u.findOwnedByDoctor(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := appointment.Reject(); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		appointment.DoctorNotes = req.Notes
	}

	if err := u.apptRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to reject appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.notifier.Notify(appointment.ID, &doctorID, entity.EventAppointmentRejected, entity.JSON{
		"doctor_id": doctorID.String(),
	})

	u.log.Infof("Appointment rejected: id=%s, doctor=%s", appointmentID, doctorID)
	return converter.AppointmentToResponse(appointment), nil
}

// CompleteEncounter marks the clinical encounter as done, independently of
// payment settlement.
func (u *appointmentUsecase) CompleteEncounter(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	doctorID, appointment, err := u.findOwnedByDoctor(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := appointment.CompleteEncounter(); err != nil {
		return nil, err
	}

	if err := u.apptRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to complete encounter for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.notifier.Notify(appointment.ID, &doctorID, entity.EventAppointmentEncounterCompleted, entity.JSON{
		"doctor_id": doctorID.String(),
	})

	return converter.AppointmentToResponse(appointment), nil
}

// GetAppointment returns one appointment. Doctors and patients may only see
// their own; admins see all (read-only).
func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}

	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	roleID, _ := middleware.GetRoleIDFromContext(ctx)
	if roleID != entity.RoleIDAdmin && appointment.DoctorID != actorID && appointment.PatientID != actorID {
		return nil, ErrAppointmentNotOwned
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListMine returns the actor's appointments: the doctor's schedule, the
// patient's bookings, or everything for an admin.
func (u *appointmentUsecase) ListMine(ctx context.Context) (*dto.AppointmentListResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	var (
		appointments []entity.Appointment
		err          error
	)
	switch roleID {
	case entity.RoleIDAdmin:
		appointments, err = u.apptRepo.FindAll(u.db.WithContext(ctx))
	case entity.RoleIDDoctor:
		appointments, err = u.apptRepo.FindByDoctorID(u.db.WithContext(ctx), actorID)
	default:
		appointments, err = u.apptRepo.FindByPatientID(u.db.WithContext(ctx), actorID)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", actorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) findOwnedByDoctor(ctx context.Context, appointmentID uuid.UUID) (uuid.UUID, *entity.Appointment, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, nil, ErrActorMissing
	}

	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return uuid.Nil, nil, err
	}
	if appointment == nil {
		return uuid.Nil, nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return uuid.Nil, nil, ErrAppointmentNotOwned
	}
	return doctorID, appointment, nil
}
