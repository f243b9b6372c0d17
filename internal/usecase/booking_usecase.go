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
	ErrNoApprovedSchedule = errors.New("doctor has no approved schedule for this date")
	ErrSlotTaken          = errors.New("slot has just been taken")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrPatientNotFound    = errors.New("patient profile not found")
)

type BookingUsecase interface {
	ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.SlotListResponse, error)
	Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
}

type bookingUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	windowRepo  repository.AvailabilityWindowRepository
	apptRepo    repository.AppointmentRepository
	paymentRepo repository.PaymentRepository
	doctorRepo  repository.DoctorProfileRepository
	patientRepo repository.PatientProfileRepository
	guard       *service.BookingGuard
	notifier    *service.NotificationService
	slotFloor   time.Duration
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	windowRepo repository.AvailabilityWindowRepository,
	apptRepo repository.AppointmentRepository,
	paymentRepo repository.PaymentRepository,
	doctorRepo repository.DoctorProfileRepository,
	patientRepo repository.PatientProfileRepository,
	guard *service.BookingGuard,
	notifier *service.NotificationService,
	slotFloor time.Duration,
) BookingUsecase {
	return &bookingUsecase{
		db:          db,
		log:         log,
		windowRepo:  windowRepo,
		apptRepo:    apptRepo,
		paymentRepo: paymentRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		guard:       guard,
		notifier:    notifier,
		slotFloor:   slotFloor,
	}
}

// ListAvailableSlots derives the doctor's slots for a date from the approved
// window and filters out slots already held by live appointments. Slots are
// recomputed on every call; nothing is cached or persisted.
func (u *bookingUsecase) ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.SlotListResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	window, err := u.windowRepo.FindApprovedByDoctorAndDate(u.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find window for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrNoApprovedSchedule
	}

	slots, err := window.Slots(u.slotFloor)
	if err != nil {
		return nil, err
	}
	duration, err := window.SlotDuration(u.slotFloor)
	if err != nil {
		return nil, err
	}

	taken, err := u.apptRepo.ListTakenSlots(u.db.WithContext(ctx), doctorID, window.StartAt(), window.EndAt())
	if err != nil {
		u.log.Warnf("Failed to list taken slots for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	takenSet := make(map[int64]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t.Unix()] = struct{}{}
	}

	available := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		if _, booked := takenSet[slot.Unix()]; !booked {
			available = append(available, slot)
		}
	}

	return &dto.SlotListResponse{
		DoctorID:            doctorID,
		Date:                date,
		SlotDurationMinutes: int(duration.Minutes()),
		Slots:               available,
		Total:               len(available),
	}, nil
}

// Book reserves the nearest slot to the requested time for the acting
// patient.
//
// Flow:
// 1. Validate patient profile and doctor exist
// 2. Look up the approved window for (doctor, requested date)
// 3. Snap the requested time to the canonical slot boundary
// 4. Inside the per-(doctor, slot) guard: exclusivity check, then create the
//    appointment and its payment in one transaction
// 5. Fire-and-forget created event
//
// A slot conflict is surfaced immediately as ErrSlotTaken; the patient picks
// another time. There is no silent retry with a different slot.
func (u *bookingUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}

	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	requestedAt := req.RequestedAt
	day := time.Date(requestedAt.Year(), requestedAt.Month(), requestedAt.Day(), 0, 0, 0, 0, requestedAt.Location())

	window, err := u.windowRepo.FindApprovedByDoctorAndDate(u.db.WithContext(ctx), req.DoctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find window for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrNoApprovedSchedule
	}

	slot, err := window.NearestSlot(requestedAt, u.slotFloor)
	if err != nil {
		return nil, err
	}

	windowID := window.ID
	appointment := &entity.Appointment{
		DoctorID:     req.DoctorID,
		PatientID:    patientID,
		WindowID:     &windowID,
		ScheduledAt:  slot,
		Status:       entity.AppointmentStatusPendingPayment,
		PatientNotes: req.Notes,
	}

	err = u.guard.WithSlotLock(ctx, req.DoctorID, slot, func(lockCtx context.Context) error {
		existing, err := u.apptRepo.FindLiveByDoctorAndSlot(u.db.WithContext(lockCtx), req.DoctorID, slot)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrSlotTaken
		}

		// Appointment and payment are one logical create: a crash between
		// the two must not leave an appointment without a payment.
		return u.db.WithContext(lockCtx).Transaction(func(tx *gorm.DB) error {
			if err := u.apptRepo.Create(tx, appointment); err != nil {
				return err
			}
			payment := &entity.Payment{
				AppointmentID: appointment.ID,
				Amount:        doctor.ConsultationFee,
				Status:        entity.PaymentStatusPending,
			}
			return u.paymentRepo.Create(tx, payment)
		})
	})
	if err != nil {
		// The partial unique index backs up the guard; a conflict that slips
		// past the check surfaces as a duplicated key.
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, service.ErrSlotHeld) {
			return nil, ErrSlotTaken
		}
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to book slot %s for doctor %s: %+v", slot, req.DoctorID, err)
		return nil, err
	}

	u.notifier.Notify(appointment.ID, &patientID, entity.EventAppointmentCreated, entity.JSON{
		"doctor_id":    req.DoctorID.String(),
		"patient_id":   patientID.String(),
		"scheduled_at": slot,
	})

	full, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, slot=%s", appointment.ID, req.DoctorID, slot)
	return converter.AppointmentToResponse(full), nil
}
