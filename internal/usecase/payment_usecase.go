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

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentUsecase interface {
	Settle(ctx context.Context, paymentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*dto.PaymentResponse, error)
}

type paymentUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	paymentRepo repository.PaymentRepository
	apptRepo    repository.AppointmentRepository
	notifier    *service.NotificationService
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	paymentRepo repository.PaymentRepository,
	apptRepo repository.AppointmentRepository,
	notifier *service.NotificationService,
) PaymentUsecase {
	return &paymentUsecase{
		db:          db,
		log:         log,
		paymentRepo: paymentRepo,
		apptRepo:    apptRepo,
		notifier:    notifier,
	}
}

// Settle moves a payment from pending to paid and, in the same transaction,
// drives the owning appointment out of the pending queue. This is the one
// place allowed to force an appointment transition from outside the doctor's
// decision path.
//
// The payment row is locked for the duration of the transaction, so of two
// concurrent settle calls exactly one succeeds; the loser observes an
// already-settled payment, never a duplicate completion. Rejected and
// cancelled appointments are un-settleable.
func (u *paymentUsecase) Settle(ctx context.Context, paymentID uuid.UUID) (*dto.AppointmentResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	var (
		appointment *entity.Appointment
		payment     *entity.Payment
	)
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = u.paymentRepo.FindByIDForUpdate(tx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}

		appointment, err = u.apptRepo.FindByID(tx, payment.AppointmentID)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if roleID != entity.RoleIDAdmin && appointment.PatientID != actorID {
			return ErrAppointmentNotOwned
		}

		if err := payment.Settle(time.Now().UTC()); err != nil {
			return err
		}
		if err := appointment.MarkPaid(); err != nil {
			return err
		}

		if err := u.paymentRepo.Update(tx, payment); err != nil {
			return err
		}
		return u.apptRepo.Update(tx, appointment)
	})
	if err != nil {
		if !errors.Is(err, entity.ErrPaymentAlreadySettled) && !errors.Is(err, entity.ErrAppointmentTerminal) &&
			!errors.Is(err, ErrPaymentNotFound) && !errors.Is(err, ErrAppointmentNotOwned) {
			u.log.Warnf("Failed to settle payment %s: %+v", paymentID, err)
		}
		return nil, err
	}

	u.notifier.Notify(appointment.ID, &actorID, entity.EventAppointmentCompleted, entity.JSON{
		"payment_id": paymentID.String(),
	})

	u.log.Infof("Payment settled: id=%s, appointment=%s", paymentID, appointment.ID)
	appointment.Payment = payment
	return converter.AppointmentToResponse(appointment), nil
}

func (u *paymentUsecase) GetPayment(ctx context.Context, paymentID uuid.UUID) (*dto.PaymentResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrActorMissing
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	payment, err := u.paymentRepo.FindByID(u.db.WithContext(ctx), paymentID)
	if err != nil {
		u.log.Warnf("Failed to find payment %s: %+v", paymentID, err)
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), payment.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment != nil && roleID != entity.RoleIDAdmin &&
		appointment.PatientID != actorID && appointment.DoctorID != actorID {
		return nil, ErrAppointmentNotOwned
	}

	return converter.PaymentToResponse(payment), nil
}
