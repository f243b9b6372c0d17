package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPendingPayment AppointmentStatus = "pending_payment"
	AppointmentStatusApproved       AppointmentStatus = "approved"
	AppointmentStatusRejected       AppointmentStatus = "rejected"
	AppointmentStatusCompleted      AppointmentStatus = "completed"
	AppointmentStatusCancelled      AppointmentStatus = "cancelled"
)

var (
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrAppointmentTerminal = errors.New("appointment is in a terminal state")
)

// Appointment represents one reserved slot for one patient with one doctor.
// For a given doctor no two live appointments may share a scheduled timestamp;
// the store enforces this with a partial unique index on
// (doctor_id, scheduled_at).
//
// Payment settlement and clinical encounter completion are tracked as two
// independent flags; settlement still moves the appointment out of the
// pending queue (PaymentSettled + status change).
type Appointment struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	WindowID           *int              `gorm:"index" json:"window_id,omitempty"`
	ScheduledAt        time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Status             AppointmentStatus `gorm:"type:appointment_status;not null;default:'pending_payment';index" json:"status"`
	PaymentSettled     bool              `gorm:"not null;default:false" json:"payment_settled"`
	EncounterCompleted bool              `gorm:"not null;default:false" json:"encounter_completed"`
	PatientNotes       string            `gorm:"type:text" json:"patient_notes,omitempty"`
	DoctorNotes        string            `gorm:"type:text" json:"doctor_notes,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile       `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Window  *AvailabilityWindow `gorm:"foreignKey:WindowID" json:"window,omitempty"`
	Payment *Payment            `gorm:"foreignKey:AppointmentID" json:"payment,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsTerminal reports whether the appointment can no longer change state.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case AppointmentStatusCompleted, AppointmentStatusRejected, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsLive reports whether the appointment still occupies its slot.
func (a *Appointment) IsLive() bool {
	return a.Status != AppointmentStatusCancelled
}

// Approve records the owning doctor's acceptance and re-attaches the window
// the slot was carved from. A zero windowID leaves the attachment unchanged.
func (a *Appointment) Approve(windowID int) error {
	if a.Status != AppointmentStatusPendingPayment {
		if a.IsTerminal() {
			return ErrAppointmentTerminal
		}
		return ErrInvalidTransition
	}
	a.Status = AppointmentStatusApproved
	if windowID > 0 {
		a.WindowID = &windowID
	}
	return nil
}

// Reject records the owning doctor's refusal. Rejected is terminal.
func (a *Appointment) Reject() error {
	if a.Status != AppointmentStatusPendingPayment {
		if a.IsTerminal() {
			return ErrAppointmentTerminal
		}
		return ErrInvalidTransition
	}
	a.Status = AppointmentStatusRejected
	return nil
}

// MarkPaid is driven by the payment gate when the linked payment settles. It
// is the one transition forced on the appointment from outside the doctor's
// decision path: settlement moves a pending or approved appointment to
// completed.
func (a *Appointment) MarkPaid() error {
	switch a.Status {
	case AppointmentStatusPendingPayment, AppointmentStatusApproved:
		a.PaymentSettled = true
		a.Status = AppointmentStatusCompleted
		return nil
	default:
		return ErrAppointmentTerminal
	}
}

// CompleteEncounter records that the clinical encounter took place,
// independently of payment settlement.
func (a *Appointment) CompleteEncounter() error {
	switch a.Status {
	case AppointmentStatusRejected, AppointmentStatusCancelled:
		return ErrAppointmentTerminal
	}
	a.EncounterCompleted = true
	return nil
}
