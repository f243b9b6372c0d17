package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DecideAppointmentRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	DoctorID           uuid.UUID        `json:"doctor_id"`
	PatientID          uuid.UUID        `json:"patient_id"`
	WindowID           *int             `json:"window_id,omitempty"`
	ScheduledAt        time.Time        `json:"scheduled_at"`
	Status             string           `json:"status"`
	PaymentSettled     bool             `json:"payment_settled"`
	EncounterCompleted bool             `json:"encounter_completed"`
	PatientNotes       string           `json:"patient_notes,omitempty"`
	DoctorNotes        string           `json:"doctor_notes,omitempty"`
	Doctor             *DoctorResponse  `json:"doctor,omitempty"`
	Payment            *PaymentResponse `json:"payment,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentID uuid.UUID       `json:"appointment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
