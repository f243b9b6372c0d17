package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	RequestedAt time.Time `json:"requested_at" validate:"required"` // RFC 3339
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type SlotListResponse struct {
	DoctorID            uuid.UUID   `json:"doctor_id"`
	Date                string      `json:"date"`
	SlotDurationMinutes int         `json:"slot_duration_minutes"`
	Slots               []time.Time `json:"slots"`
	Total               int         `json:"total"`
}
