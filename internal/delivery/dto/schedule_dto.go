package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpsertWindowsRequest struct {
	StartDate   string `json:"start_date" validate:"required"` // Format: YYYY-MM-DD
	EndDate     string `json:"end_date" validate:"required"`   // Format: YYYY-MM-DD
	StartTime   string `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime     string `json:"end_time" validate:"required"`   // Format: HH:MM
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	SessionLink string `json:"session_link" validate:"omitempty,url"`
}

type EditWindowRequest struct {
	StartTime   string `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime     string `json:"end_time" validate:"required"`   // Format: HH:MM
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	SessionLink string `json:"session_link" validate:"omitempty,url"`
}

// Response DTOs

type WindowResponse struct {
	ID                  int       `json:"id"`
	DoctorID            uuid.UUID `json:"doctor_id"`
	Date                string    `json:"date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	Capacity            int       `json:"capacity"`
	Approved            bool      `json:"approved"`
	SessionLink         string    `json:"session_link,omitempty"`
	SlotDurationMinutes int       `json:"slot_duration_minutes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type WindowListResponse struct {
	Windows []WindowResponse `json:"windows"`
	Total   int              `json:"total"`
}
