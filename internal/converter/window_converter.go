package converter

import (
	"time"

	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/domain/entity"
)

// WindowToResponse converts an AvailabilityWindow entity to WindowResponse DTO.
// The slot duration is derived on the fly; it is omitted for windows the
// floor rejects.
func WindowToResponse(window *entity.AvailabilityWindow, floor time.Duration) *dto.WindowResponse {
	if window == nil {
		return nil
	}

	response := &dto.WindowResponse{
		ID:          window.ID,
		DoctorID:    window.DoctorID,
		Date:        window.Date.Format("2006-01-02"),
		StartTime:   window.StartTime,
		EndTime:     window.EndTime,
		Capacity:    window.Capacity,
		Approved:    window.Approved,
		SessionLink: window.SessionLink,
		CreatedAt:   window.CreatedAt,
		UpdatedAt:   window.UpdatedAt,
	}

	if duration, err := window.SlotDuration(floor); err == nil {
		response.SlotDurationMinutes = int(duration.Minutes())
	}

	return response
}

// WindowsToResponses converts a slice of AvailabilityWindow entities to slice of WindowResponse DTOs
func WindowsToResponses(windows []entity.AvailabilityWindow, floor time.Duration) []dto.WindowResponse {
	responses := make([]dto.WindowResponse, len(windows))
	for i, window := range windows {
		resp := WindowToResponse(&window, floor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
