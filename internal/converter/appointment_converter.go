package converter

import (
	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                 appointment.ID,
		DoctorID:           appointment.DoctorID,
		PatientID:          appointment.PatientID,
		WindowID:           appointment.WindowID,
		ScheduledAt:        appointment.ScheduledAt,
		Status:             string(appointment.Status),
		PaymentSettled:     appointment.PaymentSettled,
		EncounterCompleted: appointment.EncounterCompleted,
		PatientNotes:       appointment.PatientNotes,
		DoctorNotes:        appointment.DoctorNotes,
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
	}

	if appointment.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorProfileToResponse(&appointment.Doctor)
	}
	if appointment.Payment != nil {
		response.Payment = PaymentToResponse(appointment.Payment)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// PaymentToResponse converts a Payment entity to PaymentResponse DTO
func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}

	return &dto.PaymentResponse{
		ID:            payment.ID,
		AppointmentID: payment.AppointmentID,
		Amount:        payment.Amount,
		Status:        string(payment.Status),
		PaidAt:        payment.PaidAt,
		CreatedAt:     payment.CreatedAt,
	}
}
