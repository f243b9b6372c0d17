package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/domain/entity"
	"telemed-booking/internal/usecase"
	"telemed-booking/pkg/response"
	"telemed-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := parseAppointmentID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	req, ok := h.decodeDecision(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Approve(r.Context(), appointmentID, req)
	if err != nil {
		h.writeDecisionError(w, err, "approve")
		return
	}

	response.Success(w, http.StatusOK, "Appointment approved successfully", appointment)
}

func (h *AppointmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := parseAppointmentID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	req, ok := h.decodeDecision(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Reject(r.Context(), appointmentID, req)
	if err != nil {
		h.writeDecisionError(w, err, "reject")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rejected", appointment)
}

func (h *AppointmentHandler) CompleteEncounter(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := parseAppointmentID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.CompleteEncounter(r.Context(), appointmentID)
	if err != nil {
		h.writeDecisionError(w, err, "complete")
		return
	}

	response.Success(w, http.StatusOK, "Encounter marked as completed", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := parseAppointmentID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Appointment does not belong to you")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListMine(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// decodeDecision reads an optional decision body. An empty body is fine;
// a present but malformed one is not.
func (h *AppointmentHandler) decodeDecision(w http.ResponseWriter, r *http.Request) (*dto.DecideAppointmentRequest, bool) {
	var req dto.DecideAppointmentRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return nil, false
		}
		if err := h.validator.Validate(&req); err != nil {
			response.ValidationError(w, h.validator.FormatValidationErrors(err))
			return nil, false
		}
	}
	return &req, true
}

func (h *AppointmentHandler) writeDecisionError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrAppointmentNotOwned):
		response.Forbidden(w, "Appointment does not belong to you")
	case errors.Is(err, entity.ErrInvalidTransition):
		response.Conflict(w, "Appointment is not in a state that allows this action")
	case errors.Is(err, entity.ErrAppointmentTerminal):
		response.Conflict(w, "Appointment is already in a terminal state")
	default:
		response.InternalServerError(w, "Failed to "+action+" appointment")
	}
}

func parseAppointmentID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
