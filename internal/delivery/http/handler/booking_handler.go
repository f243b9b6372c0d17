package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/domain/entity"
	"telemed-booking/internal/usecase"
	"telemed-booking/pkg/response"
	"telemed-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	slots, err := h.bookingUsecase.ListAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDateFormat):
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case errors.Is(err, usecase.ErrNoApprovedSchedule):
			response.NotFound(w, "Doctor has no approved schedule for this date")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.Book(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient profile not found")
		case errors.Is(err, usecase.ErrNoApprovedSchedule):
			response.NotFound(w, "Doctor has no approved schedule for this date")
		case errors.Is(err, entity.ErrOutsideWindow):
			response.Error(w, http.StatusBadRequest, "Requested time falls outside the doctor's schedule", nil)
		case errors.Is(err, usecase.ErrSlotTaken):
			response.Conflict(w, "Slot has just been taken, please pick another")
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully, awaiting payment", appointment)
}
