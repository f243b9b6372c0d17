package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"telemed-booking/internal/delivery/dto"
	"telemed-booking/internal/domain/entity"
	"telemed-booking/internal/usecase"
	"telemed-booking/pkg/response"
	"telemed-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) UpsertWindows(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertWindowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	windows, err := h.scheduleUsecase.UpsertWindows(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDateFormat):
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case errors.Is(err, usecase.ErrInvalidDateOrder):
			response.Error(w, http.StatusBadRequest, "End date must not be before start date", nil)
		case errors.Is(err, entity.ErrInvalidRange):
			response.Error(w, http.StatusBadRequest, "End time must be after start time", nil)
		case errors.Is(err, entity.ErrDegenerateWindow):
			response.Error(w, http.StatusBadRequest, "Window cannot hold any slot with the given capacity", nil)
		default:
			response.InternalServerError(w, "Failed to create availability windows")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Availability windows created successfully", windows)
}

func (h *ScheduleHandler) EditWindow(w http.ResponseWriter, r *http.Request) {
	windowID, err := parseWindowID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid window ID", nil)
		return
	}

	var req dto.EditWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.scheduleUsecase.EditWindow(r.Context(), windowID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWindowNotFound):
			response.NotFound(w, "Availability window not found")
		case errors.Is(err, usecase.ErrWindowNotOwned):
			response.Forbidden(w, "Window does not belong to you")
		case errors.Is(err, entity.ErrInvalidRange):
			response.Error(w, http.StatusBadRequest, "End time must be after start time", nil)
		case errors.Is(err, entity.ErrDegenerateWindow):
			response.Error(w, http.StatusBadRequest, "Window cannot hold any slot with the given capacity", nil)
		default:
			response.InternalServerError(w, "Failed to update availability window")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability window updated successfully", window)
}

func (h *ScheduleHandler) ApproveWindow(w http.ResponseWriter, r *http.Request) {
	windowID, err := parseWindowID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid window ID", nil)
		return
	}

	window, err := h.scheduleUsecase.ApproveWindow(r.Context(), windowID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWindowNotFound):
			response.NotFound(w, "Availability window not found")
		default:
			response.InternalServerError(w, "Failed to approve availability window")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability window approved successfully", window)
}

func (h *ScheduleHandler) RemoveWindow(w http.ResponseWriter, r *http.Request) {
	windowID, err := parseWindowID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid window ID", nil)
		return
	}

	err = h.scheduleUsecase.RemoveWindow(r.Context(), windowID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWindowNotFound):
			response.NotFound(w, "Availability window not found")
		case errors.Is(err, usecase.ErrWindowNotOwned):
			response.Forbidden(w, "Window does not belong to you")
		case errors.Is(err, usecase.ErrWindowHasDependents):
			response.Conflict(w, "Window has appointments and cannot be removed")
		default:
			response.InternalServerError(w, "Failed to remove availability window")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability window removed successfully", nil)
}

func (h *ScheduleHandler) GetWindow(w http.ResponseWriter, r *http.Request) {
	windowID, err := parseWindowID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid window ID", nil)
		return
	}

	window, err := h.scheduleUsecase.GetWindow(r.Context(), windowID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWindowNotFound):
			response.NotFound(w, "Availability window not found")
		default:
			response.InternalServerError(w, "Failed to get availability window")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability window retrieved successfully", window)
}

func (h *ScheduleHandler) ListDoctorWindows(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	filter := &entity.WindowFilter{
		StartAt:      r.URL.Query().Get("start_date"),
		EndAt:        r.URL.Query().Get("end_date"),
		ApprovedOnly: r.URL.Query().Get("approved") == "true",
	}

	windows, err := h.scheduleUsecase.ListWindowsByDoctor(r.Context(), doctorID, filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list availability windows")
		return
	}

	response.Success(w, http.StatusOK, "Availability windows retrieved successfully", windows)
}

func parseWindowID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
