package handler

import (
	"errors"
	"net/http"

	"telemed-booking/internal/domain/entity"
	"telemed-booking/internal/usecase"
	"telemed-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
	}
}

func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paymentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payment ID", nil)
		return
	}

	appointment, err := h.paymentUsecase.Settle(r.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Payment does not belong to you")
		case errors.Is(err, entity.ErrPaymentAlreadySettled):
			response.Conflict(w, "Payment has already been settled")
		case errors.Is(err, entity.ErrAppointmentTerminal):
			response.Conflict(w, "Appointment can no longer be paid for")
		default:
			response.InternalServerError(w, "Failed to settle payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment settled successfully", appointment)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paymentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payment ID", nil)
		return
	}

	payment, err := h.paymentUsecase.GetPayment(r.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Payment does not belong to you")
		default:
			response.InternalServerError(w, "Failed to get payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment retrieved successfully", payment)
}
