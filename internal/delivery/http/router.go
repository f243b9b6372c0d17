package http

import (
	"net/http"

	"telemed-booking/internal/delivery/http/handler"
	"telemed-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	doctorHandler      *handler.DoctorHandler
	scheduleHandler    *handler.ScheduleHandler
	bookingHandler     *handler.BookingHandler
	appointmentHandler *handler.AppointmentHandler
	paymentHandler     *handler.PaymentHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	scheduleHandler *handler.ScheduleHandler,
	bookingHandler *handler.BookingHandler,
	appointmentHandler *handler.AppointmentHandler,
	paymentHandler *handler.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		doctorHandler:      doctorHandler,
		scheduleHandler:    scheduleHandler,
		bookingHandler:     bookingHandler,
		appointmentHandler: appointmentHandler,
		paymentHandler:     paymentHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctor directory (public)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/slots", r.bookingHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/windows", r.scheduleHandler.ListDoctorWindows).Methods(http.MethodGet)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	patient.HandleFunc("/payments/{id}/settle", r.paymentHandler.Settle).Methods(http.MethodPost)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/windows", r.scheduleHandler.UpsertWindows).Methods(http.MethodPost)
	doctor.HandleFunc("/windows/{id}", r.scheduleHandler.EditWindow).Methods(http.MethodPut)
	doctor.HandleFunc("/windows/{id}", r.scheduleHandler.RemoveWindow).Methods(http.MethodDelete)
	doctor.HandleFunc("/appointments/{id}/approve", r.appointmentHandler.Approve).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/reject", r.appointmentHandler.Reject).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/complete-encounter", r.appointmentHandler.CompleteEncounter).Methods(http.MethodPost)

	// Shared authenticated routes (any role)
	authed := api.PathPrefix("").Subrouter()
	authed.Use(r.authMiddleware.Authenticate)
	authed.HandleFunc("/appointments", r.appointmentHandler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	authed.HandleFunc("/payments/{id}", r.paymentHandler.GetPayment).Methods(http.MethodGet)
	authed.HandleFunc("/windows/{id}", r.scheduleHandler.GetWindow).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/windows/{id}/approve", r.scheduleHandler.ApproveWindow).Methods(http.MethodPost)
	admin.HandleFunc("/windows/{id}", r.scheduleHandler.EditWindow).Methods(http.MethodPut)
	admin.HandleFunc("/windows/{id}", r.scheduleHandler.RemoveWindow).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
