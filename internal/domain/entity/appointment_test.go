package entity_test

import (
	"errors"
	"testing"

	"telemed-booking/internal/domain/entity"
)

func pendingAppointment() *entity.Appointment {
	return &entity.Appointment{Status: entity.AppointmentStatusPendingPayment}
}

func TestApprove(t *testing.T) {
	a := pendingAppointment()

	if err := a.Approve(42); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if a.Status != entity.AppointmentStatusApproved {
		t.Errorf("status = %s, want approved", a.Status)
	}
	if a.WindowID == nil || *a.WindowID != 42 {
		t.Error("Approve() should re-attach the window")
	}

	// Approving twice is not a valid transition.
	if err := a.Approve(42); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("second Approve() error = %v, want %v", err, entity.ErrInvalidTransition)
	}
}

func TestReject(t *testing.T) {
	a := pendingAppointment()

	if err := a.Reject(); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if a.Status != entity.AppointmentStatusRejected {
		t.Errorf("status = %s, want rejected", a.Status)
	}
	if !a.IsTerminal() {
		t.Error("rejected appointment should be terminal")
	}

	// Rejected is terminal: nothing moves it again.
	if err := a.Approve(1); !errors.Is(err, entity.ErrAppointmentTerminal) {
		t.Errorf("Approve() after reject error = %v, want %v", err, entity.ErrAppointmentTerminal)
	}
	if err := a.MarkPaid(); !errors.Is(err, entity.ErrAppointmentTerminal) {
		t.Errorf("MarkPaid() after reject error = %v, want %v", err, entity.ErrAppointmentTerminal)
	}
}

func TestMarkPaid(t *testing.T) {
	tests := []struct {
		name    string
		status  entity.AppointmentStatus
		wantErr error
	}{
		{"from pending payment", entity.AppointmentStatusPendingPayment, nil},
		{"from approved", entity.AppointmentStatusApproved, nil},
		{"from rejected", entity.AppointmentStatusRejected, entity.ErrAppointmentTerminal},
		{"from cancelled", entity.AppointmentStatusCancelled, entity.ErrAppointmentTerminal},
		{"from completed", entity.AppointmentStatusCompleted, entity.ErrAppointmentTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &entity.Appointment{Status: tt.status}
			err := a.MarkPaid()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MarkPaid() error = %v, want %v", err, tt.wantErr)
				}
				if a.PaymentSettled {
					t.Error("failed MarkPaid() must not set PaymentSettled")
				}
				return
			}
			if err != nil {
				t.Fatalf("MarkPaid() error = %v", err)
			}
			if a.Status != entity.AppointmentStatusCompleted {
				t.Errorf("status = %s, want completed", a.Status)
			}
			if !a.PaymentSettled {
				t.Error("MarkPaid() should set PaymentSettled")
			}
		})
	}
}

func TestCompleteEncounterIndependentOfPayment(t *testing.T) {
	// The encounter can be recorded before payment settles.
	a := pendingAppointment()
	if err := a.CompleteEncounter(); err != nil {
		t.Fatalf("CompleteEncounter() error = %v", err)
	}
	if !a.EncounterCompleted {
		t.Error("CompleteEncounter() should set the flag")
	}
	if a.PaymentSettled {
		t.Error("CompleteEncounter() must not touch PaymentSettled")
	}
	if a.Status != entity.AppointmentStatusPendingPayment {
		t.Errorf("status = %s, encounter completion must not change it", a.Status)
	}

	// And after payment as well.
	if err := a.MarkPaid(); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !a.EncounterCompleted || !a.PaymentSettled {
		t.Error("both flags should survive settlement")
	}
}

func TestCompleteEncounterTerminal(t *testing.T) {
	for _, status := range []entity.AppointmentStatus{
		entity.AppointmentStatusRejected,
		entity.AppointmentStatusCancelled,
	} {
		a := &entity.Appointment{Status: status}
		if err := a.CompleteEncounter(); !errors.Is(err, entity.ErrAppointmentTerminal) {
			t.Errorf("CompleteEncounter() on %s error = %v, want %v", status, err, entity.ErrAppointmentTerminal)
		}
	}
}

func TestIsLive(t *testing.T) {
	for _, tt := range []struct {
		status entity.AppointmentStatus
		want   bool
	}{
		{entity.AppointmentStatusPendingPayment, true},
		{entity.AppointmentStatusApproved, true},
		{entity.AppointmentStatusRejected, true},
		{entity.AppointmentStatusCompleted, true},
		{entity.AppointmentStatusCancelled, false},
	} {
		a := &entity.Appointment{Status: tt.status}
		if got := a.IsLive(); got != tt.want {
			t.Errorf("IsLive(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
