package entity_test

import (
	"errors"
	"testing"
	"time"

	"telemed-booking/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func TestSettle(t *testing.T) {
	p := &entity.Payment{
		Amount: decimal.NewFromInt(150000),
		Status: entity.PaymentStatusPending,
	}
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	if err := p.Settle(now); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !p.IsPaid() {
		t.Error("Settle() should mark the payment paid")
	}
	if p.PaidAt == nil || !p.PaidAt.Equal(now) {
		t.Errorf("PaidAt = %v, want %v", p.PaidAt, now)
	}
}

func TestSettleTwice(t *testing.T) {
	p := &entity.Payment{Status: entity.PaymentStatusPending}
	first := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	if err := p.Settle(first); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	err := p.Settle(first.Add(time.Hour))
	if !errors.Is(err, entity.ErrPaymentAlreadySettled) {
		t.Fatalf("second Settle() error = %v, want %v", err, entity.ErrPaymentAlreadySettled)
	}
	// The original settlement time must survive the failed retry.
	if !p.PaidAt.Equal(first) {
		t.Errorf("PaidAt = %v, want %v", p.PaidAt, first)
	}
}
