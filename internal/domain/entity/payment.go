package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

var ErrPaymentAlreadySettled = errors.New("payment has already been settled")

// Payment is tied 1:1 to an appointment. The amount is copied from the
// doctor's consultation fee when the appointment is booked and is immutable
// afterwards.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:payment_status;not null;default:'pending';index" json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsPaid checks if the payment has been settled
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// Settle moves the payment from pending to paid and stamps the settlement
// time. Settling twice fails; the caller never produces a duplicate
// completion.
func (p *Payment) Settle(now time.Time) error {
	if p.IsPaid() {
		return ErrPaymentAlreadySettled
	}
	p.Status = PaymentStatusPaid
	p.PaidAt = &now
	return nil
}
