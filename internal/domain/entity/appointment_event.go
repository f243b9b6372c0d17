package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentEvent is a persisted lifecycle event for an appointment. Events
// are written best-effort alongside the notification publish; the booking
// flow never blocks on them.
type AppointmentEvent struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"appointment_id"`
	ActorID       *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	EventType     string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload       JSON       `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AppointmentEvent) TableName() string {
	return "appointment_events"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Appointment lifecycle event types
const (
	EventAppointmentCreated            = "appointment.created"
	EventAppointmentApproved           = "appointment.approved"
	EventAppointmentRejected           = "appointment.rejected"
	EventAppointmentCompleted          = "appointment.completed"
	EventAppointmentEncounterCompleted = "appointment.encounter_completed"
)
