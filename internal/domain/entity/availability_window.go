package entity

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange     = errors.New("window end time must be after start time")
	ErrDegenerateWindow = errors.New("window cannot fit a single slot")
	ErrOutsideWindow    = errors.New("requested time is outside the window")
)

// DefaultSlotFloor is the minimum slot duration when no configured floor is
// supplied.
const DefaultSlotFloor = 10 * time.Minute

// AvailabilityWindow represents a doctor's working hours for a single calendar
// date, with a maximum patient capacity. Slots are derived from the window on
// every query and never stored, so they can never drift from the window's
// current definition after an edit.
type AvailabilityWindow struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_windows_doctor_date" json:"doctor_id"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_windows_doctor_date" json:"date"`
	StartTime   string    `gorm:"type:time;not null" json:"start_time"` // Format: HH:MM
	EndTime     string    `gorm:"type:time;not null" json:"end_time"`   // Format: HH:MM
	Capacity    int       `gorm:"not null" json:"capacity"`
	Approved    bool      `gorm:"not null;default:false;index" json:"approved"`
	SessionLink string    `gorm:"type:text" json:"session_link,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}

// StartAt returns the window start as an absolute timestamp on the window date.
func (w *AvailabilityWindow) StartAt() time.Time {
	return w.clockOnDate(w.StartTime)
}

// EndAt returns the window end as an absolute timestamp on the window date.
func (w *AvailabilityWindow) EndAt() time.Time {
	return w.clockOnDate(w.EndTime)
}

func (w *AvailabilityWindow) clockOnDate(clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}
	}
	return time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, w.Date.Location())
}

// Span returns the total length of the window.
func (w *AvailabilityWindow) Span() time.Duration {
	return w.EndAt().Sub(w.StartAt())
}

// Validate checks the window definition against the slot floor.
func (w *AvailabilityWindow) Validate(floor time.Duration) error {
	if _, err := time.Parse("15:04", w.StartTime); err != nil {
		return ErrInvalidRange
	}
	if _, err := time.Parse("15:04", w.EndTime); err != nil {
		return ErrInvalidRange
	}
	if !w.EndAt().After(w.StartAt()) {
		return ErrInvalidRange
	}
	_, err := w.SlotDuration(floor)
	return err
}

// SlotDuration computes the derived slot length:
// max(floor, span/capacity), where floor is the configured minimum.
func (w *AvailabilityWindow) SlotDuration(floor time.Duration) (time.Duration, error) {
	if floor <= 0 {
		floor = DefaultSlotFloor
	}
	span := w.Span()
	if span < time.Minute || w.Capacity <= 0 {
		return 0, ErrDegenerateWindow
	}
	duration := span / time.Duration(w.Capacity)
	if duration < floor {
		duration = floor
	}
	if duration > span {
		// A window shorter than one floor-length slot has no bookable slots.
		return 0, ErrDegenerateWindow
	}
	return duration, nil
}

// Slots derives the ordered sequence of bookable slot start times. The
// sequence is finite, strictly increasing and recomputed from the window
// alone; a trailing remainder shorter than one slot produces no extra slot.
func (w *AvailabilityWindow) Slots(floor time.Duration) ([]time.Time, error) {
	duration, err := w.SlotDuration(floor)
	if err != nil {
		return nil, err
	}

	end := w.EndAt()
	slots := make([]time.Time, 0, w.Capacity)
	for current := w.StartAt(); !current.Add(duration).After(end); current = current.Add(duration) {
		slots = append(slots, current)
	}
	return slots, nil
}

// NearestSlot snaps a requested timestamp to the canonical slot boundary.
// Clients may submit a timestamp visually close to, but not exactly on, a
// boundary; this method is the single source of truth for the slot timestamp.
func (w *AvailabilityWindow) NearestSlot(requested time.Time, floor time.Duration) (time.Time, error) {
	start := w.StartAt()
	end := w.EndAt()
	if requested.Before(start) || !requested.Before(end) {
		return time.Time{}, ErrOutsideWindow
	}

	duration, err := w.SlotDuration(floor)
	if err != nil {
		return time.Time{}, err
	}

	index := int(math.Round(float64(requested.Sub(start)) / float64(duration)))
	slot := start.Add(time.Duration(index) * duration)

	// A request inside the trailing remainder can round past the last slot.
	if slot.Add(duration).After(end) {
		slot = slot.Add(-duration)
	}
	return slot, nil
}

// ApplyEdit updates the window definition and clears the approval flag.
// Re-approval is required before new bookings can reference the window.
func (w *AvailabilityWindow) ApplyEdit(startTime, endTime string, capacity int, sessionLink string, floor time.Duration) error {
	edited := *w
	edited.StartTime = startTime
	edited.EndTime = endTime
	edited.Capacity = capacity

	if err := edited.Validate(floor); err != nil {
		return err
	}

	w.StartTime = startTime
	w.EndTime = endTime
	w.Capacity = capacity
	w.SessionLink = sessionLink
	w.Approved = false
	return nil
}
