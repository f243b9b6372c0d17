package entity_test

import (
	"errors"
	"testing"
	"time"

	"telemed-booking/internal/domain/entity"
)

func window(t *testing.T, start, end string, capacity int) *entity.AvailabilityWindow {
	t.Helper()
	return &entity.AvailabilityWindow{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	}
}

func TestSlotDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		capacity int
		want     time.Duration
		wantErr  error
	}{
		{"span divided by capacity", "09:00", "10:00", 3, 20 * time.Minute, nil},
		{"floor wins over tiny quotient", "09:00", "10:00", 30, 10 * time.Minute, nil},
		{"capacity one takes whole span", "09:00", "12:00", 1, 3 * time.Hour, nil},
		{"uneven quotient below floor rounds up", "09:00", "10:00", 7, 10 * time.Minute, nil},
		{"window shorter than floor", "09:00", "09:05", 1, 0, entity.ErrDegenerateWindow},
		{"zero capacity", "09:00", "10:00", 0, 0, entity.ErrDegenerateWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := window(t, tt.start, tt.end, tt.capacity)
			got, err := w.SlotDuration(0)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SlotDuration() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SlotDuration() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SlotDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlots(t *testing.T) {
	w := window(t, "09:00", "10:00", 3)

	slots, err := w.Slots(0)
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}

	want := []string{"09:00", "09:20", "09:40"}
	if len(slots) != len(want) {
		t.Fatalf("Slots() returned %d slots, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		if got := s.Format("15:04"); got != want[i] {
			t.Errorf("slot[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestSlotsTrailingRemainderDropped(t *testing.T) {
	// 50 minutes with 25-minute slots: two slots fit, no partial third.
	w := window(t, "09:00", "09:50", 2)

	slots, err := w.Slots(0)
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("Slots() returned %d slots, want 2", len(slots))
	}
	last := slots[len(slots)-1]
	if last.Format("15:04") != "09:25" {
		t.Errorf("last slot = %s, want 09:25", last.Format("15:04"))
	}
}

func TestSlotsProperties(t *testing.T) {
	windows := []*entity.AvailabilityWindow{
		window(t, "08:00", "17:00", 20),
		window(t, "09:00", "09:45", 3),
		window(t, "13:30", "16:00", 5),
		window(t, "09:00", "09:15", 10),
	}

	for _, w := range windows {
		slots, err := w.Slots(0)
		if err != nil {
			t.Fatalf("Slots(%s-%s cap=%d) error = %v", w.StartTime, w.EndTime, w.Capacity, err)
		}
		if len(slots) == 0 {
			t.Fatalf("Slots(%s-%s cap=%d) returned no slots", w.StartTime, w.EndTime, w.Capacity)
		}
		duration, _ := w.SlotDuration(0)
		for i, s := range slots {
			if i > 0 && !s.After(slots[i-1]) {
				t.Errorf("slots not strictly increasing at %d", i)
			}
			if s.Before(w.StartAt()) || s.Add(duration).After(w.EndAt()) {
				t.Errorf("slot %s does not fit inside window %s-%s", s.Format("15:04"), w.StartTime, w.EndTime)
			}
		}
	}
}

func TestSlotsShortWindowHighCapacity(t *testing.T) {
	// The floor caps how many slots a short window can yield, regardless of
	// the declared capacity.
	w := window(t, "09:00", "09:15", 10)

	slots, err := w.Slots(0)
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("Slots() returned %d slots, want 1", len(slots))
	}
	if slots[0].Format("15:04") != "09:00" {
		t.Errorf("slot = %s, want 09:00", slots[0].Format("15:04"))
	}
}

func TestNearestSlot(t *testing.T) {
	w := window(t, "09:00", "10:00", 3) // 20-minute slots
	day := w.Date

	at := func(hour, minute int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		requested time.Time
		want      string
		wantErr   error
	}{
		{"exact boundary", at(9, 20), "09:20", nil},
		{"just after boundary snaps back", at(9, 5), "09:00", nil},
		{"just before boundary snaps forward", at(9, 18), "09:20", nil},
		{"inside trailing stretch clamps to last slot", at(9, 55), "09:40", nil},
		{"before window", at(8, 59), "", entity.ErrOutsideWindow},
		{"at window end", at(10, 0), "", entity.ErrOutsideWindow},
		{"after window", at(11, 0), "", entity.ErrOutsideWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.NearestSlot(tt.requested, 0)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NearestSlot() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NearestSlot() error = %v", err)
			}
			if got.Format("15:04") != tt.want {
				t.Errorf("NearestSlot(%s) = %s, want %s", tt.requested.Format("15:04"), got.Format("15:04"), tt.want)
			}
		})
	}
}

func TestNearestSlotAlwaysCanonical(t *testing.T) {
	w := window(t, "09:00", "10:00", 3)
	slots, err := w.Slots(0)
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}

	canonical := make(map[int64]bool, len(slots))
	for _, s := range slots {
		canonical[s.Unix()] = true
	}

	// Every in-window minute must snap to one of the derived slots.
	for minute := 0; minute < 60; minute++ {
		requested := w.StartAt().Add(time.Duration(minute) * time.Minute)
		if !requested.Before(w.EndAt()) {
			break
		}
		slot, err := w.NearestSlot(requested, 0)
		if err != nil {
			t.Fatalf("NearestSlot(+%dm) error = %v", minute, err)
		}
		if !canonical[slot.Unix()] {
			t.Errorf("NearestSlot(+%dm) = %s is not a derived slot", minute, slot.Format("15:04"))
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		cap     int
		wantErr error
	}{
		{"valid", "09:00", "17:00", 8, nil},
		{"end before start", "17:00", "09:00", 8, entity.ErrInvalidRange},
		{"end equals start", "09:00", "09:00", 8, entity.ErrInvalidRange},
		{"bad clock format", "9am", "17:00", 8, entity.ErrInvalidRange},
		{"unfittable", "09:00", "09:05", 1, entity.ErrDegenerateWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := window(t, tt.start, tt.end, tt.cap)
			err := w.Validate(0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEdit(t *testing.T) {
	w := window(t, "09:00", "12:00", 6)
	w.Approved = true

	if err := w.ApplyEdit("10:00", "13:00", 3, "https://meet.example.com/x", 0); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	if w.Approved {
		t.Error("ApplyEdit() should clear the approval flag")
	}
	if w.StartTime != "10:00" || w.EndTime != "13:00" || w.Capacity != 3 {
		t.Errorf("ApplyEdit() did not apply fields: %s-%s cap=%d", w.StartTime, w.EndTime, w.Capacity)
	}
}

func TestApplyEditRejectsInvalid(t *testing.T) {
	w := window(t, "09:00", "12:00", 6)
	w.Approved = true

	err := w.ApplyEdit("12:00", "09:00", 6, "", 0)
	if !errors.Is(err, entity.ErrInvalidRange) {
		t.Fatalf("ApplyEdit() error = %v, want %v", err, entity.ErrInvalidRange)
	}
	// A rejected edit must leave the window untouched.
	if !w.Approved || w.StartTime != "09:00" || w.EndTime != "12:00" {
		t.Error("ApplyEdit() mutated the window on a failed edit")
	}
}
