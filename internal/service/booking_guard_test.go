package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"telemed-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newGuard(t *testing.T, hold service.SlotHold) *service.BookingGuard {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	g := service.NewBookingGuard(hold, log)
	t.Cleanup(g.Stop)
	return g
}

// fakeHold grants the hold to the first caller and refuses everyone else
// until released, mimicking SET NX.
type fakeHold struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeHold() *fakeHold {
	return &fakeHold{held: make(map[string]bool)}
}

func (h *fakeHold) key(doctorID uuid.UUID, slot time.Time) string {
	return doctorID.String() + ":" + slot.UTC().Format(time.RFC3339)
}

func (h *fakeHold) Acquire(_ context.Context, doctorID uuid.UUID, slot time.Time) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := h.key(doctorID, slot)
	if h.held[k] {
		return false, nil
	}
	h.held[k] = true
	return true, nil
}

func (h *fakeHold) Release(_ context.Context, doctorID uuid.UUID, slot time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.held, h.key(doctorID, slot))
	return nil
}

func TestWithSlotLockSerializesSameSlot(t *testing.T) {
	g := newGuard(t, nil)

	doctorID := uuid.New()
	slot := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Concurrent check-then-insert attempts on the same slot: the guard must
	// serialize them so exactly one observes a free slot.
	const attempts = 50
	taken := false
	var successes int
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.WithSlotLock(context.Background(), doctorID, slot, func(ctx context.Context) error {
				if taken {
					return errors.New("taken")
				}
				// Widen the race window; without the lock this would let
				// several goroutines past the check.
				time.Sleep(time.Millisecond)
				taken = true
				return nil
			})
			if err == nil {
				// The lock serializes fn, so this counter needs no extra
				// synchronization beyond the WaitGroup below.
				successes++
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("got %d successful bookings for one slot, want exactly 1", successes)
	}
}

func TestWithSlotLockDistinctSlotsDoNotBlock(t *testing.T) {
	g := newGuard(t, nil)

	doctorID := uuid.New()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = g.WithSlotLock(context.Background(), doctorID, base, func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	done := make(chan struct{})
	go func() {
		_ = g.WithSlotLock(context.Background(), doctorID, base.Add(20*time.Minute), func(ctx context.Context) error {
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a different slot should not wait on the first slot's lock")
	}
}

func TestWithSlotLockHeldElsewhere(t *testing.T) {
	hold := newFakeHold()
	g := newGuard(t, hold)

	doctorID := uuid.New()
	slot := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Simulate another instance holding the pair.
	if ok, _ := hold.Acquire(context.Background(), doctorID, slot); !ok {
		t.Fatal("setup: could not pre-acquire hold")
	}

	err := g.WithSlotLock(context.Background(), doctorID, slot, func(ctx context.Context) error {
		t.Error("fn must not run while the hold is taken elsewhere")
		return nil
	})
	if !errors.Is(err, service.ErrSlotHeld) {
		t.Fatalf("WithSlotLock() error = %v, want %v", err, service.ErrSlotHeld)
	}
}

func TestWithSlotLockReleasesHold(t *testing.T) {
	hold := newFakeHold()
	g := newGuard(t, hold)

	doctorID := uuid.New()
	slot := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if err := g.WithSlotLock(context.Background(), doctorID, slot, func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("WithSlotLock() error = %v", err)
	}

	// The hold must be released after fn returns so a later attempt works.
	if err := g.WithSlotLock(context.Background(), doctorID, slot, func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("second WithSlotLock() error = %v", err)
	}
}

func TestWithSlotLockPropagatesFnError(t *testing.T) {
	g := newGuard(t, nil)

	want := errors.New("insert failed")
	err := g.WithSlotLock(context.Background(), uuid.New(), time.Now(), func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("WithSlotLock() error = %v, want %v", err, want)
	}
}
