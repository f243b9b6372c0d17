package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotHeld is returned when another request currently holds the same
// (doctor, slot) pair on a different instance.
var ErrSlotHeld = errors.New("slot is currently being booked")

const (
	redisHoldKeyPrefix = "booking:hold:"

	// Interval for cleaning up stale slot mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// SlotHold is a short-lived distributed hold on a (doctor, slot) pair. It
// protects the check-then-insert section across instances; the partial unique
// index on appointments remains the last line of defense.
type SlotHold interface {
	Acquire(ctx context.Context, doctorID uuid.UUID, slot time.Time) (bool, error)
	Release(ctx context.Context, doctorID uuid.UUID, slot time.Time) error
}

type redisSlotHold struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotHold(client *redis.Client, ttl time.Duration) SlotHold {
	return &redisSlotHold{client: client, ttl: ttl}
}

func holdKey(doctorID uuid.UUID, slot time.Time) string {
	return fmt.Sprintf("%s%s:%d", redisHoldKeyPrefix, doctorID, slot.Unix())
}

func (h *redisSlotHold) Acquire(ctx context.Context, doctorID uuid.UUID, slot time.Time) (bool, error) {
	return h.client.SetNX(ctx, holdKey(doctorID, slot), 1, h.ttl).Result()
}

func (h *redisSlotHold) Release(ctx context.Context, doctorID uuid.UUID, slot time.Time) error {
	return h.client.Del(ctx, holdKey(doctorID, slot)).Err()
}

// BookingGuard serializes the exclusivity check and insert for one
// (doctor, slot) pair. Within a process a keyed mutex serializes callers;
// across processes the SlotHold does. Two concurrent booking attempts for the
// same nearest slot therefore never both pass the check.
type BookingGuard struct {
	hold SlotHold
	log  *logrus.Logger

	// Per-slot mutex for in-process serialization
	slotMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewBookingGuard creates a BookingGuard. A nil hold disables the distributed
// half of the guard (single-instance deployments, tests). Starts a background
// goroutine for mutex cleanup; call Stop() during graceful shutdown.
func NewBookingGuard(hold SlotHold, log *logrus.Logger) *BookingGuard {
	g := &BookingGuard{
		hold:     hold,
		log:      log,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupMutexMapLoop()

	return g
}

// Stop gracefully shuts down the guard. Safe to call multiple times.
func (g *BookingGuard) Stop() {
	if g.stopped.CompareAndSwap(false, true) {
		close(g.stopChan)
		g.wg.Wait()
	}
}

// WithSlotLock runs fn while holding exclusive rights to the (doctor, slot)
// pair. Returns ErrSlotHeld when another instance holds the pair.
func (g *BookingGuard) WithSlotLock(ctx context.Context, doctorID uuid.UUID, slot time.Time, fn func(ctx context.Context) error) error {
	mt := g.getSlotMutex(doctorID, slot)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if g.hold != nil {
		acquired, err := g.hold.Acquire(ctx, doctorID, slot)
		if err != nil {
			// Redis being down must not take bookings down with it; the
			// unique index still guards correctness.
			g.log.Warnf("Slot hold unavailable for doctor %s at %s: %+v", doctorID, slot, err)
		} else if !acquired {
			return ErrSlotHeld
		} else {
			defer func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := g.hold.Release(releaseCtx, doctorID, slot); err != nil {
					g.log.Warnf("Failed to release slot hold for doctor %s at %s: %+v", doctorID, slot, err)
				}
			}()
		}
	}

	return fn(ctx)
}

// getSlotMutex returns the mutex for a specific (doctor, slot) pair
func (g *BookingGuard) getSlotMutex(doctorID uuid.UUID, slot time.Time) *mutexWithTimestamp {
	key := fmt.Sprintf("%s:%d", doctorID, slot.Unix())
	mt, _ := g.slotMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (g *BookingGuard) cleanupMutexMapLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety.
// The lastUsed check happens inside the lock so nobody can refresh the
// timestamp between the check and the delete.
func (g *BookingGuard) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	g.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				g.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		g.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
}
