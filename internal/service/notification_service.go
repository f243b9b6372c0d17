package service

import (
	"context"
	"encoding/json"
	"time"

	"telemed-booking/internal/domain/entity"
	"telemed-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventChannel is the Redis channel appointment lifecycle events are
// published on for downstream consumers (mail, reminders, dashboards).
const EventChannel = "appointments:events"

const notifyTimeout = 5 * time.Second

// NotificationService emits appointment lifecycle events: one persisted
// appointment_event row plus one fire-and-forget publish on the Redis event
// channel. Delivery is best-effort; callers never block on it and failures
// are logged, not returned.
type NotificationService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	eventRepo   repository.AppointmentEventRepository
}

func NewNotificationService(
	db *gorm.DB,
	redisClient *redis.Client,
	log *logrus.Logger,
	eventRepo repository.AppointmentEventRepository,
) *NotificationService {
	return &NotificationService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		eventRepo:   eventRepo,
	}
}

type eventMessage struct {
	EventType     string      `json:"event_type"`
	AppointmentID uuid.UUID   `json:"appointment_id"`
	ActorID       *uuid.UUID  `json:"actor_id,omitempty"`
	Payload       entity.JSON `json:"payload,omitempty"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// Notify records and publishes a lifecycle event in a detached goroutine with
// its own timeout, so a slow store or broker never delays the request that
// triggered the event.
func (s *NotificationService) Notify(appointmentID uuid.UUID, actorID *uuid.UUID, eventType string, payload entity.JSON) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		event := &entity.AppointmentEvent{
			AppointmentID: appointmentID,
			ActorID:       actorID,
			EventType:     eventType,
			Payload:       payload,
		}
		if err := s.eventRepo.Create(s.db.WithContext(ctx), event); err != nil {
			s.log.Warnf("Failed to persist %s event for appointment %s: %+v", eventType, appointmentID, err)
		}

		message, err := json.Marshal(eventMessage{
			EventType:     eventType,
			AppointmentID: appointmentID,
			ActorID:       actorID,
			Payload:       payload,
			OccurredAt:    time.Now().UTC(),
		})
		if err != nil {
			s.log.Warnf("Failed to marshal %s event for appointment %s: %+v", eventType, appointmentID, err)
			return
		}

		if err := s.redisClient.Publish(ctx, EventChannel, message).Err(); err != nil {
			s.log.Warnf("Failed to publish %s event for appointment %s: %+v", eventType, appointmentID, err)
		}
	}()
}
