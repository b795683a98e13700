package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/pkg/events"
	"github.com/bailakids/registration-api/pkg/jobs"
)

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// EventService encodes domain events and hands them to the background queue.
type EventService struct {
	queue  jobEnqueuer
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(queue jobEnqueuer, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{queue: queue, logger: logger, now: time.Now}
}

// Emit queues an event. It never blocks on the broker.
func (s *EventService) Emit(ctx context.Context, eventType string, payload interface{}) error {
	id := uuid.NewString()
	data, err := events.Encode(id, eventType, s.now(), payload)
	if err != nil {
		return err
	}
	return s.queue.Enqueue(jobs.Job{ID: id, Kind: eventType, Payload: data})
}

// EventWorker publishes queued events to the broker.
type EventWorker struct {
	publisher events.Publisher
	subject   string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEventWorker constructs an EventWorker.
func NewEventWorker(publisher events.Publisher, subject string, metrics *MetricsService, logger *zap.Logger) *EventWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventWorker{publisher: publisher, subject: subject, metrics: metrics, logger: logger}
}

// Handle is the jobs.Handler for the events queue. Errors trigger the queue's retry.
func (w *EventWorker) Handle(ctx context.Context, job jobs.Job) error {
	if err := w.publisher.Publish(ctx, w.subject, job.Payload); err != nil {
		w.metrics.RecordEvent("failed")
		return err
	}
	w.metrics.RecordEvent("published")
	w.logger.Debug("event published", zap.String("event_id", job.ID), zap.String("type", job.Kind), zap.Int("attempt", job.Attempt))
	return nil
}
