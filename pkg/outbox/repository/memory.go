package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sakashimaa/shop-api/pkg/outbox/domain"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryOutboxRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*domain.OutboxEvent
}

func NewMemoryOutboxRepository() worker.OutboxRepository {
	return &memoryOutboxRepo{events: make(map[primitive.ObjectID]*domain.OutboxEvent)}
}

func (r *memoryOutboxRepo) SaveOutboxEvent(_ context.Context, event *domain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.Id = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	stored := *event
	r.events[event.Id] = &stored
	return nil
}

func (r *memoryOutboxRepo) GetUnpublishedEvents(_ context.Context, batchSize int) ([]*domain.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*domain.OutboxEvent
	for _, e := range r.events {
		if e.PublishedAt == nil && e.Attempts < maxAttempts {
			cp := *e
			res = append(res, &cp)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})

	if len(res) > batchSize {
		res = res[:batchSize]
	}
	return res, nil
}

func (r *memoryOutboxRepo) MarkEventPublished(_ context.Context, eventID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.events[eventID]; ok {
		now := time.Now().UTC()
		e.PublishedAt = &now
		e.LastError = nil
	}
	return nil
}

func (r *memoryOutboxRepo) MarkEventFailed(_ context.Context, eventID primitive.ObjectID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.events[eventID]; ok {
		e.PublishedAt = nil
		e.LastError = &errMsg
		e.Attempts++
	}
	return nil
}
