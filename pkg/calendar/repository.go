package calendar

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	StoreEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, uid string) (Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, uid string) error
}

// RepositoryImpl keeps events in memory, keyed by UID. Events are never written to disk.
type RepositoryImpl struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	items map[string]Event
}

func NewRepository() *RepositoryImpl {
	return &RepositoryImpl{
		items: make(map[string]Event),
	}
}

// WithTransaction runs fn and restores the previous state when it fails. Transactions
// are serialized with each other.
func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := maps.Clone(r.items)
	r.mu.RUnlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.items = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.UID == "" {
		return Event{}, fmt.Errorf("event uid is required")
	}
	if _, exists := r.items[event.UID]; exists {
		return Event{}, fmt.Errorf("event with uid %s already exists", event.UID)
	}
	r.items[event.UID] = event
	return event, nil
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, uid string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, exists := r.items[uid]
	if !exists {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

// GetEvents returns all events ordered by day, start time and title.
func (r *RepositoryImpl) GetEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	result := make([]Event, 0, len(r.items))
	for _, event := range r.items {
		result = append(result, event)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].DayIndex != result[j].DayIndex {
			return result[i].DayIndex < result[j].DayIndex
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].Title < result[j].Title
	})
	return result, nil
}

// UpdateEvent replaces the stored event with the same UID.
func (r *RepositoryImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[event.UID]; !exists {
		return Event{}, ErrEventNotFound
	}
	r.items[event.UID] = event
	return event, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[uid]; !exists {
		return fmt.Errorf("no event found with uid %s: %w", uid, ErrEventNotFound)
	}
	delete(r.items, uid)
	return nil
}
