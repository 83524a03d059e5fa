package gesture

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/studygrid/internal/event_bus"
	"github.com/klokku/studygrid/internal/utils"
	"github.com/klokku/studygrid/pkg/grid"
	log "github.com/sirupsen/logrus"
)

// Tracker keeps the active gesture sessions. At most one session exists per event.
// Proposals are computed by the grid package; committed changes are published on the
// event bus for the event owner to apply.
type Tracker struct {
	mu         sync.Mutex
	geo        grid.Geometry
	sessions   map[string]*Session // session id -> session
	byEvent    map[string]string   // event id -> session id
	eventBus   *event_bus.EventBus
	clock      utils.Clock
	staleAfter time.Duration
}

// NewTracker creates a Tracker. A session without updates for staleAfter may be replaced
// by a new gesture on the same event; zero disables expiry.
func NewTracker(geo grid.Geometry, eventBus *event_bus.EventBus, clock utils.Clock, staleAfter time.Duration) *Tracker {
	return &Tracker{
		geo:        geo,
		sessions:   make(map[string]*Session),
		byEvent:    make(map[string]string),
		eventBus:   eventBus,
		clock:      clock,
		staleAfter: staleAfter,
	}
}

// Begin captures event as the origin of a new gesture. It fails with ErrGestureInProgress
// while another fresh session exists for the same event.
func (t *Tracker) Begin(ctx context.Context, kind Kind, event grid.Event, pointer grid.Point) (Session, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Session{}, err
	}

	t.mu.Lock()
	now := t.clock.Now()
	var replaced *Session
	if activeId, ok := t.byEvent[event.ID]; ok {
		active := t.sessions[activeId]
		if !t.isStale(active, now) {
			t.mu.Unlock()
			return Session{}, fmt.Errorf("%w: session %s", ErrGestureInProgress, activeId)
		}
		t.remove(active)
		replaced = active
	}
	session := &Session{
		ID:           uuid.NewString(),
		Kind:         kind,
		Origin:       event,
		StartPointer: pointer,
		Current:      event,
		Accepted:     true,
		StartedAt:    now,
		UpdatedAt:    now,
	}
	t.sessions[session.ID] = session
	t.byEvent[event.ID] = session.ID
	t.mu.Unlock()

	if replaced != nil {
		log.Infof("replacing stale %s gesture %s on event %s", replaced.Kind, replaced.ID, event.ID)
		if err := t.abandon(ctx, *replaced); err != nil {
			log.Errorf("failed to revert stale gesture %s: %v", replaced.ID, err)
		}
	}
	log.Debugf("began %s gesture %s on event %s", kind, session.ID, event.ID)
	return *session, nil
}

// Update computes the proposal for the current pointer position. Accepted drag proposals
// are published as previews only. Accepted resize proposals are committed right away, the
// latest call wins.
func (t *Tracker) Update(ctx context.Context, sessionId string, pointer grid.Point) (Change, error) {
	t.mu.Lock()
	session, ok := t.sessions[sessionId]
	if !ok {
		t.mu.Unlock()
		return Change{}, ErrSessionNotFound
	}
	proposed, accepted := session.propose(pointer, t.geo)
	session.Current = proposed
	session.Accepted = accepted
	session.UpdatedAt = t.clock.Now()
	snapshot := *session
	t.mu.Unlock()

	change := Change{SessionID: snapshot.ID, Kind: snapshot.Kind, Event: proposed, Accepted: accepted}
	if !accepted {
		return change, nil
	}
	if snapshot.Kind.IsResize() {
		if err := t.publish(ctx, event_bus.GestureChangeCommitted, snapshot, proposed); err != nil {
			return change, fmt.Errorf("failed to commit resize: %w", err)
		}
		return change, nil
	}
	if err := t.publish(ctx, event_bus.GestureChangePreviewed, snapshot, proposed); err != nil {
		return change, fmt.Errorf("failed to preview drag: %w", err)
	}
	return change, nil
}

// End finishes the gesture with the pointer at its final position. A drag is committed
// when the pointer is on the grid and reverted to its origin otherwise. Resizes always
// commit their latest accepted value.
func (t *Tracker) End(ctx context.Context, sessionId string, pointer grid.Point) (Result, error) {
	t.mu.Lock()
	session, ok := t.sessions[sessionId]
	if !ok {
		t.mu.Unlock()
		return Result{}, ErrSessionNotFound
	}
	proposed, accepted := session.propose(pointer, t.geo)
	if accepted {
		session.Current = proposed
	}
	session.Accepted = accepted
	t.remove(session)
	snapshot := *session
	t.mu.Unlock()

	if snapshot.Kind == Drag && !accepted {
		log.Debugf("drag %s ended off the grid, reverting event %s", snapshot.ID, snapshot.Origin.ID)
		if err := t.publish(ctx, event_bus.GestureChangeReverted, snapshot, snapshot.Origin); err != nil {
			return Result{}, fmt.Errorf("failed to revert drag: %w", err)
		}
		return Result{SessionID: snapshot.ID, Outcome: Reverted, Event: snapshot.Origin}, nil
	}

	if err := t.publish(ctx, event_bus.GestureChangeCommitted, snapshot, snapshot.Current); err != nil {
		return Result{}, fmt.Errorf("failed to commit %s: %w", snapshot.Kind, err)
	}
	log.Debugf("%s %s committed event %s at day %d %s for %d minutes", snapshot.Kind, snapshot.ID,
		snapshot.Current.ID, snapshot.Current.DayIndex, snapshot.Current.StartTime, snapshot.Current.DurationMinutes)
	return Result{SessionID: snapshot.ID, Outcome: Committed, Event: snapshot.Current}, nil
}

// Cancel abandons the gesture. A drag reverts to its origin. Resize updates were already
// applied and stay committed.
func (t *Tracker) Cancel(ctx context.Context, sessionId string) (Result, error) {
	t.mu.Lock()
	session, ok := t.sessions[sessionId]
	if !ok {
		t.mu.Unlock()
		return Result{}, ErrSessionNotFound
	}
	t.remove(session)
	snapshot := *session
	t.mu.Unlock()

	if err := t.abandon(ctx, snapshot); err != nil {
		return Result{}, err
	}
	if snapshot.Kind == Drag {
		return Result{SessionID: snapshot.ID, Outcome: Reverted, Event: snapshot.Origin}, nil
	}
	return Result{SessionID: snapshot.ID, Outcome: Committed, Event: snapshot.Current}, nil
}

// ExpireStale drops every session without updates for longer than the stale timeout and
// returns how many were dropped.
func (t *Tracker) ExpireStale(ctx context.Context) int {
	t.mu.Lock()
	now := t.clock.Now()
	var expired []Session
	for _, session := range t.sessions {
		if t.isStale(session, now) {
			t.remove(session)
			expired = append(expired, *session)
		}
	}
	t.mu.Unlock()

	for _, session := range expired {
		if err := t.abandon(ctx, session); err != nil {
			log.Errorf("failed to revert expired gesture %s: %v", session.ID, err)
		}
	}
	if len(expired) > 0 {
		log.Infof("expired %d stale gesture(s)", len(expired))
	}
	return len(expired)
}

func (t *Tracker) Get(sessionId string) (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	session, ok := t.sessions[sessionId]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// Active lists the open sessions, oldest first.
func (t *Tracker) Active() []Session {
	t.mu.Lock()
	sessions := make([]Session, 0, len(t.sessions))
	for _, session := range t.sessions {
		sessions = append(sessions, *session)
	}
	t.mu.Unlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions
}

func (t *Tracker) isStale(session *Session, now time.Time) bool {
	return t.staleAfter > 0 && now.Sub(session.UpdatedAt) > t.staleAfter
}

// remove must be called with t.mu held.
func (t *Tracker) remove(session *Session) {
	delete(t.sessions, session.ID)
	if t.byEvent[session.Origin.ID] == session.ID {
		delete(t.byEvent, session.Origin.ID)
	}
}

func (t *Tracker) abandon(ctx context.Context, session Session) error {
	if session.Kind != Drag {
		return nil
	}
	return t.publish(ctx, event_bus.GestureChangeReverted, session, session.Origin)
}

func (t *Tracker) publish(ctx context.Context, eventType event_bus.EventType, session Session, event grid.Event) error {
	if t.eventBus == nil {
		return nil
	}
	return t.eventBus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.CalendarEventChanged{
		SessionID:     session.ID,
		Gesture:       string(session.Kind),
		Event:         event,
		PlacementOnly: session.Kind == Drag,
	}))
}
