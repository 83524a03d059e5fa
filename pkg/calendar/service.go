package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/studygrid/internal/event_bus"
	"github.com/klokku/studygrid/pkg/grid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("calendar event not found")
var ErrInvalidEvent = errors.New("invalid calendar event")

type Service struct {
	repo     Repository
	geo      grid.Geometry
	eventBus *event_bus.EventBus
	previews *previews
}

// NewService creates the calendar service. When eventBus is not nil the service applies
// committed gesture changes published on it and tracks drag previews for Layout.
func NewService(repo Repository, geo grid.Geometry, eventBus *event_bus.EventBus) *Service {
	service := &Service{
		repo:     repo,
		geo:      geo,
		eventBus: eventBus,
		previews: newPreviews(),
	}
	if eventBus != nil {
		service.subscribe(eventBus)
	}
	return service
}

func (s *Service) subscribe(eventBus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.CalendarEventChanged](
		eventBus,
		event_bus.GestureChangePreviewed,
		func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			s.previews.set(e.Data.Event)
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.CalendarEventChanged](
		eventBus,
		event_bus.GestureChangeCommitted,
		func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			log.Debugf("received committed %s change for event %s", e.Data.Gesture, e.Data.Event.ID)
			defer s.previews.drop(e.Data.Event.ID)
			var err error
			if e.Data.PlacementOnly {
				_, err = s.ApplyMove(e.Context(), e.Data.Event.ID, e.Data.Event.Placement())
			} else {
				_, err = s.ApplyChange(e.Context(), e.Data.Event)
			}
			if err != nil {
				log.Errorf("failed to apply %s change to event %s: %v", e.Data.Gesture, e.Data.Event.ID, err)
				return err
			}
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.CalendarEventChanged](
		eventBus,
		event_bus.GestureChangeReverted,
		func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			log.Debugf("discarding preview of event %s after %s %s", e.Data.Event.ID, e.Data.Gesture, e.Data.SessionID)
			s.previews.drop(e.Data.Event.ID)
			return nil
		},
	)
}

func (s *Service) Geometry() grid.Geometry {
	return s.geo
}

// AddEvent stores a new event under a fresh UID. Empty type, subject, difficulty,
// priority, color and icon get their defaults.
func (s *Service) AddEvent(ctx context.Context, event Event) (Event, error) {
	event.UID = uuid.NewString()
	event = event.withDefaults()
	if err := validate(event); err != nil {
		return Event{}, err
	}

	stored, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	log.Debugf("added event %s (%s) on day %d at %s", stored.UID, stored.Title, stored.DayIndex, stored.StartTime)
	return stored, nil
}

// AddEventAtSlot creates the placeholder task added by clicking an empty slot of the grid.
func (s *Service) AddEventAtSlot(ctx context.Context, dayIndex int, start grid.TimeOfDay) (Event, error) {
	return s.AddEvent(ctx, Event{
		Title:           DefaultTitle,
		Type:            TypeTask,
		Subject:         DefaultSubject,
		StartTime:       start,
		DurationMinutes: DefaultDuration,
		DayIndex:        dayIndex,
		Color:           "from-gray-300/80 to-gray-400/80",
	})
}

// ScheduleRequest describes an event by calendar date and wall clock start and end.
type ScheduleRequest struct {
	Title      string
	Type       EventType
	Subject    string
	Difficulty Difficulty
	Date       time.Time
	Start      grid.TimeOfDay
	End        grid.TimeOfDay
}

// ScheduleEvent places the request on the grid: the date selects the day column and the
// duration is the time between start and end, which must be positive.
func (s *Service) ScheduleEvent(ctx context.Context, request ScheduleRequest) (Event, error) {
	if !request.Start.Before(request.End) {
		return Event{}, fmt.Errorf("%w: end time %s must be after start time %s", ErrInvalidEvent, request.End, request.Start)
	}
	return s.AddEvent(ctx, Event{
		Title:           request.Title,
		Type:            request.Type,
		Subject:         request.Subject,
		Difficulty:      request.Difficulty,
		Priority:        PriorityMedium,
		StartTime:       request.Start,
		DurationMinutes: request.End.Minutes() - request.Start.Minutes(),
		DayIndex:        DayIndexOf(request.Date),
	})
}

// Seed adds all events in one transaction. Nothing is added when any event is invalid.
func (s *Service) Seed(ctx context.Context, events []Event) ([]Event, error) {
	added := make([]Event, 0, len(events))
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		txService := &Service{repo: repo, geo: s.geo, previews: s.previews}
		for _, event := range events {
			stored, err := txService.AddEvent(ctx, event)
			if err != nil {
				return fmt.Errorf("failed to seed event %q: %w", event.Title, err)
			}
			added = append(added, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *Service) GetEvent(ctx context.Context, uid string) (Event, error) {
	return s.repo.GetEvent(ctx, uid)
}

// GetEvents lists events, optionally only the ones of a single day column.
func (s *Service) GetEvents(ctx context.Context, day *int) ([]Event, error) {
	events, err := s.repo.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	if day == nil {
		return events, nil
	}
	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		if event.DayIndex == *day {
			filtered = append(filtered, event)
		}
	}
	return filtered, nil
}

func (s *Service) ModifyEvent(ctx context.Context, event Event) (Event, error) {
	event = event.withDefaults()
	if err := validate(event); err != nil {
		return Event{}, err
	}
	updated, err := s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// ApplyChange replaces time, duration and day of the event with change.ID, keeping the
// rest of the event as stored.
func (s *Service) ApplyChange(ctx context.Context, change grid.Event) (Event, error) {
	return s.update(ctx, change.ID, func(current Event) Event {
		return current.WithGridEvent(change)
	})
}

// ApplyMove moves the event to placement and keeps the stored duration.
func (s *Service) ApplyMove(ctx context.Context, uid string, placement grid.Placement) (Event, error) {
	return s.update(ctx, uid, func(current Event) Event {
		return current.WithPlacement(placement)
	})
}

func (s *Service) update(ctx context.Context, uid string, change func(current Event) Event) (Event, error) {
	var updated Event
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		current, err := repo.GetEvent(ctx, uid)
		if err != nil {
			return err
		}
		next := change(current)
		if err := validate(next); err != nil {
			return err
		}
		updated, err = repo.UpdateEvent(ctx, next)
		return err
	})
	if err != nil {
		return Event{}, fmt.Errorf("failed to apply change: %w", err)
	}
	log.Debugf("applied change to event %s: day %d at %s for %d minutes",
		updated.UID, updated.DayIndex, updated.StartTime, updated.DurationMinutes)
	return updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, uid string) error {
	s.previews.drop(uid)
	return s.repo.DeleteEvent(ctx, uid)
}

// Layout returns every event with its box on the grid. An event being dragged is shown
// at its preview placement. Overlapping events are allowed and reported, not rejected.
func (s *Service) Layout(ctx context.Context) ([]LaidOutEvent, error) {
	events, err := s.GetEvents(ctx, nil)
	if err != nil {
		return nil, err
	}
	shown := make([]Event, 0, len(events))
	previewing := make(map[string]bool)
	for _, event := range events {
		if preview, ok := s.previews.get(event.UID); ok {
			event = event.WithPlacement(preview.Placement())
			previewing[event.UID] = true
		}
		shown = append(shown, event)
	}

	laidOut := make([]LaidOutEvent, 0, len(shown))
	for _, event := range shown {
		laidOut = append(laidOut, LaidOutEvent{
			Event:      event,
			Box:        grid.EventGeometry(event.GridEvent(), s.geo),
			Overlaps:   overlapping(event, shown),
			Previewing: previewing[event.UID],
		})
	}
	return laidOut, nil
}

func overlapping(event Event, events []Event) []string {
	var uids []string
	for _, other := range events {
		if other.UID != event.UID && event.GridEvent().Overlaps(other.GridEvent()) {
			uids = append(uids, other.UID)
		}
	}
	return uids
}

func validate(event Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if err := event.GridEvent().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	switch event.Type {
	case TypeTask, TypeSession, TypeDeadline:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
	switch event.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidEvent, event.Difficulty)
	}
	switch event.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidEvent, event.Priority)
	}
	if event.Progress < 0 || event.Progress > 100 {
		return fmt.Errorf("%w: progress must be between 0 and 100, got %d", ErrInvalidEvent, event.Progress)
	}
	if !colorPattern.MatchString(event.Color) {
		return fmt.Errorf("%w: unsupported color %q", ErrInvalidEvent, event.Color)
	}
	return nil
}
