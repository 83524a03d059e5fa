package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/studygrid/internal/event_bus"
	"github.com/klokku/studygrid/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T) (*Service, *event_bus.EventBus, context.Context) {
	t.Helper()
	bus := event_bus.NewEventBus()
	service := NewService(NewRepository(), grid.DefaultGeometry(), bus)
	return service, bus, context.Background()
}

func studySession(title string, start grid.TimeOfDay, duration int, day int) Event {
	return Event{Title: title, Color: "#8b5cf6", StartTime: start, DurationMinutes: duration, DayIndex: day}
}

func TestService_AddEvent(t *testing.T) {
	s, _, ctx := setupServiceTest(t)

	added, err := s.AddEvent(ctx, studySession("React Hooks", grid.TimeOfDay{Hour: 9}, 90, 0))

	require.NoError(t, err)
	assert.NotEmpty(t, added.UID)
	stored, err := s.GetEvent(ctx, added.UID)
	require.NoError(t, err)
	assert.Equal(t, added, stored)
}

func TestService_AddEvent_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		event Event
	}{
		{"missing title", studySession(" ", grid.TimeOfDay{Hour: 9}, 30, 0)},
		{"too short", studySession("Quiz", grid.TimeOfDay{Hour: 9}, 10, 0)},
		{"day out of range", studySession("Quiz", grid.TimeOfDay{Hour: 9}, 30, 7)},
		{"invalid start", studySession("Quiz", grid.TimeOfDay{Hour: 9, Minute: 60}, 30, 1)},
		{"unknown type", Event{Title: "Quiz", Type: "exam", StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 30}},
		{"unknown difficulty", Event{Title: "Quiz", Difficulty: "Extreme", StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 30}},
		{"unknown priority", Event{Title: "Quiz", Priority: "Urgent", StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 30}},
		{"negative progress", Event{Title: "Quiz", Progress: -1, StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 30}},
		{"color name", Event{Title: "Quiz", Color: "purple", StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 30}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _, ctx := setupServiceTest(t)

			_, err := s.AddEvent(ctx, tc.event)

			assert.ErrorIs(t, err, ErrInvalidEvent)
			events, err := s.GetEvents(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}

func TestService_AddEvent_Defaults(t *testing.T) {
	s, _, ctx := setupServiceTest(t)

	added, err := s.AddEvent(ctx, Event{Title: "Quiz prep", Type: TypeDeadline, StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 30})

	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, added.Subject)
	assert.Equal(t, DifficultyMedium, added.Difficulty)
	assert.Equal(t, PriorityMedium, added.Priority)
	assert.Equal(t, "from-red-300/80 to-red-400/80", added.Color)
	assert.Equal(t, "⏰", added.Icon)
}

func TestService_ScheduleEvent(t *testing.T) {
	s, _, ctx := setupServiceTest(t)

	added, err := s.ScheduleEvent(ctx, ScheduleRequest{
		Title:      "Weekend revision",
		Type:       TypeSession,
		Subject:    "Biology",
		Difficulty: DifficultyEasy,
		Date:       time.Date(2025, time.January, 19, 0, 0, 0, 0, time.UTC),
		Start:      grid.TimeOfDay{Hour: 10, Minute: 30},
		End:        grid.TimeOfDay{Hour: 12},
	})

	require.NoError(t, err)
	assert.Equal(t, 6, added.DayIndex)
	assert.Equal(t, 90, added.DurationMinutes)
	assert.Equal(t, "Biology", added.Subject)
	assert.Equal(t, PriorityMedium, added.Priority)
}

func TestService_ScheduleEvent_EndNotAfterStart(t *testing.T) {
	s, _, ctx := setupServiceTest(t)

	_, err := s.ScheduleEvent(ctx, ScheduleRequest{
		Title:      "Backwards",
		Type:       TypeTask,
		Difficulty: DifficultyEasy,
		Date:       time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC),
		Start:      grid.TimeOfDay{Hour: 12},
		End:        grid.TimeOfDay{Hour: 11},
	})

	assert.ErrorIs(t, err, ErrInvalidEvent)
	events, _ := s.GetEvents(ctx, nil)
	assert.Empty(t, events)
}

func TestDayIndexOf(t *testing.T) {
	monday := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, DayIndexOf(monday.AddDate(0, 0, i)))
	}
}

func TestService_GetEvents_SortedAndFilteredByDay(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	for _, e := range []Event{
		studySession("Afternoon", grid.TimeOfDay{Hour: 14}, 60, 1),
		studySession("Tuesday morning", grid.TimeOfDay{Hour: 9}, 60, 1),
		studySession("Monday", grid.TimeOfDay{Hour: 16}, 60, 0),
	} {
		_, err := s.AddEvent(ctx, e)
		require.NoError(t, err)
	}

	all, err := s.GetEvents(ctx, nil)
	require.NoError(t, err)
	titles := make([]string, 0, len(all))
	for _, e := range all {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Monday", "Tuesday morning", "Afternoon"}, titles)

	day := 1
	tuesday, err := s.GetEvents(ctx, &day)
	require.NoError(t, err)
	assert.Len(t, tuesday, 2)
}

func TestService_ModifyEvent(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("SQL joins", grid.TimeOfDay{Hour: 10}, 45, 2))
	require.NoError(t, err)

	added.Title = "SQL window functions"
	added.DurationMinutes = 60
	modified, err := s.ModifyEvent(ctx, added)

	require.NoError(t, err)
	assert.Equal(t, "SQL window functions", modified.Title)
	stored, _ := s.GetEvent(ctx, added.UID)
	assert.Equal(t, 60, stored.DurationMinutes)
}

func TestService_ModifyEvent_NotFound(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	event := studySession("Ghost", grid.TimeOfDay{Hour: 10}, 45, 2)
	event.UID = "missing"

	_, err := s.ModifyEvent(ctx, event)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestService_ApplyChange_KeepsTitleAndColor(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("Flutter widgets", grid.TimeOfDay{Hour: 9}, 90, 0))
	require.NoError(t, err)

	updated, err := s.ApplyChange(ctx, grid.Event{
		ID:              added.UID,
		StartTime:       grid.TimeOfDay{Hour: 10, Minute: 15},
		DurationMinutes: 90,
		DayIndex:        2,
	})

	require.NoError(t, err)
	assert.Equal(t, "Flutter widgets", updated.Title)
	assert.Equal(t, "#8b5cf6", updated.Color)
	assert.Equal(t, grid.TimeOfDay{Hour: 10, Minute: 15}, updated.StartTime)
	assert.Equal(t, 2, updated.DayIndex)
}

func TestService_ApplyChange_RejectsInvalidAndLeavesEventUntouched(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("Flutter widgets", grid.TimeOfDay{Hour: 9}, 90, 0))
	require.NoError(t, err)

	_, err = s.ApplyChange(ctx, grid.Event{ID: added.UID, StartTime: grid.TimeOfDay{Hour: 9}, DurationMinutes: 5})

	assert.ErrorIs(t, err, ErrInvalidEvent)
	stored, _ := s.GetEvent(ctx, added.UID)
	assert.Equal(t, added, stored)
}

func TestService_AppliesCommittedGestureChanges(t *testing.T) {
	s, bus, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("ML basics", grid.TimeOfDay{Hour: 9}, 60, 0))
	require.NoError(t, err)

	err = bus.Publish(event_bus.NewEvent(ctx, event_bus.GestureChangeCommitted, event_bus.CalendarEventChanged{
		SessionID: "session-1",
		Gesture:   "drag",
		Event:     grid.Event{ID: added.UID, StartTime: grid.TimeOfDay{Hour: 13}, DurationMinutes: 60, DayIndex: 4},
	}))

	require.NoError(t, err)
	stored, _ := s.GetEvent(ctx, added.UID)
	assert.Equal(t, grid.TimeOfDay{Hour: 13}, stored.StartTime)
	assert.Equal(t, 4, stored.DayIndex)
}

func TestService_CommittedDragKeepsStoredDuration(t *testing.T) {
	s, bus, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("ML basics", grid.TimeOfDay{Hour: 9}, 60, 0))
	require.NoError(t, err)

	// the duration is edited while the drag is still in flight
	added.DurationMinutes = 120
	_, err = s.ModifyEvent(ctx, added)
	require.NoError(t, err)

	err = bus.Publish(event_bus.NewEvent(ctx, event_bus.GestureChangeCommitted, event_bus.CalendarEventChanged{
		SessionID:     "session-1",
		Gesture:       "drag",
		Event:         grid.Event{ID: added.UID, StartTime: grid.TimeOfDay{Hour: 13}, DurationMinutes: 60, DayIndex: 4},
		PlacementOnly: true,
	}))

	require.NoError(t, err)
	stored, _ := s.GetEvent(ctx, added.UID)
	assert.Equal(t, grid.TimeOfDay{Hour: 13}, stored.StartTime)
	assert.Equal(t, 4, stored.DayIndex)
	assert.Equal(t, 120, stored.DurationMinutes)
}

func TestService_Layout_ShowsDragPreviewUntilReverted(t *testing.T) {
	s, bus, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("Algorithms", grid.TimeOfDay{Hour: 9}, 60, 0))
	require.NoError(t, err)
	change := event_bus.CalendarEventChanged{
		SessionID:     "session-1",
		Gesture:       "drag",
		Event:         grid.Event{ID: added.UID, StartTime: grid.TimeOfDay{Hour: 11}, DurationMinutes: 60, DayIndex: 2},
		PlacementOnly: true,
	}

	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.GestureChangePreviewed, change)))

	laidOut, err := s.Layout(ctx)
	require.NoError(t, err)
	require.Len(t, laidOut, 1)
	assert.True(t, laidOut[0].Previewing)
	assert.Equal(t, 2, laidOut[0].Event.DayIndex)
	assert.Equal(t, grid.Box{TopPx: 180, HeightPx: 60}, laidOut[0].Box)
	stored, _ := s.GetEvent(ctx, added.UID)
	assert.Equal(t, 0, stored.DayIndex)

	change.Event = added.GridEvent()
	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.GestureChangeReverted, change)))

	laidOut, err = s.Layout(ctx)
	require.NoError(t, err)
	assert.False(t, laidOut[0].Previewing)
	assert.Equal(t, 0, laidOut[0].Event.DayIndex)
	assert.Equal(t, grid.Box{TopPx: 60, HeightPx: 60}, laidOut[0].Box)
}

func TestService_Seed_IsAllOrNothing(t *testing.T) {
	s, _, ctx := setupServiceTest(t)

	_, err := s.Seed(ctx, []Event{
		studySession("Valid", grid.TimeOfDay{Hour: 9}, 60, 0),
		studySession("Invalid", grid.TimeOfDay{Hour: 9}, 5, 0),
	})

	assert.ErrorIs(t, err, ErrInvalidEvent)
	events, _ := s.GetEvents(ctx, nil)
	assert.Empty(t, events)

	seeded, err := s.Seed(ctx, []Event{studySession("Valid", grid.TimeOfDay{Hour: 9}, 60, 0)})
	require.NoError(t, err)
	assert.Len(t, seeded, 1)
}

func TestService_Layout(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	first, err := s.AddEvent(ctx, studySession("Node.js", grid.TimeOfDay{Hour: 9}, 90, 0))
	require.NoError(t, err)
	second, err := s.AddEvent(ctx, studySession("Overlapping", grid.TimeOfDay{Hour: 10}, 30, 0))
	require.NoError(t, err)
	_, err = s.AddEvent(ctx, studySession("Quick review", grid.TimeOfDay{Hour: 15}, 15, 1))
	require.NoError(t, err)

	laidOut, err := s.Layout(ctx)

	require.NoError(t, err)
	require.Len(t, laidOut, 3)
	assert.Equal(t, grid.Box{TopPx: 60, HeightPx: 90}, laidOut[0].Box)
	assert.Equal(t, []string{second.UID}, laidOut[0].Overlaps)
	assert.Equal(t, []string{first.UID}, laidOut[1].Overlaps)
	assert.Equal(t, grid.Box{TopPx: 420, HeightPx: 30}, laidOut[2].Box)
	assert.Empty(t, laidOut[2].Overlaps)
}

func TestService_DeleteEvent(t *testing.T) {
	s, _, ctx := setupServiceTest(t)
	added, err := s.AddEvent(ctx, studySession("UI/UX", grid.TimeOfDay{Hour: 11}, 30, 3))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, added.UID))

	_, err = s.GetEvent(ctx, added.UID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, s.DeleteEvent(ctx, added.UID), ErrEventNotFound)
}
