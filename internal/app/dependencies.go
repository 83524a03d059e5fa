package app

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/studygrid/internal/config"
	"github.com/klokku/studygrid/internal/event_bus"
	"github.com/klokku/studygrid/internal/utils"
	"github.com/klokku/studygrid/pkg/calendar"
	"github.com/klokku/studygrid/pkg/gesture"
	"github.com/klokku/studygrid/pkg/grid"
	"github.com/klokku/studygrid/pkg/ics_export"
	"github.com/klokku/studygrid/pkg/stats"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Geometry grid.Geometry

	CalendarRepository *calendar.RepositoryImpl
	CalendarService    *calendar.Service
	CalendarHandler    *calendar.Handler

	GestureTracker *gesture.Tracker
	GestureHandler *gesture.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	IcsExporter *ics_export.Exporter
	IcsHandler  *ics_export.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application, clock utils.Clock) (*Dependencies, error) {
	location, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid export timezone %q: %w", cfg.Export.Timezone, err)
	}

	deps := &Dependencies{
		Clock:    clock,
		EventBus: event_bus.NewEventBus(),
		Geometry: cfg.Grid.Geometry(),
	}

	deps.CalendarRepository = calendar.NewRepository()
	deps.CalendarService = calendar.NewService(deps.CalendarRepository, deps.Geometry, deps.EventBus)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.GestureTracker = gesture.NewTracker(deps.Geometry, deps.EventBus, deps.Clock, cfg.Gesture.StaleTimeout)
	deps.GestureHandler = gesture.NewHandler(deps.GestureTracker, deps.CalendarService, deps.Geometry)

	deps.StatsService = stats.NewStatsServiceImpl(deps.CalendarService, cfg.Stats.DailyTarget)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)

	deps.IcsExporter = ics_export.NewExporter(cfg.Export.ProductId, deps.Clock)
	deps.IcsHandler = ics_export.NewHandler(deps.CalendarService, deps.IcsExporter, deps.Clock, location)

	if len(cfg.Seed) > 0 {
		events, err := seedEvents(cfg.Seed)
		if err != nil {
			return nil, err
		}
		added, err := deps.CalendarService.Seed(context.Background(), events)
		if err != nil {
			return nil, fmt.Errorf("failed to seed calendar: %w", err)
		}
		log.Infof("Seeded calendar with %d events", len(added))
	}

	return deps, nil
}

func seedEvents(seed []config.SeedEvent) ([]calendar.Event, error) {
	events := make([]calendar.Event, 0, len(seed))
	for _, s := range seed {
		start, err := grid.ParseTimeOfDay(s.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start of seed event %q: %w", s.Title, err)
		}
		events = append(events, calendar.Event{
			Title:           s.Title,
			Type:            calendar.EventType(s.Type),
			Subject:         s.Subject,
			StartTime:       start,
			DurationMinutes: s.Duration,
			DayIndex:        s.Day,
			Difficulty:      calendar.Difficulty(s.Difficulty),
			Priority:        calendar.Priority(s.Priority),
			Progress:        s.Progress,
			Completed:       s.Completed,
			Color:           s.Color,
			Icon:            s.Icon,
			Description:     s.Description,
		})
	}
	return events, nil
}
