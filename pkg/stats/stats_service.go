package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/klokku/studygrid/pkg/calendar"
	"github.com/klokku/studygrid/pkg/grid"
	log "github.com/sirupsen/logrus"
)

type EventsReader interface {
	GetEvents(ctx context.Context, day *int) ([]calendar.Event, error)
}

type StatsService interface {
	WeeklySummary(ctx context.Context) (StatsSummary, error)
}

type StatsServiceImpl struct {
	events      EventsReader
	dailyTarget time.Duration
}

func NewStatsServiceImpl(events EventsReader, dailyTarget time.Duration) *StatsServiceImpl {
	return &StatsServiceImpl{events: events, dailyTarget: dailyTarget}
}

// WeeklySummary totals the planned minutes per day column and per subject next to the
// daily target. Every day of the week is present, also when nothing is planned on it.
func (s *StatsServiceImpl) WeeklySummary(ctx context.Context) (StatsSummary, error) {
	events, err := s.events.GetEvents(ctx, nil)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("failed to get events: %w", err)
	}
	log.Tracef("Events for summary: %v", events)

	byDay := make([][]calendar.Event, grid.DaysPerWeek)
	for _, event := range events {
		if event.DayIndex < 0 || event.DayIndex >= grid.DaysPerWeek {
			log.Warnf("skipping event %s with day index %d", event.UID, event.DayIndex)
			continue
		}
		byDay[event.DayIndex] = append(byDay[event.DayIndex], event)
	}

	summary := StatsSummary{Days: make([]DailyStats, 0, grid.DaysPerWeek)}
	for day, dayEvents := range byDay {
		subjects := prepareStatsBySubject(dayEvents)
		total := time.Duration(0)
		for _, subject := range subjects {
			total += subject.Duration
		}
		summary.Days = append(summary.Days, DailyStats{
			DayIndex:   day,
			Weekday:    WeekdayOf(day),
			Subjects:   subjects,
			TotalTime:  total,
			TargetTime: s.dailyTarget,
		})
		summary.TotalTime += total
		summary.TargetTime += s.dailyTarget
	}
	summary.Subjects = prepareStatsBySubject(events)
	log.Debugf("weekly summary: %d subjects, %v planned", len(summary.Subjects), summary.TotalTime)
	return summary, nil
}

func prepareStatsBySubject(events []calendar.Event) []SubjectStats {
	bySubject := make(map[string]*SubjectStats)
	for _, event := range events {
		name := event.Subject
		if name == "" {
			name = calendar.DefaultSubject
		}
		subject, ok := bySubject[name]
		if !ok {
			subject = &SubjectStats{Subject: name, Color: event.Color}
			bySubject[name] = subject
		}
		subject.Sessions++
		subject.Duration += time.Duration(event.DurationMinutes) * time.Minute
	}

	subjects := make([]SubjectStats, 0, len(bySubject))
	for _, subject := range bySubject {
		subjects = append(subjects, *subject)
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].Subject < subjects[j].Subject
	})
	return subjects
}
