package ics_export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/klokku/studygrid/internal/utils"
	"github.com/klokku/studygrid/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// Exporter renders the weekly grid as an iCalendar feed.
type Exporter struct {
	productId string
	clock     utils.Clock
}

func NewExporter(productId string, clock utils.Clock) *Exporter {
	return &Exporter{productId: productId, clock: clock}
}

// Export places every event on the concrete date of its day column within week. Wall
// clock times are interpreted in loc. Events that fail validation are skipped.
func (e *Exporter) Export(events []calendar.Event, week WeekNumber, loc *time.Location) (string, error) {
	if loc == nil {
		return "", fmt.Errorf("failed to export week %s: no location", week)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.productId)
	cal.SetXWRCalName(fmt.Sprintf("Study plan %s", week))
	cal.SetXWRTimezone(loc.String())

	stamp := e.clock.Now()
	exported := 0
	for _, event := range events {
		if err := event.GridEvent().Validate(); err != nil {
			log.Warnf("skipping event %s in export: %v", event.UID, err)
			continue
		}
		start := startOf(event, week, loc)

		vevent := cal.AddEvent(fmt.Sprintf("%s-%s@studygrid", event.UID, week))
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(start)
		vevent.SetEndAt(start.Add(time.Duration(event.DurationMinutes) * time.Minute))
		vevent.SetSummary(event.Title)
		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
		if event.Subject != "" {
			vevent.AddCategory(event.Subject)
		}
		// COLOR takes a single CSS color, gradient tokens are left out
		if strings.HasPrefix(event.Color, "#") {
			vevent.SetProperty(ical.ComponentPropertyColor, event.Color)
		}
		exported++
	}

	log.Debugf("exported %d of %d events for week %s", exported, len(events), week)
	return cal.Serialize(), nil
}

func startOf(event calendar.Event, week WeekNumber, loc *time.Location) time.Time {
	day := week.Day(event.DayIndex, loc)
	return time.Date(day.Year(), day.Month(), day.Day(),
		event.StartTime.Hour, event.StartTime.Minute, 0, 0, loc)
}
