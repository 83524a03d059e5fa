package ics_export

import (
	"context"
	"net/http"
	"time"

	"github.com/klokku/studygrid/internal/rest"
	"github.com/klokku/studygrid/internal/utils"
	"github.com/klokku/studygrid/pkg/calendar"
)

type EventsReader interface {
	GetEvents(ctx context.Context, day *int) ([]calendar.Event, error)
}

type Handler struct {
	events   EventsReader
	exporter *Exporter
	clock    utils.Clock
	location *time.Location
}

func NewHandler(events EventsReader, exporter *Exporter, clock utils.Clock, location *time.Location) *Handler {
	return &Handler{events: events, exporter: exporter, clock: clock, location: location}
}

// ExportWeek godoc
// @Summary Export the weekly study grid as iCalendar
// @Description Without the week parameter the current week is exported.
// @Tags Calendar
// @Produce text/calendar
// @Param week query string false "ISO week, e.g. 2025-W03"
// @Success 200 {string} string "iCalendar feed"
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/export.ics [get]
func (h *Handler) ExportWeek(w http.ResponseWriter, r *http.Request) {
	week := WeekNumberFromDate(h.clock.Now().In(h.location))
	if weekParam := r.URL.Query().Get("week"); weekParam != "" {
		parsed, err := WeekNumberFromString(weekParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid week", err.Error())
			return
		}
		week = parsed
	}

	events, err := h.events.GetEvents(r.Context(), nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	feed, err := h.exporter.Export(events, week, h.location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="study-plan-`+week.String()+`.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
