package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Grid
	r.HandleFunc("/api/grid", deps.CalendarHandler.GetGrid).Methods("GET")
	r.HandleFunc("/api/grid/position", deps.CalendarHandler.ResolvePosition).Methods("POST")

	// Calendar
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/slot", deps.CalendarHandler.CreateEventAtSlot).Methods("POST")
	r.HandleFunc("/api/calendar/schedule", deps.CalendarHandler.ScheduleEvent).Methods("POST")
	r.HandleFunc("/api/calendar/layout", deps.CalendarHandler.GetLayout).Methods("GET")
	r.HandleFunc("/api/calendar/export.ics", deps.IcsHandler.ExportWeek).Methods("GET")
	r.HandleFunc("/api/calendar/event/{eventUid}", deps.CalendarHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/calendar/event/{eventUid}", deps.CalendarHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/calendar/event/{eventUid}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")

	// Gestures
	r.HandleFunc("/api/calendar/event/{eventUid}/gesture", deps.GestureHandler.BeginGesture).Methods("POST")
	r.HandleFunc("/api/gesture/{sessionId}", deps.GestureHandler.UpdateGesture).Methods("PATCH")
	r.HandleFunc("/api/gesture/{sessionId}/end", deps.GestureHandler.EndGesture).Methods("POST")
	r.HandleFunc("/api/gesture/{sessionId}", deps.GestureHandler.CancelGesture).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/weekly", deps.StatsHandler.GetStats).Methods("GET")
}
