package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/studygrid/internal/rest"
	"github.com/klokku/studygrid/pkg/grid"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	calendar *Service
}

type EventDTO struct {
	UID             string `json:"uid"`
	Title           string `json:"title" validate:"required,max=200"`
	Type            string `json:"type,omitempty" validate:"omitempty,oneof=task session deadline"`
	Subject         string `json:"subject,omitempty" validate:"max=100"`
	StartTime       string `json:"startTime" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"min=15"`
	DayIndex        int    `json:"dayIndex" validate:"min=0,max=6"`
	Difficulty      string `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	Priority        string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Progress        int    `json:"progress" validate:"min=0,max=100"`
	Completed       bool   `json:"completed"`
	// Color is a hex code or a pair of gradient tokens, e.g. "from-sky-300/80 to-sky-400/80".
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

type LaidOutEventDTO struct {
	EventDTO
	Box        grid.Box `json:"box"`
	Overlaps   []string `json:"overlaps"`
	Previewing bool     `json:"previewing"`
}

type SlotRequestDTO struct {
	DayIndex int    `json:"dayIndex" validate:"min=0,max=6"`
	Time     string `json:"time" validate:"required"`
}

type ScheduleRequestDTO struct {
	Title      string `json:"title" validate:"required,max=200"`
	Date       string `json:"date" validate:"required"`
	StartTime  string `json:"startTime" validate:"required"`
	EndTime    string `json:"endTime" validate:"required"`
	Subject    string `json:"subject,omitempty" validate:"max=100"`
	Difficulty string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Type       string `json:"type" validate:"required,oneof=task session deadline"`
}

type PositionRequestDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PositionDTO struct {
	Time     string `json:"time"`
	DayIndex int    `json:"dayIndex"`
	InBounds bool   `json:"inBounds"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{s}
}

// GetGrid godoc
// @Summary Get grid geometry
// @Tags Calendar
// @Produce json
// @Success 200 {object} grid.Geometry
// @Router /api/grid [get]
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.calendar.Geometry())
}

// ResolvePosition godoc
// @Summary Resolve a pointer position
// @Description Returns the snapped time for the vertical offset y and the day column under x
// @Tags Calendar
// @Accept json
// @Produce json
// @Param position body PositionRequestDTO true "Absolute pointer position"
// @Success 200 {object} PositionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/grid/position [post]
func (h *Handler) ResolvePosition(w http.ResponseWriter, r *http.Request) {
	var position PositionRequestDTO
	if err := rest.DecodeAndValidate(r, &position); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid position", err.Error())
		return
	}
	geo := h.calendar.Geometry()
	rest.WriteJSON(w, http.StatusOK, PositionDTO{
		Time:     grid.OffsetPxToTime(position.Y-geo.GridOriginY, geo).String(),
		DayIndex: grid.XPosToDayIndex(position.X, geo),
		InBounds: grid.IsWithinBounds(position.X, position.Y, geo),
	})
}

// GetEvents godoc
// @Summary List study sessions
// @Tags Calendar
// @Produce json
// @Param day query int false "Day column, Monday=0"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid day"
// @Router /api/calendar/event [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	var day *int
	if dayString := r.URL.Query().Get("day"); dayString != "" {
		parsed, err := strconv.Atoi(dayString)
		if err != nil || parsed < 0 || parsed >= grid.DaysPerWeek {
			rest.WriteError(w, http.StatusBadRequest, "Invalid day", "day must be a number between 0 and 6")
			return
		}
		day = &parsed
	}

	events, err := h.calendar.GetEvents(r.Context(), day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetLayout godoc
// @Summary Study sessions with their rendering boxes
// @Tags Calendar
// @Produce json
// @Success 200 {array} LaidOutEventDTO
// @Router /api/calendar/layout [get]
func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	laidOut, err := h.calendar.Layout(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]LaidOutEventDTO, 0, len(laidOut))
	for _, e := range laidOut {
		overlaps := e.Overlaps
		if overlaps == nil {
			overlaps = []string{}
		}
		dtos = append(dtos, LaidOutEventDTO{
			EventDTO:   eventToDTO(e.Event),
			Box:        e.Box,
			Overlaps:   overlaps,
			Previewing: e.Previewing,
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.calendar.GetEvent(r.Context(), mux.Vars(r)["eventUid"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(event))
}

// CreateEvent godoc
// @Summary Create a study session
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body EventDTO true "Study session"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/event [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	added, err := h.calendar.AddEvent(r.Context(), event)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(added))
}

// CreateEventAtSlot godoc
// @Summary Add a placeholder task to an empty slot
// @Description Creates a 60 minute "New Task" starting at the given time in the given day column
// @Tags Calendar
// @Accept json
// @Produce json
// @Param slot body SlotRequestDTO true "Day column and start time"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/slot [post]
func (h *Handler) CreateEventAtSlot(w http.ResponseWriter, r *http.Request) {
	var slot SlotRequestDTO
	if err := rest.DecodeAndValidate(r, &slot); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid slot", err.Error())
		return
	}
	start, err := grid.ParseTimeOfDay(slot.Time)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time format", "time must be in HH:MM format")
		return
	}

	added, err := h.calendar.AddEventAtSlot(r.Context(), slot.DayIndex, start)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(added))
}

// ScheduleEvent godoc
// @Summary Schedule an event by date and time range
// @Description The date selects the day column, Monday=0. End time must be after start time.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body ScheduleRequestDTO true "Title, date, time range and kind"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/schedule [post]
func (h *Handler) ScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var requestDTO ScheduleRequestDTO
	if err := rest.DecodeAndValidate(r, &requestDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
		return
	}
	date, err := time.Parse(time.DateOnly, requestDTO.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
		return
	}
	start, startErr := grid.ParseTimeOfDay(requestDTO.StartTime)
	end, endErr := grid.ParseTimeOfDay(requestDTO.EndTime)
	if startErr != nil || endErr != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time format", "startTime and endTime must be in HH:MM format")
		return
	}

	added, err := h.calendar.ScheduleEvent(r.Context(), ScheduleRequest{
		Title:      requestDTO.Title,
		Type:       EventType(requestDTO.Type),
		Subject:    requestDTO.Subject,
		Difficulty: Difficulty(requestDTO.Difficulty),
		Date:       date,
		Start:      start,
		End:        end,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(added))
}

// UpdateEvent godoc
// @Summary Update a study session
// @Tags Calendar
// @Accept json
// @Produce json
// @Param eventUid path string true "Event UID"
// @Param event body EventDTO true "Study session"
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {string} string "Event not found"
// @Router /api/calendar/event/{eventUid} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	event.UID = mux.Vars(r)["eventUid"]

	modified, err := h.calendar.ModifyEvent(r.Context(), event)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(modified))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventUid := mux.Vars(r)["eventUid"]
	if err := h.calendar.DeleteEvent(r.Context(), eventUid); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Debugf("deleted event %s", eventUid)
	w.WriteHeader(http.StatusNoContent)
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (Event, bool) {
	var eventDTO EventDTO
	if err := rest.DecodeAndValidate(r, &eventDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
		return Event{}, false
	}
	event, err := dtoToEvent(eventDTO)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid startTime format", "startTime must be in HH:MM format")
		return Event{}, false
	}
	return event, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidEvent):
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		UID:             e.UID,
		Title:           e.Title,
		Type:            string(e.Type),
		Subject:         e.Subject,
		StartTime:       e.StartTime.String(),
		DurationMinutes: e.DurationMinutes,
		DayIndex:        e.DayIndex,
		Difficulty:      string(e.Difficulty),
		Priority:        string(e.Priority),
		Progress:        e.Progress,
		Completed:       e.Completed,
		Color:           e.Color,
		Icon:            e.Icon,
		Description:     e.Description,
	}
}

func dtoToEvent(e EventDTO) (Event, error) {
	startTime, err := grid.ParseTimeOfDay(e.StartTime)
	if err != nil {
		return Event{}, err
	}
	return Event{
		UID:             e.UID,
		Title:           e.Title,
		Type:            EventType(e.Type),
		Subject:         e.Subject,
		StartTime:       startTime,
		DurationMinutes: e.DurationMinutes,
		DayIndex:        e.DayIndex,
		Difficulty:      Difficulty(e.Difficulty),
		Priority:        Priority(e.Priority),
		Progress:        e.Progress,
		Completed:       e.Completed,
		Color:           e.Color,
		Icon:            e.Icon,
		Description:     e.Description,
	}, nil
}
