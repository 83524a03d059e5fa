package gesture

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/studygrid/internal/rest"
	"github.com/klokku/studygrid/pkg/calendar"
	"github.com/klokku/studygrid/pkg/grid"
)

type EventReader interface {
	GetEvent(ctx context.Context, uid string) (calendar.Event, error)
}

type PointerDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BeginRequestDTO struct {
	Kind    string     `json:"kind" validate:"required,oneof=drag resize-start resize-end"`
	Pointer PointerDTO `json:"pointer"`
}

type PlacementDTO struct {
	EventUID        string   `json:"eventUid"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	DayIndex        int      `json:"dayIndex"`
	Box             grid.Box `json:"box"`
}

type SessionDTO struct {
	Id     string       `json:"id"`
	Kind   string       `json:"kind"`
	Origin PlacementDTO `json:"origin"`
}

type ChangeDTO struct {
	SessionId string       `json:"sessionId"`
	Accepted  bool         `json:"accepted"`
	Event     PlacementDTO `json:"event"`
}

type ResultDTO struct {
	SessionId string       `json:"sessionId"`
	Outcome   string       `json:"outcome"`
	Event     PlacementDTO `json:"event"`
}

type Handler struct {
	tracker *Tracker
	events  EventReader
	geo     grid.Geometry
}

func NewHandler(tracker *Tracker, events EventReader, geo grid.Geometry) *Handler {
	return &Handler{tracker: tracker, events: events, geo: geo}
}

// BeginGesture godoc
// @Summary Begin a drag or resize gesture
// @Tags Gesture
// @Accept json
// @Produce json
// @Param eventUid path string true "Event UID"
// @Param gesture body BeginRequestDTO true "Gesture kind and pointer position"
// @Success 201 {object} SessionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {string} string "Event not found"
// @Failure 409 {object} rest.ErrorResponse "Another gesture is active"
// @Router /api/calendar/event/{eventUid}/gesture [post]
func (h *Handler) BeginGesture(w http.ResponseWriter, r *http.Request) {
	var request BeginRequestDTO
	if err := rest.DecodeAndValidate(r, &request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid gesture", err.Error())
		return
	}

	event, err := h.events.GetEvent(r.Context(), mux.Vars(r)["eventUid"])
	if err != nil {
		if errors.Is(err, calendar.ErrEventNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	session, err := h.tracker.Begin(r.Context(), Kind(request.Kind), event.GridEvent(), toPoint(request.Pointer))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, SessionDTO{
		Id:     session.ID,
		Kind:   string(session.Kind),
		Origin: h.placementToDTO(session.Origin),
	})
}

// UpdateGesture godoc
// @Summary Move the pointer of an active gesture
// @Description Drag updates return a preview. Resize updates are applied immediately.
// @Tags Gesture
// @Accept json
// @Produce json
// @Param sessionId path string true "Gesture session id"
// @Param pointer body PointerDTO true "Absolute pointer position"
// @Success 200 {object} ChangeDTO
// @Failure 404 {string} string "Session not found"
// @Router /api/gesture/{sessionId} [patch]
func (h *Handler) UpdateGesture(w http.ResponseWriter, r *http.Request) {
	var pointer PointerDTO
	if err := rest.DecodeAndValidate(r, &pointer); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid pointer", err.Error())
		return
	}

	change, err := h.tracker.Update(r.Context(), mux.Vars(r)["sessionId"], toPoint(pointer))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ChangeDTO{
		SessionId: change.SessionID,
		Accepted:  change.Accepted,
		Event:     h.placementToDTO(change.Event),
	})
}

// EndGesture godoc
// @Summary End a gesture
// @Description Commits the gesture, or reverts a drag released outside the grid.
// @Tags Gesture
// @Accept json
// @Produce json
// @Param sessionId path string true "Gesture session id"
// @Param pointer body PointerDTO true "Absolute pointer position"
// @Success 200 {object} ResultDTO
// @Failure 404 {string} string "Session not found"
// @Router /api/gesture/{sessionId}/end [post]
func (h *Handler) EndGesture(w http.ResponseWriter, r *http.Request) {
	var pointer PointerDTO
	if err := rest.DecodeAndValidate(r, &pointer); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid pointer", err.Error())
		return
	}

	result, err := h.tracker.End(r.Context(), mux.Vars(r)["sessionId"], toPoint(pointer))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.resultToDTO(result))
}

func (h *Handler) CancelGesture(w http.ResponseWriter, r *http.Request) {
	result, err := h.tracker.Cancel(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.resultToDTO(result))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrGestureInProgress):
		rest.WriteError(w, http.StatusConflict, "Gesture in progress", err.Error())
	case errors.Is(err, ErrUnknownKind):
		rest.WriteError(w, http.StatusBadRequest, "Invalid gesture", err.Error())
	case errors.Is(err, calendar.ErrInvalidEvent):
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
	case errors.Is(err, calendar.ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) resultToDTO(result Result) ResultDTO {
	return ResultDTO{
		SessionId: result.SessionID,
		Outcome:   string(result.Outcome),
		Event:     h.placementToDTO(result.Event),
	}
}

func (h *Handler) placementToDTO(event grid.Event) PlacementDTO {
	return PlacementDTO{
		EventUID:        event.ID,
		StartTime:       event.StartTime.String(),
		DurationMinutes: event.DurationMinutes,
		DayIndex:        event.DayIndex,
		Box:             grid.EventGeometry(event, h.geo),
	}
}

func toPoint(p PointerDTO) grid.Point {
	return grid.Point{X: p.X, Y: p.Y}
}
