package grid

import "math"

// Move applies a drag to the placement captured at drag start. delta is the pointer
// movement since drag start and pointer the current absolute pointer position. Only
// delta.Y moves the event in time; the day column follows pointer.X.
//
// The second result is false when the pointer is off the grid. The caller must then
// revert to origin, which is returned unchanged.
func Move(origin Placement, delta Point, pointer Point, geo Geometry) (Placement, bool) {
	if !IsWithinBounds(pointer.X, pointer.Y, geo) {
		return origin, false
	}
	offset := TimeToOffsetPx(origin.StartTime, geo) + delta.Y
	return Placement{
		StartTime: OffsetPxToTime(offset, geo),
		DayIndex:  XPosToDayIndex(pointer.X, geo),
	}, true
}

// ResizeStart drags the top edge of event by deltaY pixels while the end stays fixed.
// The new start cannot pass end - MinDurationMinutes. When snapping would still leave
// less than MinDurationMinutes the resize is rejected and event is returned unchanged.
func ResizeStart(event Event, deltaY float64, geo Geometry) (Event, bool) {
	end := event.endMinutes()
	limit := minutesToOffsetPx(end-MinDurationMinutes, geo)
	offset := math.Min(TimeToOffsetPx(event.StartTime, geo)+deltaY, limit)

	start := OffsetPxToTime(offset, geo)
	duration := end - start.Minutes()
	if duration < MinDurationMinutes {
		return event, false
	}
	event.StartTime = start
	event.DurationMinutes = duration
	return event, true
}

// ResizeEnd drags the bottom edge of event by deltaY pixels. The delta is converted at
// the grid's hour height, which is one minute per pixel on a 60px grid. The result is
// rounded to whole minutes and never shorter than MinDurationMinutes.
func ResizeEnd(event Event, deltaY float64, geo Geometry) Event {
	deltaMinutes := deltaY * MinutesPerHour / geo.HourHeightPx
	duration := int(math.Floor(float64(event.DurationMinutes) + deltaMinutes + 0.5))
	event.DurationMinutes = max(MinDurationMinutes, duration)
	return event
}
