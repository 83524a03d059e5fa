package grid

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DaysPerWeek is the number of day columns, Monday=0 ... Sunday=6.
	DaysPerWeek = 7
	// MinDurationMinutes is the shortest duration an event can be resized to.
	MinDurationMinutes = 15
)

var ErrInvalidGeometry = errors.New("invalid grid geometry")

// Geometry describes the on-screen week grid. It is supplied by the rendering layer and
// never modified by the engine.
type Geometry struct {
	GridOriginX  float64 `json:"gridOriginX"`
	ColumnWidth  float64 `json:"columnWidth"`
	GridOriginY  float64 `json:"gridOriginY"`
	HourHeightPx float64 `json:"hourHeightPx"`
	StartHour    int     `json:"startHour"`
	EndHour      int     `json:"endHour"`
	SnapMinutes  int     `json:"snapMinutes"`
	// MinHeightPx keeps very short events visible and clickable.
	MinHeightPx float64 `json:"minHeightPx"`
}

// DefaultGeometry returns the 08:00-20:00 grid with 60px hours and 15 minute snapping.
func DefaultGeometry() Geometry {
	return Geometry{
		GridOriginX:  0,
		ColumnWidth:  120,
		GridOriginY:  0,
		HourHeightPx: 60,
		StartHour:    8,
		EndHour:      20,
		SnapMinutes:  15,
		MinHeightPx:  30,
	}
}

// Validate checks that the geometry describes a usable grid.
func (g Geometry) Validate() error {
	if g.ColumnWidth <= 0 {
		return fmt.Errorf("%w: column width must be positive, got %v", ErrInvalidGeometry, g.ColumnWidth)
	}
	if g.HourHeightPx <= 0 {
		return fmt.Errorf("%w: hour height must be positive, got %v", ErrInvalidGeometry, g.HourHeightPx)
	}
	if g.StartHour < 0 || g.EndHour > 23 || g.StartHour >= g.EndHour {
		return fmt.Errorf("%w: visible hours must satisfy 0 <= start < end <= 23, got %d-%d", ErrInvalidGeometry, g.StartHour, g.EndHour)
	}
	if g.SnapMinutes <= 0 || g.SnapMinutes > MinutesPerHour {
		return fmt.Errorf("%w: snap must be in (0,60] minutes, got %d", ErrInvalidGeometry, g.SnapMinutes)
	}
	if g.MinHeightPx < 0 {
		return fmt.Errorf("%w: min height must not be negative, got %v", ErrInvalidGeometry, g.MinHeightPx)
	}
	return nil
}

// Width is the pixel width of all day columns.
func (g Geometry) Width() float64 {
	return DaysPerWeek * g.ColumnWidth
}

// Height is the pixel height of the visible hour range.
func (g Geometry) Height() float64 {
	return float64(g.EndHour-g.StartHour) * g.HourHeightPx
}

// TimeToOffsetPx returns the vertical offset of t from the top of the grid. It does not
// clamp: times outside the visible window yield negative offsets or offsets past Height.
func TimeToOffsetPx(t TimeOfDay, geo Geometry) float64 {
	return minutesToOffsetPx(t.Minutes(), geo)
}

func minutesToOffsetPx(minutes int, geo Geometry) float64 {
	return float64(minutes-geo.StartHour*MinutesPerHour) / MinutesPerHour * geo.HourHeightPx
}

// OffsetPxToTime maps a vertical offset back to a time of day, snapped half-up to the
// nearest SnapMinutes boundary and clamped to [StartHour:00, EndHour:00].
func OffsetPxToTime(yPx float64, geo Geometry) TimeOfDay {
	snap := geo.SnapMinutes
	if snap <= 0 {
		snap = 1
	}
	minutes := yPx * MinutesPerHour / geo.HourHeightPx
	snapped := int(math.Floor(minutes/float64(snap)+0.5)) * snap

	total := geo.StartHour*MinutesPerHour + snapped
	total = clamp(total, geo.StartHour*MinutesPerHour, geo.EndHour*MinutesPerHour)
	return TimeOfDayFromMinutes(total)
}

// XPosToDayIndex returns the day column under xPx, clamped to [0,6].
func XPosToDayIndex(xPx float64, geo Geometry) int {
	if geo.ColumnWidth <= 0 {
		return 0
	}
	column := math.Floor((xPx - geo.GridOriginX) / geo.ColumnWidth)
	if column < 0 {
		return 0
	}
	if column > DaysPerWeek-1 {
		return DaysPerWeek - 1
	}
	return int(column)
}

// IsWithinBounds reports whether the absolute pointer position lies on the grid.
func IsWithinBounds(xPx, yPx float64, geo Geometry) bool {
	x := xPx - geo.GridOriginX
	y := yPx - geo.GridOriginY
	return x >= 0 && x <= geo.Width() && y >= 0 && y <= geo.Height()
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
