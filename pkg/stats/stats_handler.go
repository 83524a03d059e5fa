package stats

import (
	"net/http"

	"github.com/klokku/studygrid/internal/rest"
)

type SubjectStatsDTO struct {
	Subject  string `json:"subject"`
	Color    string `json:"color,omitempty"`
	Sessions int    `json:"sessions"`
	Duration int    `json:"duration"`
}

type DailyStatsDTO struct {
	DayIndex   int               `json:"dayIndex"`
	Weekday    string            `json:"weekday"`
	Subjects   []SubjectStatsDTO `json:"subjects"`
	TotalTime  int               `json:"totalTime"`
	TargetTime int               `json:"targetTime"`
}

type StatsSummaryDTO struct {
	Days       []DailyStatsDTO   `json:"days"`
	Subjects   []SubjectStatsDTO `json:"subjects"`
	TotalTime  int               `json:"totalTime"`
	TargetTime int               `json:"targetTime"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

// GetStats godoc
// @Summary Weekly planned study time
// @Description Durations are in minutes. Pass format=csv or Accept: text/csv for a spreadsheet.
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Param format query string false "csv"
// @Success 200 {object} StatsSummaryDTO
// @Router /api/stats/weekly [get]
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := handler.statsService.WeeklySummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "csv" || r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="weekly-stats.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, convertToJsonResponse(stats))
}

func convertToJsonResponse(stats StatsSummary) StatsSummaryDTO {
	days := make([]DailyStatsDTO, 0, len(stats.Days))
	for _, day := range stats.Days {
		days = append(days, DailyStatsDTO{
			DayIndex:   day.DayIndex,
			Weekday:    day.Weekday.String(),
			Subjects:   subjectsToDTO(day.Subjects),
			TotalTime:  int(day.TotalTime.Minutes()),
			TargetTime: int(day.TargetTime.Minutes()),
		})
	}
	return StatsSummaryDTO{
		Days:       days,
		Subjects:   subjectsToDTO(stats.Subjects),
		TotalTime:  int(stats.TotalTime.Minutes()),
		TargetTime: int(stats.TargetTime.Minutes()),
	}
}

func subjectsToDTO(subjects []SubjectStats) []SubjectStatsDTO {
	dtos := make([]SubjectStatsDTO, 0, len(subjects))
	for _, subject := range subjects {
		dtos = append(dtos, SubjectStatsDTO{
			Subject:  subject.Subject,
			Color:    subject.Color,
			Sessions: subject.Sessions,
			Duration: int(subject.Duration.Minutes()),
		})
	}
	return dtos
}
