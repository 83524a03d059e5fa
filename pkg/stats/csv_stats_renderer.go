package stats

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes one column per subject and one row per weekday, followed by the
// weekly totals. The last column holds the target. Durations are HH:MM.
func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	names := make([]string, 0, len(stats.Subjects))
	for _, subject := range stats.Subjects {
		names = append(names, subject.Subject)
	}

	header := make([]string, 0, len(names)+3)
	header = append(header, "")
	header = append(header, names...)
	header = append(header, "SUM", "Target")

	data := make([][]string, 0, len(stats.Days)+2)
	data = append(data, header)
	for _, dailyStats := range stats.Days {
		data = append(data, getStatsForDay(dailyStats, names))
	}

	totals := make([]string, 0, len(names)+3)
	totals = append(totals, "Total")
	for _, subject := range stats.Subjects {
		totals = append(totals, durationToString(subject.Duration))
	}
	totals = append(totals, durationToString(stats.TotalTime), durationToString(stats.TargetTime))
	data = append(data, totals)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func getStatsForDay(dailyStats DailyStats, names []string) []string {
	dayStats := make([]string, 0, len(names)+3)
	dayStats = append(dayStats, dailyStats.Weekday.String())
	for _, name := range names {
		idx, found := slices.BinarySearchFunc(dailyStats.Subjects, name, func(subject SubjectStats, name string) int {
			return strings.Compare(subject.Subject, name)
		})
		if found {
			dayStats = append(dayStats, durationToString(dailyStats.Subjects[idx].Duration))
		} else {
			dayStats = append(dayStats, "00:00")
		}
	}
	dayStats = append(dayStats, durationToString(dailyStats.TotalTime), durationToString(dailyStats.TargetTime))
	return dayStats
}

func durationToString(duration time.Duration) string {
	minutes := int(duration.Minutes())
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
