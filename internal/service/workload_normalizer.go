package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/timetable-api/internal/models"
)

// NormalizeWorkload converts raw workload rows into schedulable subjects.
// Rows missing a faculty name, subject name or subject code are dropped.
// Output order follows input order and no rows are merged.
func NormalizeWorkload(rows []models.WorkloadRow) []models.Subject {
	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		faculty := row.Value(models.ColumnFacultyName)
		name := row.Value(models.ColumnSubject)
		code := row.Value(models.ColumnSubjectCode)
		if faculty == "" || name == "" || code == "" {
			continue
		}
		subjects = append(subjects, models.Subject{
			Code:           code,
			Name:           name,
			Faculty:        faculty,
			Year:           row.Value(models.ColumnYear),
			Section:        row.Value(models.ColumnSection),
			LectureHours:   parseHours(row.Value(models.ColumnLecture)),
			PracticalHours: parseHours(row.Value(models.ColumnPractical)),
			TotalLoad:      parseHours(row.Value(models.ColumnTotalLoad)),
			IsLab:          isLabSubject(name),
		})
	}
	return subjects
}

func isLabSubject(name string) bool {
	return strings.Contains(strings.ToLower(name), "lab")
}

// parseHours reads the leading integer of a cell ("3", "3.0", "2 hrs").
// Missing, non-numeric and negative values yield 0.
func parseHours(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	value, err := strconv.Atoi(raw[:end])
	if err != nil || value < 0 {
		return 0
	}
	return value
}
