package models

import "strings"

// Column labels consulted on a faculty workload sheet.
const (
	ColumnFacultyName = "Faculty Name"
	ColumnSubject     = "Subject"
	ColumnSubjectCode = "Sub Code"
	ColumnYear        = "Year"
	ColumnSection     = "Sec"
	ColumnLecture     = "L"
	ColumnPractical   = "P"
	ColumnTotalLoad   = "Load (L+P)"
)

// WorkloadRow is one data row of a workload sheet keyed by column label.
// Blank cells are absent from the map.
type WorkloadRow map[string]string

// Value returns the trimmed cell value for the given column label.
func (r WorkloadRow) Value(column string) string {
	return strings.TrimSpace(r[column])
}
