package dto

import "github.com/noah-isme/timetable-api/internal/models"

// TimetableFormat selects the representation of a generated timetable.
type TimetableFormat string

const (
	TimetableFormatJSON TimetableFormat = "json"
	TimetableFormatCSV  TimetableFormat = "csv"
	TimetableFormatPDF  TimetableFormat = "pdf"
)

// GenerateTimetableRequest describes a stored workload upload to turn into a timetable.
type GenerateTimetableRequest struct {
	// UploadName is the stored name returned by the upload storage. Empty when
	// the workload is streamed directly (CLI).
	UploadName string          `json:"uploadName"`
	Filename   string          `json:"filename" validate:"required"`
	Format     TimetableFormat `json:"format" validate:"omitempty,oneof=json csv pdf"`
	// Seed fixes the lab room draw when set.
	Seed *int64 `json:"seed,omitempty"`
}

// TimetableFile is a rendered timetable export.
type TimetableFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// WorkbookInfo describes the sheet a timetable was built from.
type WorkbookInfo struct {
	Sheet      string   `json:"sheet"`
	SheetNames []string `json:"sheetNames"`
	Rows       int      `json:"rows"`
	Subjects   int      `json:"subjects"`
	Dropped    int      `json:"dropped"`
}

// GenerateTimetableResult bundles the timetable with its build diagnostics.
type GenerateTimetableResult struct {
	ID        string            `json:"id"`
	Format    TimetableFormat   `json:"format"`
	Timetable *models.Timetable `json:"timetable"`
	Stats     models.BuildStats `json:"stats"`
	Workbook  WorkbookInfo      `json:"workbook"`
	// File is set for csv and pdf formats.
	File *TimetableFile `json:"-"`
}
