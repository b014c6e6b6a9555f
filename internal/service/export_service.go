package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/export"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
)

type csvRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// TimetableExporter renders generated timetables into downloadable files.
type TimetableExporter struct {
	csv csvRenderer
	pdf pdfRenderer
	now func() time.Time
}

// NewTimetableExporter constructs an exporter. Nil renderers fall back to the defaults.
func NewTimetableExporter(csv csvRenderer, pdf pdfRenderer) *TimetableExporter {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TimetableExporter{csv: csv, pdf: pdf, now: time.Now}
}

// Export renders the timetable as csv or pdf.
func (e *TimetableExporter) Export(timetable *models.Timetable, format dto.TimetableFormat) (*dto.TimetableFile, error) {
	if timetable == nil {
		return nil, fmt.Errorf("timetable nil")
	}
	doc := TimetableDocument(timetable)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case dto.TimetableFormatCSV:
		payload, err = e.csv.Render(doc)
		contentType = contentTypeCSV
	case dto.TimetableFormatPDF:
		payload, err = e.pdf.Render(doc)
		contentType = contentTypePDF
	default:
		err = fmt.Errorf("unsupported export format %s", format)
	}
	if err != nil {
		return nil, err
	}

	return &dto.TimetableFile{
		Filename:    fmt.Sprintf("timetable_%s.%s", e.now().UTC().Format("20060102_150405"), format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

// TimetableDocument lays out the weekly grid followed by the subject summary.
func TimetableDocument(timetable *models.Timetable) export.Document {
	headers := make([]string, 0, models.SlotCount+1)
	headers = append(headers, "Day")
	headers = append(headers, models.TimeSlots[:]...)

	grid := make([][]string, 0, models.DayCount)
	for day, label := range models.Days {
		row := make([]string, 0, models.SlotCount+1)
		row = append(row, string(label))
		for slot := 0; slot < models.SlotCount; slot++ {
			row = append(row, FormatCell(timetable.Schedule.Cell(day, slot)))
		}
		grid = append(grid, row)
	}

	summary := make([][]string, 0, len(timetable.Subjects))
	for _, subject := range timetable.Subjects {
		summary = append(summary, []string{subject.Code, subject.Name, subject.Faculty, subject.Section, string(subject.Type)})
	}

	return export.Document{
		Title: "Weekly Timetable",
		Sections: []export.Dataset{
			{Title: "Schedule", Headers: headers, Rows: grid},
			{Title: "Subjects", Headers: []string{"Code", "Subject", "Faculty", "Section", "Type"}, Rows: summary},
		},
	}
}

// FormatCell renders a cell as "Subject (Code) - Faculty [Section] @Room".
// Reserved cells render as their marker and empty cells as "".
func FormatCell(cell models.Cell) string {
	if !cell.HasSession() {
		return cell.Label()
	}
	s := cell.Session
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) - %s", s.SubjectName, s.Code, s.Faculty)
	if s.Section != "" {
		fmt.Fprintf(&b, " [%s]", s.Section)
	}
	fmt.Fprintf(&b, " @%s", s.Room)
	return b.String()
}
