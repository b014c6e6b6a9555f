package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Document) ([]byte, error) {
	return nil, errors.New("renderer down")
}

func sampleTimetable() *models.Timetable {
	tt, _ := NewTimetableBuilder(&fixedRooms{}).Build([]models.Subject{
		lab("CS391", "Dr. Rao", "A", 2, 2),
		{Code: "CS302", Name: "Operating Systems", Faculty: "Dr. Iyer", Section: "B", LectureHours: 1, TotalLoad: 1},
	})
	return tt
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", FormatCell(models.Cell{}))
	assert.Equal(t, "Break", FormatCell(models.Cell{Kind: models.CellBreak}))
	assert.Equal(t, "LUNCH", FormatCell(models.Cell{Kind: models.CellLunch}))
	assert.Equal(t, "OS (CS302) - Dr. Iyer [B] @LT-16", FormatCell(models.SessionCell(models.Session{
		SubjectName: "OS", Code: "CS302", Faculty: "Dr. Iyer", Section: "B", Room: "LT-16",
	})))
	assert.Equal(t, "OS (CS302) - Dr. Iyer @LT-16", FormatCell(models.SessionCell(models.Session{
		SubjectName: "OS", Code: "CS302", Faculty: "Dr. Iyer", Room: "LT-16",
	})))
}

func TestTimetableDocumentLayout(t *testing.T) {
	doc := TimetableDocument(sampleTimetable())

	require.Len(t, doc.Sections, 2)
	grid := doc.Sections[0]
	assert.Equal(t, "Day", grid.Headers[0])
	assert.Equal(t, "8:30-9:20", grid.Headers[1])
	assert.Len(t, grid.Headers, models.SlotCount+1)
	require.Len(t, grid.Rows, models.DayCount)
	assert.Equal(t, "Mon", grid.Rows[0][0])
	assert.Equal(t, "CS391 Lab (CS391) - Dr. Rao [A] @CSE LAB 1", grid.Rows[0][1])
	assert.Equal(t, grid.Rows[0][1], grid.Rows[0][2])
	assert.Equal(t, "Break", grid.Rows[4][models.BreakSlot+1])
	assert.Equal(t, "LUNCH", grid.Rows[4][models.LunchSlot+1])

	summary := doc.Sections[1]
	assert.Equal(t, [][]string{
		{"CS391", "CS391 Lab", "Dr. Rao", "A", "Lab"},
		{"CS302", "Operating Systems", "Dr. Iyer", "B", "Theory"},
	}, summary.Rows)
}

func TestTimetableExporterFormats(t *testing.T) {
	exporter := NewTimetableExporter(nil, nil)
	exporter.now = func() time.Time { return time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC) }

	file, err := exporter.Export(sampleTimetable(), dto.TimetableFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "timetable_20240304_093000.csv", file.Filename)
	assert.Equal(t, contentTypeCSV, file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Payload), "Schedule\nDay,8:30-9:20"))

	file, err = exporter.Export(sampleTimetable(), dto.TimetableFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, contentTypePDF, file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF-"))

	_, err = exporter.Export(sampleTimetable(), dto.TimetableFormatJSON)
	assert.Error(t, err)
	_, err = exporter.Export(nil, dto.TimetableFormatCSV)
	assert.Error(t, err)
}

func TestTimetableExporterPropagatesRendererErrors(t *testing.T) {
	_, err := NewTimetableExporter(failingRenderer{}, nil).Export(sampleTimetable(), dto.TimetableFormatCSV)
	assert.EqualError(t, err, "renderer down")
}
