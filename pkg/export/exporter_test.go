package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title: "Weekly Timetable",
		Sections: []Dataset{
			{
				Title:   "Schedule",
				Headers: []string{"Day", "8:30-9:20", "9:20-10:10"},
				Rows: [][]string{
					{"Mon", "Operating Systems (CS301) - Dr. Rao [A] @LT-16", ""},
					{"Tue", "Break"},
				},
			},
			{
				Title:   "Subjects",
				Headers: []string{"Code", "Type"},
				Rows:    [][]string{{"CS301", "Theory"}},
			},
		},
	}
}

func TestCSVExporterRendersSections(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Schedule", lines[0])
	assert.Equal(t, "Day,8:30-9:20,9:20-10:10", lines[1])
	assert.Equal(t, "Tue,Break,", lines[3])
	assert.Equal(t, "Subjects", lines[5])
	assert.Equal(t, "CS301,Theory", lines[7])
}

func TestCSVExporterSingleSectionHasNoTitle(t *testing.T) {
	doc := Document{Sections: []Dataset{{Title: "Ignored", Headers: []string{"A"}, Rows: [][]string{{"1"}}}}}
	out, err := NewCSVExporter().Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "A\n1\n", string(out))
}

func TestExportersRejectEmptyDocuments(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render(Document{Sections: []Dataset{{}}})
	assert.Error(t, err)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFTextTranslatorEncodesLatin1(t *testing.T) {
	tr := textTranslator(gofpdf.New("L", "mm", "A4", ""))

	assert.Equal(t, "Dr. M\xfcller", tr("Dr. Müller"))
	assert.Equal(t, "CS301 @LT-16", tr("CS301 @LT-16"))
}

func TestPDFExporterKeepsSourceRows(t *testing.T) {
	doc := Document{Sections: []Dataset{{Headers: []string{"Faculty"}, Rows: [][]string{{"Dr. Müller"}}}}}

	_, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Müller", doc.Sections[0].Rows[0][0])
}
