package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var header = []interface{}{"S.No", "Faculty Name", "Subject", "Sub Code", "Year", "Sec", "L", "P", "Load (L+P)"}

func buildWorkbook(t *testing.T, preamble int, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	line := 1
	for i := 0; i < preamble; i++ {
		if i == 0 {
			require.NoError(t, f.SetCellValue(sheet, "A1", "Department of CSE - Faculty Workload"))
		}
		line++
	}
	cell, err := excelize.CoordinatesToCellName(1, line)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(sheet, cell, &header))
	for _, row := range rows {
		line++
		cell, err := excelize.CoordinatesToCellName(1, line)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	_, err = f.NewSheet("Notes")
	require.NoError(t, err)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestFormatFromFilename(t *testing.T) {
	cases := map[string]Format{
		"workload.xlsx": FormatXLSX,
		"WORKLOAD.XLSM": FormatXLSX,
		"load.csv":      FormatCSV,
	}
	for name, want := range cases {
		got, err := FormatFromFilename(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := FormatFromFilename("workload.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadXLSXSkipsPreambleAndBlankRows(t *testing.T) {
	buf := buildWorkbook(t, DefaultHeaderOffset,
		[]interface{}{1, "Dr. Rao", "Operating Systems", "CS301", "III", "A", 3, 0, 3},
		[]interface{}{nil, nil, nil, nil, nil, nil, nil, nil, nil},
		[]interface{}{2, "Dr. Iyer", "OS Lab", "CS391", "III", "", 0, 2, 2},
	)

	sheet, err := Read(buf, FormatXLSX, DefaultHeaderOffset)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, []string{"Sheet1", "Notes"}, sheet.SheetNames)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Dr. Rao", sheet.Rows[0]["Faculty Name"])
	assert.Equal(t, "3", sheet.Rows[0]["L"])
	assert.Equal(t, "OS Lab", sheet.Rows[1]["Subject"])
	_, hasSection := sheet.Rows[1]["Sec"]
	assert.False(t, hasSection)
}

func TestReadXLSXOffsetBeyondSheet(t *testing.T) {
	buf := buildWorkbook(t, 0)

	sheet, err := Read(buf, FormatXLSX, 40)
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("definitely not a zip"), FormatXLSX, 0)
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFDepartment of CSE\n\n\n\n\n" +
		"Faculty Name, Subject ,Sub Code,Year,Sec,L,P,Load (L+P)\n" +
		"Dr. Rao,Operating Systems,CS301,III,A,3,0,3\n" +
		",,,,,,,\n" +
		"Dr. Iyer,OS Lab,CS391,III,,0,2,2\n"

	sheet, err := Read(strings.NewReader(input), FormatCSV, DefaultHeaderOffset)
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Operating Systems", sheet.Rows[0]["Subject"])
	assert.Equal(t, "CS391", sheet.Rows[1]["Sub Code"])
	_, hasSection := sheet.Rows[1]["Sec"]
	assert.False(t, hasSection)
}

func TestReadCSVShorterThanPreamble(t *testing.T) {
	sheet, err := Read(strings.NewReader("title\n"), FormatCSV, DefaultHeaderOffset)
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
}

func TestReadCSVDuplicateHeaderFirstWins(t *testing.T) {
	input := "Faculty Name,Subject,Sub Code,L, L\nDr. Rao,OS,CS1,3,9\n"

	sheet, err := Read(strings.NewReader(input), FormatCSV, 0)
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "3", sheet.Rows[0]["L"])
}

func TestReadCSVToleratesRaggedRows(t *testing.T) {
	input := "Faculty Name,Subject,Sub Code,L,P\n" +
		"Dr. Rao,OS,CS1,3\n" +
		"Dr. Sen,DB,CS2,3,0,extra\n"

	sheet, err := Read(strings.NewReader(input), FormatCSV, 0)
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 2)
	_, hasPractical := sheet.Rows[0]["P"]
	assert.False(t, hasPractical)
	assert.Equal(t, "CS2", sheet.Rows[1]["Sub Code"])
	assert.Equal(t, "0", sheet.Rows[1]["P"])
	assert.Len(t, sheet.Rows[1], 5)
}

func TestReadUnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader(""), Format("ods"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
