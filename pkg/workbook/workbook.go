package workbook

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Format identifies the encoding of an uploaded workload file.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DefaultHeaderOffset is the number of title rows preceding the header row on
// the faculty workload template.
const DefaultHeaderOffset = 5

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("workbook: unsupported format")
	// ErrNoSheets is returned when an xlsx file holds no worksheet.
	ErrNoSheets = errors.New("workbook: no sheets")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sheet is the decoded content of the first worksheet.
type Sheet struct {
	Name       string
	SheetNames []string
	// Rows holds one map per data row keyed by header label. Blank cells are omitted.
	Rows []map[string]string
}

// FormatFromFilename infers the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Read decodes the first sheet of r. The first headerOffset rows are skipped
// and the next row is used as the header.
func Read(r io.Reader, format Format, headerOffset int) (*Sheet, error) {
	if headerOffset < 0 {
		headerOffset = 0
	}
	switch format {
	case FormatXLSX:
		return readXLSX(r, headerOffset)
	case FormatCSV:
		return readCSV(r, headerOffset)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func readXLSX(r io.Reader, headerOffset int) (*Sheet, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer file.Close() //nolint:errcheck

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := file.GetRows(names[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", names[0], err)
	}

	return &Sheet{
		Name:       names[0],
		SheetNames: names,
		Rows:       rowsToMaps(rows, headerOffset),
	}, nil
}

func readCSV(r io.Reader, headerOffset int) (*Sheet, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	for i := 0; i < headerOffset; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return &Sheet{Name: string(FormatCSV), SheetNames: []string{string(FormatCSV)}}, nil
			}
			return nil, fmt.Errorf("skip csv preamble: %w", err)
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := gocsv.NewSimpleDecoderFromCSVReader(reader).GetCSVRows()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	return &Sheet{Name: string(FormatCSV), SheetNames: []string{string(FormatCSV)}, Rows: rowsToMaps(rows, 0)}, nil
}

// rowsToMaps keys every row after the header by the header label of its column.
// Columns without a header label are ignored and the first of duplicate labels wins.
func rowsToMaps(rows [][]string, headerOffset int) []map[string]string {
	if headerOffset >= len(rows) {
		return []map[string]string{}
	}
	header := make([]string, len(rows[headerOffset]))
	for i, label := range rows[headerOffset] {
		header[i] = strings.TrimSpace(label)
	}

	result := make([]map[string]string, 0, len(rows)-headerOffset-1)
	for _, cells := range rows[headerOffset+1:] {
		row := make(map[string]string, len(header))
		for i, value := range cells {
			if i >= len(header) || header[i] == "" || strings.TrimSpace(value) == "" {
				continue
			}
			if _, exists := row[header[i]]; !exists {
				row[header[i]] = value
			}
		}
		if len(row) > 0 {
			result = append(result, row)
		}
	}
	return result
}
