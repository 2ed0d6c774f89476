package attendance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
)

// parseRows turns a raw upload into a header row plus header-keyed row maps.
// The extension selects the parser; anything else is ErrUnsupportedFormat.
func parseRows(fileBytes []byte, filename string) ([]string, []map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(fileBytes)
	case ".xlsx":
		return parseXLSX(fileBytes)
	case ".xls":
		return parseXLS(fileBytes)
	default:
		return nil, nil, attendance.ErrUnsupportedFormat
	}
}

func parseCSV(fileBytes []byte) ([]string, []map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(fileBytes))
	// Tolerate ragged rows; mapRows pads or truncates against the header.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, attendance.ErrEmptyFile
		}
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		rows = append(rows, row)
	}

	return mapRows(header, rows)
}

func parseXLSX(fileBytes []byte) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, attendance.ErrEmptyFile
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, attendance.ErrEmptyFile
	}

	return mapRows(rows[0], rows[1:])
}

func parseXLS(fileBytes []byte) ([]string, []map[string]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(fileBytes), "utf-8")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xls file: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil, attendance.ErrEmptyFile
	}

	var raw [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		cells := make([]string, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		raw = append(raw, cells)
	}
	if len(raw) == 0 || raw[0] == nil {
		return nil, nil, attendance.ErrEmptyFile
	}

	return mapRows(raw[0], raw[1:])
}

// mapRows normalizes the header and zips every data row against it. Short
// rows are padded with empty strings, long rows truncated.
func mapRows(header []string, rows [][]string) ([]string, []map[string]string, error) {
	headers := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\uFEFF") // BOM on the first cell
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []map[string]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, nil, attendance.ErrEmptyFile
	}

	return headers, records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
