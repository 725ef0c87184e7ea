// Package sheet turns uploaded workbooks into loose field→value records.
// The first sheet is used; its first row supplies the field names.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	loaderdomain "github.com/smallbiznis/granary/internal/loader/domain"
	"github.com/xuri/excelize/v2"
)

// Parse reads an xlsx workbook and returns one Record per data row. Header
// cells are lowercased with spaces collapsed to underscores so "Factory Code"
// and "factory_code" address the same field. Blank cells stay absent from the
// record, which downstream treats as null.
func Parse(r io.Reader) ([]loaderdomain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet has no header row")
	}

	fields := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		fields[i] = normalizeHeader(cell)
	}

	records := make([]loaderdomain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := loaderdomain.Record{}
		for i, cell := range row {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			record[fields[i]] = value
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

func normalizeHeader(cell string) string {
	header := strings.ToLower(strings.TrimSpace(cell))
	return strings.ReplaceAll(header, " ", "_")
}
