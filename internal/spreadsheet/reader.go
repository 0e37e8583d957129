// Package spreadsheet decodes uploaded XLSX and CSV files into the raw cell
// grids the processing engine consumes. The engine itself never opens files.
package spreadsheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

// ReadGrid decodes the file at path into a cell grid, choosing the decoder
// by file extension. Files that cannot be decoded at all surface as
// UnreadableFileError.
func ReadGrid(path string) (domain.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(filepath.Base(path), err)
	}
	defer f.Close()

	return ReadGridFrom(f, filepath.Base(path))
}

// ReadGridFrom decodes a spreadsheet from a reader. The filename selects the
// decoder: ".csv" parses as CSV, everything else as an XLSX workbook.
func ReadGridFrom(r io.Reader, filename string) (domain.Grid, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return readCSV(r, filename)
	}
	return readXLSX(r, filename)
}

func readXLSX(r io.Reader, filename string) (domain.Grid, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(filename, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewUnreadableFileError(filename, nil)
	}

	// Raw cell values keep serial dates numeric instead of surfacing them
	// pre-formatted; the engine's date parser owns interpretation.
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(filename, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewUnreadableFileError(filename, nil)
	}

	grid := make(domain.Grid, len(rows))
	for i, row := range rows {
		cells := make([]domain.Cell, len(row))
		for j, v := range row {
			cells[j] = typedCell(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func readCSV(r io.Reader, filename string) (domain.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(filename, err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewUnreadableFileError(filename, nil)
	}

	grid := make(domain.Grid, len(records))
	for i, row := range records {
		cells := make([]domain.Cell, len(row))
		for j, v := range row {
			cells[j] = typedCell(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

// typedCell promotes purely numeric cell text to float64 so serial dates
// and numeric identifiers carry their type into the grid contract.
func typedCell(v string) domain.Cell {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return v
}
