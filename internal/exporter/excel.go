package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"trialcli/pkg/contracts/domain"
)

const (
	summarySheet   = "Summary Report"
	detailSheet    = "Detailed Events"
	recurrentSheet = "Recurrent Cases"
)

// WriteWorkbook renders the report as a multi-sheet XLSX workbook. The
// summary sheet stacks the four aggregate tables with merged two-row
// headers; detail and recurrent listings get their own sheets.
func WriteWorkbook(path string, data *domain.SummaryData, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(detailSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(recurrentSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Border: []excelize.Border{
			{Type: "top", Style: 1, Color: "999999"},
			{Type: "bottom", Style: 1, Color: "999999"},
			{Type: "left", Style: 1, Color: "999999"},
			{Type: "right", Style: 1, Color: "999999"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: summarySheet, row: 1, titleStyle: titleStyle, headerStyle: headerStyle}

	if err := w.title("Shigella Surveillance Summary Report"); err != nil {
		return err
	}
	if err := w.line(fmt.Sprintf("Generated: %s", generatedAt.UTC().Format("2006-01-02 15:04 MST"))); err != nil {
		return err
	}
	w.skip(1)

	if err := w.table("Diarrheal Events by Site", siteTableHeader, siteTableRows(data)); err != nil {
		return err
	}
	if err := w.table("Age Distribution of Diarrheal Events", ageTableHeader, ageTableRows(data)); err != nil {
		return err
	}
	if err := w.table("RT-PCR Results by Site", pcrTableHeader, pcrTableRows(data)); err != nil {
		return err
	}
	if err := w.table("Shigella Strain Distribution", [][]string{strainTableHeader}, strainTableRows(data)); err != nil {
		return err
	}
	if data.UnmappedEvents > 0 {
		if err := w.line(fmt.Sprintf("Unmapped events (no enrollment record): %d", data.UnmappedEvents)); err != nil {
			return err
		}
	}

	dw := &sheetWriter{f: f, sheet: detailSheet, row: 1, titleStyle: titleStyle, headerStyle: headerStyle}
	if err := dw.table("Detailed Participant Events", [][]string{detailedEventsHeader}, detailedEventRows(data)); err != nil {
		return err
	}

	rw := &sheetWriter{f: f, sheet: recurrentSheet, row: 1, titleStyle: titleStyle, headerStyle: headerStyle}
	if err := rw.writeRecurrent(data.RecurrentCases); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// sheetWriter appends titled tables down one sheet, tracking the cursor row.
type sheetWriter struct {
	f           *excelize.File
	sheet       string
	row         int
	titleStyle  int
	headerStyle int
}

func (w *sheetWriter) cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *sheetWriter) title(text string) error {
	cell := w.cell(1, w.row)
	if err := w.f.SetCellValue(w.sheet, cell, text); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := w.f.SetCellStyle(w.sheet, cell, cell, w.titleStyle); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}
	w.row++
	return nil
}

func (w *sheetWriter) line(text string) error {
	if err := w.f.SetCellValue(w.sheet, w.cell(1, w.row), text); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.row++
	return nil
}

func (w *sheetWriter) skip(n int) { w.row += n }

// table writes a titled table. Two-row headers get merged cells: blank cells
// in the top row merge horizontally into the span to their left, and columns
// whose second-row cell is blank merge vertically.
func (w *sheetWriter) table(title string, header [][]string, rows [][]string) error {
	if err := w.title(title); err != nil {
		return err
	}

	headerTop := w.row
	for _, hr := range header {
		cells := make([]interface{}, len(hr))
		for i, v := range hr {
			cells[i] = v
		}
		if err := w.f.SetSheetRow(w.sheet, w.cell(1, w.row), &cells); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		w.row++
	}

	if len(header) == 2 {
		if err := w.mergeHeader(header, headerTop); err != nil {
			return err
		}
	}

	width := len(header[0])
	last := w.cell(width, w.row-1)
	if err := w.f.SetCellStyle(w.sheet, w.cell(1, headerTop), last, w.headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for _, r := range rows {
		cells := make([]interface{}, len(r))
		for i, v := range r {
			cells[i] = v
		}
		if err := w.f.SetSheetRow(w.sheet, w.cell(1, w.row), &cells); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
		w.row++
	}
	w.skip(2)
	return nil
}

func (w *sheetWriter) mergeHeader(header [][]string, top int) error {
	topRow, subRow := header[0], header[1]
	for col := 0; col < len(topRow); col++ {
		if topRow[col] == "" {
			continue
		}
		span := col
		for span+1 < len(topRow) && topRow[span+1] == "" {
			span++
		}
		if span > col {
			if err := w.f.MergeCell(w.sheet, w.cell(col+1, top), w.cell(span+1, top)); err != nil {
				return fmt.Errorf("failed to merge header: %w", err)
			}
		} else if col < len(subRow) && subRow[col] == "" {
			if err := w.f.MergeCell(w.sheet, w.cell(col+1, top), w.cell(col+1, top+1)); err != nil {
				return fmt.Errorf("failed to merge header: %w", err)
			}
		}
	}
	return nil
}

var recurrentHeader = []string{
	"Participant ID", "Site", "Total Episodes", "Culture Positives",
	"Persistent Pathogen", "Episode History",
}

func (w *sheetWriter) writeRecurrent(cases []domain.RecurrentCase) error {
	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		history := ""
		for i, h := range c.History {
			if i > 0 {
				history += "; "
			}
			history += fmt.Sprintf("%s %s (%s)", h.Date, h.Result, h.Stage)
			if h.Strain != "" {
				history += " " + h.Strain
			}
		}
		persistent := "No"
		if c.HasPersistentPathogen {
			persistent = "Yes"
		}
		rows = append(rows, []string{
			c.ParticipantID, c.SiteName,
			fmt.Sprintf("%d", c.TotalEpisodes),
			fmt.Sprintf("%d", c.CulturePositives),
			persistent, history,
		})
	}
	return w.table("Participants with Multiple Episodes", [][]string{recurrentHeader}, rows)
}
