package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Báo cáo"

// WriteExcel writes t as a single-sheet xlsx workbook
func WriteExcel(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"28916C"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	row := 1
	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}
	row++
	if t.Subtitle != "" {
		if err := f.SetCellValue(sheetName, cellName(1, row), t.Subtitle); err != nil {
			return err
		}
		row++
	}
	row++

	headerRow := row
	if err := setRow(f, row, t.Headers); err != nil {
		return err
	}
	if len(t.Headers) > 0 {
		if err := f.SetCellStyle(sheetName, cellName(1, row), cellName(len(t.Headers), row), headerStyle); err != nil {
			return err
		}
	}
	row++

	for _, r := range t.Rows {
		if err := setRow(f, row, r); err != nil {
			return err
		}
		row++
	}

	if t.Footer != "" {
		row++
		if err := f.SetCellValue(sheetName, cellName(1, row), t.Footer); err != nil {
			return err
		}
	}

	for i, width := range t.columnWidths(8, 50) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, float64(width+2)); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheetName, cellName(1, row), &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
