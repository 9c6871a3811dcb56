package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

// SheetName is the name of the only worksheet.
const SheetName = "Espelho de Ponto"

// XLSXContentType is the media type of spreadsheet exports.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columnWidths = []float64{25, 30, 15, 40, 15, 15, 15, 40}

func border() []excelize.Border {
	var bs []excelize.Border
	for _, side := range []string{"left", "right", "top", "bottom"} {
		bs = append(bs, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return bs
}

var (
	bodyStyle = excelize.Style{
		Border:    border(),
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFFFF"}},
		Font:      &excelize.Font{Family: "Arial", Size: 11, Color: "000000"},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	}
	headerStyle = excelize.Style{
		Border:    border(),
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000000"}},
		Font:      &excelize.Font{Family: "Arial", Size: 12, Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
)

// Workbook builds the spreadsheet for records. The caller closes the file.
func Workbook(records []model.TimesheetRecord) (*excelize.File, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	f := excelize.NewFile()
	if err := fillWorkbook(f, records); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, records []model.TimesheetRecord) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		row := []any{
			r.Company,
			r.Name,
			r.AbsenceCount,
			r.AbsenceDays,
			r.Overtime50,
			r.Overtime100,
			r.NightShiftPremium,
			r.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return fmt.Errorf("setting width of column %s: %w", col, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return err
	}
	headerID, err := f.NewStyle(&headerStyle)
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerID); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	bodyID, err := f.NewStyle(&bodyStyle)
	if err != nil {
		return fmt.Errorf("creating body style: %w", err)
	}
	lastRow := fmt.Sprintf("%s%d", lastCol, len(records)+1)
	if err := f.SetCellStyle(SheetName, "A2", lastRow, bodyID); err != nil {
		return fmt.Errorf("styling rows: %w", err)
	}
	return nil
}

// XLSX renders records as spreadsheet bytes.
func XLSX(records []model.TimesheetRecord) ([]byte, error) {
	f, err := Workbook(records)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encoding spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
