package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"sales-monitor/internal/analytics"
	"sales-monitor/internal/models"
)

const (
	CSVFilename  = "deals_export.csv"
	XLSXFilename = "deals_export.xlsx"

	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Deals"
)

// Document is one rendered export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// CSV renders deals with every field quoted.
func CSV(deals []models.Deal, at time.Time) Document {
	return Document{
		Filename:    CSVFilename,
		ContentType: CSVContentType,
		Body:        []byte(analytics.EncodeCSV(analytics.ExportRows(deals))),
		CreatedAt:   at,
	}
}

// XLSX renders the same columns as CSV into a single "Deals" sheet, with
// amounts kept numeric.
func XLSX(deals []models.Deal, at time.Time) (Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return Document{}, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(analytics.ExportHeader))
	for i, h := range analytics.ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return Document{}, fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return Document{}, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return Document{}, fmt.Errorf("style header: %w", err)
	}

	for i, d := range deals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Document{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []interface{}{
			d.ID,
			d.Unit,
			d.Product,
			d.Customer,
			d.Total,
			d.DP,
			analytics.Outstanding(d),
			d.DateDeal,
			d.DueDate,
			string(d.Status),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return Document{}, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	for _, w := range []struct {
		from, to string
		width    float64
	}{{"B", "D", 22}, {"H", "I", 26}} {
		if err := f.SetColWidth(sheetName, w.from, w.to, w.width); err != nil {
			return Document{}, fmt.Errorf("set column width %s:%s: %w", w.from, w.to, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("encode workbook: %w", err)
	}

	return Document{
		Filename:    XLSXFilename,
		ContentType: XLSXContentType,
		Body:        buf.Bytes(),
		CreatedAt:   at,
	}, nil
}
