package analytics

import (
	"strconv"
	"strings"

	"sales-monitor/internal/models"
)

var ExportHeader = []string{"ID", "Unit", "Produk", "Customer", "Total", "DP", "Sisa", "Tanggal Deal", "Due Date", "Status"}

// ExportRows flattens deals into rows, header first. Raw date strings are
// kept as received.
func ExportRows(deals []models.Deal) [][]string {
	rows := make([][]string, 0, len(deals)+1)
	rows = append(rows, append([]string(nil), ExportHeader...))
	for _, d := range deals {
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			d.Unit,
			d.Product,
			d.Customer,
			formatAmount(d.Total),
			formatAmount(d.DP),
			formatAmount(Outstanding(d)),
			d.DateDeal,
			d.DueDate,
			string(d.Status),
		})
	}
	return rows
}

// EncodeCSV quotes every field, doubling embedded quotes, and joins rows
// with a bare newline.
func EncodeCSV(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		fields := make([]string, len(row))
		for j, v := range row {
			fields[j] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		lines[i] = strings.Join(fields, ",")
	}
	return strings.Join(lines, "\n")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
