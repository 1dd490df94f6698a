// Package export serializes full order lists for download. It is a pure
// consumer of the Query Engine's read results.
package export

import (
	"encoding/csv"
	"io"

	"orderdesk/internal/domain"
)

// CSVHeader is the exported column set, in order.
var CSVHeader = []string{"Order Number", "Customer Name", "Customer Email", "Status", "Total Amount", "Created Date"}

// OrdersCSV writes one row per order after the header. Dates are exported
// date-only.
func OrdersCSV(w io.Writer, orders []domain.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			o.OrderNumber,
			o.CustomerName,
			o.CustomerEmail,
			o.Status,
			o.TotalAmount.StringFixed(2),
			o.CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
