package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/returnhub/backend/internal/domain/returns"
)

// StockRow summarizes what is sitting in the hub for one product under one
// disposition.
type StockRow struct {
	ProductCode    string              `json:"product_code"`
	ProductName    string              `json:"product_name"`
	Disposition    returns.Disposition `json:"disposition"`
	TotalIn        int                 `json:"total_in"`
	TotalOut       int                 `json:"total_out"`
	OnHand         int                 `json:"on_hand"`
	Value          decimal.Decimal     `json:"value"`
	LastIntakeDate time.Time           `json:"last_intake_date"`
}

type stockKey struct {
	productCode string
	disposition returns.Disposition
}

// Summarize builds the per-product stock summary from a movement ledger.
// Pending dispositions are skipped, only rows with stock on hand are
// returned, and rows are sorted by product name.
func Summarize(movements []Movement) []StockRow {
	rows := make(map[stockKey]*StockRow)
	for _, m := range movements {
		if !m.Disposition.IsDecided() {
			continue
		}
		key := stockKey{productCode: m.ProductCode, disposition: m.Disposition}
		row, ok := rows[key]
		if !ok {
			row = &StockRow{
				ProductCode: m.ProductCode,
				ProductName: m.ProductName,
				Disposition: m.Disposition,
			}
			rows[key] = row
		}
		switch m.Direction {
		case DirectionIn:
			row.TotalIn += m.Quantity
			if m.Date.After(row.LastIntakeDate) {
				row.LastIntakeDate = m.Date
			}
		case DirectionOut:
			row.TotalOut += m.Quantity
		}
		row.OnHand = row.TotalIn - row.TotalOut
		row.Value = m.BillPrice.Mul(decimal.NewFromInt(int64(row.OnHand)))
	}

	result := make([]StockRow, 0, len(rows))
	for _, row := range rows {
		if row.OnHand > 0 {
			result = append(result, *row)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ProductName != result[j].ProductName {
			return result[i].ProductName < result[j].ProductName
		}
		return result[i].Disposition < result[j].Disposition
	})
	return result
}
