package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/returnhub/backend/internal/domain/returns"
)

// The hub keeps no movement table. The ledger is reconstructed on demand
// from the return units themselves: grading a unit books it IN, documenting
// (or completing) it books it OUT.

// Direction marks a ledger movement as inbound or outbound
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Movement is one derived ledger line
type Movement struct {
	UnitID      uuid.UUID           `json:"unit_id"`
	RefNo       string              `json:"ref_no"`
	DocumentNo  string              `json:"document_no,omitempty"`
	NCRNumber   string              `json:"ncr_number,omitempty"`
	Branch      string              `json:"branch"`
	ProductCode string              `json:"product_code"`
	ProductName string              `json:"product_name"`
	Direction   Direction           `json:"direction"`
	Disposition returns.Disposition `json:"disposition"`
	Quantity    int                 `json:"quantity"`
	Date        time.Time           `json:"date"`
	Value       decimal.Decimal     `json:"value"`
	BillPrice   decimal.Decimal     `json:"bill_price"`
}

// Reconstruct derives the movement ledger from a unit list. Movements are
// sorted by date descending; on equal dates the IN side sorts first.
func Reconstruct(units []returns.ReturnUnit) []Movement {
	movements := make([]Movement, 0, len(units))
	for i := range units {
		u := &units[i]

		inDate, ok := intakeDate(u)
		if !ok {
			continue
		}
		movements = append(movements, newMovement(u, DirectionIn, inDate))

		if outDate, ok := releaseDate(u); ok {
			movements = append(movements, newMovement(u, DirectionOut, outDate))
		}
	}

	sort.SliceStable(movements, func(i, j int) bool {
		a, b := movements[i], movements[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Direction == DirectionIn && b.Direction == DirectionOut
	})
	return movements
}

// intakeDate resolves when the unit entered hub stock: the grading date,
// falling back to the record date for units that carry a decided disposition
// without a grading stamp (backfilled data), then to the document or
// completion date.
func intakeDate(u *returns.ReturnUnit) (time.Time, bool) {
	if u.GradedAt != nil {
		return *u.GradedAt, true
	}
	if u.Disposition.IsDecided() {
		return u.RecordDate, true
	}
	if u.DocumentedAt != nil {
		return *u.DocumentedAt, true
	}
	if u.CompletedAt != nil {
		return *u.CompletedAt, true
	}
	return time.Time{}, false
}

// releaseDate resolves when the unit left hub stock
func releaseDate(u *returns.ReturnUnit) (time.Time, bool) {
	if u.DocumentedAt != nil {
		return *u.DocumentedAt, true
	}
	if u.CompletedAt != nil {
		return *u.CompletedAt, true
	}
	return time.Time{}, false
}

func newMovement(u *returns.ReturnUnit, dir Direction, date time.Time) Movement {
	disposition := u.Disposition
	if disposition == "" {
		disposition = returns.DispositionPending
	}
	return Movement{
		UnitID:      u.ID,
		RefNo:       u.RefNo,
		DocumentNo:  u.DocumentNo,
		NCRNumber:   u.NCRNumber,
		Branch:      u.Branch,
		ProductCode: u.ProductCode,
		ProductName: u.ProductName,
		Direction:   dir,
		Disposition: disposition,
		Quantity:    u.Quantity,
		Date:        date,
		Value:       u.Amount(),
		BillPrice:   u.BillPrice,
	}
}

// DispositionTotals aggregates movements for one disposition bucket
type DispositionTotals struct {
	TotalIn  int `json:"total_in"`
	TotalOut int `json:"total_out"`
	OnHand   int `json:"on_hand"`
}

// OnHand sums movements into per-disposition totals
func OnHand(movements []Movement) map[returns.Disposition]DispositionTotals {
	totals := make(map[returns.Disposition]DispositionTotals)
	for _, m := range movements {
		t := totals[m.Disposition]
		switch m.Direction {
		case DirectionIn:
			t.TotalIn += m.Quantity
		case DirectionOut:
			t.TotalOut += m.Quantity
		}
		t.OnHand = t.TotalIn - t.TotalOut
		totals[m.Disposition] = t
	}
	return totals
}
