package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// TaxPolicy carries the configured VAT defaults for document batches.
// A batch request may override either field per call.
type TaxPolicy struct {
	VATRate    decimal.Decimal
	VATEnabled bool
}

// DefaultTaxPolicy matches the statutory Thai VAT of 7%
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{VATRate: decimal.NewFromInt(7), VATEnabled: true}
}

// BatchService builds and commits document batches: the paperwork step that
// moves graded units into the Documented stage under one shared timestamp.
type BatchService struct {
	repo           returns.UnitRepository
	tax            TaxPolicy
	eventPublisher shared.EventPublisher
}

// NewBatchService creates a new BatchService
func NewBatchService(repo returns.UnitRepository, tax TaxPolicy) *BatchService {
	return &BatchService{repo: repo, tax: tax}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Preview computes the batch lines and totals without touching any unit
func (s *BatchService) Preview(ctx context.Context, req DocumentBatchRequest) (*DocumentBatchPreview, error) {
	units, err := s.repo.FindByIDs(ctx, req.UnitIDs)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, shared.ErrNotFound
	}

	preview := &DocumentBatchPreview{}
	eligible := make([]returns.ReturnUnit, 0, len(units))
	for i := range units {
		unit := &units[i]
		if reason, ok := ineligibleReason(unit); ok {
			preview.Ineligible = append(preview.Ineligible, BatchIneligible{
				UnitID: unit.ID,
				Reason: reason,
			})
			continue
		}
		eligible = append(eligible, *unit)
		preview.Lines = append(preview.Lines, BatchLine{
			UnitID:      unit.ID,
			RefNo:       unit.RefNo,
			ProductName: unit.ProductName,
			Disposition: unit.Disposition.String(),
			Quantity:    unit.Quantity,
			BillPrice:   unit.BillPrice,
			Amount:      unit.Amount(),
		})
	}
	preview.Totals = calculateTotals(eligible, req, s.tax)
	return preview, nil
}

// Commit documents every eligible unit under one shared timestamp. Each unit
// is committed independently: failures are counted and reported, successes
// are never rolled back.
func (s *BatchService) Commit(ctx context.Context, req DocumentBatchRequest) (*DocumentBatchResult, error) {
	units, err := s.repo.FindByIDs(ctx, req.UnitIDs)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, shared.ErrNotFound
	}

	documentedAt := time.Now()
	result := &DocumentBatchResult{
		DocumentedAt: documentedAt,
		Requested:    len(units),
	}
	committed := make([]returns.ReturnUnit, 0, len(units))
	for i := range units {
		unit := &units[i]
		if err := s.commitOne(ctx, unit, documentedAt); err != nil {
			result.Failed = append(result.Failed, BatchFailure{
				UnitID: unit.ID,
				Reason: err.Error(),
			})
			continue
		}
		committed = append(committed, *unit)
		result.Succeeded++
	}
	result.Totals = calculateTotals(committed, req, s.tax)
	return result, nil
}

func (s *BatchService) commitOne(ctx context.Context, unit *returns.ReturnUnit, at time.Time) error {
	if err := unit.Document(at); err != nil {
		return err
	}
	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return err
	}
	if s.eventPublisher != nil {
		for _, event := range unit.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
		unit.ClearDomainEvents()
	}
	return nil
}

func ineligibleReason(unit *returns.ReturnUnit) (string, bool) {
	if unit.Status == returns.StatusSettledOnField {
		return "", false
	}
	if unit.Status != returns.GradingCompleteStatus(unit.Channel()) {
		return fmt.Sprintf("status %s is not ready for documents", unit.Status), true
	}
	if !unit.Disposition.IsDecided() {
		return "disposition is still pending", true
	}
	return "", false
}

// calculateTotals sums the batch money block: subtotal over the bill
// amounts, percentage discount, then VAT on the discounted base. The
// configured tax policy fills in whatever the request leaves unset.
func calculateTotals(units []returns.ReturnUnit, req DocumentBatchRequest, tax TaxPolicy) BatchTotals {
	hundred := decimal.NewFromInt(100)

	subtotal := decimal.Zero
	for i := range units {
		subtotal = subtotal.Add(units[i].Amount())
	}

	discount := decimal.Zero
	if req.DiscountRate != nil && req.DiscountRate.IsPositive() {
		discount = subtotal.Mul(*req.DiscountRate).Div(hundred)
	}
	base := subtotal.Sub(discount)

	enabled := tax.VATEnabled
	if req.VATEnabled != nil {
		enabled = *req.VATEnabled
	}

	vat := decimal.Zero
	if enabled {
		rate := tax.VATRate
		if req.VATRate != nil {
			rate = *req.VATRate
		}
		vat = base.Mul(rate).Div(hundred)
	}

	return BatchTotals{
		Subtotal: subtotal,
		Discount: discount,
		VAT:      vat,
		Net:      base.Add(vat),
	}
}
