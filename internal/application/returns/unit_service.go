package returns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// SupervisorGate verifies the credentials guarding reversals and destructive
// operations.
type SupervisorGate interface {
	VerifyReversal(credential string) error
	VerifyDestructive(credential string) error
}

// UnitService handles return unit registration and lifecycle operations
type UnitService struct {
	repo           returns.UnitRepository
	gate           SupervisorGate
	eventPublisher shared.EventPublisher
}

// NewUnitService creates a new UnitService
func NewUnitService(repo returns.UnitRepository, gate SupervisorGate) *UnitService {
	return &UnitService{
		repo: repo,
		gate: gate,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *UnitService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a return unit. Incident units without an NCR number get
// one allocated from the yearly counter.
func (s *UnitService) Create(ctx context.Context, req CreateUnitRequest) (*UnitResponse, error) {
	ncrNumber := req.NCRNumber
	recordDate := time.Now()
	if req.RecordDate != nil {
		recordDate = *req.RecordDate
	}
	if req.Incident && ncrNumber == "" {
		number, err := s.repo.NextNCRNumber(ctx, recordDate.Year())
		if err != nil {
			return nil, err
		}
		ncrNumber = number
	}

	unit, err := returns.NewReturnUnit(returns.NewReturnUnitInput{
		RefNo:             req.RefNo,
		NeoRefNo:          req.NeoRefNo,
		DocumentNo:        req.DocumentNo,
		CollectionOrderID: req.CollectionOrderID,
		NCRNumber:         ncrNumber,
		Branch:            req.Branch,
		CustomerName:      req.CustomerName,
		ProductCode:       req.ProductCode,
		ProductName:       req.ProductName,
		Category:          req.Category,
		RecordDate:        recordDate,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		BillPrice:         req.BillPrice,
		SellPrice:         req.SellPrice,
		ExpiryDate:        req.ExpiryDate,
		Reason:            req.Reason,
		Notes:             req.Notes,
		ProblemType:       req.ProblemType,
		RootCause:         req.RootCause,
	})
	if err != nil {
		return nil, err
	}
	if unit.RefNo == "" {
		unit.RefNo = ncrNumber
	}

	if err := s.repo.Save(ctx, unit); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, unit)

	response := ToUnitResponse(unit)
	return &response, nil
}

// GetByID retrieves a return unit by ID
func (s *UnitService) GetByID(ctx context.Context, id uuid.UUID) (*UnitResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUnitResponse(unit)
	return &response, nil
}

// List retrieves return units with pagination and filtering
func (s *UnitService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UnitResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "record_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	units, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToUnitResponses(units), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update edits the descriptive fields of a unit
func (s *UnitService) Update(ctx context.Context, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		unit.CustomerName = *req.CustomerName
	}
	if req.Category != nil {
		unit.Category = *req.Category
	}
	if req.Unit != nil {
		unit.Unit = *req.Unit
	}
	if req.BillPrice != nil {
		unit.BillPrice = *req.BillPrice
	}
	if req.SellPrice != nil {
		unit.SellPrice = *req.SellPrice
	}
	if req.ExpiryDate != nil {
		unit.ExpiryDate = req.ExpiryDate
	}
	if req.Reason != nil {
		unit.Reason = *req.Reason
	}
	if req.Notes != nil {
		unit.Notes = *req.Notes
	}
	if req.ProblemType != nil {
		unit.ProblemType = *req.ProblemType
	}
	if req.RootCause != nil {
		unit.RootCause = *req.RootCause
	}
	unit.UpdatedAt = time.Now()

	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// Advance moves a unit into the named stage
func (s *UnitService) Advance(ctx context.Context, id uuid.UUID, req AdvanceRequest) (*UnitResponse, error) {
	target, ok := returns.CanonicalStatus(req.Target)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown target status: "+req.Target)
	}

	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unit.Advance(target, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, unit)

	response := ToUnitResponse(unit)
	return &response, nil
}

// Reverse walks a unit back one stage after verifying the supervisor
// credential.
func (s *UnitService) Reverse(ctx context.Context, id uuid.UUID, req ReverseRequest) (*UnitResponse, error) {
	if err := s.gate.VerifyReversal(req.Credential); err != nil {
		return nil, err
	}

	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unit.Reverse(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, unit)

	response := ToUnitResponse(unit)
	return &response, nil
}

// SettleOnField records an on-the-spot settlement for a unit
func (s *UnitService) SettleOnField(ctx context.Context, id uuid.UUID, req SettlementRequest) (*UnitResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settlement := returns.FieldSettlement{
		Amount:     req.Amount,
		Evidence:   req.Evidence,
		SignerName: req.SignerName,
		SignerRole: req.SignerRole,
	}
	if err := unit.SettleOnField(settlement, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, unit)

	response := ToUnitResponse(unit)
	return &response, nil
}

// StatusSummary reports unit counts per canonical status
func (s *UnitService) StatusSummary(ctx context.Context) (*StatusSummaryResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := &StatusSummaryResponse{Counts: make(map[string]int64, len(counts))}
	for status, count := range counts {
		summary.Counts[status.String()] = count
		summary.Total += count
	}
	return summary, nil
}

// Delete removes a unit after verifying the destructive credential
func (s *UnitService) Delete(ctx context.Context, id uuid.UUID, req DeleteRequest) error {
	if err := s.gate.VerifyDestructive(req.Credential); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DeleteGroup removes every unit sharing the normalized group key
func (s *UnitService) DeleteGroup(ctx context.Context, key string, req DeleteRequest) (int64, error) {
	if err := s.gate.VerifyDestructive(req.Credential); err != nil {
		return 0, err
	}
	units, err := s.repo.FindByGroupKey(ctx, returns.NormalizeGroupKey(key))
	if err != nil {
		return 0, err
	}
	if len(units) == 0 {
		return 0, shared.ErrNotFound
	}
	ids := make([]uuid.UUID, len(units))
	for i := range units {
		ids[i] = units[i].ID
	}
	return s.repo.DeleteByIDs(ctx, ids)
}

// ListGroups returns the grouped view of units matching the filter, newest
// representative first.
func (s *UnitService) ListGroups(ctx context.Context, filter shared.Filter, includeUnits bool) ([]GroupResponse, error) {
	filter.Page = 1
	filter.PageSize = 0 // unpaginated, grouping needs the full set
	if filter.OrderBy == "" {
		filter.OrderBy = "record_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	units, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	pointers := make([]*returns.ReturnUnit, len(units))
	for i := range units {
		pointers[i] = &units[i]
	}
	groups := returns.BuildGroups(pointers)

	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp := GroupResponse{
			Key:            g.Key,
			Size:           g.Size(),
			TotalQuantity:  g.TotalQuantity(),
			Representative: ToUnitResponse(g.Representative()),
		}
		for _, u := range g.Units {
			resp.TotalAmount = resp.TotalAmount.Add(u.Amount())
			if includeUnits {
				resp.Units = append(resp.Units, ToUnitResponse(u))
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *UnitService) publishEvents(ctx context.Context, unit *returns.ReturnUnit) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range unit.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	unit.ClearDomainEvents()
}
