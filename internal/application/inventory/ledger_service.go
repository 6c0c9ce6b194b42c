package inventory

import (
	"context"
	"time"

	"github.com/returnhub/backend/internal/domain/inventory"
	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// LedgerCache caches the reconstructed movement ledger. Misses and cache
// errors both fall through to reconstruction.
type LedgerCache interface {
	Get(ctx context.Context) ([]inventory.Movement, bool)
	Set(ctx context.Context, movements []inventory.Movement, ttl time.Duration)
	Invalidate(ctx context.Context)
}

// LedgerService reconstructs the derived inventory ledger from the unit store
type LedgerService struct {
	repo     returns.UnitRepository
	cache    LedgerCache
	cacheTTL time.Duration
}

// NewLedgerService creates a new LedgerService. The cache may be nil.
func NewLedgerService(repo returns.UnitRepository, cache LedgerCache, cacheTTL time.Duration) *LedgerService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &LedgerService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// MovementFilter narrows the derived ledger. The zero value keeps
// every movement.
type MovementFilter struct {
	Disposition returns.Disposition
	Direction   inventory.Direction
	From        *time.Time
	To          *time.Time
}

func (f MovementFilter) matches(m inventory.Movement) bool {
	if f.Disposition != "" && m.Disposition != f.Disposition {
		return false
	}
	if f.Direction != "" && m.Direction != f.Direction {
		return false
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

// Movements returns the derived ledger, newest first, narrowed by the
// filter. The cache always holds the unfiltered ledger.
func (s *LedgerService) Movements(ctx context.Context, filter MovementFilter) ([]inventory.Movement, error) {
	movements, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	if filter == (MovementFilter{}) {
		return movements, nil
	}

	kept := make([]inventory.Movement, 0, len(movements))
	for _, m := range movements {
		if filter.matches(m) {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

// OnHand returns per-disposition stock totals
func (s *LedgerService) OnHand(ctx context.Context) (map[returns.Disposition]inventory.DispositionTotals, error) {
	movements, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.OnHand(movements), nil
}

// StockSummary returns the per-product stock rows
func (s *LedgerService) StockSummary(ctx context.Context) ([]inventory.StockRow, error) {
	movements, err := s.ledger(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Summarize(movements), nil
}

// ledger reconstructs the full movement list, serving it from the cache
// when possible
func (s *LedgerService) ledger(ctx context.Context) ([]inventory.Movement, error) {
	if s.cache != nil {
		if movements, ok := s.cache.Get(ctx); ok {
			return movements, nil
		}
	}

	units, err := s.allUnits(ctx)
	if err != nil {
		return nil, err
	}
	movements := inventory.Reconstruct(units)

	if s.cache != nil {
		s.cache.Set(ctx, movements, s.cacheTTL)
	}
	return movements, nil
}

func (s *LedgerService) allUnits(ctx context.Context) ([]returns.ReturnUnit, error) {
	filter := shared.Filter{
		Page:     1,
		PageSize: 0, // unpaginated, the ledger needs every unit
		OrderBy:  "record_date",
		OrderDir: "desc",
	}
	return s.repo.FindAll(ctx, filter)
}

// CacheInvalidator drops the cached ledger whenever a unit changes
type CacheInvalidator struct {
	cache LedgerCache
}

// NewCacheInvalidator creates a new CacheInvalidator
func NewCacheInvalidator(cache LedgerCache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// Handle implements shared.EventHandler
func (h *CacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.cache.Invalidate(ctx)
	return nil
}

// EventTypes implements shared.EventHandler
func (h *CacheInvalidator) EventTypes() []string {
	return []string{
		returns.EventUnitCreated,
		returns.EventUnitTransitioned,
		returns.EventUnitGraded,
		returns.EventUnitSettled,
		returns.EventUnitSplit,
	}
}
