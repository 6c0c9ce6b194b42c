package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnhub/backend/internal/domain/inventory"
	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

type fakeUnitStore struct {
	units []returns.ReturnUnit
	calls int
}

func (f *fakeUnitStore) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ReturnUnit, error) {
	f.calls++
	return f.units, nil
}

func (f *fakeUnitStore) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnUnit, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeUnitStore) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.units)), nil
}

func (f *fakeUnitStore) FindByGroupKey(ctx context.Context, key string) ([]returns.ReturnUnit, error) {
	return nil, nil
}

func (f *fakeUnitStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]returns.ReturnUnit, error) {
	return nil, nil
}

func (f *fakeUnitStore) Save(ctx context.Context, unit *returns.ReturnUnit) error { return nil }

func (f *fakeUnitStore) SaveWithLock(ctx context.Context, unit *returns.ReturnUnit) error {
	return nil
}

func (f *fakeUnitStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeUnitStore) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeUnitStore) CountByStatus(ctx context.Context) (map[returns.Status]int64, error) {
	return nil, nil
}

func (f *fakeUnitStore) NextNCRNumber(ctx context.Context, year int) (string, error) {
	return "", nil
}

type fakeCache struct {
	movements []inventory.Movement
	hit       bool
	sets      int
	drops     int
}

func (c *fakeCache) Get(ctx context.Context) ([]inventory.Movement, bool) {
	return c.movements, c.hit
}

func (c *fakeCache) Set(ctx context.Context, movements []inventory.Movement, ttl time.Duration) {
	c.movements = movements
	c.hit = true
	c.sets++
}

func (c *fakeCache) Invalidate(ctx context.Context) {
	c.movements = nil
	c.hit = false
	c.drops++
}

func gradedUnit(t *testing.T, qty int) returns.ReturnUnit {
	t.Helper()
	u, err := returns.NewReturnUnit(returns.NewReturnUnitInput{
		RefNo:       "R-2001",
		NCRNumber:   "NCR-2026-0300",
		Branch:      "Rangsit",
		ProductName: "Collagen Powder",
		ProductCode: "CG-01",
		Quantity:    qty,
		BillPrice:   decimal.NewFromInt(50),
		RecordDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	for u.Status != returns.StatusHubReceived {
		next, ok := returns.NextStatus(u.Channel(), u.Status)
		require.True(t, ok)
		require.NoError(t, u.Advance(next, time.Now()))
	}
	require.NoError(t, u.ApplyGrading(returns.Grading{
		Grade:       returns.ConditionNew,
		Disposition: returns.DispositionRestock,
		BuyerName:   "Hub Shop",
	}, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	u.ClearDomainEvents()
	return *u
}

func TestLedgerServiceMovements(t *testing.T) {
	ctx := context.Background()

	t.Run("reconstructs and caches on a miss", func(t *testing.T) {
		store := &fakeUnitStore{units: []returns.ReturnUnit{gradedUnit(t, 10)}}
		cache := &fakeCache{}
		svc := NewLedgerService(store, cache, 0)

		movements, err := svc.Movements(ctx, MovementFilter{})
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, inventory.DirectionIn, movements[0].Direction)
		assert.Equal(t, 1, cache.sets)

		_, err = svc.Movements(ctx, MovementFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, store.calls, "second read should come from the cache")
	})

	t.Run("works without a cache", func(t *testing.T) {
		store := &fakeUnitStore{units: []returns.ReturnUnit{gradedUnit(t, 4)}}
		svc := NewLedgerService(store, nil, 0)

		movements, err := svc.Movements(ctx, MovementFilter{})
		require.NoError(t, err)
		require.Len(t, movements, 1)
	})

	t.Run("filters by disposition, direction and date", func(t *testing.T) {
		restocked := gradedUnit(t, 10)
		documented := gradedUnit(t, 4)
		docDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		documented.DocumentedAt = &docDate
		store := &fakeUnitStore{units: []returns.ReturnUnit{restocked, documented}}
		svc := NewLedgerService(store, nil, 0)

		movements, err := svc.Movements(ctx, MovementFilter{
			Disposition: returns.DispositionRestock,
			Direction:   inventory.DirectionOut,
		})
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, documented.ID, movements[0].UnitID)

		from := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
		movements, err = svc.Movements(ctx, MovementFilter{From: &from})
		require.NoError(t, err)
		require.Len(t, movements, 1, "only the OUT movement falls after the cutoff")
		assert.Equal(t, inventory.DirectionOut, movements[0].Direction)

		movements, err = svc.Movements(ctx, MovementFilter{
			Disposition: returns.DispositionClaim,
		})
		require.NoError(t, err)
		assert.Empty(t, movements)
	})
}

func TestLedgerServiceOnHand(t *testing.T) {
	ctx := context.Background()
	store := &fakeUnitStore{units: []returns.ReturnUnit{gradedUnit(t, 10), gradedUnit(t, 4)}}
	svc := NewLedgerService(store, nil, 0)

	totals, err := svc.OnHand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, totals[returns.DispositionRestock].OnHand)
}

func TestLedgerServiceStockSummary(t *testing.T) {
	ctx := context.Background()
	store := &fakeUnitStore{units: []returns.ReturnUnit{gradedUnit(t, 10)}}
	svc := NewLedgerService(store, nil, 0)

	rows, err := svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CG-01", rows[0].ProductCode)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(500)))
}

func TestCacheInvalidator(t *testing.T) {
	cache := &fakeCache{hit: true}
	inv := NewCacheInvalidator(cache)

	unit := gradedUnit(t, 2)
	event := returns.NewUnitGradedEvent(&unit)
	require.NoError(t, inv.Handle(context.Background(), event))
	assert.Equal(t, 1, cache.drops)
	assert.Contains(t, inv.EventTypes(), returns.EventUnitGraded)
}
