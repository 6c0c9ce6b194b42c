package returns

import (
	"context"

	"github.com/google/uuid"

	"github.com/returnhub/backend/internal/domain/shared"
)

// UnitRepository is the persistence port for return units
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnUnit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ReturnUnit, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByGroupKey(ctx context.Context, key string) ([]ReturnUnit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ReturnUnit, error)
	Save(ctx context.Context, unit *ReturnUnit) error
	// SaveWithLock persists the unit only if its version matches the stored
	// row, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, unit *ReturnUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	// NextNCRNumber allocates the next incident number for the given year,
	// formatted NCR-<year>-<n>. The counter resets each year.
	NextNCRNumber(ctx context.Context, year int) (string, error)
}
