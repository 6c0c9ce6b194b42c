package returns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// GradingService records QC decisions on units and groups
type GradingService struct {
	repo           returns.UnitRepository
	eventPublisher shared.EventPublisher
}

// NewGradingService creates a new GradingService
func NewGradingService(repo returns.UnitRepository) *GradingService {
	return &GradingService{repo: repo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *GradingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GradeUnit applies a QC decision to a single unit
func (s *GradingService) GradeUnit(ctx context.Context, id uuid.UUID, req GradingRequest) (*UnitResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unit.ApplyGrading(req.ToGrading(), time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, unit)

	response := ToUnitResponse(unit)
	return &response, nil
}

// GradeGroup applies one QC decision to every unit of a group. Failures are
// reported per unit; units already graded stay graded.
func (s *GradingService) GradeGroup(ctx context.Context, key string, req GradingRequest) (*BulkGradingResult, error) {
	grading := req.ToGrading()
	if err := grading.Validate(); err != nil {
		return nil, err
	}

	normalized := returns.NormalizeGroupKey(key)
	units, err := s.repo.FindByGroupKey(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, shared.ErrNotFound
	}

	at := time.Now()
	result := &BulkGradingResult{Key: normalized, Requested: len(units)}
	for i := range units {
		unit := &units[i]
		if err := s.gradeOne(ctx, unit, grading, at); err != nil {
			result.Failed = append(result.Failed, GradingFailure{
				UnitID: unit.ID,
				Reason: err.Error(),
			})
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

func (s *GradingService) gradeOne(ctx context.Context, unit *returns.ReturnUnit, g returns.Grading, at time.Time) error {
	if err := unit.ApplyGrading(g, at); err != nil {
		return err
	}
	if err := s.repo.SaveWithLock(ctx, unit); err != nil {
		return err
	}
	s.publishEvents(ctx, unit)
	return nil
}

// Split carves a quantity out of a unit into a new child. When a grading
// decision is supplied, the child is graded immediately.
func (s *GradingService) Split(ctx context.Context, id uuid.UUID, req SplitRequest) (*SplitResult, error) {
	parent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	at := time.Now()
	child, err := parent.Split(req.Quantity, at)
	if err != nil {
		return nil, err
	}
	if req.Grading != nil {
		if err := child.ApplyGrading(req.Grading.ToGrading(), at); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveWithLock(ctx, parent); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, child); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, parent)
	s.publishEvents(ctx, child)

	return &SplitResult{
		Parent: ToUnitResponse(parent),
		Child:  ToUnitResponse(child),
	}, nil
}

func (s *GradingService) publishEvents(ctx context.Context, unit *returns.ReturnUnit) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range unit.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	unit.ClearDomainEvents()
}
