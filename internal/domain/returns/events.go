package returns

import (
	"github.com/google/uuid"

	"github.com/returnhub/backend/internal/domain/shared"
)

// Event types
const (
	EventUnitCreated      = "returns.unit.created"
	EventUnitTransitioned = "returns.unit.transitioned"
	EventUnitGraded       = "returns.unit.graded"
	EventUnitSettled      = "returns.unit.settled"
	EventUnitSplit        = "returns.unit.split"
)

const aggregateTypeReturnUnit = "ReturnUnit"

// UnitCreatedEvent is raised when a return unit is registered
type UnitCreatedEvent struct {
	shared.BaseDomainEvent
	RefNo     string  `json:"ref_no"`
	NCRNumber string  `json:"ncr_number,omitempty"`
	Channel   Channel `json:"channel"`
	Branch    string  `json:"branch"`
	Quantity  int     `json:"quantity"`
}

// NewUnitCreatedEvent creates a new unit created event
func NewUnitCreatedEvent(u *ReturnUnit) *UnitCreatedEvent {
	return &UnitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUnitCreated, aggregateTypeReturnUnit, u.ID),
		RefNo:           u.RefNo,
		NCRNumber:       u.NCRNumber,
		Channel:         u.Channel(),
		Branch:          u.Branch,
		Quantity:        u.Quantity,
	}
}

// UnitTransitionedEvent is raised on every status change, forward or reversed
type UnitTransitionedEvent struct {
	shared.BaseDomainEvent
	From     Status `json:"from"`
	To       Status `json:"to"`
	Reversal bool   `json:"reversal"`
}

// NewUnitTransitionedEvent creates a new transition event
func NewUnitTransitionedEvent(u *ReturnUnit, from, to Status, reversal bool) *UnitTransitionedEvent {
	return &UnitTransitionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUnitTransitioned, aggregateTypeReturnUnit, u.ID),
		From:            from,
		To:              to,
		Reversal:        reversal,
	}
}

// UnitGradedEvent is raised when a QC decision is recorded
type UnitGradedEvent struct {
	shared.BaseDomainEvent
	Grade       ConditionGrade `json:"grade"`
	Disposition Disposition    `json:"disposition"`
}

// NewUnitGradedEvent creates a new unit graded event
func NewUnitGradedEvent(u *ReturnUnit) *UnitGradedEvent {
	return &UnitGradedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUnitGraded, aggregateTypeReturnUnit, u.ID),
		Grade:           u.Condition,
		Disposition:     u.Disposition,
	}
}

// UnitSettledEvent is raised when a unit is settled in the field
type UnitSettledEvent struct {
	shared.BaseDomainEvent
	Signer string `json:"signer"`
	Amount string `json:"amount"`
}

// NewUnitSettledEvent creates a new field settlement event
func NewUnitSettledEvent(u *ReturnUnit) *UnitSettledEvent {
	return &UnitSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUnitSettled, aggregateTypeReturnUnit, u.ID),
		Signer:          u.SettlementSigner,
		Amount:          u.SettlementAmount.String(),
	}
}

// UnitSplitEvent is raised on the parent when a unit is split
type UnitSplitEvent struct {
	shared.BaseDomainEvent
	ChildID       uuid.UUID `json:"child_id"`
	ChildQuantity int       `json:"child_quantity"`
}

// NewUnitSplitEvent creates a new unit split event
func NewUnitSplitEvent(parent, child *ReturnUnit) *UnitSplitEvent {
	return &UnitSplitEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUnitSplit, aggregateTypeReturnUnit, parent.ID),
		ChildID:         child.ID,
		ChildQuantity:   child.Quantity,
	}
}
