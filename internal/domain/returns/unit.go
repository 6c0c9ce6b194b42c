package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/returnhub/backend/internal/domain/shared"
)

// ReturnUnit is a single line of returned goods moving through the hub:
// one product, one quantity, one lifecycle. Units arriving on the same
// paperwork share a document number and are grouped at the interface layer.
type ReturnUnit struct {
	shared.BaseAggregateRoot

	RefNo             string `gorm:"size:64;index"`
	NeoRefNo          string `gorm:"size:64"`
	DocumentNo        string `gorm:"size:64;index"`
	CollectionOrderID string `gorm:"size:64;index"`
	NCRNumber         string `gorm:"size:32;index"`

	Branch       string `gorm:"size:128;not null"`
	CustomerName string `gorm:"size:255"`

	ProductCode string    `gorm:"size:64;index"`
	ProductName string    `gorm:"size:255;not null"`
	Category    string    `gorm:"size:128"`
	RecordDate  time.Time `gorm:"not null;index"`

	Quantity   int             `gorm:"not null"`
	Unit       string          `gorm:"size:32"`
	BillPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SellPrice  decimal.Decimal `gorm:"type:decimal(15,2)"`
	ExpiryDate *time.Time

	Status Status `gorm:"size:32;not null;index"`
	Reason string `gorm:"size:512"`
	Notes  string `gorm:"type:text"`

	ProblemType string `gorm:"size:128"`
	RootCause   string `gorm:"size:512"`

	Condition     ConditionGrade `gorm:"size:32"`
	ConditionNote string         `gorm:"size:512"`
	Disposition   Disposition    `gorm:"size:32;index"`

	ReturnRoute      string `gorm:"size:128"`
	BuyerName        string `gorm:"size:255"`
	BuyerPhone       string `gorm:"size:32"`
	UsageDetail      string `gorm:"size:512"`
	ClaimInsurer     string `gorm:"size:255"`
	ClaimCoordinator string `gorm:"size:255"`
	ClaimPhone       string `gorm:"size:32"`

	RequestedAt      *time.Time
	JobAcceptedAt    *time.Time
	BranchReceivedAt *time.Time
	ConsolidatedAt   *time.Time
	InTransitAt      *time.Time
	HubReceivedAt    *time.Time
	GradedAt         *time.Time
	DocumentedAt     *time.Time
	CompletedAt      *time.Time
	SettledAt        *time.Time

	FieldSettled       bool            `gorm:"not null;default:false"`
	SettlementAmount   decimal.Decimal `gorm:"type:decimal(15,2)"`
	SettlementEvidence string          `gorm:"size:512"`
	SettlementSigner   string          `gorm:"size:255"`
	SettlementRole     string          `gorm:"size:128"`

	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ReturnUnit) TableName() string {
	return "return_units"
}

// NewReturnUnitInput contains the fields needed to register a return unit
type NewReturnUnitInput struct {
	RefNo             string
	NeoRefNo          string
	DocumentNo        string
	CollectionOrderID string
	NCRNumber         string
	Branch            string
	CustomerName      string
	ProductCode       string
	ProductName       string
	Category          string
	RecordDate        time.Time
	Quantity          int
	Unit              string
	BillPrice         decimal.Decimal
	SellPrice         decimal.Decimal
	ExpiryDate        *time.Time
	Reason            string
	Notes             string
	ProblemType       string
	RootCause         string
}

// NewReturnUnit registers a return unit in the Requested stage
func NewReturnUnit(in NewReturnUnitInput) (*ReturnUnit, error) {
	if in.ProductName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be greater than zero")
	}
	if in.Branch == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "branch is required")
	}

	recordDate := in.RecordDate
	if recordDate.IsZero() {
		recordDate = time.Now()
	}
	requestedAt := recordDate

	u := &ReturnUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RefNo:             in.RefNo,
		NeoRefNo:          in.NeoRefNo,
		DocumentNo:        in.DocumentNo,
		CollectionOrderID: in.CollectionOrderID,
		NCRNumber:         in.NCRNumber,
		Branch:            in.Branch,
		CustomerName:      in.CustomerName,
		ProductCode:       in.ProductCode,
		ProductName:       in.ProductName,
		Category:          in.Category,
		RecordDate:        recordDate,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		BillPrice:         in.BillPrice,
		SellPrice:         in.SellPrice,
		ExpiryDate:        in.ExpiryDate,
		Status:            StatusRequested,
		Reason:            in.Reason,
		Notes:             in.Notes,
		ProblemType:       in.ProblemType,
		RootCause:         in.RootCause,
		Disposition:       DispositionPending,
		RequestedAt:       &requestedAt,
	}

	u.AddDomainEvent(NewUnitCreatedEvent(u))
	return u, nil
}

// Channel derives which lifecycle the unit follows. A unit carrying an NCR
// number is an incident return; everything else moves with the collection
// rounds.
func (u *ReturnUnit) Channel() Channel {
	if u.NCRNumber != "" {
		return ChannelIncident
	}
	return ChannelCollection
}

// Amount returns the unit's bill value, quantity times bill price
func (u *ReturnUnit) Amount() decimal.Decimal {
	return u.BillPrice.Mul(decimal.NewFromInt(int64(u.Quantity)))
}

// GroupKey returns the reference the unit is grouped under: document number,
// then collection order, then NCR number, then the unit's own ID.
func (u *ReturnUnit) GroupKey() string {
	switch {
	case u.DocumentNo != "":
		return NormalizeGroupKey(u.DocumentNo)
	case u.CollectionOrderID != "":
		return NormalizeGroupKey(u.CollectionOrderID)
	case u.NCRNumber != "":
		return NormalizeGroupKey(u.NCRNumber)
	}
	return NormalizeGroupKey(u.ID.String())
}

// Advance moves the unit to the next stage of its channel. The target must
// be the immediate successor of the current status.
func (u *ReturnUnit) Advance(target Status, at time.Time) error {
	next, ok := NextStatus(u.Channel(), u.Status)
	if !ok || next != target {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("cannot move %s unit from %s to %s", u.Channel(), u.Status, target))
	}
	from := u.Status
	u.Status = target
	u.stampStage(target, at)
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUnitTransitionedEvent(u, from, target, false))
	return nil
}

// Reverse walks the unit back to the immediate predecessor stage. Only the
// stages listed in the reversal table can be reversed; the caller is
// responsible for supervisor authorization. The timestamp of the stage being
// left is cleared.
func (u *ReturnUnit) Reverse() error {
	target, ok := ReversalTarget(u.Channel(), u.Status)
	if !ok {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("status %s cannot be reversed", u.Status))
	}
	from := u.Status
	u.clearStage(from)
	u.Status = target
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUnitTransitionedEvent(u, from, target, true))
	return nil
}

// ApplyGrading records a QC decision. The unit must sit at its channel's
// pre-grading stage. Incident units advance into the QC-completed stage;
// collection units keep their status and are graded in place.
func (u *ReturnUnit) ApplyGrading(g Grading, at time.Time) error {
	if err := g.Validate(); err != nil {
		return err
	}
	ch := u.Channel()
	if u.Status != PreGradingStatus(ch) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("unit in status %s cannot be graded", u.Status))
	}

	u.Condition = g.Grade
	u.ConditionNote = g.GradeNote
	u.Disposition = g.Disposition
	u.ReturnRoute = g.ReturnRoute
	u.BuyerName = g.BuyerName
	u.BuyerPhone = g.BuyerPhone
	u.UsageDetail = g.UsageDetail
	u.ClaimInsurer = g.ClaimInsurer
	u.ClaimCoordinator = g.ClaimCoordinator
	u.ClaimPhone = g.ClaimPhone
	u.GradedAt = &at

	if ch == ChannelIncident {
		from := u.Status
		u.Status = StatusQCCompleted
		u.AddDomainEvent(NewUnitTransitionedEvent(u, from, StatusQCCompleted, false))
	}
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUnitGradedEvent(u))
	return nil
}

// Document stamps the unit's paperwork. The unit must sit at its channel's
// grading-complete stage with a decided disposition. Field-settled units keep
// their terminal status and only receive the document timestamp.
func (u *ReturnUnit) Document(at time.Time) error {
	if u.Status == StatusSettledOnField {
		u.DocumentedAt = &at
		u.UpdatedAt = time.Now()
		return nil
	}
	if u.Status != GradingCompleteStatus(u.Channel()) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("unit in status %s cannot be documented", u.Status))
	}
	if !u.Disposition.IsDecided() {
		return shared.NewDomainError("INVALID_STATE",
			"unit has no decided disposition")
	}
	return u.Advance(StatusDocumented, at)
}

// Complete closes out a documented unit
func (u *ReturnUnit) Complete(at time.Time) error {
	return u.Advance(StatusCompleted, at)
}

// FieldSettlement records an on-the-spot resolution signed off in the field
type FieldSettlement struct {
	Amount     decimal.Decimal
	Evidence   string
	SignerName string
	SignerRole string
}

// SettleOnField closes the unit via a field settlement: the driver or branch
// resolved the return on the spot, bypassing the rest of the lifecycle.
// Allowed from any non-terminal stage past Requested.
func (u *ReturnUnit) SettleOnField(s FieldSettlement, at time.Time) error {
	if u.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("unit in status %s cannot be settled on field", u.Status))
	}
	if u.Status == StatusRequested {
		return shared.NewDomainError("INVALID_STATE",
			"unit must be past the request stage to settle on field")
	}
	if s.SignerName == "" {
		return shared.NewDomainError("INVALID_INPUT", "settlement signer is required")
	}
	from := u.Status
	u.Status = StatusSettledOnField
	u.FieldSettled = true
	u.SettlementAmount = s.Amount
	u.SettlementEvidence = s.Evidence
	u.SettlementSigner = s.SignerName
	u.SettlementRole = s.SignerRole
	u.SettledAt = &at
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUnitTransitionedEvent(u, from, StatusSettledOnField, false))
	u.AddDomainEvent(NewUnitSettledEvent(u))
	return nil
}

// Split carves childQty units out of this line into a new unit with its own
// lifecycle, typically because part of a line grades differently. The parent
// keeps the remainder; the child copies the descriptive fields, carries a
// -SP suffixed reference, and records its parent.
func (u *ReturnUnit) Split(childQty int, at time.Time) (*ReturnUnit, error) {
	if childQty <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "split quantity must be greater than zero")
	}
	if childQty >= u.Quantity {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("split quantity %d must be less than the unit quantity %d", childQty, u.Quantity))
	}
	if u.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("unit in status %s cannot be split", u.Status))
	}

	parentID := u.ID
	child := &ReturnUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RefNo:             u.RefNo + "-SP",
		NeoRefNo:          u.NeoRefNo,
		DocumentNo:        u.DocumentNo,
		CollectionOrderID: u.CollectionOrderID,
		NCRNumber:         u.NCRNumber,
		Branch:            u.Branch,
		CustomerName:      u.CustomerName,
		ProductCode:       u.ProductCode,
		ProductName:       u.ProductName,
		Category:          u.Category,
		RecordDate:        u.RecordDate,
		Quantity:          childQty,
		Unit:              u.Unit,
		BillPrice:         u.BillPrice,
		SellPrice:         u.SellPrice,
		ExpiryDate:        u.ExpiryDate,
		Status:            u.Status,
		Reason:            u.Reason,
		Notes:             u.Notes,
		ProblemType:       u.ProblemType,
		RootCause:         u.RootCause,
		Disposition:       DispositionPending,
		ParentID:          &parentID,
	}
	child.copyStageTimestamps(u)

	u.Quantity -= childQty
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUnitSplitEvent(u, child))
	return child, nil
}

// CanonicalizeStatus rewrites a legacy status value into canonical form.
// Persisted rows written by older releases carry channel-prefixed aliases.
func (u *ReturnUnit) CanonicalizeStatus() error {
	s, ok := CanonicalStatus(string(u.Status))
	if !ok {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("status %q is not recognized", u.Status))
	}
	u.Status = s
	return nil
}

func (u *ReturnUnit) stampStage(s Status, at time.Time) {
	switch s {
	case StatusRequested:
		u.RequestedAt = &at
	case StatusJobAccepted:
		u.JobAcceptedAt = &at
	case StatusBranchReceived:
		u.BranchReceivedAt = &at
	case StatusConsolidated:
		u.ConsolidatedAt = &at
	case StatusInTransit:
		u.InTransitAt = &at
	case StatusHubReceived:
		u.HubReceivedAt = &at
	case StatusQCCompleted:
		u.GradedAt = &at
	case StatusDocumented:
		u.DocumentedAt = &at
	case StatusCompleted:
		u.CompletedAt = &at
	case StatusSettledOnField:
		u.SettledAt = &at
	}
}

func (u *ReturnUnit) clearStage(s Status) {
	switch s {
	case StatusJobAccepted:
		u.JobAcceptedAt = nil
	case StatusBranchReceived:
		u.BranchReceivedAt = nil
	case StatusConsolidated:
		u.ConsolidatedAt = nil
	case StatusInTransit:
		u.InTransitAt = nil
	case StatusHubReceived:
		u.HubReceivedAt = nil
	case StatusQCCompleted:
		u.GradedAt = nil
	case StatusDocumented:
		u.DocumentedAt = nil
	case StatusCompleted:
		u.CompletedAt = nil
	}
}

func (c *ReturnUnit) copyStageTimestamps(u *ReturnUnit) {
	c.RequestedAt = u.RequestedAt
	c.JobAcceptedAt = u.JobAcceptedAt
	c.BranchReceivedAt = u.BranchReceivedAt
	c.ConsolidatedAt = u.ConsolidatedAt
	c.InTransitAt = u.InTransitAt
	c.HubReceivedAt = u.HubReceivedAt
}
