package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/returnhub/backend/internal/domain/returns"
)

// CreateUnitRequest contains the data to register a return unit
type CreateUnitRequest struct {
	RefNo             string          `json:"ref_no"`
	NeoRefNo          string          `json:"neo_ref_no"`
	DocumentNo        string          `json:"document_no"`
	CollectionOrderID string          `json:"collection_order_id"`
	NCRNumber         string          `json:"ncr_number"`
	Incident          bool            `json:"incident"`
	Branch            string          `json:"branch" binding:"required"`
	CustomerName      string          `json:"customer_name"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name" binding:"required"`
	Category          string          `json:"category"`
	RecordDate        *time.Time      `json:"record_date"`
	Quantity          int             `json:"quantity" binding:"required,gt=0"`
	Unit              string          `json:"unit"`
	BillPrice         decimal.Decimal `json:"bill_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	Reason            string          `json:"reason"`
	Notes             string          `json:"notes"`
	ProblemType       string          `json:"problem_type"`
	RootCause         string          `json:"root_cause"`
}

// UpdateUnitRequest contains the descriptive fields that may be edited after
// registration. Lifecycle fields move through their own operations.
type UpdateUnitRequest struct {
	CustomerName *string          `json:"customer_name"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	BillPrice    *decimal.Decimal `json:"bill_price"`
	SellPrice    *decimal.Decimal `json:"sell_price"`
	ExpiryDate   *time.Time       `json:"expiry_date"`
	Reason       *string          `json:"reason"`
	Notes        *string          `json:"notes"`
	ProblemType  *string          `json:"problem_type"`
	RootCause    *string          `json:"root_cause"`
}

// GradingRequest carries a QC decision for one unit or a whole group
type GradingRequest struct {
	Grade            string `json:"grade" binding:"required"`
	GradeNote        string `json:"grade_note"`
	Disposition      string `json:"disposition" binding:"required"`
	ReturnRoute      string `json:"return_route"`
	BuyerName        string `json:"buyer_name"`
	BuyerPhone       string `json:"buyer_phone"`
	UsageDetail      string `json:"usage_detail"`
	ClaimInsurer     string `json:"claim_insurer"`
	ClaimCoordinator string `json:"claim_coordinator"`
	ClaimPhone       string `json:"claim_phone"`
}

// ToGrading converts the request into a domain grading decision
func (r GradingRequest) ToGrading() returns.Grading {
	return returns.Grading{
		Grade:            returns.ConditionGrade(r.Grade),
		GradeNote:        r.GradeNote,
		Disposition:      returns.Disposition(r.Disposition),
		ReturnRoute:      r.ReturnRoute,
		BuyerName:        r.BuyerName,
		BuyerPhone:       r.BuyerPhone,
		UsageDetail:      r.UsageDetail,
		ClaimInsurer:     r.ClaimInsurer,
		ClaimCoordinator: r.ClaimCoordinator,
		ClaimPhone:       r.ClaimPhone,
	}
}

// SplitRequest carves a quantity out of a unit, optionally grading the child
type SplitRequest struct {
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Grading  *GradingRequest `json:"grading"`
}

// AdvanceRequest names the stage a unit should move into
type AdvanceRequest struct {
	Target string `json:"target" binding:"required"`
}

// ReverseRequest walks a unit back one stage, supervisor-authorized
type ReverseRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// DeleteRequest removes a unit or group, supervisor-authorized
type DeleteRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// SettlementRequest records an on-the-spot field settlement
type SettlementRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Evidence   string          `json:"evidence"`
	SignerName string          `json:"signer_name" binding:"required"`
	SignerRole string          `json:"signer_role"`
}

// UnitResponse is the API representation of a return unit
type UnitResponse struct {
	ID                uuid.UUID       `json:"id"`
	RefNo             string          `json:"ref_no"`
	NeoRefNo          string          `json:"neo_ref_no,omitempty"`
	DocumentNo        string          `json:"document_no,omitempty"`
	CollectionOrderID string          `json:"collection_order_id,omitempty"`
	NCRNumber         string          `json:"ncr_number,omitempty"`
	Channel           string          `json:"channel"`
	GroupKey          string          `json:"group_key"`
	Branch            string          `json:"branch"`
	CustomerName      string          `json:"customer_name,omitempty"`
	ProductCode       string          `json:"product_code,omitempty"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category,omitempty"`
	RecordDate        time.Time       `json:"record_date"`
	Quantity          int             `json:"quantity"`
	Unit              string          `json:"unit,omitempty"`
	BillPrice         decimal.Decimal `json:"bill_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Amount            decimal.Decimal `json:"amount"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Status            string          `json:"status"`
	Reason            string          `json:"reason,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	ProblemType       string          `json:"problem_type,omitempty"`
	RootCause         string          `json:"root_cause,omitempty"`

	Condition     string `json:"condition,omitempty"`
	ConditionNote string `json:"condition_note,omitempty"`
	Disposition   string `json:"disposition"`

	ReturnRoute      string `json:"return_route,omitempty"`
	BuyerName        string `json:"buyer_name,omitempty"`
	BuyerPhone       string `json:"buyer_phone,omitempty"`
	UsageDetail      string `json:"usage_detail,omitempty"`
	ClaimInsurer     string `json:"claim_insurer,omitempty"`
	ClaimCoordinator string `json:"claim_coordinator,omitempty"`
	ClaimPhone       string `json:"claim_phone,omitempty"`

	RequestedAt      *time.Time `json:"requested_at,omitempty"`
	JobAcceptedAt    *time.Time `json:"job_accepted_at,omitempty"`
	BranchReceivedAt *time.Time `json:"branch_received_at,omitempty"`
	ConsolidatedAt   *time.Time `json:"consolidated_at,omitempty"`
	InTransitAt      *time.Time `json:"in_transit_at,omitempty"`
	HubReceivedAt    *time.Time `json:"hub_received_at,omitempty"`
	GradedAt         *time.Time `json:"graded_at,omitempty"`
	DocumentedAt     *time.Time `json:"documented_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	SettledAt        *time.Time `json:"settled_at,omitempty"`

	FieldSettled       bool            `json:"field_settled"`
	SettlementAmount   decimal.Decimal `json:"settlement_amount"`
	SettlementEvidence string          `json:"settlement_evidence,omitempty"`
	SettlementSigner   string          `json:"settlement_signer,omitempty"`
	SettlementRole     string          `json:"settlement_role,omitempty"`

	ParentID *uuid.UUID `json:"parent_id,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUnitResponse converts a domain unit to its API representation
func ToUnitResponse(u *returns.ReturnUnit) UnitResponse {
	return UnitResponse{
		ID:                 u.ID,
		RefNo:              u.RefNo,
		NeoRefNo:           u.NeoRefNo,
		DocumentNo:         u.DocumentNo,
		CollectionOrderID:  u.CollectionOrderID,
		NCRNumber:          u.NCRNumber,
		Channel:            u.Channel().String(),
		GroupKey:           u.GroupKey(),
		Branch:             u.Branch,
		CustomerName:       u.CustomerName,
		ProductCode:        u.ProductCode,
		ProductName:        u.ProductName,
		Category:           u.Category,
		RecordDate:         u.RecordDate,
		Quantity:           u.Quantity,
		Unit:               u.Unit,
		BillPrice:          u.BillPrice,
		SellPrice:          u.SellPrice,
		Amount:             u.Amount(),
		ExpiryDate:         u.ExpiryDate,
		Status:             u.Status.String(),
		Reason:             u.Reason,
		Notes:              u.Notes,
		ProblemType:        u.ProblemType,
		RootCause:          u.RootCause,
		Condition:          u.Condition.String(),
		ConditionNote:      u.ConditionNote,
		Disposition:        u.Disposition.String(),
		ReturnRoute:        u.ReturnRoute,
		BuyerName:          u.BuyerName,
		BuyerPhone:         u.BuyerPhone,
		UsageDetail:        u.UsageDetail,
		ClaimInsurer:       u.ClaimInsurer,
		ClaimCoordinator:   u.ClaimCoordinator,
		ClaimPhone:         u.ClaimPhone,
		RequestedAt:        u.RequestedAt,
		JobAcceptedAt:      u.JobAcceptedAt,
		BranchReceivedAt:   u.BranchReceivedAt,
		ConsolidatedAt:     u.ConsolidatedAt,
		InTransitAt:        u.InTransitAt,
		HubReceivedAt:      u.HubReceivedAt,
		GradedAt:           u.GradedAt,
		DocumentedAt:       u.DocumentedAt,
		CompletedAt:        u.CompletedAt,
		SettledAt:          u.SettledAt,
		FieldSettled:       u.FieldSettled,
		SettlementAmount:   u.SettlementAmount,
		SettlementEvidence: u.SettlementEvidence,
		SettlementSigner:   u.SettlementSigner,
		SettlementRole:     u.SettlementRole,
		ParentID:           u.ParentID,
		Version:            u.Version,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// ToUnitResponses converts a unit slice
func ToUnitResponses(units []returns.ReturnUnit) []UnitResponse {
	out := make([]UnitResponse, len(units))
	for i := range units {
		out[i] = ToUnitResponse(&units[i])
	}
	return out
}

// GroupResponse summarizes one reference group
type GroupResponse struct {
	Key            string          `json:"key"`
	Size           int             `json:"size"`
	TotalQuantity  int             `json:"total_quantity"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Representative UnitResponse    `json:"representative"`
	Units          []UnitResponse  `json:"units,omitempty"`
}

// StatusSummaryResponse reports unit counts per canonical status
type StatusSummaryResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// DocumentBatchRequest selects units for a document batch
type DocumentBatchRequest struct {
	UnitIDs      []uuid.UUID      `json:"unit_ids" binding:"required,min=1"`
	VATEnabled   *bool            `json:"vat_enabled"`
	VATRate      *decimal.Decimal `json:"vat_rate"`
	DiscountRate *decimal.Decimal `json:"discount_rate"`
}

// BatchLine is one unit's share of a document batch
type BatchLine struct {
	UnitID      uuid.UUID       `json:"unit_id"`
	RefNo       string          `json:"ref_no"`
	ProductName string          `json:"product_name"`
	Disposition string          `json:"disposition"`
	Quantity    int             `json:"quantity"`
	BillPrice   decimal.Decimal `json:"bill_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// BatchIneligible reports a unit that cannot join the batch
type BatchIneligible struct {
	UnitID uuid.UUID `json:"unit_id"`
	Reason string    `json:"reason"`
}

// BatchTotals is the money block of a document batch
type BatchTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	VAT      decimal.Decimal `json:"vat"`
	Net      decimal.Decimal `json:"net"`
}

// DocumentBatchPreview is the dry-run result of a document batch
type DocumentBatchPreview struct {
	Lines      []BatchLine       `json:"lines"`
	Ineligible []BatchIneligible `json:"ineligible,omitempty"`
	Totals     BatchTotals       `json:"totals"`
}

// BatchFailure reports one unit that failed during commit
type BatchFailure struct {
	UnitID uuid.UUID `json:"unit_id"`
	Reason string    `json:"reason"`
}

// DocumentBatchResult reports the outcome of a committed batch. Failures do
// not roll back the units already documented.
type DocumentBatchResult struct {
	DocumentedAt time.Time      `json:"documented_at"`
	Requested    int            `json:"requested"`
	Succeeded    int            `json:"succeeded"`
	Failed       []BatchFailure `json:"failed,omitempty"`
	Totals       BatchTotals    `json:"totals"`
}

// GradingFailure reports one unit that failed during bulk grading
type GradingFailure struct {
	UnitID uuid.UUID `json:"unit_id"`
	Reason string    `json:"reason"`
}

// BulkGradingResult reports the outcome of grading a group
type BulkGradingResult struct {
	Key       string           `json:"key"`
	Requested int              `json:"requested"`
	Succeeded int              `json:"succeeded"`
	Failed    []GradingFailure `json:"failed,omitempty"`
}

// SplitResult returns the parent and child after a split
type SplitResult struct {
	Parent UnitResponse `json:"parent"`
	Child  UnitResponse `json:"child"`
}
