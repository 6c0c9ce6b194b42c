package returns

import (
	"fmt"

	"github.com/returnhub/backend/internal/domain/shared"
)

// ConditionGrade classifies the physical state of a returned product
type ConditionGrade string

const (
	ConditionUnknown ConditionGrade = ""

	// Acceptable grades
	ConditionNew             ConditionGrade = "New"
	ConditionBoxDamage       ConditionGrade = "BoxDamage"
	ConditionWetBox          ConditionGrade = "WetBox"
	ConditionLabelDefect     ConditionGrade = "LabelDefect"
	ConditionOtherAcceptable ConditionGrade = "OtherAcceptable"

	// Defective grades
	ConditionExpired        ConditionGrade = "Expired"
	ConditionDamaged        ConditionGrade = "Damaged"
	ConditionDefective      ConditionGrade = "Defective"
	ConditionOtherDefective ConditionGrade = "OtherDefective"
)

// IsValid checks if the grade is a known value
func (g ConditionGrade) IsValid() bool {
	return g.IsAcceptable() || g.IsDefective()
}

// IsAcceptable reports whether the grade allows the product back into stock
func (g ConditionGrade) IsAcceptable() bool {
	switch g {
	case ConditionNew, ConditionBoxDamage, ConditionWetBox, ConditionLabelDefect, ConditionOtherAcceptable:
		return true
	}
	return false
}

// IsDefective reports whether the grade marks the product as unusable
func (g ConditionGrade) IsDefective() bool {
	switch g {
	case ConditionExpired, ConditionDamaged, ConditionDefective, ConditionOtherDefective:
		return true
	}
	return false
}

// RequiresNote reports whether the grade needs a free-text description
func (g ConditionGrade) RequiresNote() bool {
	return g == ConditionOtherAcceptable || g == ConditionOtherDefective
}

// String returns the string representation
func (g ConditionGrade) String() string {
	return string(g)
}

// Disposition is the routing decision for a graded unit
type Disposition string

const (
	DispositionPending     Disposition = "Pending"
	DispositionRestock     Disposition = "Restock"
	DispositionRTV         Disposition = "RTV"
	DispositionInternalUse Disposition = "InternalUse"
	DispositionRecycle     Disposition = "Recycle"
	DispositionClaim       Disposition = "Claim"
)

// IsValid checks if the disposition is a known value
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionPending, DispositionRestock, DispositionRTV,
		DispositionInternalUse, DispositionRecycle, DispositionClaim:
		return true
	}
	return false
}

// IsDecided reports whether the disposition routes the unit somewhere
func (d Disposition) IsDecided() bool {
	return d.IsValid() && d != DispositionPending
}

// String returns the string representation
func (d Disposition) String() string {
	return string(d)
}

// Grading carries a QC decision: the condition grade, the disposition, and
// the ancillary data the chosen disposition requires.
type Grading struct {
	Grade       ConditionGrade
	GradeNote   string
	Disposition Disposition

	// RTV
	ReturnRoute string
	// Restock
	BuyerName  string
	BuyerPhone string
	// InternalUse
	UsageDetail string
	// Claim
	ClaimInsurer     string
	ClaimCoordinator string
	ClaimPhone       string
}

// Validate checks the grading decision for completeness. A unit may only be
// graded with a known non-empty grade and a decided disposition, and the
// disposition's required ancillary fields must be present.
func (g Grading) Validate() error {
	if !g.Grade.IsValid() {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("condition grade %q is not recognized", g.Grade))
	}
	if g.Grade.RequiresNote() && g.GradeNote == "" {
		return shared.NewDomainError("INVALID_INPUT",
			"condition grade Other requires a description")
	}
	if !g.Disposition.IsValid() {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("disposition %q is not recognized", g.Disposition))
	}
	if !g.Disposition.IsDecided() {
		return shared.NewDomainError("INVALID_INPUT",
			"grading requires a decided disposition")
	}
	switch g.Disposition {
	case DispositionRTV:
		if g.ReturnRoute == "" {
			return shared.NewDomainError("INVALID_INPUT",
				"RTV disposition requires a return route")
		}
	case DispositionRestock:
		if g.BuyerName == "" {
			return shared.NewDomainError("INVALID_INPUT",
				"Restock disposition requires a buyer name")
		}
	case DispositionInternalUse:
		if g.UsageDetail == "" {
			return shared.NewDomainError("INVALID_INPUT",
				"InternalUse disposition requires a usage detail")
		}
	case DispositionClaim:
		if g.ClaimInsurer == "" {
			return shared.NewDomainError("INVALID_INPUT",
				"Claim disposition requires an insurer")
		}
	}
	return nil
}
