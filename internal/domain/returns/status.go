package returns

// Channel identifies which lifecycle a return unit follows. It is derived
// from the unit's reference fields and never stored.
type Channel string

const (
	// ChannelIncident covers NCR-driven returns (quality incidents reported
	// against a shipment).
	ChannelIncident Channel = "incident"
	// ChannelCollection covers scheduled collection rounds picked up at
	// branches and consolidated before the line-haul to the hub.
	ChannelCollection Channel = "collection"
)

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	return c == ChannelIncident || c == ChannelCollection
}

// String returns the string representation
func (c Channel) String() string {
	return string(c)
}

// Status represents the lifecycle stage of a return unit
type Status string

const (
	StatusRequested      Status = "Requested"
	StatusJobAccepted    Status = "JobAccepted"
	StatusBranchReceived Status = "BranchReceived"
	StatusConsolidated   Status = "Consolidated"
	StatusInTransit      Status = "InTransit"
	StatusHubReceived    Status = "HubReceived"
	StatusQCCompleted    Status = "QCCompleted"
	StatusDocumented     Status = "Documented"
	StatusCompleted      Status = "Completed"
	StatusSettledOnField Status = "Settled_OnField"
)

// incidentSequence is the ordered stage list for the incident channel.
var incidentSequence = []Status{
	StatusRequested,
	StatusInTransit,
	StatusHubReceived,
	StatusQCCompleted,
	StatusDocumented,
	StatusCompleted,
}

// collectionSequence is the ordered stage list for the collection channel.
var collectionSequence = []Status{
	StatusRequested,
	StatusJobAccepted,
	StatusBranchReceived,
	StatusConsolidated,
	StatusInTransit,
	StatusHubReceived,
	StatusDocumented,
	StatusCompleted,
}

// statusAliases canonicalizes status values written by older releases of the
// hub software. Unknown values are rejected, never passed through.
var statusAliases = map[string]Status{
	"Requested":          StatusRequested,
	"JobAccepted":        StatusJobAccepted,
	"BranchReceived":     StatusBranchReceived,
	"Consolidated":       StatusConsolidated,
	"InTransit":          StatusInTransit,
	"HubReceived":        StatusHubReceived,
	"QCCompleted":        StatusQCCompleted,
	"Documented":         StatusDocumented,
	"Completed":          StatusCompleted,
	"Settled_OnField":    StatusSettledOnField,
	"NCR_InTransit":      StatusInTransit,
	"NCR_HubReceived":    StatusHubReceived,
	"NCR_QCCompleted":    StatusQCCompleted,
	"NCR_Documented":     StatusDocumented,
	"COL_JobAccepted":    StatusJobAccepted,
	"COL_BranchReceived": StatusBranchReceived,
	"COL_Consolidated":   StatusConsolidated,
	"COL_InTransit":      StatusInTransit,
	"COL_HubReceived":    StatusHubReceived,
	"COL_Documented":     StatusDocumented,
	"PickupScheduled":    StatusJobAccepted,
	"ReadyForLogistics":  StatusConsolidated,
	"InTransitToHub":     StatusInTransit,
	"ReceivedAtHub":      StatusHubReceived,
	"DocsCompleted":      StatusDocumented,
}

// reversalTable lists the stages a supervisor may walk a unit back from,
// per channel. It is intentionally narrower than the inverse of the forward
// sequence: early stages and terminals cannot be reversed.
var reversalTable = map[Channel]map[Status]Status{
	ChannelIncident: {
		StatusHubReceived: StatusInTransit,
		StatusQCCompleted: StatusHubReceived,
		StatusDocumented:  StatusQCCompleted,
	},
	ChannelCollection: {
		StatusInTransit:   StatusConsolidated,
		StatusHubReceived: StatusInTransit,
		StatusDocumented:  StatusHubReceived,
	},
}

// CanonicalStatus maps a raw status value, possibly written by an older
// release, to its canonical form.
func CanonicalStatus(raw string) (Status, bool) {
	s, ok := statusAliases[raw]
	return s, ok
}

// IsValid checks if the status is a canonical value
func (s Status) IsValid() bool {
	canonical, ok := statusAliases[string(s)]
	return ok && canonical == s
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends the lifecycle for both channels.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSettledOnField
}

// Sequence returns the ordered stage list for a channel.
func Sequence(c Channel) []Status {
	if c == ChannelIncident {
		return incidentSequence
	}
	return collectionSequence
}

// NextStatus returns the immediate successor of s in the channel's sequence.
// The second return is false when s is terminal, Settled_OnField, or not part
// of the channel's sequence.
func NextStatus(c Channel, s Status) (Status, bool) {
	seq := Sequence(c)
	for i, cur := range seq {
		if cur == s && i+1 < len(seq) {
			return seq[i+1], true
		}
	}
	return "", false
}

// ReversalTarget returns the stage an authorized reversal moves the unit to.
// Only stages listed in the reversal table can be reversed.
func ReversalTarget(c Channel, s Status) (Status, bool) {
	targets, ok := reversalTable[c]
	if !ok {
		return "", false
	}
	t, ok := targets[s]
	return t, ok
}

// GradingCompleteStatus returns the status a unit holds once grading is done
// for the given channel. Incident units pass through a dedicated QC stage;
// collection units are graded in place at the hub-received stage.
func GradingCompleteStatus(c Channel) Status {
	if c == ChannelIncident {
		return StatusQCCompleted
	}
	return StatusHubReceived
}

// PreGradingStatus returns the status a unit must hold for grading to apply.
func PreGradingStatus(c Channel) Status {
	return StatusHubReceived
}

// InSequence reports whether s belongs to the channel's stage sequence.
func InSequence(c Channel, s Status) bool {
	for _, cur := range Sequence(c) {
		if cur == s {
			return true
		}
	}
	return false
}
