package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalStatus(t *testing.T) {
	t.Run("canonical values map to themselves", func(t *testing.T) {
		for _, s := range []Status{
			StatusRequested, StatusJobAccepted, StatusBranchReceived,
			StatusConsolidated, StatusInTransit, StatusHubReceived,
			StatusQCCompleted, StatusDocumented, StatusCompleted,
			StatusSettledOnField,
		} {
			got, ok := CanonicalStatus(string(s))
			require.True(t, ok, "status %s", s)
			assert.Equal(t, s, got)
		}
	})

	t.Run("channel-prefixed aliases canonicalize", func(t *testing.T) {
		cases := map[string]Status{
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
		}
		for raw, want := range cases {
			got, ok := CanonicalStatus(raw)
			require.True(t, ok, "alias %s", raw)
			assert.Equal(t, want, got)
		}
	})

	t.Run("pre-channel legacy aliases canonicalize", func(t *testing.T) {
		cases := map[string]Status{
			"PickupScheduled":   StatusJobAccepted,
			"ReadyForLogistics": StatusConsolidated,
			"InTransitToHub":    StatusInTransit,
			"ReceivedAtHub":     StatusHubReceived,
			"DocsCompleted":     StatusDocumented,
		}
		for raw, want := range cases {
			got, ok := CanonicalStatus(raw)
			require.True(t, ok, "alias %s", raw)
			assert.Equal(t, want, got)
		}
	})

	t.Run("unknown values are rejected", func(t *testing.T) {
		_, ok := CanonicalStatus("Shipped")
		assert.False(t, ok)
		_, ok = CanonicalStatus("")
		assert.False(t, ok)
	})
}

func TestNextStatus(t *testing.T) {
	t.Run("incident sequence", func(t *testing.T) {
		want := []Status{
			StatusRequested, StatusInTransit, StatusHubReceived,
			StatusQCCompleted, StatusDocumented, StatusCompleted,
		}
		for i := 0; i < len(want)-1; i++ {
			next, ok := NextStatus(ChannelIncident, want[i])
			require.True(t, ok, "from %s", want[i])
			assert.Equal(t, want[i+1], next)
		}
	})

	t.Run("collection sequence", func(t *testing.T) {
		want := []Status{
			StatusRequested, StatusJobAccepted, StatusBranchReceived,
			StatusConsolidated, StatusInTransit, StatusHubReceived,
			StatusDocumented, StatusCompleted,
		}
		for i := 0; i < len(want)-1; i++ {
			next, ok := NextStatus(ChannelCollection, want[i])
			require.True(t, ok, "from %s", want[i])
			assert.Equal(t, want[i+1], next)
		}
	})

	t.Run("terminals have no successor", func(t *testing.T) {
		_, ok := NextStatus(ChannelIncident, StatusCompleted)
		assert.False(t, ok)
		_, ok = NextStatus(ChannelCollection, StatusSettledOnField)
		assert.False(t, ok)
	})

	t.Run("incident channel has no collection-only stages", func(t *testing.T) {
		_, ok := NextStatus(ChannelIncident, StatusJobAccepted)
		assert.False(t, ok)
		_, ok = NextStatus(ChannelIncident, StatusConsolidated)
		assert.False(t, ok)
	})
}

func TestReversalTarget(t *testing.T) {
	t.Run("listed stages reverse one step", func(t *testing.T) {
		target, ok := ReversalTarget(ChannelIncident, StatusQCCompleted)
		require.True(t, ok)
		assert.Equal(t, StatusHubReceived, target)

		target, ok = ReversalTarget(ChannelIncident, StatusDocumented)
		require.True(t, ok)
		assert.Equal(t, StatusQCCompleted, target)

		target, ok = ReversalTarget(ChannelCollection, StatusDocumented)
		require.True(t, ok)
		assert.Equal(t, StatusHubReceived, target)

		target, ok = ReversalTarget(ChannelCollection, StatusInTransit)
		require.True(t, ok)
		assert.Equal(t, StatusConsolidated, target)
	})

	t.Run("early stages and terminals cannot reverse", func(t *testing.T) {
		_, ok := ReversalTarget(ChannelIncident, StatusRequested)
		assert.False(t, ok)
		_, ok = ReversalTarget(ChannelCollection, StatusJobAccepted)
		assert.False(t, ok)
		_, ok = ReversalTarget(ChannelIncident, StatusCompleted)
		assert.False(t, ok)
		_, ok = ReversalTarget(ChannelCollection, StatusSettledOnField)
		assert.False(t, ok)
	})
}

func TestGradingStatuses(t *testing.T) {
	assert.Equal(t, StatusQCCompleted, GradingCompleteStatus(ChannelIncident))
	assert.Equal(t, StatusHubReceived, GradingCompleteStatus(ChannelCollection))
	assert.Equal(t, StatusHubReceived, PreGradingStatus(ChannelIncident))
	assert.Equal(t, StatusHubReceived, PreGradingStatus(ChannelCollection))
}
