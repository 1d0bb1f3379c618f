package rumor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/scene"
)

func sampleReports() []scene.Report {
	return []scene.Report{
		{NpcID: "npc-1", NpcName: "Aldric", Claims: []string{"howl"}, Truth: "howl", Confidence: 0.8},
		{NpcID: "npc-2", NpcName: "Berin", Claims: []string{scene.ClaimNothingUnusual}, Truth: "howl", Confidence: 0.4, Lying: true},
	}
}

func TestBuildPackets(t *testing.T) {
	packets := BuildPackets(sampleReports(), 3, "")
	require.Len(t, packets, 2)

	assert.Equal(t, "rumor-3-npc-1-1", packets[0].ID)
	assert.Equal(t, "rumor-3-npc-2-2", packets[1].ID)
	assert.Equal(t, "howl", packets[0].Claim)
	assert.Equal(t, "howl", packets[1].Truth, "the packet carries the hidden truth, not the claim")
	assert.Greater(t, packets[0].Intensity, packets[1].Intensity, "alarming claims start hotter")
	assert.Empty(t, packets[0].AdoptedBy)
}

func TestBuildPacketsChoiceBias(t *testing.T) {
	reports := sampleReports()
	escalated := BuildPackets(reports, 3, scene.ChoiceEscalateCommander)
	downplayed := BuildPackets(reports, 3, scene.ChoiceDownplay)
	neutral := BuildPackets(reports, 3, scene.ChoiceInvestigateQuietly)

	assert.Greater(t, escalated[0].Intensity, neutral[0].Intensity)
	assert.Less(t, downplayed[0].Intensity, neutral[0].Intensity)
}

func TestInitNetwork(t *testing.T) {
	roster := npc.BuildRoster("network-seed")
	n := InitNetwork(roster)
	require.Len(t, n, len(roster))
	for _, node := range n {
		assert.Equal(t, Node{}, node)
	}
}

func TestPropagateDeterministic(t *testing.T) {
	roster := npc.BuildRoster("propagation-seed")
	packets := BuildPackets(sampleReports(), 2, "")
	network := InitNetwork(roster)

	a := Propagate("propagation-seed", 1, 2, packets, roster, network, 50, "")
	b := Propagate("propagation-seed", 1, 2, packets, roster, network, 50, "")
	assert.Equal(t, a, b)
}

func TestPropagateDoesNotMutateInput(t *testing.T) {
	roster := npc.BuildRoster("mutation-seed")
	packets := BuildPackets(sampleReports(), 2, "")
	network := InitNetwork(roster)

	_ = Propagate("mutation-seed", 1, 2, packets, roster, network, 50, "")
	for _, node := range network {
		assert.Equal(t, Node{}, node, "the input network must stay untouched")
	}
	assert.Empty(t, packets[0].AdoptedBy)
}

func TestPropagateSourceAlwaysAdopts(t *testing.T) {
	roster := npc.BuildRoster("source-seed")
	reports := []scene.Report{{NpcID: roster[0].ID, NpcName: roster[0].Name, Claims: []string{"howl"}, Truth: "howl", Confidence: 0.9}}
	packets := BuildPackets(reports, 1, "")

	out := Propagate("source-seed", 1, 1, packets, roster, InitNetwork(roster), 50, "")
	require.Len(t, out.Packets, 1)
	assert.Equal(t, roster[0].ID, out.Packets[0].AdoptedBy[0])
	assert.GreaterOrEqual(t, out.ReachCount, 1)

	source := out.Network[roster[0].ID]
	assert.True(t, source.Adopted)
	assert.Equal(t, 1, source.HeardCount)
	assert.Equal(t, 1, source.SpreadCount)
	assert.Equal(t, 1, source.LastHeardDay)
}

func TestPropagateDisciplineDampens(t *testing.T) {
	roster := npc.BuildRoster("discipline-seed")
	packets := BuildPackets(sampleReports(), 4, "")
	network := InitNetwork(roster)

	lax := Propagate("discipline-seed", 1, 4, packets, roster, network, 0, "")
	strict := Propagate("discipline-seed", 1, 4, packets, roster, network, 100, "")
	assert.GreaterOrEqual(t, lax.ReachCount, strict.ReachCount)
}

func TestPropagateCampDelta(t *testing.T) {
	roster := npc.BuildRoster("delta-seed")
	network := InitNetwork(roster)

	// Saturate the roster with many hot packets so reach goes high.
	var reports []scene.Report
	for i, p := range roster {
		if i >= 4 {
			break
		}
		reports = append(reports, scene.Report{NpcID: p.ID, NpcName: p.Name, Claims: []string{"missing man"}, Truth: "missing man", Confidence: 0.95})
	}
	packets := BuildPackets(reports, 5, scene.ChoiceEscalateCommander)
	out := Propagate("delta-seed", 1, 5, packets, roster, network, 0, scene.ChoiceEscalateCommander)

	ratio := float64(out.ReachCount) / float64(len(roster))
	assert.Positive(t, out.CampDelta.Rumor)
	assert.Equal(t, 0, out.CampDelta.Discipline, "escalation shields discipline from rumor fallout")
	if ratio > 0.55 {
		assert.Equal(t, -1, out.CampDelta.Morale)
	}
}

func TestPropagateReachCapsAtRoster(t *testing.T) {
	for i := 0; i < 10; i++ {
		seed := fmt.Sprintf("reach-%d", i)
		roster := npc.BuildRoster(seed)
		packets := BuildPackets(sampleReports(), 6, "")
		out := Propagate(seed, 1, 6, packets, roster, InitNetwork(roster), 50, "")
		assert.LessOrEqual(t, out.ReachCount, len(roster))
		for _, p := range out.Packets {
			assert.LessOrEqual(t, len(p.AdoptedBy), len(roster))
		}
	}
}
