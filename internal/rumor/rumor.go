// Package rumor turns night testimony into rumor packets and spreads them
// through the NPC roster. Spread is a pure function of the run seed, the day,
// and the current adoption state, so replays propagate identically.
package rumor

import (
	"fmt"
	"math"

	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rng"
	"github.com/autinyork/LowBorn/internal/scene"
	"github.com/autinyork/LowBorn/internal/stats"
)

// Packet is one claim in circulation. Claim is what spreads; Truth rides
// along for the resolution log and never reaches other NPCs.
type Packet struct {
	ID        string   `json:"id"`
	Day       int      `json:"day"`
	SourceNpc string   `json:"sourceNpcId"`
	Claim     string   `json:"claim"`
	Truth     string   `json:"truth"`
	Intensity float64  `json:"intensity"`
	AdoptedBy []string `json:"adoptedBy"`
}

// Node tracks one NPC's relationship with the rumor mill. LastHeardDay is 0
// until the NPC first hears a rumor; days are 1-based.
type Node struct {
	Adopted      bool `json:"adopted"`
	HeardCount   int  `json:"heardCount"`
	SpreadCount  int  `json:"spreadCount"`
	LastHeardDay int  `json:"lastHeardDay"`
}

// Network is the adoption state keyed by NPC id.
type Network map[string]Node

// InitNetwork seeds an empty node for every NPC in the roster.
func InitNetwork(roster []npc.Profile) Network {
	n := make(Network, len(roster))
	for _, p := range roster {
		n[p.ID] = Node{}
	}
	return n
}

// Clone copies the network so propagation never mutates a live snapshot.
func (n Network) Clone() Network {
	out := make(Network, len(n))
	for id, node := range n {
		out[id] = node
	}
	return out
}

func intensityBias(choiceID string) float64 {
	switch choiceID {
	case scene.ChoiceEscalateCommander:
		return 0.12
	case scene.ChoiceDownplay:
		return -0.18
	case scene.ChoiceAccuseLiar:
		return 0.1
	default:
		return 0
	}
}

func spreadBias(choiceID string) float64 {
	switch choiceID {
	case scene.ChoiceEscalateCommander:
		return 0.08
	case scene.ChoiceDownplay:
		return -0.16
	case scene.ChoiceAccuseLiar:
		return 0.11
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildPackets converts tonight's reports into rumor packets. Alarming
// claims start hotter, confident reporters are believed more, and the
// debrief choice pushes intensity both ways.
func BuildPackets(reports []scene.Report, day int, choiceID string) []Packet {
	packets := make([]Packet, 0, len(reports))
	for i, rep := range reports {
		claim := rep.Claim()
		base := -0.08
		if scene.Alarming(claim) {
			base = 0.26
		}
		intensity := stats.ClampF(0.18+base+rep.Confidence*0.3+intensityBias(choiceID), 0.04, 0.98)
		packets = append(packets, Packet{
			ID:        fmt.Sprintf("rumor-%d-%s-%d", day, rep.NpcID, i+1),
			Day:       day,
			SourceNpc: rep.NpcID,
			Claim:     claim,
			Truth:     rep.Truth,
			Intensity: round2(intensity),
			AdoptedBy: []string{},
		})
	}
	return packets
}

// Outcome is the result of one night of propagation.
type Outcome struct {
	Packets    []Packet
	ReachCount int
	CampDelta  stats.CampDelta
	Network    Network
}

// Propagate spreads each packet through the roster. Every NPC rolls against
// an adoption chance built from the packet's intensity, their own fear and
// belief, prior adoption, the debrief choice, and camp discipline pushing
// back. Adopters may roll again to become spreaders. Camp-level fallout
// scales with how much of the roster any rumor reached.
func Propagate(seed string, week, day int, packets []Packet, roster []npc.Profile, network Network, discipline int, choiceID string) Outcome {
	r := rng.New(fmt.Sprintf("%s:week:%d:day:%d:rumor-propagation", seed, week, day))
	next := network.Clone()
	reached := map[string]bool{}
	out := make([]Packet, 0, len(packets))
	mod := spreadBias(choiceID)

	for _, packet := range packets {
		adoptedBy := []string{packet.SourceNpc}
		source := next[packet.SourceNpc]
		source.Adopted = true
		source.HeardCount++
		source.SpreadCount++
		source.LastHeardDay = day
		next[packet.SourceNpc] = source
		reached[packet.SourceNpc] = true

		for _, p := range roster {
			if p.ID == packet.SourceNpc {
				continue
			}
			node := next[p.ID]
			adoptBonus := 0.0
			if node.Adopted {
				adoptBonus = 0.08
			}
			chance := stats.ClampF(
				packet.Intensity*0.55+float64(p.Fear)/260+float64(p.Belief)/300+adoptBonus+mod-float64(discipline)/320,
				0.03, 0.93)
			if r.Float64() < chance {
				adoptedBy = append(adoptedBy, p.ID)
				reached[p.ID] = true
				node.Adopted = true
				node.HeardCount++
				node.LastHeardDay = day
				if r.Float64() < stats.ClampF(0.2+float64(p.Belief)/260, 0.15, 0.78) {
					node.SpreadCount++
				}
				next[p.ID] = node
			}
		}

		packet.AdoptedBy = adoptedBy
		out = append(out, packet)
	}

	reachRatio := 0.0
	if len(roster) > 0 {
		reachRatio = float64(len(reached)) / float64(len(roster))
	}
	delta := stats.CampDelta{Rumor: int(math.Max(0, math.Round(reachRatio*7)))}
	if reachRatio > 0.55 {
		delta.Morale = -1
	}
	if choiceID != scene.ChoiceEscalateCommander && reachRatio > 0.72 {
		delta.Discipline = -1
	}

	return Outcome{
		Packets:    out,
		ReachCount: len(reached),
		CampDelta:  delta,
		Network:    next,
	}
}
