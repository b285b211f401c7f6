package generate

import (
	"fmt"

	"github.com/hearthloom/soloquest/internal/campaign"
)

// NPC table ids and the fixed fallbacks used when a table is absent.
const (
	TableNPCName    = "npc-name"
	TableNPCSpecies = "npc-species"
	TableNPCRole    = "npc-role"
	TableNPCMood    = "npc-mood"
	TableNPCQuirk   = "npc-quirk"
	TableNPCGoal    = "npc-goal"

	fallbackNPCName    = "Rin"
	fallbackNPCSpecies = "Unknown"
	fallbackNPCRole    = "Wanderer"
	fallbackNPCMood    = "guarded"
)

// GenerateNPC rolls a new NPC at the campaign's current position. The
// importance tier gates how many optional fields get rolled: minor NPCs
// carry only name, species, and role; supporting ones add mood and quirk;
// major ones add a goal.
func (g *Generator) GenerateNPC(camp *campaign.Campaign, importance campaign.Importance) (*campaign.NPC, error) {
	npcID, err := g.newID()
	if err != nil {
		return nil, fmt.Errorf("generate npc id: %w", err)
	}

	npc := &campaign.NPC{
		ID:         npcID,
		Importance: importance,
		LocationID: camp.ActiveLocationID,
		Name:       g.rollText(camp, TableNPCName, fallbackNPCName),
		Species:    g.rollText(camp, TableNPCSpecies, fallbackNPCSpecies),
		Role:       g.rollText(camp, TableNPCRole, fallbackNPCRole),
	}

	if importance >= campaign.ImportanceSupporting {
		npc.Mood = g.rollText(camp, TableNPCMood, fallbackNPCMood)
		npc.Quirk = g.rollText(camp, TableNPCQuirk, "")
	}
	if importance >= campaign.ImportanceMajor {
		npc.Goal = g.rollText(camp, TableNPCGoal, "")
	}

	camp.AddNPC(npc)
	camp.LogEvent(fmt.Sprintf("met %s, a %s %s", npc.Name, npc.Species, npc.Role), npc.ID)
	return npc, nil
}
