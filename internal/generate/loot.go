package generate

import (
	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/dice"
)

// Loot table ids and fallbacks.
const (
	TableLoot        = "loot"
	TableLootTrinket = "loot-trinket"

	fallbackLoot = "A handful of tarnished coins"
)

// Loot is a generated treasure parcel.
type Loot struct {
	Items []string
	Coins int
}

// GenerateLoot rolls a treasure parcel at the campaign's current
// position. Richness scales with the danger modifier: riskier places pay
// better. An absent loot table still yields the fixed fallback item.
func (g *Generator) GenerateLoot(camp *campaign.Campaign, danger int) Loot {
	loot := Loot{
		Items: []string{g.rollText(camp, TableLoot, fallbackLoot)},
	}

	// Dangerous finds come with a trinket on top.
	if danger > 0 {
		if trinket := g.rollText(camp, TableLootTrinket, ""); trinket != "" {
			loot.Items = append(loot.Items, trinket)
		}
	}

	stream := camp.Stream()
	coins := dice.RollSpec(stream, dice.Spec{Count: 2, Sides: 6, Modifier: danger})
	camp.AdvanceSequence(coins.Sequence)
	camp.LogRoll(campaign.RollEntry{
		TableID:  TableLoot,
		Spec:     coins.Spec.String(),
		Faces:    coins.Faces,
		Total:    coins.Total,
		Sequence: coins.Sequence,
	})
	if coins.Total > 0 {
		loot.Coins = coins.Total
	}

	camp.LogEvent("found loot", camp.ActiveNodeID)
	return loot
}
