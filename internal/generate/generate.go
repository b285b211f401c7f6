// Package generate layers domain post-processing over the table
// interpreter: NPCs, loot, and travel encounters. Every generator follows
// the same shape: build a roll context from the campaign's current scene
// and location, fill structured fields from tables, and fall back to a
// fixed literal whenever a table is absent or empty. Generation never
// blocks on missing content.
package generate

import (
	"strings"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/content"
	"github.com/hearthloom/soloquest/internal/interpreter"
	"github.com/hearthloom/soloquest/internal/platform/id"
)

// Generator draws from the content pack on behalf of a campaign.
type Generator struct {
	pack  *content.Pack
	newID func() (string, error)
}

// New creates a generator over the provided pack. A nil pack degrades
// every roll to its fixed fallback.
func New(pack *content.Pack) *Generator {
	return &Generator{pack: pack, newID: id.NewID}
}

// newGeneratorWithIDs is the test seam for deterministic ids.
func newGeneratorWithIDs(pack *content.Pack, newID func() (string, error)) *Generator {
	return &Generator{pack: pack, newID: newID}
}

// rollContext assembles the interpreter context from the campaign's
// current position.
func (g *Generator) rollContext(camp *campaign.Campaign, tags ...string) interpreter.Context {
	return interpreter.Context{
		CampaignID: camp.ID,
		LocationID: camp.ActiveLocationID,
		NodeID:     camp.ActiveNodeID,
		Tags:       tags,
	}
}

// execute runs a table at the campaign cursor, records its rolls, and
// advances the persisted sequence.
func (g *Generator) execute(camp *campaign.Campaign, tableID string, tags ...string) interpreter.Execution {
	exec := interpreter.Execute(g.pack, tableID, g.rollContext(camp, tags...), camp.Seed, camp.Sequence)
	camp.AdvanceSequence(exec.MaxSequence)
	for _, roll := range exec.Rolls {
		camp.LogRoll(campaign.RollEntry{
			TableID:  roll.TableID,
			Spec:     roll.Spec,
			Faces:    roll.Faces,
			Total:    roll.Total,
			Sequence: roll.Sequence,
		})
	}
	return exec
}

// rollText rolls a table and returns its log lines joined, or the
// fallback when the table is missing or yields nothing usable. A missing
// table is recognizable by its roll-free execution.
func (g *Generator) rollText(camp *campaign.Campaign, tableID, fallback string, tags ...string) string {
	exec := g.execute(camp, tableID, tags...)
	if len(exec.Rolls) == 0 || len(exec.Logs) == 0 {
		return fallback
	}
	return strings.Join(exec.Logs, ", ")
}
