package campaign

// Importance tiers gate how many optional NPC fields get rolled.
type Importance int

const (
	ImportanceMinor Importance = iota
	ImportanceSupporting
	ImportanceMajor
)

func (i Importance) String() string {
	switch i {
	case ImportanceSupporting:
		return "supporting"
	case ImportanceMajor:
		return "major"
	default:
		return "minor"
	}
}

// NPC is a generated non-player character attached to the campaign.
type NPC struct {
	ID         string
	Name       string
	Species    string
	Role       string
	Mood       string
	Quirk      string
	Goal       string
	Importance Importance
	SceneID    string
	LocationID string
}

// AddNPC registers an NPC with the campaign.
func (c *Campaign) AddNPC(npc *NPC) {
	c.NPCs = append(c.NPCs, npc)
}
