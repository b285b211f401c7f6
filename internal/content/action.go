package content

import (
	"encoding/json"
	"fmt"
)

// ActionKind identifies what a table entry action does when executed.
type ActionKind int

const (
	// ActionUnknown represents an action kind this build does not recognize.
	// Unknown actions are preserved and skipped, never treated as errors, so
	// newer content packs keep working on older engines.
	ActionUnknown ActionKind = iota
	// ActionSpawnNode creates a graph node (room, passage, ...).
	ActionSpawnNode
	// ActionSpawnEdge creates a graph edge between nodes.
	ActionSpawnEdge
	// ActionSpawnTrap attaches a trap to the current node.
	ActionSpawnTrap
	// ActionRollOnTable recursively rolls another table.
	ActionRollOnTable
	// ActionConditionalRoll draws an auxiliary roll and branches on it.
	ActionConditionalRoll
	// ActionLog appends a literal message to the execution log.
	ActionLog
)

func (k ActionKind) String() string {
	switch k {
	case ActionSpawnNode:
		return "spawnNode"
	case ActionSpawnEdge:
		return "spawnEdge"
	case ActionSpawnTrap:
		return "spawnTrap"
	case ActionRollOnTable:
		return "rollOnTable"
	case ActionConditionalRoll:
		return "conditionalRoll"
	case ActionLog:
		return "log"
	default:
		return "unknown"
	}
}

var actionKinds = map[string]ActionKind{
	"spawnNode":       ActionSpawnNode,
	"spawnEdge":       ActionSpawnEdge,
	"spawnTrap":       ActionSpawnTrap,
	"rollOnTable":     ActionRollOnTable,
	"conditionalRoll": ActionConditionalRoll,
	"log":             ActionLog,
}

// Action is one step of a table entry's effect. Only the fields relevant to
// its Kind are populated; everything else stays zero.
type Action struct {
	Kind ActionKind

	// spawnNode
	NodeType string
	Summary  string
	Tags     []string

	// spawnEdge
	EdgeType string
	Label    string
	Locked   bool
	Trapped  bool
	OneWay   bool

	// spawnTrap
	TrapName    string
	DetectSkill string
	DetectDC    int
	DisarmSkill string
	DisarmDC    int

	// rollOnTable
	TableID string

	// conditionalRoll
	Threshold int
	Dice      string
	Then      []Action
	Else      []Action

	// log
	Message string

	// Raw preserves the original JSON for unknown kinds.
	Raw json.RawMessage
}

// actionJSON is the wire shape of an action inside a content pack.
type actionJSON struct {
	Kind        string            `json:"kind"`
	NodeType    string            `json:"nodeType,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	EdgeType    string            `json:"edgeType,omitempty"`
	Label       string            `json:"label,omitempty"`
	Locked      bool              `json:"locked,omitempty"`
	Trapped     bool              `json:"trapped,omitempty"`
	OneWay      bool              `json:"oneWay,omitempty"`
	TrapName    string            `json:"trapName,omitempty"`
	DetectSkill string            `json:"detectSkill,omitempty"`
	DetectDC    int               `json:"detectDC,omitempty"`
	DisarmSkill string            `json:"disarmSkill,omitempty"`
	DisarmDC    int               `json:"disarmDC,omitempty"`
	TableID     string            `json:"tableId,omitempty"`
	Threshold   int               `json:"threshold,omitempty"`
	Dice        string            `json:"dice,omitempty"`
	Then        []json.RawMessage `json:"then,omitempty"`
	Else        []json.RawMessage `json:"else,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// MarshalJSON encodes an action back to its wire shape. Unknown actions
// emit their preserved raw payload untouched.
func (a Action) MarshalJSON() ([]byte, error) {
	if a.Kind == ActionUnknown && len(a.Raw) > 0 {
		return append(json.RawMessage(nil), a.Raw...), nil
	}

	wire := actionJSON{
		Kind:        a.Kind.String(),
		NodeType:    a.NodeType,
		Summary:     a.Summary,
		Tags:        a.Tags,
		EdgeType:    a.EdgeType,
		Label:       a.Label,
		Locked:      a.Locked,
		Trapped:     a.Trapped,
		OneWay:      a.OneWay,
		TrapName:    a.TrapName,
		DetectSkill: a.DetectSkill,
		DetectDC:    a.DetectDC,
		DisarmSkill: a.DisarmSkill,
		DisarmDC:    a.DisarmDC,
		TableID:     a.TableID,
		Threshold:   a.Threshold,
		Dice:        a.Dice,
		Message:     a.Message,
	}
	branches := []struct {
		in  []Action
		out *[]json.RawMessage
	}{
		{a.Then, &wire.Then},
		{a.Else, &wire.Else},
	}
	for _, branch := range branches {
		for _, nested := range branch.in {
			raw, err := json.Marshal(nested)
			if err != nil {
				return nil, err
			}
			*branch.out = append(*branch.out, raw)
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes an action, mapping unrecognized kinds to
// ActionUnknown with the raw payload preserved.
func (a *Action) UnmarshalJSON(data []byte) error {
	var wire actionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode action: %w", err)
	}

	kind, ok := actionKinds[wire.Kind]
	if !ok {
		*a = Action{Kind: ActionUnknown, Raw: append(json.RawMessage(nil), data...)}
		return nil
	}

	decoded := Action{
		Kind:        kind,
		NodeType:    wire.NodeType,
		Summary:     wire.Summary,
		Tags:        wire.Tags,
		EdgeType:    wire.EdgeType,
		Label:       wire.Label,
		Locked:      wire.Locked,
		Trapped:     wire.Trapped,
		OneWay:      wire.OneWay,
		TrapName:    wire.TrapName,
		DetectSkill: wire.DetectSkill,
		DetectDC:    wire.DetectDC,
		DisarmSkill: wire.DisarmSkill,
		DisarmDC:    wire.DisarmDC,
		TableID:     wire.TableID,
		Threshold:   wire.Threshold,
		Dice:        wire.Dice,
		Message:     wire.Message,
	}

	branches := []struct {
		raw []json.RawMessage
		out *[]Action
	}{
		{wire.Then, &decoded.Then},
		{wire.Else, &decoded.Else},
	}
	for _, branch := range branches {
		for _, raw := range branch.raw {
			var nested Action
			if err := nested.UnmarshalJSON(raw); err != nil {
				return err
			}
			*branch.out = append(*branch.out, nested)
		}
	}

	*a = decoded
	return nil
}
