// Package interpreter executes content-pack tables: roll, select the
// matching entry, run its actions in order, recursing into nested tables
// while carrying one deterministic stream through the whole call tree.
package interpreter

import (
	"fmt"

	"github.com/hearthloom/soloquest/internal/content"
	"github.com/hearthloom/soloquest/internal/dice"
	"github.com/hearthloom/soloquest/internal/random"
)

// MaxDepth is the recursion ceiling for nested table calls. Content packs
// with self-referential rollOnTable cycles hit the ceiling and degrade to
// a diagnostic log line instead of recursing forever.
const MaxDepth = 16

// Context is the ambient campaign metadata threaded through an execution.
// The interpreter reads it for attribution and depth tracking and never
// mutates the caller's copy.
type Context struct {
	CampaignID     string
	SceneID        string
	LocationID     string
	NodeID         string
	Tags           []string
	DangerModifier int
	Depth          int
}

// Roll records one die draw made during an execution, in execution order.
type Roll struct {
	TableID  string
	Spec     string
	Faces    []int
	Total    int
	Sequence uint64
}

// SpawnedNode is a node requested by a spawnNode action.
type SpawnedNode struct {
	Type    string
	Summary string
	Tags    []string
}

// SpawnedEdge is an edge requested by a spawnEdge action.
type SpawnedEdge struct {
	Type    string
	Label   string
	Locked  bool
	Trapped bool
	OneWay  bool
}

// SpawnedTrap is a trap requested by a spawnTrap action. Unset skill/DC
// fields are zero; the graph builder fills in defaults.
type SpawnedTrap struct {
	Name        string
	DetectSkill string
	DetectDC    int
	DisarmSkill string
	DisarmDC    int
}

// Execution is the transient result of one top-level interpreter call:
// every roll made anywhere in the call tree plus the accumulated spawns
// and log lines. Callers translate it into persisted records and advance
// the campaign's sequence cursor to MaxSequence.
type Execution struct {
	TableID     string
	Rolls       []Roll
	Nodes       []SpawnedNode
	Edges       []SpawnedEdge
	Traps       []SpawnedTrap
	Logs        []string
	MaxSequence uint64
}

// Execute resolves the named table at the given deterministic cursor.
//
// A missing table id yields an empty execution with a single diagnostic
// log line. A roll matching no entry falls back to the table's first
// entry. Unknown action kinds are skipped. Execute never fails: every
// malformed input degrades to a documented default.
//
// # Determinism
//
// Two calls with identical (tableID, context, seed, sequence) produce
// identical entry selection and identical nested-roll sequences.
func Execute(pack *content.Pack, tableID string, ctx Context, seed int64, sequence uint64) Execution {
	stream := random.NewStream(seed, sequence)
	exec := Execution{TableID: tableID, MaxSequence: sequence}
	executeTable(pack, tableID, ctx, stream, &exec)
	exec.MaxSequence = stream.Sequence()
	return exec
}

func executeTable(pack *content.Pack, tableID string, ctx Context, stream *random.Stream, exec *Execution) {
	table, ok := pack.Table(tableID)
	if !ok {
		exec.Logs = append(exec.Logs, fmt.Sprintf("table %q not found; skipping", tableID))
		return
	}

	roll := dice.RollSpec(stream, table.Dice)
	exec.Rolls = append(exec.Rolls, Roll{
		TableID:  tableID,
		Spec:     roll.Spec.String(),
		Faces:    roll.Faces,
		Total:    roll.Total,
		Sequence: roll.Sequence,
	})

	entry, ok := table.EntryFor(roll.Total)
	if !ok {
		exec.Logs = append(exec.Logs, fmt.Sprintf("table %q has no entries; skipping", tableID))
		return
	}

	executeActions(pack, tableID, ctx, entry.Actions, stream, exec)
}

func executeActions(pack *content.Pack, tableID string, ctx Context, actions []content.Action, stream *random.Stream, exec *Execution) {
	for _, action := range actions {
		switch action.Kind {
		case content.ActionSpawnNode:
			exec.Nodes = append(exec.Nodes, SpawnedNode{
				Type:    action.NodeType,
				Summary: action.Summary,
				Tags:    action.Tags,
			})

		case content.ActionSpawnEdge:
			exec.Edges = append(exec.Edges, SpawnedEdge{
				Type:    action.EdgeType,
				Label:   action.Label,
				Locked:  action.Locked,
				Trapped: action.Trapped,
				OneWay:  action.OneWay,
			})

		case content.ActionSpawnTrap:
			exec.Traps = append(exec.Traps, SpawnedTrap{
				Name:        action.TrapName,
				DetectSkill: action.DetectSkill,
				DetectDC:    action.DetectDC,
				DisarmSkill: action.DisarmSkill,
				DisarmDC:    action.DisarmDC,
			})

		case content.ActionRollOnTable:
			nested := ctx
			nested.Depth++
			if nested.Depth > MaxDepth {
				exec.Logs = append(exec.Logs, fmt.Sprintf("recursion limit reached at table %q; skipping nested roll on %q", tableID, action.TableID))
				continue
			}
			executeTable(pack, action.TableID, nested, stream, exec)

		case content.ActionConditionalRoll:
			nested := ctx
			nested.Depth++
			if nested.Depth > MaxDepth {
				exec.Logs = append(exec.Logs, fmt.Sprintf("recursion limit reached at table %q; skipping conditional roll", tableID))
				continue
			}

			spec := dice.ParseSpec(action.Dice)
			aux := dice.RollSpec(stream, spec)
			exec.Rolls = append(exec.Rolls, Roll{
				TableID:  tableID,
				Spec:     aux.Spec.String(),
				Faces:    aux.Faces,
				Total:    aux.Total,
				Sequence: aux.Sequence,
			})

			branch := action.Else
			if aux.Total <= action.Threshold {
				branch = action.Then
			}
			executeActions(pack, tableID, nested, branch, stream, exec)

		case content.ActionLog:
			exec.Logs = append(exec.Logs, action.Message)

		default:
			// Unknown kinds are skipped for forward compatibility.
		}
	}
}
