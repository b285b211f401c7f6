// Package worldgraph grows a campaign's location graph on demand. Nothing
// is pre-generated: nodes and edges appear as the player moves, and edges
// keep their contents unrolled until first traversed.
package worldgraph

import (
	"fmt"
	"strings"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/content"
	"github.com/hearthloom/soloquest/internal/interpreter"
	"github.com/hearthloom/soloquest/internal/platform/id"
)

// Table ids the builder rolls on. Packs missing any of them degrade to
// fixed fallbacks instead of failing generation.
const (
	TableDungeonStart = "dungeon-start"
	TableNextNode     = "next-node"
	TableRoomShape    = "room-shape"
	TableRoomContents = "room-contents"
	TableEdgeTemplate = "edge-template"
)

// Trap defaults applied when a content table under-specifies fields.
const (
	defaultTrapSkill = "Investigation"
	defaultTrapDC    = 12
)

// backtrackKeywords signal that a movement reason means going back the way
// the party came.
var backtrackKeywords = []string{"back", "return", "retreat", "leave", "exit", "head back"}

// Builder materializes graph content from the content pack. A nil pack is
// tolerated: every roll then degrades to its fixed fallback.
type Builder struct {
	pack  *content.Pack
	newID func() (string, error)
}

// NewBuilder creates a builder over the provided pack.
func NewBuilder(pack *content.Pack) *Builder {
	return &Builder{pack: pack, newID: id.NewID}
}

// newBuilderWithIDs is the test seam for deterministic ids.
func newBuilderWithIDs(pack *content.Pack, newID func() (string, error)) *Builder {
	return &Builder{pack: pack, newID: newID}
}

// GenerateDungeonStart creates a location, rolls the start table for its
// first node (falling back to a bare chamber), applies room sub-tables,
// derives initial edges, and points the campaign at the new node.
func (b *Builder) GenerateDungeonStart(camp *campaign.Campaign, name string) (*campaign.Node, error) {
	locationID, err := b.newID()
	if err != nil {
		return nil, fmt.Errorf("generate location id: %w", err)
	}
	location := campaign.NewLocation(locationID, name)
	camp.Locations[locationID] = location

	exec := b.execute(camp, TableDungeonStart, location.ID, "")
	node, err := b.materializeNode(exec)
	if err != nil {
		return nil, err
	}
	location.AddNode(node)

	if node.Type == campaign.NodeTypeRoom {
		b.applyRoomTables(camp, location, node)
	}

	for _, spawned := range exec.Edges {
		edge, err := b.spawnEdge(node.ID, spawned)
		if err != nil {
			return nil, err
		}
		location.AddEdge(edge)
	}

	camp.ActiveLocationID = location.ID
	camp.ActiveNodeID = node.ID
	camp.LastNodeID = ""
	node.Visit()

	camp.LogEvent(fmt.Sprintf("entered %s at %s", location.Name, summaryOrType(node)), location.ID, node.ID)
	return node, nil
}

// AdvanceToNextNode moves the party based on a free-text reason.
//
// Backtracking reasons reuse the single-slot last node (or an incoming
// non-one-way edge) without consuming any die roll, so pacing back and
// forth never grows the graph. Otherwise an open edge from the current
// node is completed with a fresh node; failing that an already-connected
// node is revisited; only as a last resort is a brand new node rolled and
// wired with a new edge.
func (b *Builder) AdvanceToNextNode(camp *campaign.Campaign, reason string) (*campaign.Node, error) {
	location := camp.ActiveLocation()
	if location == nil {
		return b.GenerateDungeonStart(camp, "Unknown Depths")
	}

	if IsBacktrackReason(reason) {
		if node := b.backtrackTarget(camp, location); node != nil {
			b.moveTo(camp, location, node, reason)
			return node, nil
		}
	}

	if edge := location.OpenEdgeFrom(camp.ActiveNodeID); edge != nil {
		node, err := b.generateNode(camp, location, TableNextNode)
		if err != nil {
			return nil, err
		}
		edge.ToNodeID = node.ID
		b.moveTo(camp, location, node, reason)
		return node, nil
	}

	if connected := location.ConnectedNodeIDs(camp.ActiveNodeID); len(connected) > 0 {
		node := location.Nodes[connected[0]]
		if node != nil {
			b.moveTo(camp, location, node, reason)
			return node, nil
		}
	}

	node, err := b.generateNode(camp, location, TableNextNode)
	if err != nil {
		return nil, err
	}
	edgeID, err := b.newID()
	if err != nil {
		return nil, fmt.Errorf("generate edge id: %w", err)
	}
	location.AddEdge(&campaign.Edge{
		ID:         edgeID,
		Type:       "passage",
		State:      campaign.EdgeMaterialized,
		FromNodeID: camp.ActiveNodeID,
		ToNodeID:   node.ID,
	})
	b.moveTo(camp, location, node, reason)
	return node, nil
}

// AdvanceAlongEdge traverses an explicit edge, materializing a still
// templated edge on first traversal, then completing or following it.
func (b *Builder) AdvanceAlongEdge(camp *campaign.Campaign, edge *campaign.Edge, reason string) (*campaign.Node, error) {
	location := camp.ActiveLocation()
	if location == nil || edge == nil {
		return b.AdvanceToNextNode(camp, reason)
	}

	if IsBacktrackReason(reason) {
		if node := b.backtrackTarget(camp, location); node != nil {
			b.moveTo(camp, location, node, reason)
			return node, nil
		}
	}

	if edge.State == campaign.EdgeTemplated {
		b.materializeEdge(camp, location, edge)
	}

	if edge.ToNodeID != "" {
		node := location.Nodes[edge.ToNodeID]
		if node != nil {
			b.moveTo(camp, location, node, reason)
			return node, nil
		}
	}

	node, err := b.generateNode(camp, location, TableNextNode)
	if err != nil {
		return nil, err
	}
	edge.ToNodeID = node.ID
	b.moveTo(camp, location, node, reason)
	return node, nil
}

// IsBacktrackReason reports whether the movement reason signals going back.
func IsBacktrackReason(reason string) bool {
	lowered := strings.ToLower(reason)
	for _, keyword := range backtrackKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// backtrackTarget picks the node a backtracking move returns to: the
// single-slot last node when recorded, otherwise the source of an incoming
// non-one-way edge.
func (b *Builder) backtrackTarget(camp *campaign.Campaign, location *campaign.Location) *campaign.Node {
	if camp.LastNodeID != "" {
		if node := location.Nodes[camp.LastNodeID]; node != nil {
			return node
		}
	}
	if edge := location.IncomingEdge(camp.ActiveNodeID); edge != nil {
		return location.Nodes[edge.FromNodeID]
	}
	return nil
}

// moveTo shifts the campaign's active pointer, keeping one hop of
// backtrack memory, and records the transition on the event log.
func (b *Builder) moveTo(camp *campaign.Campaign, location *campaign.Location, node *campaign.Node, reason string) {
	camp.LastNodeID = camp.ActiveNodeID
	camp.ActiveNodeID = node.ID
	node.Visit()
	camp.LogEvent(fmt.Sprintf("moved to %s (%s)", summaryOrType(node), strings.TrimSpace(reason)), location.ID, node.ID)
}

// generateNode rolls the given table and materializes its first spawned
// node, attaching room sub-table results when applicable.
func (b *Builder) generateNode(camp *campaign.Campaign, location *campaign.Location, tableID string) (*campaign.Node, error) {
	exec := b.execute(camp, tableID, location.ID, camp.ActiveNodeID)
	node, err := b.materializeNode(exec)
	if err != nil {
		return nil, err
	}
	location.AddNode(node)
	if node.Type == campaign.NodeTypeRoom {
		b.applyRoomTables(camp, location, node)
	}
	return node, nil
}

// materializeNode converts an execution's first spawned node into a graph
// node, falling back to a bare chamber when the table yielded nothing.
func (b *Builder) materializeNode(exec interpreter.Execution) (*campaign.Node, error) {
	nodeID, err := b.newID()
	if err != nil {
		return nil, fmt.Errorf("generate node id: %w", err)
	}

	node := &campaign.Node{
		ID:      nodeID,
		Type:    campaign.NodeTypeRoom,
		Summary: "A bare chamber",
	}
	if len(exec.Nodes) > 0 {
		spawned := exec.Nodes[0]
		node.Type = campaign.NodeTypeFromString(spawned.Type)
		if spawned.Summary != "" {
			node.Summary = spawned.Summary
		}
		node.Features = append(node.Features, spawned.Tags...)
	}

	attachTraps(node, exec.Traps)
	return node, nil
}

// applyRoomTables rolls the room shape and contents sub-tables, folding
// their logs into features and attaching any spawned traps.
func (b *Builder) applyRoomTables(camp *campaign.Campaign, location *campaign.Location, node *campaign.Node) {
	for _, tableID := range []string{TableRoomShape, TableRoomContents} {
		exec := b.execute(camp, tableID, location.ID, node.ID)
		for _, line := range exec.Logs {
			node.Features = append(node.Features, line)
		}
		attachTraps(node, exec.Traps)
	}
}

// materializeEdge rolls the edge template table the first time an edge is
// taken and stamps the result onto it.
func (b *Builder) materializeEdge(camp *campaign.Campaign, location *campaign.Location, edge *campaign.Edge) {
	exec := b.execute(camp, TableEdgeTemplate, location.ID, edge.FromNodeID)

	edgeType, label := edge.Type, edge.Label
	if len(exec.Edges) > 0 {
		spawned := exec.Edges[0]
		if spawned.Type != "" {
			edgeType = spawned.Type
		}
		if spawned.Label != "" {
			label = spawned.Label
		}
		edge.Locked = edge.Locked || spawned.Locked
		edge.Trapped = edge.Trapped || spawned.Trapped
		edge.OneWay = edge.OneWay || spawned.OneWay
	}
	if edgeType == "" {
		edgeType = "passage"
	}
	if label == "" {
		label = "Unmarked passage"
	}
	edge.Materialize(edgeType, label)
}

// spawnEdge creates an edge record from an interpreter spawn. Edges with a
// label or explicit type arrive materialized; the rest stay templated
// until first traversed.
func (b *Builder) spawnEdge(fromNodeID string, spawned interpreter.SpawnedEdge) (*campaign.Edge, error) {
	edgeID, err := b.newID()
	if err != nil {
		return nil, fmt.Errorf("generate edge id: %w", err)
	}

	state := campaign.EdgeTemplated
	if spawned.Label != "" {
		state = campaign.EdgeMaterialized
	}
	return &campaign.Edge{
		ID:         edgeID,
		Type:       spawned.Type,
		State:      state,
		Label:      spawned.Label,
		FromNodeID: fromNodeID,
		Locked:     spawned.Locked,
		Trapped:    spawned.Trapped,
		OneWay:     spawned.OneWay,
	}, nil
}

// execute runs a table at the campaign's cursor and applies the
// bookkeeping: advancing the persisted sequence and recording every roll.
func (b *Builder) execute(camp *campaign.Campaign, tableID, locationID, nodeID string) interpreter.Execution {
	ctx := interpreter.Context{
		CampaignID: camp.ID,
		LocationID: locationID,
		NodeID:     nodeID,
	}
	exec := interpreter.Execute(b.pack, tableID, ctx, camp.Seed, camp.Sequence)
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

// attachTraps appends spawned traps to a node, filling under-specified
// detection and disarm fields with Investigation defaults.
func attachTraps(node *campaign.Node, traps []interpreter.SpawnedTrap) {
	for _, spawned := range traps {
		trap := campaign.Trap{
			Name:        spawned.Name,
			DetectSkill: spawned.DetectSkill,
			DetectDC:    spawned.DetectDC,
			DisarmSkill: spawned.DisarmSkill,
			DisarmDC:    spawned.DisarmDC,
		}
		if trap.Name == "" {
			trap.Name = "Hidden trap"
		}
		if trap.DetectSkill == "" {
			trap.DetectSkill = defaultTrapSkill
		}
		if trap.DetectDC == 0 {
			trap.DetectDC = defaultTrapDC
		}
		if trap.DisarmSkill == "" {
			trap.DisarmSkill = defaultTrapSkill
		}
		if trap.DisarmDC == 0 {
			trap.DisarmDC = defaultTrapDC
		}
		node.Traps = append(node.Traps, trap)
	}
}

func summaryOrType(node *campaign.Node) string {
	if node.Summary != "" {
		return node.Summary
	}
	return node.Type.String()
}
