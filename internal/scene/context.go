package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hearthloom/soloquest/internal/campaign"
)

// ContextPacket is the read-only bundle handed to whatever narrates the
// scene. Assembling it never mutates the campaign.
type ContextPacket struct {
	SceneNumber int
	SceneType   string
	Roll        int
	ChaosFactor int
	Setup       string
	Alteration  *Alteration
	Event       *EventSummary

	RecentScenes []campaign.SceneEntry
	Characters   []campaign.Entity
	Threads      []campaign.Entity

	Location    string
	Node        string
	NodeFeats   []string
	Exits       []string
	Places      []string
	Curiosities []string
	Highlights  []string
}

// EventSummary is the narration-facing shape of an interrupt's random
// event.
type EventSummary struct {
	Focus   string
	Action  string
	Subject string
}

// defaultRecentScenes bounds how much scene history a packet carries.
const defaultRecentScenes = 5

// defaultHighlights bounds how many recent rolls a packet surfaces.
const defaultHighlights = 8

// BuildContext assembles the narration packet for an in-progress scene:
// recent history, weight-sorted trackers, and a snapshot of where the
// party stands. Places, curiosities, and roll highlights are de-duplicated
// in first-seen order.
func BuildContext(camp *campaign.Campaign, record *Record) ContextPacket {
	packet := ContextPacket{
		SceneNumber:  record.Number,
		SceneType:    record.Type.String(),
		Roll:         record.Roll,
		ChaosFactor:  record.ChaosAtRoll,
		Setup:        record.Setup,
		Alteration:   record.Alteration,
		RecentScenes: camp.RecentScenes(defaultRecentScenes),
		Characters:   camp.Characters.Sorted(),
		Threads:      camp.Threads.Sorted(),
	}
	if record.Event != nil {
		packet.Event = &EventSummary{
			Focus:   record.Event.Focus,
			Action:  record.Event.Meaning.Action,
			Subject: record.Event.Meaning.Subject,
		}
	}

	loc := camp.ActiveLocation()
	if loc == nil {
		return packet
	}
	packet.Location = loc.Name
	packet.Places = discoveredPlaces(loc)
	packet.Curiosities = curiosities(loc)
	packet.Highlights = rollHighlights(camp)

	node := camp.ActiveNode()
	if node == nil {
		return packet
	}
	packet.Node = node.Summary
	packet.NodeFeats = node.Features
	packet.Exits = exitSummaries(loc, node.ID)
	return packet
}

// discoveredPlaces lists summaries of every discovered node, de-duplicated,
// in a stable order.
func discoveredPlaces(loc *campaign.Location) []string {
	var places []string
	for _, node := range loc.Nodes {
		if node.Discovered && node.Summary != "" {
			places = append(places, node.Summary)
		}
	}
	sort.Strings(places)
	return dedupe(places)
}

// curiosities collects features of discovered nodes, de-duplicated, in a
// stable order.
func curiosities(loc *campaign.Location) []string {
	var feats []string
	for _, node := range loc.Nodes {
		if !node.Discovered {
			continue
		}
		feats = append(feats, node.Features...)
	}
	sort.Strings(feats)
	return dedupe(feats)
}

// exitSummaries describes the edges leaving a node. Templated edges read
// as unexplored; materialized ones carry their label.
func exitSummaries(loc *campaign.Location, nodeID string) []string {
	var exits []string
	for _, edge := range loc.Edges {
		if edge.FromNodeID != nodeID && (edge.ToNodeID != nodeID || edge.OneWay) {
			continue
		}
		label := edge.Label
		if label == "" {
			label = edge.Type
		}
		if edge.State == campaign.EdgeTemplated {
			exits = append(exits, label+" (unexplored)")
		} else {
			exits = append(exits, label)
		}
	}
	sort.Strings(exits)
	return dedupe(exits)
}

// rollHighlights formats the most recent rolls of the current scene,
// newest last, de-duplicated by table.
func rollHighlights(camp *campaign.Campaign) []string {
	start := len(camp.RollLog) - defaultHighlights
	if start < 0 {
		start = 0
	}
	var highlights []string
	for _, entry := range camp.RollLog[start:] {
		highlights = append(highlights, fmt.Sprintf("%s: %s = %d", entry.TableID, entry.Spec, entry.Total))
	}
	return dedupe(highlights)
}

// dedupe removes repeats preserving first occurrence. Comparison is
// case-insensitive.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}
