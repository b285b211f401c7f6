package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/oracle"
	"github.com/hearthloom/soloquest/internal/storage"
)

// campaignState is the JSON payload persisted in the campaign row's
// state_json column. Scenes and rolls live in their own tables.
type campaignState struct {
	Characters []campaign.Entity             `json:"characters,omitempty"`
	Threads    []campaign.Entity             `json:"threads,omitempty"`
	Locations  map[string]*campaign.Location `json:"locations,omitempty"`
	NPCs       []*campaign.NPC               `json:"npcs,omitempty"`
	Events     []campaign.EventEntry         `json:"events,omitempty"`
}

func encodeCampaign(camp *campaign.Campaign) (storage.CampaignRecord, error) {
	state := campaignState{
		Characters: camp.Characters.Entries(),
		Threads:    camp.Threads.Entries(),
		Locations:  camp.Locations,
		NPCs:       camp.NPCs,
		Events:     camp.EventLog,
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return storage.CampaignRecord{}, fmt.Errorf("marshal campaign state: %w", err)
	}

	return storage.CampaignRecord{
		ID:               camp.ID,
		Name:             camp.Name,
		Seed:             camp.Seed,
		Sequence:         camp.Sequence,
		ChaosFactor:      camp.ChaosFactor,
		SceneNumber:      camp.SceneNumber,
		ActiveLocationID: camp.ActiveLocationID,
		ActiveNodeID:     camp.ActiveNodeID,
		LastNodeID:       camp.LastNodeID,
		StateJSON:        string(payload),
		CreatedAt:        camp.CreatedAt,
		UpdatedAt:        camp.UpdatedAt,
	}, nil
}

func decodeCampaign(record storage.CampaignRecord) (*campaign.Campaign, error) {
	var state campaignState
	if record.StateJSON != "" {
		if err := json.Unmarshal([]byte(record.StateJSON), &state); err != nil {
			return nil, fmt.Errorf("unmarshal campaign state: %w", err)
		}
	}

	locations := state.Locations
	if locations == nil {
		locations = make(map[string]*campaign.Location)
	}
	for _, loc := range locations {
		if loc.Nodes == nil {
			loc.Nodes = make(map[string]*campaign.Node)
		}
		if loc.Edges == nil {
			loc.Edges = make(map[string]*campaign.Edge)
		}
	}

	return &campaign.Campaign{
		ID:               record.ID,
		Name:             record.Name,
		Seed:             record.Seed,
		Sequence:         record.Sequence,
		ChaosFactor:      record.ChaosFactor,
		SceneNumber:      record.SceneNumber,
		ActiveLocationID: record.ActiveLocationID,
		ActiveNodeID:     record.ActiveNodeID,
		LastNodeID:       record.LastNodeID,
		Characters:       campaign.RestoreTracker(state.Characters),
		Threads:          campaign.RestoreTracker(state.Threads),
		Locations:        locations,
		NPCs:             state.NPCs,
		EventLog:         state.Events,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}, nil
}

func encodeScene(campaignID string, entry campaign.SceneEntry) storage.SceneRecord {
	return storage.SceneRecord{
		CampaignID:  campaignID,
		Number:      entry.Number,
		SceneType:   entry.Type.String(),
		Roll:        entry.Roll,
		ChaosFactor: entry.ChaosFactor,
		Setup:       entry.Setup,
		Summary:     entry.Summary,
		Alteration:  entry.Alteration,
		Concluded:   entry.Concluded,
		CreatedAt:   entry.CreatedAt,
	}
}

func encodeRoll(campaignID string, entry campaign.RollEntry, createdAt time.Time) (storage.RollRecord, error) {
	faces, err := json.Marshal(entry.Faces)
	if err != nil {
		return storage.RollRecord{}, fmt.Errorf("marshal roll faces: %w", err)
	}
	return storage.RollRecord{
		CampaignID: campaignID,
		Sequence:   entry.Sequence,
		TableID:    entry.TableID,
		Spec:       entry.Spec,
		FacesJSON:  string(faces),
		Total:      entry.Total,
		CreatedAt:  createdAt,
	}, nil
}

func decodeScene(record storage.SceneRecord) campaign.SceneEntry {
	return campaign.SceneEntry{
		Number:      record.Number,
		Type:        oracle.SceneTypeFromString(record.SceneType),
		Roll:        record.Roll,
		ChaosFactor: record.ChaosFactor,
		Setup:       record.Setup,
		Summary:     record.Summary,
		Alteration:  record.Alteration,
		Concluded:   record.Concluded,
		CreatedAt:   record.CreatedAt,
	}
}

func decodeRoll(record storage.RollRecord) (campaign.RollEntry, error) {
	var faces []int
	if record.FacesJSON != "" {
		if err := json.Unmarshal([]byte(record.FacesJSON), &faces); err != nil {
			return campaign.RollEntry{}, fmt.Errorf("unmarshal roll faces: %w", err)
		}
	}
	return campaign.RollEntry{
		TableID:  record.TableID,
		Spec:     record.Spec,
		Faces:    faces,
		Total:    record.Total,
		Sequence: record.Sequence,
	}, nil
}
