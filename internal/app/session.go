// Package app coordinates a campaign's runtime: it wires the scene
// machine, the location graph builder, and the generators over a shared
// content pack, and maps the campaign aggregate to and from storage.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/content"
	"github.com/hearthloom/soloquest/internal/generate"
	"github.com/hearthloom/soloquest/internal/scene"
	"github.com/hearthloom/soloquest/internal/storage"
	"github.com/hearthloom/soloquest/internal/telemetry"
	"github.com/hearthloom/soloquest/internal/worldgraph"
)

// Session is the campaign runtime service.
type Session struct {
	store     storage.Store
	machine   *scene.Machine
	builder   *worldgraph.Builder
	generator *generate.Generator
	emitter   *telemetry.Emitter
	now       func() time.Time
}

// NewSession creates a session over the provided store and content pack.
// The emitter may be nil; telemetry then degrades to a no-op. A nil clock
// uses time.Now.
func NewSession(store storage.Store, pack *content.Pack, emitter *telemetry.Emitter, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:     store,
		machine:   scene.NewMachine(now),
		builder:   worldgraph.NewBuilder(pack),
		generator: generate.New(pack),
		emitter:   emitter,
		now:       now,
	}
}

// Builder exposes the location graph builder for exploration commands.
func (s *Session) Builder() *worldgraph.Builder {
	return s.builder
}

// Generator exposes the content generator for NPC, loot, and travel rolls.
func (s *Session) Generator() *generate.Generator {
	return s.generator
}

// CreateCampaign creates and persists a fresh campaign. A zero seed
// requests a crypto-random one.
func (s *Session) CreateCampaign(ctx context.Context, name string, seed int64) (*campaign.Campaign, error) {
	camp, err := campaign.Create(campaign.CreateInput{Name: name, Seed: seed}, s.now, nil)
	if err != nil {
		return nil, err
	}
	if err := s.SaveCampaign(ctx, camp); err != nil {
		return nil, err
	}
	_ = s.emitter.Emit(ctx, storage.TelemetryEvent{
		EventName:  "campaign.created",
		Severity:   string(telemetry.SeverityInfo),
		CampaignID: camp.ID,
	})
	return camp, nil
}

// LoadCampaign rehydrates a campaign aggregate: the snapshot row plus its
// scene and roll logs.
func (s *Session) LoadCampaign(ctx context.Context, campaignID string) (*campaign.Campaign, error) {
	record, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	camp, err := decodeCampaign(record)
	if err != nil {
		return nil, err
	}

	scenes, err := s.store.ListScenes(ctx, campaignID, sceneLogLimit)
	if err != nil {
		return nil, fmt.Errorf("load scene log: %w", err)
	}
	for _, sceneRecord := range scenes {
		camp.Scenes = append(camp.Scenes, decodeScene(sceneRecord))
	}

	rolls, err := s.store.ListRolls(ctx, campaignID, 0, rollLogLimit)
	if err != nil {
		return nil, fmt.Errorf("load roll log: %w", err)
	}
	for _, rollRecord := range rolls {
		entry, decodeErr := decodeRoll(rollRecord)
		if decodeErr != nil {
			return nil, decodeErr
		}
		camp.RollLog = append(camp.RollLog, entry)
	}
	return camp, nil
}

// sceneLogLimit and rollLogLimit bound how much history LoadCampaign pulls
// into memory.
const (
	sceneLogLimit = 1000
	rollLogLimit  = 10000
)

// SaveCampaign persists the campaign snapshot and appends any scene and
// roll log entries not yet stored. Roll appends are idempotent on the
// (campaign, sequence) key.
func (s *Session) SaveCampaign(ctx context.Context, camp *campaign.Campaign) error {
	camp.UpdatedAt = s.now().UTC()
	record, err := encodeCampaign(camp)
	if err != nil {
		return err
	}
	if err := s.store.PutCampaign(ctx, record); err != nil {
		return err
	}
	for _, entry := range camp.Scenes {
		if err := s.store.PutScene(ctx, encodeScene(camp.ID, entry)); err != nil {
			return err
		}
	}
	for _, entry := range camp.RollLog {
		rollRecord, encodeErr := encodeRoll(camp.ID, entry, camp.UpdatedAt)
		if encodeErr != nil {
			return encodeErr
		}
		if err := s.store.AppendRoll(ctx, rollRecord); err != nil {
			return err
		}
	}
	return nil
}

// StartScene resolves a new scene against the campaign's chaos factor and
// persists the advanced cursor.
func (s *Session) StartScene(ctx context.Context, camp *campaign.Campaign, setup string) (*scene.Record, error) {
	record := s.machine.ResolveScene(camp, setup)
	if err := s.SaveCampaign(ctx, camp); err != nil {
		return nil, err
	}
	_ = s.emitter.Emit(ctx, storage.TelemetryEvent{
		EventName:   "scene.resolved",
		Severity:    string(telemetry.SeverityInfo),
		CampaignID:  camp.ID,
		SceneNumber: record.Number,
	})
	return record, nil
}

// AlterScene applies an alteration method to an altered scene.
func (s *Session) AlterScene(ctx context.Context, camp *campaign.Campaign, record *scene.Record, method scene.AlterationMethod) error {
	if err := s.machine.ApplyAlteration(camp, record, method); err != nil {
		return err
	}
	return s.SaveCampaign(ctx, camp)
}

// NarrationContext assembles the read-only narration packet for a scene.
func (s *Session) NarrationContext(camp *campaign.Campaign, record *scene.Record) scene.ContextPacket {
	return scene.BuildContext(camp, record)
}

// FinishScene accepts the narration, merges bookkeeping, and persists the
// finalized scene.
func (s *Session) FinishScene(ctx context.Context, camp *campaign.Campaign, record *scene.Record, summary string) error {
	if err := s.machine.Narrate(record, summary); err != nil {
		return err
	}
	if err := s.machine.FinalizeScene(camp, record); err != nil {
		return err
	}
	if err := s.SaveCampaign(ctx, camp); err != nil {
		return err
	}
	_ = s.emitter.Emit(ctx, storage.TelemetryEvent{
		EventName:   "scene.finalized",
		Severity:    string(telemetry.SeverityInfo),
		CampaignID:  camp.ID,
		SceneNumber: record.Number,
	})
	return nil
}
