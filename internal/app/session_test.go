package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/scene"
	"github.com/hearthloom/soloquest/internal/storage"
	"github.com/hearthloom/soloquest/internal/storage/sqlite"
)

func fixedNow() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/soloquest.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewSession(store, nil, nil, fixedNow)
}

func TestCreateAndLoadCampaign(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	camp, err := session.CreateCampaign(ctx, "The Sunken Vault", 42)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if camp.Seed != 42 || camp.SceneNumber != 1 {
		t.Fatalf("created campaign = %+v", camp)
	}

	loaded, err := session.LoadCampaign(ctx, camp.ID)
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}
	if loaded.ID != camp.ID || loaded.Seed != 42 || loaded.ChaosFactor != campaign.ChaosDefault {
		t.Fatalf("loaded campaign = %+v", loaded)
	}
}

func TestLoadCampaignNotFound(t *testing.T) {
	session := newTestSession(t)

	_, err := session.LoadCampaign(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSceneLifecyclePersists(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	camp, err := session.CreateCampaign(ctx, "The Sunken Vault", 42)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	record, err := session.StartScene(ctx, camp, "enter the vault")
	if err != nil {
		t.Fatalf("start scene: %v", err)
	}
	if record.State == scene.StateAltering {
		if err := session.AlterScene(ctx, camp, record, scene.MethodSceneAdjustment); err != nil {
			t.Fatalf("alter scene: %v", err)
		}
	}
	record.Bookkeeping.NewCharacters = []string{"Warden Hesk"}
	record.Bookkeeping.NewThreads = []string{"who emptied the vault"}
	if err := session.FinishScene(ctx, camp, record, "the vault is empty"); err != nil {
		t.Fatalf("finish scene: %v", err)
	}

	loaded, err := session.LoadCampaign(ctx, camp.ID)
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}
	if loaded.Sequence != camp.Sequence {
		t.Fatalf("cursor = %d, want %d", loaded.Sequence, camp.Sequence)
	}
	if loaded.ChaosFactor != camp.ChaosFactor {
		t.Fatalf("chaos = %d, want %d", loaded.ChaosFactor, camp.ChaosFactor)
	}
	if loaded.SceneNumber != 2 {
		t.Fatalf("scene number = %d, want 2", loaded.SceneNumber)
	}
	if !loaded.Characters.Contains("warden hesk") {
		t.Fatal("bookkeeping character lost across reload")
	}
	if !loaded.Threads.Contains("who emptied the vault") {
		t.Fatal("bookkeeping thread lost across reload")
	}
	if len(loaded.Scenes) != 1 || loaded.Scenes[0].Summary != "the vault is empty" {
		t.Fatalf("scene log = %+v", loaded.Scenes)
	}
	if loaded.Scenes[0].Type != record.Type {
		t.Fatalf("scene type = %v, want %v", loaded.Scenes[0].Type, record.Type)
	}
	if len(loaded.RollLog) == 0 {
		t.Fatal("roll log lost across reload")
	}
	if loaded.RollLog[0].TableID != "scene-resolution" {
		t.Fatalf("RollLog[0].TableID = %q", loaded.RollLog[0].TableID)
	}
}

func TestSnapshotRoundTripLocations(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	camp, err := session.CreateCampaign(ctx, "The Sunken Vault", 7)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	loc := campaign.NewLocation("loc-1", "Barrow of Eshen")
	node := &campaign.Node{ID: "n1", Type: campaign.NodeTypeRoom, Summary: "A flooded antechamber", Features: []string{"Cracked statue"}}
	node.Visit()
	loc.AddNode(node)
	loc.AddEdge(&campaign.Edge{ID: "e1", Type: "passage", State: campaign.EdgeTemplated, FromNodeID: "n1"})
	camp.Locations[loc.ID] = loc
	camp.ActiveLocationID = "loc-1"
	camp.ActiveNodeID = "n1"
	camp.LastNodeID = ""
	camp.AddNPC(&campaign.NPC{ID: "npc-1", Name: "Rin", Importance: campaign.ImportanceSupporting})
	camp.LogEvent("entered the barrow")

	if err := session.SaveCampaign(ctx, camp); err != nil {
		t.Fatalf("save campaign: %v", err)
	}
	loaded, err := session.LoadCampaign(ctx, camp.ID)
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}

	gotLoc := loaded.ActiveLocation()
	if gotLoc == nil || gotLoc.Name != "Barrow of Eshen" {
		t.Fatalf("active location = %+v", gotLoc)
	}
	gotNode := loaded.ActiveNode()
	if gotNode == nil || gotNode.Summary != "A flooded antechamber" || !gotNode.Discovered || gotNode.VisitCount != 1 {
		t.Fatalf("active node = %+v", gotNode)
	}
	edge := gotLoc.OpenEdgeFrom("n1")
	if edge == nil || edge.State != campaign.EdgeTemplated {
		t.Fatalf("open edge = %+v", edge)
	}
	if len(loaded.NPCs) != 1 || loaded.NPCs[0].Importance != campaign.ImportanceSupporting {
		t.Fatalf("NPCs = %+v", loaded.NPCs)
	}
	if len(loaded.EventLog) != 1 || loaded.EventLog[0].Message != "entered the barrow" {
		t.Fatalf("event log = %+v", loaded.EventLog)
	}
}

func TestSaveCampaignIdempotentRolls(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	camp, err := session.CreateCampaign(ctx, "The Sunken Vault", 42)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	camp.LogRoll(campaign.RollEntry{TableID: "dungeon-rooms", Spec: "1d20", Faces: []int{14}, Total: 14, Sequence: 1})

	if err := session.SaveCampaign(ctx, camp); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := session.SaveCampaign(ctx, camp); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := session.LoadCampaign(ctx, camp.ID)
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}
	if len(loaded.RollLog) != 1 {
		t.Fatalf("roll log = %d entries, want 1 after duplicate save", len(loaded.RollLog))
	}
}
