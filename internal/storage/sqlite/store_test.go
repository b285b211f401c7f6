package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearthloom/soloquest/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir() + "/soloquest.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testCampaign(id string, updatedAt time.Time) storage.CampaignRecord {
	return storage.CampaignRecord{
		ID:          id,
		Name:        "The Sunken Vault",
		Seed:        42,
		Sequence:    7,
		ChaosFactor: 5,
		SceneNumber: 3,
		StateJSON:   `{"threads":[]}`,
		CreatedAt:   updatedAt.Add(-time.Hour),
		UpdatedAt:   updatedAt,
	}
}

func TestCampaignRoundTrip(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	want := testCampaign("camp-1", now)
	want.ActiveLocationID = "loc-1"
	want.ActiveNodeID = "n1"
	want.LastNodeID = "n0"
	if err := store.PutCampaign(context.Background(), want); err != nil {
		t.Fatalf("put campaign: %v", err)
	}

	got, err := store.GetCampaign(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetCampaign(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPutCampaignUpsert(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	record := testCampaign("camp-1", now)
	if err := store.PutCampaign(context.Background(), record); err != nil {
		t.Fatalf("put campaign: %v", err)
	}
	record.Sequence = 19
	record.ChaosFactor = 6
	record.UpdatedAt = now.Add(time.Minute)
	if err := store.PutCampaign(context.Background(), record); err != nil {
		t.Fatalf("upsert campaign: %v", err)
	}

	got, err := store.GetCampaign(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got.Sequence != 19 || got.ChaosFactor != 6 {
		t.Fatalf("upsert lost fields: %+v", got)
	}
}

func TestListCampaignsPagination(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"camp-a", "camp-b", "camp-c"} {
		record := testCampaign(id, base.Add(time.Duration(i)*time.Minute))
		if err := store.PutCampaign(context.Background(), record); err != nil {
			t.Fatalf("put campaign %s: %v", id, err)
		}
	}

	page, err := store.ListCampaigns(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(page.Campaigns) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Campaigns))
	}
	if page.Campaigns[0].ID != "camp-c" || page.Campaigns[1].ID != "camp-b" {
		t.Fatalf("page order = %s, %s; want newest first", page.Campaigns[0].ID, page.Campaigns[1].ID)
	}
	if page.NextPageToken == "" {
		t.Fatal("expected a next page token")
	}

	next, err := store.ListCampaigns(context.Background(), 2, page.NextPageToken)
	if err != nil {
		t.Fatalf("list campaigns page 2: %v", err)
	}
	if len(next.Campaigns) != 1 || next.Campaigns[0].ID != "camp-a" {
		t.Fatalf("page 2 = %+v, want just camp-a", next.Campaigns)
	}
	if next.NextPageToken != "" {
		t.Fatalf("unexpected token on final page: %q", next.NextPageToken)
	}
}

func TestDeleteCampaignCascades(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := store.PutCampaign(context.Background(), testCampaign("camp-1", now)); err != nil {
		t.Fatalf("put campaign: %v", err)
	}
	if err := store.PutScene(context.Background(), storage.SceneRecord{
		CampaignID: "camp-1",
		Number:     1,
		SceneType:  "expected",
		Roll:       7,
		CreatedAt:  now,
	}); err != nil {
		t.Fatalf("put scene: %v", err)
	}
	if err := store.AppendRoll(context.Background(), storage.RollRecord{
		CampaignID: "camp-1",
		Sequence:   1,
		Spec:       "1d10",
		Total:      7,
		CreatedAt:  now,
	}); err != nil {
		t.Fatalf("append roll: %v", err)
	}

	if err := store.DeleteCampaign(context.Background(), "camp-1"); err != nil {
		t.Fatalf("delete campaign: %v", err)
	}
	if err := store.DeleteCampaign(context.Background(), "camp-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}

	scenes, err := store.ListScenes(context.Background(), "camp-1", 10)
	if err != nil {
		t.Fatalf("list scenes: %v", err)
	}
	if len(scenes) != 0 {
		t.Fatalf("scenes survived cascade delete: %+v", scenes)
	}
	rolls, err := store.ListRolls(context.Background(), "camp-1", 0, 10)
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	if len(rolls) != 0 {
		t.Fatalf("rolls survived cascade delete: %+v", rolls)
	}
}

func TestSceneLogOrderAndUpsert(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := store.PutCampaign(context.Background(), testCampaign("camp-1", now)); err != nil {
		t.Fatalf("put campaign: %v", err)
	}
	for _, number := range []int{2, 1, 3} {
		if err := store.PutScene(context.Background(), storage.SceneRecord{
			CampaignID: "camp-1",
			Number:     number,
			SceneType:  "expected",
			Roll:       number,
			CreatedAt:  now,
		}); err != nil {
			t.Fatalf("put scene %d: %v", number, err)
		}
	}
	if err := store.PutScene(context.Background(), storage.SceneRecord{
		CampaignID: "camp-1",
		Number:     2,
		SceneType:  "altered",
		Roll:       3,
		Alteration: "meaningWords",
		Concluded:  true,
		CreatedAt:  now,
	}); err != nil {
		t.Fatalf("upsert scene 2: %v", err)
	}

	scenes, err := store.ListScenes(context.Background(), "camp-1", 10)
	if err != nil {
		t.Fatalf("list scenes: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("scene count = %d, want 3", len(scenes))
	}
	for i, want := range []int{1, 2, 3} {
		if scenes[i].Number != want {
			t.Fatalf("scenes[%d].Number = %d, want %d", i, scenes[i].Number, want)
		}
	}
	if scenes[1].SceneType != "altered" || !scenes[1].Concluded {
		t.Fatalf("scene 2 upsert lost fields: %+v", scenes[1])
	}
}

func TestRollLogAfterSeq(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := store.PutCampaign(context.Background(), testCampaign("camp-1", now)); err != nil {
		t.Fatalf("put campaign: %v", err)
	}
	for seq := uint64(1); seq <= 4; seq++ {
		if err := store.AppendRoll(context.Background(), storage.RollRecord{
			CampaignID: "camp-1",
			Sequence:   seq,
			TableID:    "dungeon-rooms",
			Spec:       "1d20",
			FacesJSON:  "[14]",
			Total:      14,
			CreatedAt:  now,
		}); err != nil {
			t.Fatalf("append roll %d: %v", seq, err)
		}
	}

	rolls, err := store.ListRolls(context.Background(), "camp-1", 2, 10)
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	if len(rolls) != 2 {
		t.Fatalf("roll count = %d, want 2 after seq 2", len(rolls))
	}
	if rolls[0].Sequence != 3 || rolls[1].Sequence != 4 {
		t.Fatalf("roll sequences = %d, %d; want 3, 4", rolls[0].Sequence, rolls[1].Sequence)
	}
}

func TestAppendTelemetryEvent(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	err := store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
		Timestamp:   now,
		EventName:   "scene.finalized",
		Severity:    "INFO",
		CampaignID:  "camp-1",
		SceneNumber: 3,
	})
	if err != nil {
		t.Fatalf("append telemetry event: %v", err)
	}

	if err := store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{Timestamp: now}); err == nil {
		t.Fatal("expected error for missing event name")
	}
}
