package storage

import (
	"context"
	"time"

	"github.com/hearthloom/soloquest/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// CampaignRecord is the persisted campaign snapshot. Scalar fields are
// stored as columns; the location graph, trackers, and NPC roster are
// serialized into StateJSON.
type CampaignRecord struct {
	ID          string
	Name        string
	Seed        int64
	Sequence    uint64
	ChaosFactor int
	SceneNumber int

	ActiveLocationID string
	ActiveNodeID     string
	LastNodeID       string

	StateJSON string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SceneRecord is one finalized scene log row.
type SceneRecord struct {
	CampaignID  string
	Number      int
	SceneType   string
	Roll        int
	ChaosFactor int
	Setup       string
	Summary     string
	Alteration  string
	Concluded   bool
	CreatedAt   time.Time
}

// RollRecord is one audited die roll. Sequence is the stream cursor
// after the roll, unique per campaign.
type RollRecord struct {
	CampaignID string
	Sequence   uint64
	TableID    string
	Spec       string
	FacesJSON  string
	Total      int
	CreatedAt  time.Time
}

// CampaignPage describes one page of campaign records.
type CampaignPage struct {
	Campaigns     []CampaignRecord
	NextPageToken string
}

// CampaignStore persists campaign snapshots.
type CampaignStore interface {
	PutCampaign(ctx context.Context, record CampaignRecord) error
	GetCampaign(ctx context.Context, campaignID string) (CampaignRecord, error)
	ListCampaigns(ctx context.Context, pageSize int, pageToken string) (CampaignPage, error)
	DeleteCampaign(ctx context.Context, campaignID string) error
}

// SceneStore persists the append-only scene log.
type SceneStore interface {
	PutScene(ctx context.Context, record SceneRecord) error
	ListScenes(ctx context.Context, campaignID string, limit int) ([]SceneRecord, error)
}

// RollStore persists the append-only roll audit log.
type RollStore interface {
	AppendRoll(ctx context.Context, record RollRecord) error
	ListRolls(ctx context.Context, campaignID string, afterSeq uint64, limit int) ([]RollRecord, error)
}

// TelemetryEvent captures operational observations emitted while the
// engine runs a campaign.
type TelemetryEvent struct {
	Timestamp      time.Time
	EventName      string
	Severity       string
	CampaignID     string
	SceneNumber    int
	AttributesJSON string
}

// TelemetryStore persists operational telemetry records.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// Store is the full persistence surface a campaign runtime needs.
type Store interface {
	CampaignStore
	SceneStore
	RollStore
	TelemetryStore
}
