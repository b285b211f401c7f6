package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hearthloom/soloquest/internal/storage"
)

// PutScene upserts one finalized scene row.
func (s *Store) PutScene(ctx context.Context, record storage.SceneRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.CampaignID = strings.TrimSpace(record.CampaignID)
	if record.CampaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if record.Number <= 0 {
		return fmt.Errorf("scene number must be greater than zero")
	}
	if record.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}

	concluded := 0
	if record.Concluded {
		concluded = 1
	}
	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO scenes (
		campaign_id, number, scene_type, roll, chaos_factor,
		setup, summary, alteration, concluded, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(campaign_id, number) DO UPDATE SET
		scene_type = excluded.scene_type,
		roll = excluded.roll,
		chaos_factor = excluded.chaos_factor,
		setup = excluded.setup,
		summary = excluded.summary,
		alteration = excluded.alteration,
		concluded = excluded.concluded
	`,
		record.CampaignID,
		record.Number,
		record.SceneType,
		record.Roll,
		record.ChaosFactor,
		record.Setup,
		record.Summary,
		record.Alteration,
		concluded,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put scene: %w", err)
	}
	return nil
}

// ListScenes lists up to limit scenes for a campaign in scene-number order.
func (s *Store) ListScenes(ctx context.Context, campaignID string, limit int) ([]storage.SceneRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT campaign_id, number, scene_type, roll, chaos_factor,
       setup, summary, alteration, concluded, created_at
FROM scenes
WHERE campaign_id = ?
ORDER BY number ASC
LIMIT ?
`, campaignID, limit)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	results := make([]storage.SceneRecord, 0, limit)
	for rows.Next() {
		var record storage.SceneRecord
		var concluded int
		var createdAt int64
		if err := rows.Scan(
			&record.CampaignID,
			&record.Number,
			&record.SceneType,
			&record.Roll,
			&record.ChaosFactor,
			&record.Setup,
			&record.Summary,
			&record.Alteration,
			&concluded,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan scene row: %w", err)
		}
		record.Concluded = concluded != 0
		record.CreatedAt = fromMillis(createdAt)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scene rows: %w", err)
	}
	return results, nil
}

// AppendRoll persists one audited die roll.
func (s *Store) AppendRoll(ctx context.Context, record storage.RollRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.CampaignID = strings.TrimSpace(record.CampaignID)
	record.FacesJSON = strings.TrimSpace(record.FacesJSON)
	if record.CampaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if record.FacesJSON == "" {
		record.FacesJSON = "[]"
	}
	if record.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT OR IGNORE INTO rolls (
		campaign_id, sequence, table_id, spec, faces_json, total, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.CampaignID,
		int64(record.Sequence),
		record.TableID,
		record.Spec,
		record.FacesJSON,
		record.Total,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append roll: %w", err)
	}
	return nil
}

// ListRolls lists rolls for a campaign with sequence greater than
// afterSeq, in sequence order.
func (s *Store) ListRolls(ctx context.Context, campaignID string, afterSeq uint64, limit int) ([]storage.RollRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT campaign_id, sequence, table_id, spec, faces_json, total, created_at
FROM rolls
WHERE campaign_id = ? AND sequence > ?
ORDER BY sequence ASC
LIMIT ?
`, campaignID, int64(afterSeq), limit)
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	results := make([]storage.RollRecord, 0, limit)
	for rows.Next() {
		var record storage.RollRecord
		var sequence int64
		var createdAt int64
		if err := rows.Scan(
			&record.CampaignID,
			&sequence,
			&record.TableID,
			&record.Spec,
			&record.FacesJSON,
			&record.Total,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan roll row: %w", err)
		}
		record.Sequence = uint64(sequence)
		record.CreatedAt = fromMillis(createdAt)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roll rows: %w", err)
	}
	return results, nil
}

// AppendTelemetryEvent persists one operational telemetry row.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	evt.EventName = strings.TrimSpace(evt.EventName)
	evt.AttributesJSON = strings.TrimSpace(evt.AttributesJSON)
	if evt.EventName == "" {
		return fmt.Errorf("event name is required")
	}
	if evt.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if evt.AttributesJSON == "" {
		evt.AttributesJSON = "{}"
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO telemetry_events (
		timestamp, event_name, severity, campaign_id, scene_number, attributes_json
	) VALUES (?, ?, ?, ?, ?, ?)
	`,
		toMillis(evt.Timestamp),
		evt.EventName,
		evt.Severity,
		evt.CampaignID,
		evt.SceneNumber,
		evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}
