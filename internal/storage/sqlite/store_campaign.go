package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthloom/soloquest/internal/storage"
)

// PutCampaign upserts one campaign snapshot row.
func (s *Store) PutCampaign(ctx context.Context, record storage.CampaignRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeCampaignRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO campaigns (
		id, name, seed, sequence, chaos_factor, scene_number,
		active_location_id, active_node_id, last_node_id, state_json,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		seed = excluded.seed,
		sequence = excluded.sequence,
		chaos_factor = excluded.chaos_factor,
		scene_number = excluded.scene_number,
		active_location_id = excluded.active_location_id,
		active_node_id = excluded.active_node_id,
		last_node_id = excluded.last_node_id,
		state_json = excluded.state_json,
		updated_at = excluded.updated_at
	`,
		normalized.ID,
		normalized.Name,
		normalized.Seed,
		int64(normalized.Sequence),
		normalized.ChaosFactor,
		normalized.SceneNumber,
		normalized.ActiveLocationID,
		normalized.ActiveNodeID,
		normalized.LastNodeID,
		normalized.StateJSON,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put campaign: %w", err)
	}
	return nil
}

// GetCampaign loads one campaign snapshot by ID.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (storage.CampaignRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CampaignRecord{}, fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return storage.CampaignRecord{}, fmt.Errorf("campaign id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, seed, sequence, chaos_factor, scene_number,
       active_location_id, active_node_id, last_node_id, state_json,
       created_at, updated_at
FROM campaigns
WHERE id = ?
`, campaignID)
	record, err := scanCampaign(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CampaignRecord{}, storage.ErrNotFound
		}
		return storage.CampaignRecord{}, fmt.Errorf("get campaign: %w", err)
	}
	return record, nil
}

// ListCampaigns lists campaigns most recently updated first with cursor
// pagination. The page token is the last campaign ID of the previous page.
func (s *Store) ListCampaigns(ctx context.Context, pageSize int, pageToken string) (storage.CampaignPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CampaignPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.CampaignPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	limit := pageSize + 1
	if pageToken == "" {
		rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, seed, sequence, chaos_factor, scene_number,
       active_location_id, active_node_id, last_node_id, state_json,
       created_at, updated_at
FROM campaigns
ORDER BY updated_at DESC, id DESC
LIMIT ?
`, limit)
		if err != nil {
			return storage.CampaignPage{}, fmt.Errorf("list campaigns: %w", err)
		}
		defer rows.Close()
		return collectCampaignPage(rows, pageSize)
	}

	tokenUpdatedAt, err := s.campaignUpdatedAtByID(ctx, pageToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.CampaignPage{}, nil
		}
		return storage.CampaignPage{}, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, seed, sequence, chaos_factor, scene_number,
       active_location_id, active_node_id, last_node_id, state_json,
       created_at, updated_at
FROM campaigns
WHERE (updated_at < ? OR (updated_at = ? AND id < ?))
ORDER BY updated_at DESC, id DESC
LIMIT ?
`, tokenUpdatedAt, tokenUpdatedAt, pageToken, limit)
	if err != nil {
		return storage.CampaignPage{}, fmt.Errorf("list campaigns with token: %w", err)
	}
	defer rows.Close()
	return collectCampaignPage(rows, pageSize)
}

// DeleteCampaign removes a campaign and, through foreign keys, its scene
// and roll logs.
func (s *Store) DeleteCampaign(ctx context.Context, campaignID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return fmt.Errorf("campaign id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, campaignID)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete campaign rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) campaignUpdatedAtByID(ctx context.Context, campaignID string) (int64, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT updated_at FROM campaigns WHERE id = ?`, campaignID)
	var updatedAtMillis int64
	if err := row.Scan(&updatedAtMillis); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("lookup campaign cursor: %w", err)
	}
	return updatedAtMillis, nil
}

func normalizeCampaignRecord(record storage.CampaignRecord) (storage.CampaignRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.Name = strings.TrimSpace(record.Name)
	record.StateJSON = strings.TrimSpace(record.StateJSON)
	if record.StateJSON == "" {
		record.StateJSON = "{}"
	}
	if record.ID == "" {
		return storage.CampaignRecord{}, fmt.Errorf("campaign id is required")
	}
	if record.Name == "" {
		return storage.CampaignRecord{}, fmt.Errorf("campaign name is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.CampaignRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.CampaignRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func scanCampaign(scan scanner) (storage.CampaignRecord, error) {
	var record storage.CampaignRecord
	var sequence int64
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Seed,
		&sequence,
		&record.ChaosFactor,
		&record.SceneNumber,
		&record.ActiveLocationID,
		&record.ActiveNodeID,
		&record.LastNodeID,
		&record.StateJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.CampaignRecord{}, err
	}
	record.Sequence = uint64(sequence)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func collectCampaignPage(rows *sql.Rows, pageSize int) (storage.CampaignPage, error) {
	page := storage.CampaignPage{
		Campaigns: make([]storage.CampaignRecord, 0, pageSize),
	}
	for rows.Next() {
		record, err := scanCampaign(rows.Scan)
		if err != nil {
			return storage.CampaignPage{}, fmt.Errorf("scan campaign row: %w", err)
		}
		page.Campaigns = append(page.Campaigns, record)
	}
	if err := rows.Err(); err != nil {
		return storage.CampaignPage{}, fmt.Errorf("iterate campaign rows: %w", err)
	}
	if len(page.Campaigns) > pageSize {
		page.NextPageToken = page.Campaigns[pageSize-1].ID
		page.Campaigns = page.Campaigns[:pageSize]
	}
	return page, nil
}
