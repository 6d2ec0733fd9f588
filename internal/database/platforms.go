package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// DefaultAlertThreshold is applied when a platform is created without an
// explicit alert threshold (percent of monthly quota).
const DefaultAlertThreshold = 80

// CreatePlatform inserts a new platform owned by platform.UserID
func (db *DB) CreatePlatform(ctx context.Context, platform *models.Platform) error {
	if platform.AlertThreshold == 0 {
		platform.AlertThreshold = DefaultAlertThreshold
	}

	query := `
		INSERT INTO platforms (
			id, user_id, name, provider, api_key, base_url,
			price_input_per_1k, price_output_per_1k, monthly_quota,
			alert_threshold, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	platform.CreatedAt = now
	platform.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx, query,
		platform.ID,
		platform.UserID,
		platform.Name,
		platform.Provider,
		platform.APIKey,
		platform.BaseURL,
		platform.PriceInputPer1K,
		platform.PriceOutputPer1K,
		platform.MonthlyQuota,
		platform.AlertThreshold,
		platform.IsActive,
		platform.CreatedAt,
		platform.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert platform: %w", err)
	}

	return nil
}

// GetPlatform retrieves a platform by ID scoped to its owner.
// Returns (nil, nil) when absent or owned by a different user.
func (db *DB) GetPlatform(ctx context.Context, id, userID string) (*models.Platform, error) {
	query := `
		SELECT id, user_id, name, provider, api_key, base_url,
			   price_input_per_1k, price_output_per_1k, monthly_quota,
			   alert_threshold, is_active, created_at, updated_at
		FROM platforms
		WHERE id = ? AND user_id = ?
	`

	var platform models.Platform
	err := db.conn.QueryRowContext(ctx, query, id, userID).Scan(
		&platform.ID,
		&platform.UserID,
		&platform.Name,
		&platform.Provider,
		&platform.APIKey,
		&platform.BaseURL,
		&platform.PriceInputPer1K,
		&platform.PriceOutputPer1K,
		&platform.MonthlyQuota,
		&platform.AlertThreshold,
		&platform.IsActive,
		&platform.CreatedAt,
		&platform.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get platform: %w", err)
	}

	return &platform, nil
}

// ListPlatforms retrieves all platforms owned by a user, newest first
func (db *DB) ListPlatforms(ctx context.Context, userID string) ([]models.Platform, error) {
	query := `
		SELECT id, user_id, name, provider, api_key, base_url,
			   price_input_per_1k, price_output_per_1k, monthly_quota,
			   alert_threshold, is_active, created_at, updated_at
		FROM platforms
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query platforms: %w", err)
	}
	defer rows.Close()

	var platforms []models.Platform
	for rows.Next() {
		var platform models.Platform
		err := rows.Scan(
			&platform.ID,
			&platform.UserID,
			&platform.Name,
			&platform.Provider,
			&platform.APIKey,
			&platform.BaseURL,
			&platform.PriceInputPer1K,
			&platform.PriceOutputPer1K,
			&platform.MonthlyQuota,
			&platform.AlertThreshold,
			&platform.IsActive,
			&platform.CreatedAt,
			&platform.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, platform)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platforms: %w", err)
	}

	return platforms, nil
}

// UpdatePlatform updates a platform's configuration. The WHERE clause keeps
// the update scoped to the owner.
func (db *DB) UpdatePlatform(ctx context.Context, platform *models.Platform) error {
	query := `
		UPDATE platforms
		SET name = ?, provider = ?, api_key = ?, base_url = ?,
			price_input_per_1k = ?, price_output_per_1k = ?, monthly_quota = ?,
			alert_threshold = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	platform.UpdatedAt = time.Now().UTC()
	_, err := db.conn.ExecContext(ctx, query,
		platform.Name,
		platform.Provider,
		platform.APIKey,
		platform.BaseURL,
		platform.PriceInputPer1K,
		platform.PriceOutputPer1K,
		platform.MonthlyQuota,
		platform.AlertThreshold,
		platform.IsActive,
		platform.UpdatedAt,
		platform.ID,
		platform.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update platform: %w", err)
	}

	return nil
}

// DeletePlatform deletes a platform and its usage logs
func (db *DB) DeletePlatform(ctx context.Context, id, userID string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM usage_logs
		 WHERE platform_id IN (SELECT id FROM platforms WHERE id = ? AND user_id = ?)`,
		id, userID); err != nil {
		return fmt.Errorf("failed to delete platform usage logs: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM platforms WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}
	return nil
}
