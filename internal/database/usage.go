package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andrew/ai-usage-monitor/internal/database/models"
)

// UsageLogFilter narrows usage log queries. All fields are optional; the
// zero value selects everything the user owns.
type UsageLogFilter struct {
	PlatformID string
	Model      string
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	Limit      int
}

// UsageLogPage is a page of usage logs plus pagination totals
type UsageLogPage struct {
	Logs  []models.UsageLog `json:"logs"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Pages int64             `json:"pages"`
}

// CreateUsageLog inserts a new usage log entry
func (db *DB) CreateUsageLog(ctx context.Context, log *models.UsageLog) error {
	query := `
		INSERT INTO usage_logs (
			platform_id, model, prompt_tokens, completion_tokens,
			total_tokens, estimated_cost, request_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	result, err := db.conn.ExecContext(ctx, query,
		log.PlatformID,
		log.Model,
		log.PromptTokens,
		log.CompletionTokens,
		log.TotalTokens,
		log.EstimatedCost,
		log.RequestID,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	log.ID = id

	return nil
}

// usageLogWhere builds the WHERE clause shared by GetUsageLogs and its count
// query. Every query is scoped to platforms owned by userID.
func usageLogWhere(userID string, filter UsageLogFilter) (string, []interface{}) {
	where := ` WHERE platform_id IN (SELECT id FROM platforms WHERE user_id = ?)`
	args := []interface{}{userID}

	if filter.PlatformID != "" {
		where += " AND platform_id = ?"
		args = append(args, filter.PlatformID)
	}
	if filter.Model != "" {
		where += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.StartTime != nil {
		where += " AND created_at >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime != nil {
		where += " AND created_at <= ?"
		args = append(args, filter.EndTime)
	}

	return where, args
}

// GetUsageLogs retrieves a page of usage logs for a user with optional filters
func (db *DB) GetUsageLogs(ctx context.Context, userID string, filter UsageLogFilter) (*UsageLogPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	where, args := usageLogWhere(userID, filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM usage_logs` + where
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count usage logs: %w", err)
	}

	query := `
		SELECT id, platform_id, model, prompt_tokens, completion_tokens,
			   total_tokens, estimated_cost, request_id, created_at
		FROM usage_logs` + where + `
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage logs: %w", err)
	}
	defer rows.Close()

	var logs []models.UsageLog
	for rows.Next() {
		var log models.UsageLog
		err := rows.Scan(
			&log.ID,
			&log.PlatformID,
			&log.Model,
			&log.PromptTokens,
			&log.CompletionTokens,
			&log.TotalTokens,
			&log.EstimatedCost,
			&log.RequestID,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage logs: %w", err)
	}

	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}

	return &UsageLogPage{
		Logs:  logs,
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: pages,
	}, nil
}

// GetUsageStats calculates lifetime and today token/cost sums for a user,
// optionally narrowed to one platform
func (db *DB) GetUsageStats(ctx context.Context, userID, platformID string) (*models.UsageStats, error) {
	where := ` WHERE platform_id IN (SELECT id FROM platforms WHERE user_id = ?)`
	args := []interface{}{userID}
	if platformID != "" {
		where += " AND platform_id = ?"
		args = append(args, platformID)
	}

	var stats models.UsageStats

	totalQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(total_tokens), 0),
			COALESCE(SUM(estimated_cost), 0)
		FROM usage_logs` + where
	err := db.conn.QueryRowContext(ctx, totalQuery, args...).Scan(
		&stats.TotalRequests,
		&stats.Total.PromptTokens,
		&stats.Total.CompletionTokens,
		&stats.Total.TotalTokens,
		&stats.Total.EstimatedCost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	todayQuery := `
		SELECT
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(total_tokens), 0),
			COALESCE(SUM(estimated_cost), 0)
		FROM usage_logs` + where + ` AND created_at >= ?`
	todayArgs := append(append([]interface{}{}, args...), midnight)
	err = db.conn.QueryRowContext(ctx, todayQuery, todayArgs...).Scan(
		&stats.Today.PromptTokens,
		&stats.Today.CompletionTokens,
		&stats.Today.TotalTokens,
		&stats.Today.EstimatedCost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get today usage stats: %w", err)
	}

	return &stats, nil
}

// GetDailyUsage aggregates per-day token and cost sums since the given
// instant, optionally narrowed to one platform
func (db *DB) GetDailyUsage(ctx context.Context, userID string, since time.Time, platformID string) ([]models.DailyUsage, error) {
	query := `
		SELECT date(created_at),
			   COALESCE(SUM(total_tokens), 0),
			   COALESCE(SUM(estimated_cost), 0)
		FROM usage_logs
		WHERE platform_id IN (SELECT id FROM platforms WHERE user_id = ?)
		  AND created_at >= ?
	`
	args := []interface{}{userID, since}
	if platformID != "" {
		query += " AND platform_id = ?"
		args = append(args, platformID)
	}
	query += " GROUP BY date(created_at) ORDER BY date(created_at) ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var daily []models.DailyUsage
	for rows.Next() {
		var d models.DailyUsage
		if err := rows.Scan(&d.Date, &d.TotalTokens, &d.EstimatedCost); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		daily = append(daily, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily usage: %w", err)
	}

	return daily, nil
}

// GetPlatformDistribution returns total tokens per platform for a user
func (db *DB) GetPlatformDistribution(ctx context.Context, userID string) ([]models.PlatformUsage, error) {
	query := `
		SELECT p.id, p.name, COALESCE(SUM(u.total_tokens), 0)
		FROM platforms p
		LEFT JOIN usage_logs u ON u.platform_id = p.id
		WHERE p.user_id = ?
		GROUP BY p.id, p.name
		ORDER BY COALESCE(SUM(u.total_tokens), 0) DESC
	`

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform distribution: %w", err)
	}
	defer rows.Close()

	var dist []models.PlatformUsage
	for rows.Next() {
		var p models.PlatformUsage
		if err := rows.Scan(&p.PlatformID, &p.PlatformName, &p.TotalTokens); err != nil {
			return nil, fmt.Errorf("failed to scan platform distribution: %w", err)
		}
		dist = append(dist, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platform distribution: %w", err)
	}

	return dist, nil
}

// GetMonthlyTokenTotal returns the cumulative token count for a platform
// since the start of the current calendar month (UTC). Quota alerting
// compares this total against the platform's monthly quota.
func (db *DB) GetMonthlyTokenTotal(ctx context.Context, platformID string) (int64, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	query := `
		SELECT COALESCE(SUM(total_tokens), 0)
		FROM usage_logs
		WHERE platform_id = ? AND created_at >= ?
	`

	var total int64
	err := db.conn.QueryRowContext(ctx, query, platformID, monthStart).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get monthly token total: %w", err)
	}

	return total, nil
}
