package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/enums"
)

// ErrNoViewLog marks deployments without the optional profile_views
// table; callers fall back to swipe interactions as a proxy.
var ErrNoViewLog = errors.New("profile view log unavailable")

const undefinedTableCode = "42P01"

// HistoryRepo serves the read-only interaction aggregates behind
// context scoring. Every query is scoped to one user or one pair and
// never mutates anything.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

type ReplyStatsRecord struct {
	Received        int
	Replied         int
	AvgReplySeconds float64
}

type MessageEngagementRecord struct {
	Sent             int
	AvgLength        float64
	SubstantialRatio float64
	QuestionRatio    float64
	ExclamationRatio float64
}

type ActivityHistogramRecord struct {
	HourCounts [24]int
	Total      int
}

type ViewStatsRecord struct {
	Count        int
	LastViewedAt *time.Time
}

type SwipeStatsRecord struct {
	Decisions int
	Likes     int
	Stars     int
}

func (r *HistoryRepo) ReplyStats(ctx context.Context, userID int64) (ReplyStatsRecord, error) {
	if r.pool == nil || userID <= 0 {
		return ReplyStatsRecord{}, fmt.Errorf("invalid reply stats query")
	}

	var record ReplyStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(reply.created_at),
	COALESCE(AVG(EXTRACT(EPOCH FROM (reply.created_at - m.created_at))), 0)
FROM messages m
LEFT JOIN LATERAL (
	SELECT created_at
	FROM messages
	WHERE sender_id = m.receiver_id
	  AND receiver_id = m.sender_id
	  AND created_at > m.created_at
	ORDER BY created_at
	LIMIT 1
) reply ON true
WHERE m.receiver_id = $1
`, userID).Scan(&record.Received, &record.Replied, &record.AvgReplySeconds)
	if err != nil {
		return ReplyStatsRecord{}, fmt.Errorf("load reply stats: %w", err)
	}

	return record, nil
}

func (r *HistoryRepo) MessageEngagement(ctx context.Context, userID int64) (MessageEngagementRecord, error) {
	if r.pool == nil || userID <= 0 {
		return MessageEngagementRecord{}, fmt.Errorf("invalid engagement query")
	}

	var record MessageEngagementRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COALESCE(AVG(LENGTH(content)), 0),
	COALESCE(AVG(CASE WHEN LENGTH(content) >= 50 THEN 1.0 ELSE 0.0 END), 0),
	COALESCE(AVG(CASE WHEN content LIKE '%?%' THEN 1.0 ELSE 0.0 END), 0),
	COALESCE(AVG(CASE WHEN content LIKE '%!%' THEN 1.0 ELSE 0.0 END), 0)
FROM messages
WHERE sender_id = $1
`, userID).Scan(
		&record.Sent,
		&record.AvgLength,
		&record.SubstantialRatio,
		&record.QuestionRatio,
		&record.ExclamationRatio,
	)
	if err != nil {
		return MessageEngagementRecord{}, fmt.Errorf("load message engagement: %w", err)
	}

	return record, nil
}

// ActivityHours builds an hour-of-day histogram from trailing message
// and swipe timestamps. Messages count double: they signal stronger
// engagement than swipes.
func (r *HistoryRepo) ActivityHours(ctx context.Context, userID int64, since time.Time) (ActivityHistogramRecord, error) {
	if r.pool == nil || userID <= 0 {
		return ActivityHistogramRecord{}, fmt.Errorf("invalid activity query")
	}

	rows, err := r.pool.Query(ctx, `
SELECT hour, SUM(weight)::int
FROM (
	SELECT EXTRACT(HOUR FROM created_at)::int AS hour, 2 AS weight
	FROM messages
	WHERE sender_id = $1 AND created_at >= $2
	UNION ALL
	SELECT EXTRACT(HOUR FROM created_at)::int AS hour, 1 AS weight
	FROM swipe_decisions
	WHERE user_id = $1 AND created_at >= $2
) activity
GROUP BY hour
`, userID, since)
	if err != nil {
		return ActivityHistogramRecord{}, fmt.Errorf("load activity hours: %w", err)
	}
	defer rows.Close()

	var record ActivityHistogramRecord
	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return ActivityHistogramRecord{}, fmt.Errorf("scan activity hour: %w", err)
		}
		if hour < 0 || hour > 23 {
			continue
		}
		record.HourCounts[hour] = count
		record.Total += count
	}
	if err := rows.Err(); err != nil {
		return ActivityHistogramRecord{}, fmt.Errorf("iterate activity hours: %w", err)
	}

	return record, nil
}

func (r *HistoryRepo) SwipeStats(ctx context.Context, userID int64) (SwipeStatsRecord, error) {
	if r.pool == nil || userID <= 0 {
		return SwipeStatsRecord{}, fmt.Errorf("invalid swipe stats query")
	}

	var record SwipeStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE action = $2),
	COUNT(*) FILTER (WHERE action = $3)
FROM swipe_decisions
WHERE user_id = $1
`, userID, string(enums.SwipeActionLike), string(enums.SwipeActionStar)).Scan(&record.Decisions, &record.Likes, &record.Stars)
	if err != nil {
		return SwipeStatsRecord{}, fmt.Errorf("load swipe stats: %w", err)
	}

	return record, nil
}

// ProfileViewStats reads the optional dedicated view log. Deployments
// without the table get ErrNoViewLog so the caller can use
// SwipeInteractions as a proxy instead.
func (r *HistoryRepo) ProfileViewStats(ctx context.Context, viewerID, viewedID int64) (ViewStatsRecord, error) {
	if r.pool == nil || viewerID <= 0 || viewedID <= 0 {
		return ViewStatsRecord{}, fmt.Errorf("invalid view stats query")
	}

	var record ViewStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(view_count, 0), last_viewed_at
FROM profile_views
WHERE viewer_id = $1 AND viewed_id = $2
LIMIT 1
`, viewerID, viewedID).Scan(&record.Count, &record.LastViewedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
			return ViewStatsRecord{}, ErrNoViewLog
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return ViewStatsRecord{}, nil
		}
		return ViewStatsRecord{}, fmt.Errorf("load profile views: %w", err)
	}

	return record, nil
}

func (r *HistoryRepo) SwipeInteractions(ctx context.Context, viewerID, targetID int64) (ViewStatsRecord, error) {
	if r.pool == nil || viewerID <= 0 || targetID <= 0 {
		return ViewStatsRecord{}, fmt.Errorf("invalid swipe interaction query")
	}

	var record ViewStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*), MAX(created_at)
FROM swipe_decisions
WHERE user_id = $1 AND target_id = $2
`, viewerID, targetID).Scan(&record.Count, &record.LastViewedAt)
	if err != nil {
		return ViewStatsRecord{}, fmt.Errorf("load swipe interactions: %w", err)
	}

	return record, nil
}

// attributeColumns whitelists the profile columns like-rates may be
// conditioned on. The age band is handled separately: it derives from
// birthdate rather than matching a stored column value.
var attributeColumns = map[string]string{
	"ethnicity":  "ethnicity",
	"religion":   "religion",
	"profession": "profession",
	"goal":       "relationship_goal",
	"location":   "location",
}

const attributeAgeBand = "age_band"

// AttributeLikeRates returns, per shared attribute, the historical
// like/star rate of the user toward targets carrying the same value.
// Attributes with no decisions are omitted.
func (r *HistoryRepo) AttributeLikeRates(ctx context.Context, userID int64, attrs map[string]string) (map[string]float64, error) {
	if r.pool == nil || userID <= 0 {
		return nil, fmt.Errorf("invalid like rate query")
	}

	rates := make(map[string]float64, len(attrs))
	for attr, value := range attrs {
		if value == "" {
			continue
		}
		if attr == attributeAgeBand {
			rate, ok, err := r.ageBandLikeRate(ctx, userID, value)
			if err != nil {
				return nil, err
			}
			if ok {
				rates[attr] = rate
			}
			continue
		}
		column, ok := attributeColumns[attr]
		if !ok {
			continue
		}

		var decisions int
		var liked int
		err := r.pool.QueryRow(ctx, fmt.Sprintf(`
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE s.action IN ($3, $4))
FROM swipe_decisions s
JOIN profiles p ON p.user_id = s.target_id
WHERE s.user_id = $1 AND LOWER(COALESCE(p.%s, '')) = LOWER($2)
`, column), userID, value, string(enums.SwipeActionLike), string(enums.SwipeActionStar)).Scan(&decisions, &liked)
		if err != nil {
			return nil, fmt.Errorf("load like rate for %s: %w", attr, err)
		}
		if decisions == 0 {
			continue
		}
		rates[attr] = float64(liked) / float64(decisions)
	}

	return rates, nil
}

// ageBandLikeRate conditions the like rate on targets whose current
// age falls inside a "30-34" style band. Unparsable bands are skipped
// rather than failing the whole query.
func (r *HistoryRepo) ageBandLikeRate(ctx context.Context, userID int64, band string) (float64, bool, error) {
	var low, high int
	if _, err := fmt.Sscanf(band, "%d-%d", &low, &high); err != nil || low > high {
		return 0, false, nil
	}

	var decisions, liked int
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE s.action IN ($4, $5))
FROM swipe_decisions s
JOIN profiles p ON p.user_id = s.target_id
WHERE s.user_id = $1
  AND p.birthdate IS NOT NULL
  AND EXTRACT(YEAR FROM AGE(p.birthdate))::int BETWEEN $2 AND $3
`, userID, low, high, string(enums.SwipeActionLike), string(enums.SwipeActionStar)).Scan(&decisions, &liked)
	if err != nil {
		return 0, false, fmt.Errorf("load like rate for age band: %w", err)
	}
	if decisions == 0 {
		return 0, false, nil
	}
	return float64(liked) / float64(decisions), true, nil
}
