package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CampaignStats holds the aggregate moderation numbers for the admin dashboard
type CampaignStats struct {
	Total             int     `db:"total"`
	Pending           int     `db:"pending"`
	Approved          int     `db:"approved"`
	Rejected          int     `db:"rejected"`
	Deployed          int     `db:"deployed"`
	AverageTrustScore float64 `db:"average_trust_score"`
	HighRisk          int     `db:"high_risk"`
}

const sqlCampaignStats = `
SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'pending') AS pending,
       COUNT(*) FILTER (WHERE status = 'approved') AS approved,
       COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
       COUNT(*) FILTER (WHERE is_deployed) AS deployed,
       COALESCE(AVG((ai_analysis->>'trustScore')::int), 0) AS average_trust_score,
       COUNT(*) FILTER (WHERE (ai_analysis->>'trustScore')::int < 40) AS high_risk
FROM campaigns
`

// GetCampaignStats returns aggregate campaign counts and trust numbers
func (s *Store) GetCampaignStats(ctx context.Context) (CampaignStats, error) {
	var stats CampaignStats
	err := s.db.GetContext(ctx, &stats, sqlCampaignStats)
	if err != nil {
		s.logger.Error(ctx, "failed to get campaign stats", err)
		return CampaignStats{}, fmt.Errorf("failed to get campaign stats: %w", err)
	}
	return stats, nil
}

// TrustScoreBucket is one band of the trust-score distribution
type TrustScoreBucket struct {
	Bucket string `db:"bucket"`
	Count  int    `db:"count"`
}

const sqlTrustScoreDistribution = `
SELECT CASE
         WHEN (ai_analysis->>'trustScore')::int < 20 THEN '0-19'
         WHEN (ai_analysis->>'trustScore')::int < 40 THEN '20-39'
         WHEN (ai_analysis->>'trustScore')::int < 60 THEN '40-59'
         WHEN (ai_analysis->>'trustScore')::int < 80 THEN '60-79'
         ELSE '80-100'
       END AS bucket,
       COUNT(*) AS count
FROM campaigns
WHERE ai_analysis->>'trustScore' IS NOT NULL
GROUP BY bucket
ORDER BY bucket
`

// GetTrustScoreDistribution buckets campaigns by trust score
func (s *Store) GetTrustScoreDistribution(ctx context.Context) ([]TrustScoreBucket, error) {
	var buckets []TrustScoreBucket
	err := s.db.SelectContext(ctx, &buckets, sqlTrustScoreDistribution)
	if err != nil {
		s.logger.Error(ctx, "failed to get trust score distribution", err)
		return nil, fmt.Errorf("failed to get trust score distribution: %w", err)
	}
	return buckets, nil
}

// RiskFactorCount is one entry of the most common risk factors
type RiskFactorCount struct {
	RiskFactor string `db:"risk_factor"`
	Count      int    `db:"count"`
}

const sqlTopRiskFactors = `
SELECT rf AS risk_factor, COUNT(*) AS count
FROM campaigns,
     jsonb_array_elements_text(ai_analysis->'riskFactors') AS rf
GROUP BY rf
ORDER BY count DESC, rf ASC
LIMIT $1
`

// GetTopRiskFactors returns the most frequent risk factors across campaigns
func (s *Store) GetTopRiskFactors(ctx context.Context, limit int) ([]RiskFactorCount, error) {
	var factors []RiskFactorCount
	err := s.db.SelectContext(ctx, &factors, sqlTopRiskFactors, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get top risk factors", err)
		return nil, fmt.Errorf("failed to get top risk factors: %w", err)
	}
	return factors, nil
}

// ActivityEntry is one row of the recent moderation activity feed
type ActivityEntry struct {
	CampaignID uuid.UUID      `db:"campaign_id"`
	Title      string         `db:"title"`
	Owner      string         `db:"owner"`
	Status     CampaignStatus `db:"status"`
	IsDeployed bool           `db:"is_deployed"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

const sqlRecentActivity = `
SELECT id AS campaign_id, title, owner, status, is_deployed, updated_at
FROM campaigns
ORDER BY updated_at DESC
LIMIT $1
`

// GetRecentActivity returns the most recently touched campaigns
func (s *Store) GetRecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	var entries []ActivityEntry
	err := s.db.SelectContext(ctx, &entries, sqlRecentActivity, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get recent activity", err)
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}
	return entries, nil
}
