package processor

import (
	"context"
	"fmt"

	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"
)

// AnalyticsStore defines the aggregate queries behind the admin dashboard
type AnalyticsStore interface {
	GetCampaignStats(ctx context.Context) (store.CampaignStats, error)
	GetTrustScoreDistribution(ctx context.Context) ([]store.TrustScoreBucket, error)
	GetTopRiskFactors(ctx context.Context, limit int) ([]store.RiskFactorCount, error)
	GetRecentActivity(ctx context.Context, limit int) ([]store.ActivityEntry, error)
	CountUsers(ctx context.Context) (store.UserCounts, error)
}

const topRiskFactorLimit = 10

type AnalyticsProcessor struct {
	store  AnalyticsStore
	logger *observability.Logger
}

func New(store AnalyticsStore, logger *observability.Logger) AnalyticsProcessor {
	return AnalyticsProcessor{
		store:  store,
		logger: logger,
	}
}

// DashboardStats is the aggregate moderation picture for the admin dashboard.
// ApprovalRate is the approved share of moderated campaigns, in percent.
type DashboardStats struct {
	Campaigns         store.CampaignStats
	Users             store.UserCounts
	ApprovalRate      float64
	TrustDistribution []store.TrustScoreBucket
	TopRiskFactors    []store.RiskFactorCount
}

// GetDashboardStats collects campaign, user and trust aggregates
func (p AnalyticsProcessor) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	campaigns, err := p.store.GetCampaignStats(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	users, err := p.store.CountUsers(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	distribution, err := p.store.GetTrustScoreDistribution(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	riskFactors, err := p.store.GetTopRiskFactors(ctx, topRiskFactorLimit)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	return DashboardStats{
		Campaigns:         campaigns,
		Users:             users,
		ApprovalRate:      approvalRate(campaigns),
		TrustDistribution: distribution,
		TopRiskFactors:    riskFactors,
	}, nil
}

func approvalRate(stats store.CampaignStats) float64 {
	moderated := stats.Approved + stats.Rejected
	if moderated == 0 {
		return 0
	}
	return float64(stats.Approved) / float64(moderated) * 100
}

// GetRecentActivity returns the most recently touched campaigns
func (p AnalyticsProcessor) GetRecentActivity(ctx context.Context, limit int) ([]store.ActivityEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, err := p.store.GetRecentActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}
	return entries, nil
}
