package processor

import (
	"context"
	"errors"
	"testing"

	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"
)

type fakeAnalyticsStore struct {
	stats        store.CampaignStats
	statsErr     error
	users        store.UserCounts
	distribution []store.TrustScoreBucket
	riskFactors  []store.RiskFactorCount
	activity     []store.ActivityEntry

	activityLimit int
}

func (f *fakeAnalyticsStore) GetCampaignStats(ctx context.Context) (store.CampaignStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeAnalyticsStore) GetTrustScoreDistribution(ctx context.Context) ([]store.TrustScoreBucket, error) {
	return f.distribution, nil
}

func (f *fakeAnalyticsStore) GetTopRiskFactors(ctx context.Context, limit int) ([]store.RiskFactorCount, error) {
	return f.riskFactors, nil
}

func (f *fakeAnalyticsStore) GetRecentActivity(ctx context.Context, limit int) ([]store.ActivityEntry, error) {
	f.activityLimit = limit
	return f.activity, nil
}

func (f *fakeAnalyticsStore) CountUsers(ctx context.Context) (store.UserCounts, error) {
	return f.users, nil
}

func TestGetDashboardStats_CollectsAllAggregates(t *testing.T) {
	s := &fakeAnalyticsStore{
		stats:        store.CampaignStats{Total: 12, Pending: 3, Approved: 7, Rejected: 2, Deployed: 5, AverageTrustScore: 58.5, HighRisk: 1},
		users:        store.UserCounts{Total: 40, Creators: 9},
		distribution: []store.TrustScoreBucket{{Bucket: "40-59", Count: 6}},
		riskFactors:  []store.RiskFactorCount{{RiskFactor: "Description lacks detail", Count: 4}},
	}
	p := New(s, observability.NewLogger())

	stats, err := p.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.Campaigns.Total != 12 || stats.Users.Creators != 9 {
		t.Errorf("unexpected aggregates %+v", stats)
	}
	if len(stats.TrustDistribution) != 1 || len(stats.TopRiskFactors) != 1 {
		t.Errorf("expected distribution and risk factors forwarded, got %+v", stats)
	}
	// 7 approved out of 9 moderated
	if stats.ApprovalRate < 77.7 || stats.ApprovalRate > 77.8 {
		t.Errorf("expected approval rate ~77.8, got %f", stats.ApprovalRate)
	}
}

func TestGetDashboardStats_ApprovalRateZeroWhenUnmoderated(t *testing.T) {
	s := &fakeAnalyticsStore{stats: store.CampaignStats{Total: 4, Pending: 4}}
	p := New(s, observability.NewLogger())

	stats, err := p.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.ApprovalRate != 0 {
		t.Errorf("expected zero approval rate, got %f", stats.ApprovalRate)
	}
}

func TestGetDashboardStats_PropagatesError(t *testing.T) {
	s := &fakeAnalyticsStore{statsErr: errors.New("db down")}
	p := New(s, observability.NewLogger())

	if _, err := p.GetDashboardStats(context.Background()); err == nil {
		t.Error("expected error when store fails")
	}
}

func TestGetRecentActivity_ClampsLimit(t *testing.T) {
	s := &fakeAnalyticsStore{}
	p := New(s, observability.NewLogger())

	cases := []struct {
		requested int
		want      int
	}{
		{0, 20},
		{-5, 20},
		{101, 20},
		{50, 50},
	}
	for _, tc := range cases {
		if _, err := p.GetRecentActivity(context.Background(), tc.requested); err != nil {
			t.Fatalf("limit %d: expected no error, got %v", tc.requested, err)
		}
		if s.activityLimit != tc.want {
			t.Errorf("limit %d: expected store limit %d, got %d", tc.requested, tc.want, s.activityLimit)
		}
	}
}
