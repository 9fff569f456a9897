package handler

import (
	"net/http"
	"strconv"
	"time"

	"fundchain-server/internal/analytics/processor"
	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.AnalyticsProcessor
	logger    *observability.Logger
}

func New(processor processor.AnalyticsProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// StatsResponse is the wire shape of the admin dashboard aggregates
type StatsResponse struct {
	Campaigns         CampaignStatsResponse `json:"campaigns"`
	Users             UserStatsResponse     `json:"users"`
	ApprovalRate      float64               `json:"approvalRate"`
	TrustDistribution []BucketResponse      `json:"trustDistribution"`
	TopRiskFactors    []RiskFactorResponse  `json:"topRiskFactors"`
}

type CampaignStatsResponse struct {
	Total             int     `json:"total"`
	Pending           int     `json:"pending"`
	Approved          int     `json:"approved"`
	Rejected          int     `json:"rejected"`
	Deployed          int     `json:"deployed"`
	AverageTrustScore float64 `json:"averageTrustScore"`
	HighRisk          int     `json:"highRisk"`
}

type UserStatsResponse struct {
	Total    int `json:"total"`
	Creators int `json:"creators"`
}

type BucketResponse struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

type RiskFactorResponse struct {
	RiskFactor string `json:"riskFactor"`
	Count      int    `json:"count"`
}

// ActivityResponse is one row of the recent activity feed
type ActivityResponse struct {
	CampaignID uuid.UUID            `json:"campaignId"`
	Title      string               `json:"title"`
	Owner      string               `json:"owner"`
	Status     store.CampaignStatus `json:"status"`
	IsDeployed bool                 `json:"isDeployed"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// HandleGetStats returns campaign, user and trust aggregates
func (h *Handler) HandleGetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.processor.GetDashboardStats(ctx)
	if err != nil {
		h.logger.Error(ctx, "failed to get dashboard stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	buckets := make([]BucketResponse, 0, len(stats.TrustDistribution))
	for _, b := range stats.TrustDistribution {
		buckets = append(buckets, BucketResponse{Bucket: b.Bucket, Count: b.Count})
	}
	riskFactors := make([]RiskFactorResponse, 0, len(stats.TopRiskFactors))
	for _, rf := range stats.TopRiskFactors {
		riskFactors = append(riskFactors, RiskFactorResponse{RiskFactor: rf.RiskFactor, Count: rf.Count})
	}

	c.JSON(http.StatusOK, StatsResponse{
		Campaigns: CampaignStatsResponse{
			Total:             stats.Campaigns.Total,
			Pending:           stats.Campaigns.Pending,
			Approved:          stats.Campaigns.Approved,
			Rejected:          stats.Campaigns.Rejected,
			Deployed:          stats.Campaigns.Deployed,
			AverageTrustScore: stats.Campaigns.AverageTrustScore,
			HighRisk:          stats.Campaigns.HighRisk,
		},
		Users: UserStatsResponse{
			Total:    stats.Users.Total,
			Creators: stats.Users.Creators,
		},
		ApprovalRate:      stats.ApprovalRate,
		TrustDistribution: buckets,
		TopRiskFactors:    riskFactors,
	})
}

// HandleGetActivity returns the most recently touched campaigns
func (h *Handler) HandleGetActivity(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	entries, err := h.processor.GetRecentActivity(ctx, limit)
	if err != nil {
		h.logger.Error(ctx, "failed to get recent activity", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, ActivityResponse{
			CampaignID: e.CampaignID,
			Title:      e.Title,
			Owner:      e.Owner,
			Status:     e.Status,
			IsDeployed: e.IsDeployed,
			UpdatedAt:  e.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}
