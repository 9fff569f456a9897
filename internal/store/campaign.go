package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const campaignColumns = `id, on_chain_id, owner, title, description, target, deadline, image, status,
rejection_reason, ai_analysis, is_deployed, deployed_at, created_at, updated_at`

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	Owner       string
	Title       string
	Description string
	Target      float64
	Deadline    time.Time
	Image       string
	AIAnalysis  Analysis
}

const sqlCreateCampaign = `
INSERT INTO campaigns (owner, title, description, target, deadline, image, status, ai_analysis)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
RETURNING ` + campaignColumns

// CreateCampaign inserts a new pending campaign with its initial analysis
func (s *Store) CreateCampaign(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlCreateCampaign,
		params.Owner,
		params.Title,
		params.Description,
		params.Target,
		params.Deadline,
		params.Image,
		params.AIAnalysis)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign", err)
		return Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignByID = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE id = $1
`

// GetCampaignByID retrieves a campaign by ID
func (s *Store) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by id", err)
		return Campaign{}, fmt.Errorf("failed to get campaign by id: %w", err)
	}
	return campaign, nil
}

const sqlListDeployedCampaigns = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE status = 'approved' AND is_deployed = TRUE
ORDER BY created_at DESC
`

// ListDeployedCampaigns returns the publicly fundable campaigns, newest first
func (s *Store) ListDeployedCampaigns(ctx context.Context) ([]Campaign, error) {
	var campaigns []Campaign
	err := s.db.SelectContext(ctx, &campaigns, sqlListDeployedCampaigns)
	if err != nil {
		s.logger.Error(ctx, "failed to list deployed campaigns", err)
		return nil, fmt.Errorf("failed to list deployed campaigns: %w", err)
	}
	return campaigns, nil
}

const sqlListCampaignsByOwner = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE owner = $1
ORDER BY created_at DESC
`

// ListCampaignsByOwner returns every campaign owned by the given wallet
func (s *Store) ListCampaignsByOwner(ctx context.Context, owner string) ([]Campaign, error) {
	var campaigns []Campaign
	err := s.db.SelectContext(ctx, &campaigns, sqlListCampaignsByOwner, owner)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaigns by owner", err)
		return nil, fmt.Errorf("failed to list campaigns by owner: %w", err)
	}
	return campaigns, nil
}

const sqlListPendingCampaigns = `
SELECT ` + campaignColumns + `
FROM campaigns
WHERE status = 'pending'
ORDER BY created_at ASC
`

// ListPendingCampaigns returns campaigns awaiting review, oldest first
func (s *Store) ListPendingCampaigns(ctx context.Context) ([]Campaign, error) {
	var campaigns []Campaign
	err := s.db.SelectContext(ctx, &campaigns, sqlListPendingCampaigns)
	if err != nil {
		s.logger.Error(ctx, "failed to list pending campaigns", err)
		return nil, fmt.Errorf("failed to list pending campaigns: %w", err)
	}
	return campaigns, nil
}

// ListCampaignsParams represents the admin listing filters
type ListCampaignsParams struct {
	Status *CampaignStatus
	Search string
	Sort   string // newest, oldest, trust-high, trust-low
	Limit  int
	Offset int
}

// ListCampaignsResult bundles a page of campaigns with the unfiltered total
type ListCampaignsResult struct {
	Campaigns  []Campaign
	TotalCount int
}

// ListCampaigns returns a filtered page of campaigns for the admin dashboard
func (s *Store) ListCampaigns(ctx context.Context, params ListCampaignsParams) (ListCampaignsResult, error) {
	var conditions []string
	var args []interface{}

	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR owner ILIKE $%d)", n, n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "created_at DESC"
	switch params.Sort {
	case "oldest":
		orderBy = "created_at ASC"
	case "trust-high":
		orderBy = "(ai_analysis->>'trustScore')::int DESC NULLS LAST"
	case "trust-low":
		orderBy = "(ai_analysis->>'trustScore')::int ASC NULLS LAST"
	}

	countQuery := "SELECT COUNT(*) FROM campaigns " + where
	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		s.logger.Error(ctx, "failed to count campaigns", err)
		return ListCampaignsResult{}, fmt.Errorf("failed to count campaigns: %w", err)
	}

	args = append(args, params.Limit)
	limitPos := len(args)
	args = append(args, params.Offset)
	offsetPos := len(args)

	listQuery := fmt.Sprintf("SELECT %s FROM campaigns %s ORDER BY %s LIMIT $%d OFFSET $%d",
		campaignColumns, where, orderBy, limitPos, offsetPos)

	var campaigns []Campaign
	if err := s.db.SelectContext(ctx, &campaigns, listQuery, args...); err != nil {
		s.logger.Error(ctx, "failed to list campaigns", err)
		return ListCampaignsResult{}, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return ListCampaignsResult{Campaigns: campaigns, TotalCount: total}, nil
}

const sqlApproveCampaign = `
UPDATE campaigns
SET status = 'approved', rejection_reason = NULL, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING ` + campaignColumns

// ApproveCampaign transitions a pending campaign to approved. The status
// condition makes the transition atomic; ErrNotFound means no pending
// campaign with this id existed.
func (s *Store) ApproveCampaign(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlApproveCampaign, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to approve campaign", err)
		return Campaign{}, fmt.Errorf("failed to approve campaign: %w", err)
	}
	return campaign, nil
}

const sqlRejectCampaign = `
UPDATE campaigns
SET status = 'rejected', rejection_reason = $2, on_chain_id = NULL, updated_at = NOW()
WHERE id = $1
RETURNING ` + campaignColumns

// RejectCampaign transitions a campaign to rejected and records the reason
func (s *Store) RejectCampaign(ctx context.Context, campaignID uuid.UUID, reason string) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlRejectCampaign, campaignID, reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to reject campaign", err)
		return Campaign{}, fmt.Errorf("failed to reject campaign: %w", err)
	}
	return campaign, nil
}

const sqlPublishCampaign = `
UPDATE campaigns
SET on_chain_id = $2, is_deployed = TRUE, deployed_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status = 'approved' AND is_deployed = FALSE
RETURNING ` + campaignColumns

// PublishCampaign records the external ledger id and freezes the campaign.
// The conditions make approve-then-publish races impossible; ErrNotFound
// means no publishable campaign with this id existed.
func (s *Store) PublishCampaign(ctx context.Context, campaignID uuid.UUID, onChainID int64) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlPublishCampaign, campaignID, onChainID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to publish campaign", err)
		return Campaign{}, fmt.Errorf("failed to publish campaign: %w", err)
	}
	return campaign, nil
}

// UpdateCampaignFieldsParams carries the live-field changes to apply. Nil
// fields are left untouched.
type UpdateCampaignFieldsParams struct {
	Title       *string
	Description *string
	Target      *float64
	Deadline    *time.Time
	Image       *string
}

const sqlUpdateCampaignFields = `
UPDATE campaigns
SET title = COALESCE($2, title),
    description = COALESCE($3, description),
    target = COALESCE($4, target),
    deadline = COALESCE($5, deadline),
    image = COALESCE($6, image),
    updated_at = NOW()
WHERE id = $1 AND is_deployed = FALSE
RETURNING ` + campaignColumns

// UpdateCampaignFields applies live-field changes to a non-deployed campaign
func (s *Store) UpdateCampaignFields(ctx context.Context, campaignID uuid.UUID, params UpdateCampaignFieldsParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlUpdateCampaignFields, campaignID,
		params.Title,
		params.Description,
		params.Target,
		params.Deadline,
		params.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update campaign fields", err)
		return Campaign{}, fmt.Errorf("failed to update campaign fields: %w", err)
	}
	return campaign, nil
}

const sqlUpdateCampaignAnalysis = `
UPDATE campaigns
SET ai_analysis = $2, updated_at = NOW()
WHERE id = $1
`

// UpdateCampaignAnalysis replaces the embedded trust assessment wholesale
func (s *Store) UpdateCampaignAnalysis(ctx context.Context, campaignID uuid.UUID, analysis Analysis) error {
	result, err := s.db.ExecContext(ctx, sqlUpdateCampaignAnalysis, campaignID, analysis)
	if err != nil {
		s.logger.Error(ctx, "failed to update campaign analysis", err)
		return fmt.Errorf("failed to update campaign analysis: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update campaign analysis: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlDeleteCampaign = `DELETE FROM campaigns WHERE id = $1`

// DeleteCampaign removes a campaign and, via cascade, its edits and updates
func (s *Store) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteCampaign, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlDeleteUnapprovedCampaign = `DELETE FROM campaigns WHERE id = $1 AND status <> 'approved'`

// DeleteUnapprovedCampaign removes a campaign unless it is approved. The
// status condition keeps owner deletes from racing an admin approval.
func (s *Store) DeleteUnapprovedCampaign(ctx context.Context, campaignID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteUnapprovedCampaign, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
