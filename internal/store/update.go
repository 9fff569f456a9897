package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const campaignUpdateColumns = `id, campaign_id, author, title, content, image, video, status,
reviewed_by, reviewed_at, rejection_reason, created_at`

// CreateCampaignUpdateParams represents parameters for posting an update
type CreateCampaignUpdateParams struct {
	CampaignID uuid.UUID
	Author     string
	Title      string
	Content    string
	Image      *string
	Video      *string
	Status     ReviewStatus
}

const sqlCreateCampaignUpdate = `
INSERT INTO campaign_updates (campaign_id, author, title, content, image, video, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + campaignUpdateColumns

// CreateCampaignUpdate appends an update record to a campaign
func (s *Store) CreateCampaignUpdate(ctx context.Context, params CreateCampaignUpdateParams) (CampaignUpdate, error) {
	var update CampaignUpdate
	err := s.db.GetContext(ctx, &update, sqlCreateCampaignUpdate,
		params.CampaignID,
		params.Author,
		params.Title,
		params.Content,
		params.Image,
		params.Video,
		params.Status)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign update", err)
		return CampaignUpdate{}, fmt.Errorf("failed to create campaign update: %w", err)
	}
	return update, nil
}

const sqlListCampaignUpdates = `
SELECT ` + campaignUpdateColumns + `
FROM campaign_updates
WHERE campaign_id = $1
ORDER BY created_at DESC
`

const sqlListApprovedCampaignUpdates = `
SELECT ` + campaignUpdateColumns + `
FROM campaign_updates
WHERE campaign_id = $1 AND status = 'approved'
ORDER BY created_at DESC
`

// ListCampaignUpdates returns a campaign's updates, newest first. Unapproved
// records are included only when includeUnapproved is set (owner/admin view).
func (s *Store) ListCampaignUpdates(ctx context.Context, campaignID uuid.UUID, includeUnapproved bool) ([]CampaignUpdate, error) {
	query := sqlListApprovedCampaignUpdates
	if includeUnapproved {
		query = sqlListCampaignUpdates
	}
	var updates []CampaignUpdate
	err := s.db.SelectContext(ctx, &updates, query, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaign updates", err)
		return nil, fmt.Errorf("failed to list campaign updates: %w", err)
	}
	return updates, nil
}

const sqlGetCampaignUpdate = `
SELECT ` + campaignUpdateColumns + `
FROM campaign_updates
WHERE id = $1
`

// GetCampaignUpdate retrieves an update record by its id
func (s *Store) GetCampaignUpdate(ctx context.Context, updateID uuid.UUID) (CampaignUpdate, error) {
	var update CampaignUpdate
	err := s.db.GetContext(ctx, &update, sqlGetCampaignUpdate, updateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignUpdate{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign update", err)
		return CampaignUpdate{}, fmt.Errorf("failed to get campaign update: %w", err)
	}
	return update, nil
}

// PendingCampaignUpdate joins an update record with its campaign for admin review
type PendingCampaignUpdate struct {
	CampaignUpdate
	CampaignTitle string `db:"campaign_title"`
	CampaignOwner string `db:"campaign_owner"`
}

const sqlListPendingCampaignUpdates = `
SELECT u.id, u.campaign_id, u.author, u.title, u.content, u.image, u.video, u.status,
       u.reviewed_by, u.reviewed_at, u.rejection_reason, u.created_at,
       c.title AS campaign_title, c.owner AS campaign_owner
FROM campaign_updates u
JOIN campaigns c ON c.id = u.campaign_id
WHERE u.status = 'pending'
ORDER BY u.created_at ASC
`

// ListPendingCampaignUpdates returns every update awaiting moderation
func (s *Store) ListPendingCampaignUpdates(ctx context.Context) ([]PendingCampaignUpdate, error) {
	var updates []PendingCampaignUpdate
	err := s.db.SelectContext(ctx, &updates, sqlListPendingCampaignUpdates)
	if err != nil {
		s.logger.Error(ctx, "failed to list pending campaign updates", err)
		return nil, fmt.Errorf("failed to list pending campaign updates: %w", err)
	}
	return updates, nil
}

const sqlResolveCampaignUpdate = `
UPDATE campaign_updates
SET status = $2, reviewed_by = $3, reviewed_at = NOW(), rejection_reason = $4
WHERE id = $1 AND status = 'pending'
RETURNING ` + campaignUpdateColumns

// ResolveCampaignUpdate transitions a pending update to approved or rejected.
// ErrNotFound means no pending update with this id existed.
func (s *Store) ResolveCampaignUpdate(ctx context.Context, updateID uuid.UUID, status ReviewStatus, reviewedBy string, reason *string) (CampaignUpdate, error) {
	var update CampaignUpdate
	err := s.db.GetContext(ctx, &update, sqlResolveCampaignUpdate, updateID, status, reviewedBy, reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignUpdate{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to resolve campaign update", err)
		return CampaignUpdate{}, fmt.Errorf("failed to resolve campaign update: %w", err)
	}
	return update, nil
}
