package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const campaignEditColumns = `id, campaign_id, edited_by, edited_at, changes, status,
reviewed_by, reviewed_at, rejection_reason`

// CreateCampaignEditParams represents parameters for recording an edit proposal
type CreateCampaignEditParams struct {
	CampaignID uuid.UUID
	EditedBy   string
	Changes    JSONB
}

const sqlCreateCampaignEdit = `
INSERT INTO campaign_edits (campaign_id, edited_by, changes, status)
VALUES ($1, $2, $3, 'pending')
RETURNING ` + campaignEditColumns

// CreateCampaignEdit appends a pending edit record to a campaign
func (s *Store) CreateCampaignEdit(ctx context.Context, params CreateCampaignEditParams) (CampaignEdit, error) {
	var edit CampaignEdit
	err := s.db.GetContext(ctx, &edit, sqlCreateCampaignEdit,
		params.CampaignID,
		params.EditedBy,
		params.Changes)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign edit", err)
		return CampaignEdit{}, fmt.Errorf("failed to create campaign edit: %w", err)
	}
	return edit, nil
}

const sqlGetCampaignEdit = `
SELECT ` + campaignEditColumns + `
FROM campaign_edits
WHERE id = $1 AND campaign_id = $2
`

// GetCampaignEdit retrieves a single edit record of a campaign
func (s *Store) GetCampaignEdit(ctx context.Context, campaignID, editID uuid.UUID) (CampaignEdit, error) {
	var edit CampaignEdit
	err := s.db.GetContext(ctx, &edit, sqlGetCampaignEdit, editID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignEdit{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign edit", err)
		return CampaignEdit{}, fmt.Errorf("failed to get campaign edit: %w", err)
	}
	return edit, nil
}

const sqlListCampaignEdits = `
SELECT ` + campaignEditColumns + `
FROM campaign_edits
WHERE campaign_id = $1
ORDER BY edited_at ASC
`

// ListCampaignEdits returns a campaign's full edit history, oldest first
func (s *Store) ListCampaignEdits(ctx context.Context, campaignID uuid.UUID) ([]CampaignEdit, error) {
	var edits []CampaignEdit
	err := s.db.SelectContext(ctx, &edits, sqlListCampaignEdits, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaign edits", err)
		return nil, fmt.Errorf("failed to list campaign edits: %w", err)
	}
	return edits, nil
}

// PendingCampaignEdit joins an edit record with its campaign for admin review
type PendingCampaignEdit struct {
	CampaignEdit
	CampaignTitle string `db:"campaign_title"`
	CampaignOwner string `db:"campaign_owner"`
}

const sqlListPendingCampaignEdits = `
SELECT e.id, e.campaign_id, e.edited_by, e.edited_at, e.changes, e.status,
       e.reviewed_by, e.reviewed_at, e.rejection_reason,
       c.title AS campaign_title, c.owner AS campaign_owner
FROM campaign_edits e
JOIN campaigns c ON c.id = e.campaign_id
WHERE e.status = 'pending'
ORDER BY e.edited_at ASC
`

// ListPendingCampaignEdits returns every unresolved edit, oldest first, so
// admin review targets the oldest proposal per campaign
func (s *Store) ListPendingCampaignEdits(ctx context.Context) ([]PendingCampaignEdit, error) {
	var edits []PendingCampaignEdit
	err := s.db.SelectContext(ctx, &edits, sqlListPendingCampaignEdits)
	if err != nil {
		s.logger.Error(ctx, "failed to list pending campaign edits", err)
		return nil, fmt.Errorf("failed to list pending campaign edits: %w", err)
	}
	return edits, nil
}

const sqlResolveCampaignEdit = `
UPDATE campaign_edits
SET status = $3, reviewed_by = $4, reviewed_at = NOW(), rejection_reason = $5
WHERE id = $1 AND campaign_id = $2 AND status = 'pending'
RETURNING ` + campaignEditColumns

// ResolveCampaignEdit transitions a pending edit to approved or rejected.
// ErrNotFound means no pending edit with this id existed.
func (s *Store) ResolveCampaignEdit(ctx context.Context, campaignID, editID uuid.UUID, status ReviewStatus, reviewedBy string, reason *string) (CampaignEdit, error) {
	var edit CampaignEdit
	err := s.db.GetContext(ctx, &edit, sqlResolveCampaignEdit, editID, campaignID, status, reviewedBy, reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignEdit{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to resolve campaign edit", err)
		return CampaignEdit{}, fmt.Errorf("failed to resolve campaign edit: %w", err)
	}
	return edit, nil
}
