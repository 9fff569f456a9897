package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"

	"github.com/google/uuid"
)

// PostUpdateParams represents an announcement posted by a campaign owner
type PostUpdateParams struct {
	Title   string
	Content string
	Image   *string
	Video   *string
}

// PostUpdate appends an announcement to the caller's campaign. Updates are
// published immediately; moderation of updates is after the fact.
func (p CampaignProcessor) PostUpdate(ctx context.Context, identity Identity, campaignID uuid.UUID, params PostUpdateParams) (store.CampaignUpdate, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Content) == "" {
		return store.CampaignUpdate{}, ErrMissingUpdateContent
	}

	campaign, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return store.CampaignUpdate{}, err
	}
	if campaign.Owner != identity.Wallet {
		return store.CampaignUpdate{}, ErrForbidden
	}

	update, err := p.store.CreateCampaignUpdate(ctx, store.CreateCampaignUpdateParams{
		CampaignID: campaignID,
		Author:     identity.Wallet,
		Title:      params.Title,
		Content:    params.Content,
		Image:      params.Image,
		Video:      params.Video,
		Status:     store.ReviewStatusApproved,
	})
	if err != nil {
		return store.CampaignUpdate{}, fmt.Errorf("failed to post update: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
		observability.Field{Key: "update_id", Value: update.ID.String()},
	)
	p.logger.Info(ctx, "Campaign update posted")
	return update, nil
}

// ListUpdates returns a campaign's updates. The owner and admins also see
// records that moderation has since pulled.
func (p CampaignProcessor) ListUpdates(ctx context.Context, identity *Identity, campaignID uuid.UUID) ([]store.CampaignUpdate, error) {
	campaign, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	includeUnapproved := identity != nil && (identity.IsAdmin() || campaign.Owner == identity.Wallet)
	updates, err := p.store.ListCampaignUpdates(ctx, campaignID, includeUnapproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	return updates, nil
}

// ApproveUpdate transitions a pending update to approved. Updates publish as
// approved by default, so this only matters for records held back by
// moderation.
func (p CampaignProcessor) ApproveUpdate(ctx context.Context, identity Identity, updateID uuid.UUID) (store.CampaignUpdate, error) {
	update, err := p.store.ResolveCampaignUpdate(ctx, updateID, store.ReviewStatusApproved, identity.Wallet, nil)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.CampaignUpdate{}, p.classifyUpdateFailure(ctx, updateID)
		}
		return store.CampaignUpdate{}, fmt.Errorf("failed to approve update: %w", err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "update_id", Value: updateID.String()})
	p.logger.Info(ctx, "Campaign update approved")
	return update, nil
}

// RejectUpdate removes a pending update from the public feed with a reason
func (p CampaignProcessor) RejectUpdate(ctx context.Context, identity Identity, updateID uuid.UUID, reason string) (store.CampaignUpdate, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return store.CampaignUpdate{}, ErrReasonRequired
	}

	update, err := p.store.ResolveCampaignUpdate(ctx, updateID, store.ReviewStatusRejected, identity.Wallet, &reason)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.CampaignUpdate{}, p.classifyUpdateFailure(ctx, updateID)
		}
		return store.CampaignUpdate{}, fmt.Errorf("failed to reject update: %w", err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "update_id", Value: updateID.String()})
	p.logger.Info(ctx, "Campaign update rejected")
	return update, nil
}

func (p CampaignProcessor) classifyUpdateFailure(ctx context.Context, updateID uuid.UUID) error {
	update, err := p.store.GetCampaignUpdate(ctx, updateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUpdateNotFound
		}
		return fmt.Errorf("failed to resolve update: %w", err)
	}
	if update.Status != store.ReviewStatusPending {
		return ErrUpdateNotPending
	}
	return ErrUpdateNotFound
}

// ListPendingUpdates returns every update awaiting moderation
func (p CampaignProcessor) ListPendingUpdates(ctx context.Context) ([]store.PendingCampaignUpdate, error) {
	updates, err := p.store.ListPendingCampaignUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending updates: %w", err)
	}
	return updates, nil
}
