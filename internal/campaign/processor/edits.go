package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"

	"github.com/google/uuid"
)

// EditParams represents a partial edit to a campaign. Nil fields are not
// part of the edit.
type EditParams struct {
	Title       *string
	Description *string
	Target      *float64
	Deadline    *string
	Image       *string
}

// EditResult is the outcome of an edit submission
type EditResult struct {
	Campaign         store.Campaign
	Edit             *store.CampaignEdit
	RequiresApproval bool
	NoChanges        bool
}

// EditCampaign applies a partial edit to a non-deployed campaign. Admin edits
// apply immediately. Owner edits are recorded as a pending proposal for
// review, with content changes (title, description, target) applied to the
// live campaign right away so the new text is re-scored and visible while the
// proposal waits; deadline and image changes stay held back until approval.
func (p CampaignProcessor) EditCampaign(ctx context.Context, identity Identity, campaignID uuid.UUID, params EditParams) (EditResult, error) {
	campaign, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return EditResult{}, err
	}
	if !identity.IsAdmin() && campaign.Owner != identity.Wallet {
		return EditResult{}, ErrForbidden
	}
	if campaign.IsDeployed {
		return EditResult{}, ErrCannotEditDeployed
	}
	// Owners may only touch campaigns still awaiting review; moderated
	// content needs an admin.
	if !identity.IsAdmin() && campaign.Status != store.CampaignStatusPending {
		return EditResult{}, ErrNotEditable
	}

	if params.Target != nil && *params.Target <= 0 {
		return EditResult{}, ErrInvalidTarget
	}
	var newDeadline *time.Time
	if params.Deadline != nil {
		deadline, err := parseDeadline(*params.Deadline)
		if err != nil {
			return EditResult{}, err
		}
		newDeadline = &deadline
	}

	changes := diffCampaign(campaign, params, newDeadline)
	if len(changes) == 0 {
		return EditResult{Campaign: campaign, NoChanges: true}, nil
	}

	if identity.IsAdmin() {
		return p.applyAdminEdit(ctx, campaign, params, newDeadline, changes)
	}
	return p.applyOwnerEdit(ctx, campaign, params, changes)
}

func (p CampaignProcessor) applyAdminEdit(ctx context.Context, campaign store.Campaign, params EditParams, newDeadline *time.Time, changes store.JSONB) (EditResult, error) {
	updated, err := p.applyFields(ctx, campaign.ID, store.UpdateCampaignFieldsParams{
		Title:       params.Title,
		Description: params.Description,
		Target:      params.Target,
		Deadline:    newDeadline,
		Image:       params.Image,
	})
	if err != nil {
		return EditResult{}, err
	}

	if contentChanged(changes) {
		updated, err = p.reanalyze(ctx, updated)
		if err != nil {
			return EditResult{}, err
		}
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaign.ID.String()})
	p.logger.Info(ctx, "Campaign edited by admin")
	return EditResult{Campaign: updated}, nil
}

func (p CampaignProcessor) applyOwnerEdit(ctx context.Context, campaign store.Campaign, params EditParams, changes store.JSONB) (EditResult, error) {
	edit, err := p.store.CreateCampaignEdit(ctx, store.CreateCampaignEditParams{
		CampaignID: campaign.ID,
		EditedBy:   campaign.Owner,
		Changes:    changes,
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("failed to record edit: %w", err)
	}

	updated := campaign
	if contentChanged(changes) {
		updated, err = p.applyFields(ctx, campaign.ID, store.UpdateCampaignFieldsParams{
			Title:       params.Title,
			Description: params.Description,
			Target:      params.Target,
		})
		if err != nil {
			return EditResult{}, err
		}
		updated, err = p.reanalyze(ctx, updated)
		if err != nil {
			return EditResult{}, err
		}
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaign.ID.String()},
		observability.Field{Key: "edit_id", Value: edit.ID.String()},
	)
	p.logger.Info(ctx, "Campaign edit submitted for review")
	return EditResult{Campaign: updated, Edit: &edit, RequiresApproval: true}, nil
}

// ApproveEdit resolves a pending edit and applies every proposed field to
// the campaign. The deployed check runs before the record is resolved so a
// refused approval leaves the edit pending rather than approved-but-unapplied.
func (p CampaignProcessor) ApproveEdit(ctx context.Context, identity Identity, campaignID, editID uuid.UUID) (store.Campaign, error) {
	current, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return store.Campaign{}, err
	}
	if current.IsDeployed {
		return store.Campaign{}, ErrCannotEditDeployed
	}

	edit, err := p.store.ResolveCampaignEdit(ctx, campaignID, editID, store.ReviewStatusApproved, identity.Wallet, nil)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, p.classifyEditFailure(ctx, campaignID, editID)
		}
		return store.Campaign{}, fmt.Errorf("failed to approve edit: %w", err)
	}

	fields, err := changesToFieldParams(edit.Changes)
	if err != nil {
		return store.Campaign{}, fmt.Errorf("failed to approve edit: %w", err)
	}

	campaign, err := p.applyFields(ctx, campaignID, fields)
	if err != nil {
		return store.Campaign{}, err
	}

	if contentChanged(edit.Changes) {
		campaign, err = p.reanalyze(ctx, campaign)
		if err != nil {
			return store.Campaign{}, err
		}
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
		observability.Field{Key: "edit_id", Value: editID.String()},
	)
	p.logger.Info(ctx, "Campaign edit approved")
	return campaign, nil
}

// RejectEdit resolves a pending edit as rejected. Fields already applied to
// the live campaign as part of the proposal's preview are left in place.
func (p CampaignProcessor) RejectEdit(ctx context.Context, identity Identity, campaignID, editID uuid.UUID, reason string) (store.CampaignEdit, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return store.CampaignEdit{}, ErrReasonRequired
	}

	edit, err := p.store.ResolveCampaignEdit(ctx, campaignID, editID, store.ReviewStatusRejected, identity.Wallet, &reason)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.CampaignEdit{}, p.classifyEditFailure(ctx, campaignID, editID)
		}
		return store.CampaignEdit{}, fmt.Errorf("failed to reject edit: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
		observability.Field{Key: "edit_id", Value: editID.String()},
	)
	p.logger.Info(ctx, "Campaign edit rejected")
	return edit, nil
}

func (p CampaignProcessor) classifyEditFailure(ctx context.Context, campaignID, editID uuid.UUID) error {
	edit, err := p.store.GetCampaignEdit(ctx, campaignID, editID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEditNotFound
		}
		return fmt.Errorf("failed to resolve edit: %w", err)
	}
	if edit.Status != store.ReviewStatusPending {
		return ErrEditNotPending
	}
	return ErrEditNotFound
}

// ListEdits returns a campaign's full edit history for its owner or an admin
func (p CampaignProcessor) ListEdits(ctx context.Context, identity Identity, campaignID uuid.UUID) ([]store.CampaignEdit, error) {
	campaign, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && campaign.Owner != identity.Wallet {
		return nil, ErrForbidden
	}

	edits, err := p.store.ListCampaignEdits(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edits: %w", err)
	}
	return edits, nil
}

// ListPendingEdits returns every edit awaiting review across all campaigns
func (p CampaignProcessor) ListPendingEdits(ctx context.Context) ([]store.PendingCampaignEdit, error) {
	edits, err := p.store.ListPendingCampaignEdits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending edits: %w", err)
	}
	return edits, nil
}

// applyFields writes live-field changes, classifying the failure when the
// campaign was deployed or deleted since the last read
func (p CampaignProcessor) applyFields(ctx context.Context, campaignID uuid.UUID, fields store.UpdateCampaignFieldsParams) (store.Campaign, error) {
	campaign, err := p.store.UpdateCampaignFields(ctx, campaignID, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, getErr := p.store.GetCampaignByID(ctx, campaignID); errors.Is(getErr, store.ErrNotFound) {
				return store.Campaign{}, ErrCampaignNotFound
			}
			return store.Campaign{}, ErrCannotEditDeployed
		}
		return store.Campaign{}, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

// reanalyze rescores the campaign's current content and persists the result
func (p CampaignProcessor) reanalyze(ctx context.Context, campaign store.Campaign) (store.Campaign, error) {
	profile := p.creatorProfile(ctx, campaign.Owner)
	assessment := p.analyzer.AnalyzeCampaign(ctx, campaign.Title, campaign.Description, campaign.Target, profile)
	analysis := toStoreAnalysis(assessment)

	if err := p.store.UpdateCampaignAnalysis(ctx, campaign.ID, analysis); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		return store.Campaign{}, fmt.Errorf("failed to update analysis: %w", err)
	}
	campaign.AIAnalysis = analysis
	return campaign, nil
}

// diffCampaign records old and new values for each field the edit actually
// changes. Deadlines are stored as RFC 3339 strings so the diff survives the
// JSONB round trip.
func diffCampaign(campaign store.Campaign, params EditParams, newDeadline *time.Time) store.JSONB {
	changes := store.JSONB{}
	if params.Title != nil && *params.Title != campaign.Title {
		changes["title"] = fieldChange(campaign.Title, *params.Title)
	}
	if params.Description != nil && *params.Description != campaign.Description {
		changes["description"] = fieldChange(campaign.Description, *params.Description)
	}
	if params.Target != nil && *params.Target != campaign.Target {
		changes["target"] = fieldChange(campaign.Target, *params.Target)
	}
	if newDeadline != nil && !newDeadline.Equal(campaign.Deadline) {
		changes["deadline"] = fieldChange(
			campaign.Deadline.Format(time.RFC3339),
			newDeadline.Format(time.RFC3339))
	}
	if params.Image != nil && *params.Image != campaign.Image {
		changes["image"] = fieldChange(campaign.Image, *params.Image)
	}
	return changes
}

func fieldChange(oldValue, newValue interface{}) map[string]interface{} {
	return map[string]interface{}{"old": oldValue, "new": newValue}
}

// contentChanged reports whether the diff touches a field that feeds trust
// analysis
func contentChanged(changes store.JSONB) bool {
	for _, key := range []string{"title", "description", "target"} {
		if _, ok := changes[key]; ok {
			return true
		}
	}
	return false
}

// changesToFieldParams converts a stored diff back into field updates
func changesToFieldParams(changes store.JSONB) (store.UpdateCampaignFieldsParams, error) {
	var fields store.UpdateCampaignFieldsParams

	if title, ok := newStringValue(changes, "title"); ok {
		fields.Title = &title
	}
	if description, ok := newStringValue(changes, "description"); ok {
		fields.Description = &description
	}
	if raw, ok := newValue(changes, "target"); ok {
		target, ok := raw.(float64)
		if !ok {
			return store.UpdateCampaignFieldsParams{}, fmt.Errorf("invalid target in edit changes")
		}
		fields.Target = &target
	}
	if raw, ok := newStringValue(changes, "deadline"); ok {
		deadline, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return store.UpdateCampaignFieldsParams{}, fmt.Errorf("invalid deadline in edit changes: %w", err)
		}
		fields.Deadline = &deadline
	}
	if image, ok := newStringValue(changes, "image"); ok {
		fields.Image = &image
	}
	return fields, nil
}

func newValue(changes store.JSONB, key string) (interface{}, bool) {
	change, ok := changes[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	value, ok := change["new"]
	return value, ok
}

func newStringValue(changes store.JSONB, key string) (string, bool) {
	raw, ok := newValue(changes, key)
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	return value, ok
}
