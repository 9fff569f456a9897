package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"
	"fundchain-server/internal/trust"

	"github.com/google/uuid"
)

// CampaignStore defines the database operations required by CampaignProcessor
type CampaignStore interface {
	// Campaign lifecycle
	CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error)
	GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	ListDeployedCampaigns(ctx context.Context) ([]store.Campaign, error)
	ListCampaignsByOwner(ctx context.Context, owner string) ([]store.Campaign, error)
	ListPendingCampaigns(ctx context.Context) ([]store.Campaign, error)
	ListCampaigns(ctx context.Context, params store.ListCampaignsParams) (store.ListCampaignsResult, error)
	ApproveCampaign(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	RejectCampaign(ctx context.Context, campaignID uuid.UUID, reason string) (store.Campaign, error)
	PublishCampaign(ctx context.Context, campaignID uuid.UUID, onChainID int64) (store.Campaign, error)
	UpdateCampaignFields(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignFieldsParams) (store.Campaign, error)
	UpdateCampaignAnalysis(ctx context.Context, campaignID uuid.UUID, analysis store.Analysis) error
	DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error
	DeleteUnapprovedCampaign(ctx context.Context, campaignID uuid.UUID) error

	// Edit records
	CreateCampaignEdit(ctx context.Context, params store.CreateCampaignEditParams) (store.CampaignEdit, error)
	GetCampaignEdit(ctx context.Context, campaignID, editID uuid.UUID) (store.CampaignEdit, error)
	ListCampaignEdits(ctx context.Context, campaignID uuid.UUID) ([]store.CampaignEdit, error)
	ListPendingCampaignEdits(ctx context.Context) ([]store.PendingCampaignEdit, error)
	ResolveCampaignEdit(ctx context.Context, campaignID, editID uuid.UUID, status store.ReviewStatus, reviewedBy string, reason *string) (store.CampaignEdit, error)

	// Update records
	CreateCampaignUpdate(ctx context.Context, params store.CreateCampaignUpdateParams) (store.CampaignUpdate, error)
	GetCampaignUpdate(ctx context.Context, updateID uuid.UUID) (store.CampaignUpdate, error)
	ListCampaignUpdates(ctx context.Context, campaignID uuid.UUID, includeUnapproved bool) ([]store.CampaignUpdate, error)
	ListPendingCampaignUpdates(ctx context.Context) ([]store.PendingCampaignUpdate, error)
	ResolveCampaignUpdate(ctx context.Context, updateID uuid.UUID, status store.ReviewStatus, reviewedBy string, reason *string) (store.CampaignUpdate, error)

	// Creator profiles
	GetUserByWallet(ctx context.Context, walletAddress string) (store.User, error)
}

// Analyzer is the trust-analysis entry point consumed on create and edit
type Analyzer interface {
	AnalyzeCampaign(ctx context.Context, title, description string, target float64, profile *trust.CreatorProfile) trust.Assessment
}

var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrEditNotFound         = errors.New("edit not found")
	ErrUpdateNotFound       = errors.New("update not found")
	ErrForbidden            = errors.New("not allowed to perform this operation")
	ErrNotCreator           = errors.New("only creator accounts can launch campaigns")
	ErrInvalidTarget        = errors.New("target must be a positive number")
	ErrInvalidDeadline      = errors.New("deadline must be a valid date in the future")
	ErrAlreadyApproved      = errors.New("campaign is already approved")
	ErrNotPending           = errors.New("campaign is not pending review")
	ErrNotApproved          = errors.New("campaign is not approved")
	ErrAlreadyDeployed      = errors.New("campaign is already deployed")
	ErrCannotEditDeployed   = errors.New("deployed campaigns cannot be edited")
	ErrNotEditable          = errors.New("only pending campaigns can be edited")
	ErrCannotDeleteApproved = errors.New("approved campaigns cannot be deleted")
	ErrReasonRequired       = errors.New("a reason is required")
	ErrEditNotPending       = errors.New("edit is not pending review")
	ErrUpdateNotPending     = errors.New("update is not pending review")
	ErrMissingUpdateContent = errors.New("update title and content are required")
)

// Identity is the authenticated caller as supplied by the session layer
type Identity struct {
	Wallet   string
	Role     store.UserRole
	UserType store.UserType
}

// IsAdmin reports whether the caller holds the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == store.UserRoleAdmin
}

type CampaignProcessor struct {
	store    CampaignStore
	analyzer Analyzer
	logger   *observability.Logger
}

func New(store CampaignStore, analyzer Analyzer, logger *observability.Logger) CampaignProcessor {
	return CampaignProcessor{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
	}
}

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	Title       string
	Description string
	Target      float64
	Deadline    string
	Image       string
}

// CreateCampaign validates the submission, scores it and stores it as pending
func (p CampaignProcessor) CreateCampaign(ctx context.Context, identity Identity, params CreateCampaignParams) (store.Campaign, error) {
	if identity.UserType != store.UserTypeCreator && !identity.IsAdmin() {
		return store.Campaign{}, ErrNotCreator
	}
	if params.Target <= 0 {
		return store.Campaign{}, ErrInvalidTarget
	}
	deadline, err := parseDeadline(params.Deadline)
	if err != nil {
		return store.Campaign{}, err
	}

	profile := p.creatorProfile(ctx, identity.Wallet)
	analysis := p.analyzer.AnalyzeCampaign(ctx, params.Title, params.Description, params.Target, profile)

	campaign, err := p.store.CreateCampaign(ctx, store.CreateCampaignParams{
		Owner:       identity.Wallet,
		Title:       params.Title,
		Description: params.Description,
		Target:      params.Target,
		Deadline:    deadline,
		Image:       params.Image,
		AIAnalysis:  toStoreAnalysis(analysis),
	})
	if err != nil {
		return store.Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaign.ID.String()},
		observability.Field{Key: "trust_score", Value: analysis.TrustScore},
		observability.Field{Key: "analysis_method", Value: analysis.AnalysisMethod},
	)
	p.logger.Info(ctx, "Campaign created")
	return campaign, nil
}

// GetCampaign retrieves a single campaign by id
func (p CampaignProcessor) GetCampaign(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		return store.Campaign{}, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// ListPublicCampaigns returns approved and deployed campaigns, newest first
func (p CampaignProcessor) ListPublicCampaigns(ctx context.Context) ([]store.Campaign, error) {
	campaigns, err := p.store.ListDeployedCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public campaigns: %w", err)
	}
	return campaigns, nil
}

// ListOwnCampaigns returns every campaign owned by the caller
func (p CampaignProcessor) ListOwnCampaigns(ctx context.Context, identity Identity) ([]store.Campaign, error) {
	campaigns, err := p.store.ListCampaignsByOwner(ctx, identity.Wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to list own campaigns: %w", err)
	}
	return campaigns, nil
}

// ListPendingCampaigns returns campaigns awaiting admin review
func (p CampaignProcessor) ListPendingCampaigns(ctx context.Context) ([]store.Campaign, error) {
	campaigns, err := p.store.ListPendingCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending campaigns: %w", err)
	}
	return campaigns, nil
}

// AdminListParams represents the admin dashboard listing filters
type AdminListParams struct {
	Status string
	Search string
	Sort   string
	Page   int
	Limit  int
}

// ListCampaigns returns a filtered page of campaigns for the admin dashboard
func (p CampaignProcessor) ListCampaigns(ctx context.Context, params AdminListParams) (store.ListCampaignsResult, error) {
	storeParams := store.ListCampaignsParams{
		Search: strings.TrimSpace(params.Search),
		Sort:   params.Sort,
	}
	if params.Status != "" && params.Status != "all" {
		status := store.CampaignStatus(params.Status)
		storeParams.Status = &status
	}

	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	storeParams.Limit = params.Limit
	storeParams.Offset = (params.Page - 1) * params.Limit

	result, err := p.store.ListCampaigns(ctx, storeParams)
	if err != nil {
		return store.ListCampaignsResult{}, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return result, nil
}

// ApproveCampaign transitions a pending campaign to approved
func (p CampaignProcessor) ApproveCampaign(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	campaign, err := p.store.ApproveCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, p.classifyApproveFailure(ctx, campaignID)
		}
		return store.Campaign{}, fmt.Errorf("failed to approve campaign: %w", err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaign.ID.String()})
	p.logger.Info(ctx, "Campaign approved")
	return campaign, nil
}

func (p CampaignProcessor) classifyApproveFailure(ctx context.Context, campaignID uuid.UUID) error {
	existing, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("failed to approve campaign: %w", err)
	}
	if existing.Status == store.CampaignStatusApproved {
		return ErrAlreadyApproved
	}
	return ErrNotPending
}

// RejectCampaign transitions a campaign to rejected with the given reason.
// Rejection is not restricted to pending campaigns; the ledger id is cleared
// so a formerly approved campaign cannot present itself as publishable.
func (p CampaignProcessor) RejectCampaign(ctx context.Context, campaignID uuid.UUID, identity Identity, reason string) (store.Campaign, error) {
	if strings.TrimSpace(reason) == "" {
		return store.Campaign{}, ErrReasonRequired
	}

	campaign, err := p.store.RejectCampaign(ctx, campaignID, reason)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		return store.Campaign{}, fmt.Errorf("failed to reject campaign: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaign.ID.String()},
		observability.Field{Key: "reviewed_by", Value: identity.Wallet},
	)
	p.logger.Info(ctx, "Campaign rejected")
	return campaign, nil
}

// PublishCampaign records the external ledger id on an approved campaign and
// freezes its content
func (p CampaignProcessor) PublishCampaign(ctx context.Context, campaignID uuid.UUID, identity Identity, onChainID int64) (store.Campaign, error) {
	campaign, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return store.Campaign{}, err
	}
	if campaign.Owner != identity.Wallet {
		return store.Campaign{}, ErrForbidden
	}

	published, err := p.store.PublishCampaign(ctx, campaignID, onChainID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, p.classifyPublishFailure(ctx, campaignID)
		}
		return store.Campaign{}, fmt.Errorf("failed to publish campaign: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: published.ID.String()},
		observability.Field{Key: "on_chain_id", Value: onChainID},
	)
	p.logger.Info(ctx, "Campaign published")
	return published, nil
}

func (p CampaignProcessor) classifyPublishFailure(ctx context.Context, campaignID uuid.UUID) error {
	existing, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("failed to publish campaign: %w", err)
	}
	if existing.IsDeployed {
		return ErrAlreadyDeployed
	}
	return ErrNotApproved
}

// DeleteCampaign removes a campaign. Owners may delete only while the
// campaign is not approved; admins may delete regardless of status.
func (p CampaignProcessor) DeleteCampaign(ctx context.Context, campaignID uuid.UUID, identity Identity) error {
	campaign, err := p.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}

	if identity.IsAdmin() {
		if err := p.store.DeleteCampaign(ctx, campaignID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCampaignNotFound
			}
			return fmt.Errorf("failed to delete campaign: %w", err)
		}
		p.logger.Info(observability.WithFields(ctx,
			observability.Field{Key: "campaign_id", Value: campaignID.String()}), "Campaign deleted by admin")
		return nil
	}

	if campaign.Owner != identity.Wallet {
		return ErrForbidden
	}
	if err := p.store.DeleteUnapprovedCampaign(ctx, campaignID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The campaign existed a moment ago, so the status condition failed.
			return ErrCannotDeleteApproved
		}
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	p.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()}), "Campaign deleted by owner")
	return nil
}

// creatorProfile looks up the owner's creator profile for trust analysis.
// Non-creator accounts and missing users yield no profile.
func (p CampaignProcessor) creatorProfile(ctx context.Context, walletAddress string) *trust.CreatorProfile {
	user, err := p.store.GetUserByWallet(ctx, walletAddress)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.logger.Error(ctx, "failed to load creator profile", err)
		}
		return nil
	}
	if user.UserType != store.UserTypeCreator {
		return nil
	}
	return &trust.CreatorProfile{
		Name:          user.CreatorDetails.Name,
		Bio:           user.CreatorDetails.Bio,
		EmailVerified: user.Email != nil && *user.Email != "",
	}
}

func toStoreAnalysis(a trust.Assessment) store.Analysis {
	return store.Analysis{
		TrustScore:      a.TrustScore,
		RiskFactors:     a.RiskFactors,
		Recommendations: a.Recommendations,
		Sentiment:       a.Sentiment,
		AnalyzedAt:      a.AnalyzedAt,
		AnalysisMethod:  a.AnalysisMethod,
	}
}

// parseDeadline accepts an RFC 3339 instant or a plain date. A plain date is
// normalized to the end of that day in UTC. The result must be in the future.
func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDeadline
	}

	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		day, dayErr := time.Parse("2006-01-02", raw)
		if dayErr != nil {
			return time.Time{}, ErrInvalidDeadline
		}
		deadline = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	}

	if !deadline.After(time.Now()) {
		return time.Time{}, ErrInvalidDeadline
	}
	return deadline, nil
}
