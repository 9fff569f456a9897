package handler

import (
	"errors"
	"net/http"
	"time"

	"fundchain-server/internal/apierrors"
	"fundchain-server/internal/campaign/processor"
	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.CampaignProcessor
	logger    *observability.Logger
}

func New(processor processor.CampaignProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// CreateCampaignRequest represents the HTTP request for creating a campaign
type CreateCampaignRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"required"`
	Target      float64 `json:"target" binding:"required"`
	Deadline    string  `json:"deadline" binding:"required"`
	Image       string  `json:"image"`
}

// EditCampaignRequest represents a partial campaign edit; omitted fields are
// left unchanged
type EditCampaignRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Target      *float64 `json:"target,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// PublishCampaignRequest carries the external ledger id assigned on deployment
type PublishCampaignRequest struct {
	OnChainID *int64 `json:"onChainId" binding:"required"`
}

// RejectRequest carries the mandatory moderation reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,min=1"`
}

// CampaignResponse is the wire shape of a campaign
type CampaignResponse struct {
	ID              uuid.UUID            `json:"id"`
	OnChainID       *int64               `json:"onChainId,omitempty"`
	Owner           string               `json:"owner"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Target          float64              `json:"target"`
	Deadline        time.Time            `json:"deadline"`
	Image           string               `json:"image"`
	Status          store.CampaignStatus `json:"status"`
	RejectionReason *string              `json:"rejectionReason,omitempty"`
	AIAnalysis      store.Analysis       `json:"aiAnalysis"`
	IsDeployed      bool                 `json:"isDeployed"`
	DeployedAt      *time.Time           `json:"deployedAt,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func toCampaignResponse(c store.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:              c.ID,
		OnChainID:       c.OnChainID,
		Owner:           c.Owner,
		Title:           c.Title,
		Description:     c.Description,
		Target:          c.Target,
		Deadline:        c.Deadline,
		Image:           c.Image,
		Status:          c.Status,
		RejectionReason: c.RejectionReason,
		AIAnalysis:      c.AIAnalysis,
		IsDeployed:      c.IsDeployed,
		DeployedAt:      c.DeployedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toCampaignResponses(campaigns []store.Campaign) []CampaignResponse {
	responses := make([]CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		responses = append(responses, toCampaignResponse(c))
	}
	return responses
}

// EditResponse is the wire shape of an edit record
type EditResponse struct {
	ID              uuid.UUID          `json:"id"`
	CampaignID      uuid.UUID          `json:"campaignId"`
	EditedBy        string             `json:"editedBy"`
	EditedAt        time.Time          `json:"editedAt"`
	Changes         store.JSONB        `json:"changes"`
	Status          store.ReviewStatus `json:"status"`
	ReviewedBy      *string            `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewedAt,omitempty"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
}

func toEditResponse(e store.CampaignEdit) EditResponse {
	return EditResponse{
		ID:              e.ID,
		CampaignID:      e.CampaignID,
		EditedBy:        e.EditedBy,
		EditedAt:        e.EditedAt,
		Changes:         e.Changes,
		Status:          e.Status,
		ReviewedBy:      e.ReviewedBy,
		ReviewedAt:      e.ReviewedAt,
		RejectionReason: e.RejectionReason,
	}
}

// UpdateResponse is the wire shape of a campaign update
type UpdateResponse struct {
	ID              uuid.UUID          `json:"id"`
	CampaignID      uuid.UUID          `json:"campaignId"`
	Author          string             `json:"author"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	Image           *string            `json:"image,omitempty"`
	Video           *string            `json:"video,omitempty"`
	Status          store.ReviewStatus `json:"status"`
	ReviewedBy      *string            `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewedAt,omitempty"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

func toUpdateResponse(u store.CampaignUpdate) UpdateResponse {
	return UpdateResponse{
		ID:              u.ID,
		CampaignID:      u.CampaignID,
		Author:          u.Author,
		Title:           u.Title,
		Content:         u.Content,
		Image:           u.Image,
		Video:           u.Video,
		Status:          u.Status,
		ReviewedBy:      u.ReviewedBy,
		ReviewedAt:      u.ReviewedAt,
		RejectionReason: u.RejectionReason,
		CreatedAt:       u.CreatedAt,
	}
}

func toUpdateResponses(updates []store.CampaignUpdate) []UpdateResponse {
	responses := make([]UpdateResponse, 0, len(updates))
	for _, u := range updates {
		responses = append(responses, toUpdateResponse(u))
	}
	return responses
}

// HandleCreateCampaign creates a new pending campaign for the caller
func (h *Handler) HandleCreateCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "owner", Value: identity.Wallet})

	campaign, err := h.processor.CreateCampaign(ctx, identity, processor.CreateCampaignParams{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Deadline:    req.Deadline,
		Image:       req.Image,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCampaignResponse(campaign))
}

// HandleListCampaigns returns the public campaign listing
func (h *Handler) HandleListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	campaigns, err := h.processor.ListPublicCampaigns(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponses(campaigns))
}

// HandleListMyCampaigns returns every campaign owned by the caller
func (h *Handler) HandleListMyCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	campaigns, err := h.processor.ListOwnCampaigns(ctx, identity)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponses(campaigns))
}

// HandleGetCampaign returns a single campaign by id
func (h *Handler) HandleGetCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	campaign, err := h.processor.GetCampaign(ctx, campaignID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// HandleEditCampaign applies a partial edit to a campaign
func (h *Handler) HandleEditCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	var req EditCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	result, err := h.processor.EditCampaign(ctx, identity, campaignID, processor.EditParams{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Deadline:    req.Deadline,
		Image:       req.Image,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	response := gin.H{
		"campaign":         toCampaignResponse(result.Campaign),
		"requiresApproval": result.RequiresApproval,
		"noChanges":        result.NoChanges,
	}
	if result.Edit != nil {
		response["edit"] = toEditResponse(*result.Edit)
	}
	c.JSON(http.StatusOK, response)
}

// HandlePublishCampaign records the on-chain deployment of an approved campaign
func (h *Handler) HandlePublishCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	var req PublishCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	campaign, err := h.processor.PublishCampaign(ctx, campaignID, identity, *req.OnChainID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// HandleDeleteCampaign removes a campaign
func (h *Handler) HandleDeleteCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	if err := h.processor.DeleteCampaign(ctx, campaignID, identity); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// HandleListEdits returns a campaign's edit history to its owner or an admin
func (h *Handler) HandleListEdits(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	edits, err := h.processor.ListEdits(ctx, identity, campaignID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]EditResponse, 0, len(edits))
	for _, e := range edits {
		responses = append(responses, toEditResponse(e))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) identity(c *gin.Context) (processor.Identity, bool) {
	identity, ok := identityFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return processor.Identity{}, false
	}
	return identity, true
}

// identityFromContext reads the caller identity placed by the auth middleware
func identityFromContext(c *gin.Context) (processor.Identity, bool) {
	wallet, exists := c.Get("Wallet-Address")
	if !exists {
		return processor.Identity{}, false
	}
	identity := processor.Identity{Wallet: wallet.(string)}
	if role, exists := c.Get("User-Role"); exists {
		identity.Role = store.UserRole(role.(string))
	}
	if userType, exists := c.Get("User-Type"); exists {
		identity.UserType = store.UserType(userType.(string))
	}
	return identity, true
}

func (h *Handler) campaignID(c *gin.Context) (uuid.UUID, bool) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_INPUT", "Invalid campaign ID format")
		return uuid.UUID{}, false
	}
	return campaignID, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrCampaignNotFound):
		apierrors.NotFound(c, "Campaign not found")
	case errors.Is(err, processor.ErrEditNotFound):
		apierrors.NotFound(c, "Edit not found")
	case errors.Is(err, processor.ErrUpdateNotFound):
		apierrors.NotFound(c, "Update not found")
	case errors.Is(err, processor.ErrForbidden):
		apierrors.Forbidden(c, "FORBIDDEN", "You do not have access to this campaign")
	case errors.Is(err, processor.ErrNotCreator):
		apierrors.Forbidden(c, "NOT_CREATOR", "Only creator accounts can launch campaigns")
	case errors.Is(err, processor.ErrInvalidTarget):
		apierrors.BadRequest(c, "INVALID_TARGET", "Target must be a positive number")
	case errors.Is(err, processor.ErrInvalidDeadline):
		apierrors.BadRequest(c, "INVALID_DEADLINE", "Deadline must be a valid date in the future")
	case errors.Is(err, processor.ErrReasonRequired):
		apierrors.BadRequest(c, "REASON_REQUIRED", "A reason is required")
	case errors.Is(err, processor.ErrMissingUpdateContent):
		apierrors.BadRequest(c, "MISSING_CONTENT", "Update title and content are required")
	case errors.Is(err, processor.ErrAlreadyApproved):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Campaign is already approved")
	case errors.Is(err, processor.ErrNotPending):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Campaign is not pending review")
	case errors.Is(err, processor.ErrNotApproved):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Campaign must be approved before publishing")
	case errors.Is(err, processor.ErrAlreadyDeployed):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Campaign is already deployed")
	case errors.Is(err, processor.ErrCannotEditDeployed):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Deployed campaigns cannot be edited")
	case errors.Is(err, processor.ErrNotEditable):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Only pending campaigns can be edited")
	case errors.Is(err, processor.ErrCannotDeleteApproved):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Approved campaigns cannot be deleted")
	case errors.Is(err, processor.ErrEditNotPending):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Edit is not pending review")
	case errors.Is(err, processor.ErrUpdateNotPending):
		apierrors.BadRequest(c, "INVALID_TRANSITION", "Update is not pending review")
	default:
		apierrors.InternalError(c, err)
	}
}
