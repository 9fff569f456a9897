package handler

import (
	"net/http"
	"strconv"

	"fundchain-server/internal/apierrors"
	"fundchain-server/internal/campaign/processor"
	"fundchain-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PendingEditResponse pairs an edit proposal with its campaign for review
type PendingEditResponse struct {
	EditResponse
	CampaignTitle string `json:"campaignTitle"`
	CampaignOwner string `json:"campaignOwner"`
}

// PendingUpdateResponse pairs an update with its campaign for review
type PendingUpdateResponse struct {
	UpdateResponse
	CampaignTitle string `json:"campaignTitle"`
	CampaignOwner string `json:"campaignOwner"`
}

// HandleListPendingCampaigns returns campaigns awaiting review, oldest first
func (h *Handler) HandleListPendingCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	campaigns, err := h.processor.ListPendingCampaigns(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponses(campaigns))
}

// HandleAdminListCampaigns returns a filtered page of campaigns
func (h *Handler) HandleAdminListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	params := processor.AdminListParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		params.Limit = limit
	}

	result, err := h.processor.ListCampaigns(ctx, params)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns":  toCampaignResponses(result.Campaigns),
		"totalCount": result.TotalCount,
	})
}

// HandleApproveCampaign transitions a pending campaign to approved
func (h *Handler) HandleApproveCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	campaign, err := h.processor.ApproveCampaign(ctx, campaignID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// HandleRejectCampaign transitions a campaign to rejected with a reason
func (h *Handler) HandleRejectCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	campaign, err := h.processor.RejectCampaign(ctx, campaignID, identity, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// HandleListPendingEdits returns every edit proposal awaiting review
func (h *Handler) HandleListPendingEdits(c *gin.Context) {
	ctx := c.Request.Context()

	edits, err := h.processor.ListPendingEdits(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]PendingEditResponse, 0, len(edits))
	for _, e := range edits {
		responses = append(responses, PendingEditResponse{
			EditResponse:  toEditResponse(e.CampaignEdit),
			CampaignTitle: e.CampaignTitle,
			CampaignOwner: e.CampaignOwner,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// HandleApproveEdit applies a pending edit proposal to its campaign
func (h *Handler) HandleApproveEdit(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	editID, ok := h.pathID(c, "editId")
	if !ok {
		return
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
		observability.Field{Key: "edit_id", Value: editID.String()},
	)

	campaign, err := h.processor.ApproveEdit(ctx, identity, campaignID, editID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// HandleRejectEdit resolves a pending edit proposal as rejected
func (h *Handler) HandleRejectEdit(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	editID, ok := h.pathID(c, "editId")
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	edit, err := h.processor.RejectEdit(ctx, identity, campaignID, editID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEditResponse(edit))
}

// HandleListPendingUpdates returns every update awaiting moderation
func (h *Handler) HandleListPendingUpdates(c *gin.Context) {
	ctx := c.Request.Context()

	updates, err := h.processor.ListPendingUpdates(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]PendingUpdateResponse, 0, len(updates))
	for _, u := range updates {
		responses = append(responses, PendingUpdateResponse{
			UpdateResponse: toUpdateResponse(u.CampaignUpdate),
			CampaignTitle:  u.CampaignTitle,
			CampaignOwner:  u.CampaignOwner,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// HandleApproveUpdate transitions a pending update to approved
func (h *Handler) HandleApproveUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	updateID, ok := h.pathID(c, "updateId")
	if !ok {
		return
	}

	update, err := h.processor.ApproveUpdate(ctx, identity, updateID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUpdateResponse(update))
}

// HandleRejectUpdate pulls a pending update from the public feed
func (h *Handler) HandleRejectUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	updateID, ok := h.pathID(c, "updateId")
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	update, err := h.processor.RejectUpdate(ctx, identity, updateID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUpdateResponse(update))
}

func (h *Handler) pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_INPUT", "Invalid "+param+" format")
		return uuid.UUID{}, false
	}
	return id, true
}
