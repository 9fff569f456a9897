package handler

import (
	"net/http"

	"fundchain-server/internal/apierrors"
	"fundchain-server/internal/campaign/processor"
	"fundchain-server/internal/observability"

	"github.com/gin-gonic/gin"
)

// PostUpdateRequest represents the HTTP request for posting a campaign update
type PostUpdateRequest struct {
	Title   string  `json:"title" binding:"required,min=1"`
	Content string  `json:"content" binding:"required,min=1"`
	Image   *string `json:"image,omitempty"`
	Video   *string `json:"video,omitempty"`
}

// HandlePostUpdate appends an announcement to the caller's campaign
func (h *Handler) HandlePostUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.identity(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	var req PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	update, err := h.processor.PostUpdate(ctx, identity, campaignID, processor.PostUpdateParams{
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
		Video:   req.Video,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUpdateResponse(update))
}

// HandleListUpdates returns a campaign's updates. Authentication is optional;
// owners and admins also see records pulled by moderation.
func (h *Handler) HandleListUpdates(c *gin.Context) {
	ctx := c.Request.Context()

	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	var caller *processor.Identity
	if identity, ok := identityFromContext(c); ok {
		caller = &identity
	}

	updates, err := h.processor.ListUpdates(ctx, caller, campaignID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUpdateResponses(updates))
}
