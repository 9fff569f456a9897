package api

import (
	"net/http"

	analyticsHandler "fundchain-server/internal/analytics/handler"
	authHandler "fundchain-server/internal/auth/handler"
	campaignHandler "fundchain-server/internal/campaign/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router           *gin.RouterGroup
	authHandler      authHandler.Handler
	campaignHandler  campaignHandler.Handler
	analyticsHandler analyticsHandler.Handler
}

func New(router *gin.RouterGroup, authHandler authHandler.Handler, campaignHandler campaignHandler.Handler, analyticsHandler analyticsHandler.Handler) API {
	return API{
		router:           router,
		authHandler:      authHandler,
		campaignHandler:  campaignHandler,
		analyticsHandler: analyticsHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/connect", a.authHandler.HandleConnect)
		authGroup.POST("/creator-signup", a.authHandler.HandleCreatorSignup)
		authGroup.GET("/me", a.authHandler.HandleJWTMiddleware, a.authHandler.HandleGetMe)
	}

	campaignGroup := apiGroup.Group("/campaigns")
	{
		campaignGroup.GET("", a.campaignHandler.HandleListCampaigns)
		campaignGroup.GET("/my-campaigns", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandleListMyCampaigns)
		campaignGroup.GET("/:id", a.campaignHandler.HandleGetCampaign)
		campaignGroup.GET("/:id/updates", a.authHandler.HandleOptionalJWTMiddleware, a.campaignHandler.HandleListUpdates)

		campaignGroup.POST("", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandleCreateCampaign)
		campaignGroup.PUT("/:id", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandleEditCampaign)
		campaignGroup.DELETE("/:id", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandleDeleteCampaign)
		campaignGroup.POST("/:id/publish", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandlePublishCampaign)
		campaignGroup.POST("/:id/updates", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandlePostUpdate)
		campaignGroup.GET("/:id/edits", a.authHandler.HandleJWTMiddleware, a.campaignHandler.HandleListEdits)
	}

	adminGroup := apiGroup.Group("/admin", a.authHandler.HandleJWTMiddleware, a.authHandler.HandleAdminMiddleware)
	{
		adminGroup.GET("/campaigns", a.campaignHandler.HandleAdminListCampaigns)
		adminGroup.GET("/campaigns/pending", a.campaignHandler.HandleListPendingCampaigns)
		adminGroup.POST("/campaigns/:id/approve", a.campaignHandler.HandleApproveCampaign)
		adminGroup.POST("/campaigns/:id/reject", a.campaignHandler.HandleRejectCampaign)
		adminGroup.GET("/campaigns/pending-edits", a.campaignHandler.HandleListPendingEdits)
		adminGroup.POST("/campaigns/:id/approve-edit/:editId", a.campaignHandler.HandleApproveEdit)
		adminGroup.POST("/campaigns/:id/reject-edit/:editId", a.campaignHandler.HandleRejectEdit)

		adminGroup.GET("/updates/pending", a.campaignHandler.HandleListPendingUpdates)
		adminGroup.POST("/updates/:updateId/approve", a.campaignHandler.HandleApproveUpdate)
		adminGroup.POST("/updates/:updateId/reject", a.campaignHandler.HandleRejectUpdate)

		adminGroup.GET("/stats", a.analyticsHandler.HandleGetStats)
		adminGroup.GET("/activity", a.analyticsHandler.HandleGetActivity)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
