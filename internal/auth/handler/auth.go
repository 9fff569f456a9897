package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fundchain-server/internal/apierrors"
	"fundchain-server/internal/auth/processor"
	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

// ConnectRequest represents the wallet sign-in payload
type ConnectRequest struct {
	WalletAddress string  `json:"walletAddress" binding:"required"`
	Email         *string `json:"email,omitempty" binding:"omitempty,email"`
}

// CreatorSignupRequest represents the creator onboarding payload
type CreatorSignupRequest struct {
	WalletAddress string  `json:"walletAddress" binding:"required"`
	Email         *string `json:"email,omitempty" binding:"omitempty,email"`
	Name          string  `json:"name" binding:"required,min=1"`
	Phone         string  `json:"phone"`
	City          string  `json:"city"`
	IDProofNumber string  `json:"idProofNumber"`
	Bio           string  `json:"bio"`
	Website       string  `json:"website"`
	Twitter       string  `json:"twitter"`
}

// UserResponse is the wire shape of a user account
type UserResponse struct {
	ID             uuid.UUID            `json:"id"`
	WalletAddress  string               `json:"walletAddress"`
	Email          *string              `json:"email,omitempty"`
	Role           store.UserRole       `json:"role"`
	UserType       store.UserType       `json:"userType"`
	CreatorDetails store.CreatorDetails `json:"creatorDetails"`
	CreatedAt      time.Time            `json:"createdAt"`
}

func toUserResponse(u store.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		WalletAddress:  u.WalletAddress,
		Email:          u.Email,
		Role:           u.Role,
		UserType:       u.UserType,
		CreatorDetails: u.CreatorDetails,
		CreatedAt:      u.CreatedAt,
	}
}

// HandleConnect signs a wallet in, creating a donor account on first contact
func (h *Handler) HandleConnect(c *gin.Context) {
	ctx := c.Request.Context()

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	authenticated, err := h.authProcessor.Connect(ctx, req.WalletAddress, req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  toUserResponse(authenticated.User),
		"token": authenticated.Token,
	})
}

// HandleCreatorSignup promotes a wallet to a creator account
func (h *Handler) HandleCreatorSignup(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreatorSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	authenticated, err := h.authProcessor.CreatorSignup(ctx, processor.CreatorSignupParams{
		WalletAddress: req.WalletAddress,
		Email:         req.Email,
		Details: store.CreatorDetails{
			Name:          req.Name,
			Phone:         req.Phone,
			City:          req.City,
			IDProofNumber: req.IDProofNumber,
			Bio:           req.Bio,
			Website:       req.Website,
			SocialLinks:   store.SocialLinks{Twitter: req.Twitter},
		},
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  toUserResponse(authenticated.User),
		"token": authenticated.Token,
	})
}

// HandleGetMe returns the account behind the session token
func (h *Handler) HandleGetMe(c *gin.Context) {
	ctx := c.Request.Context()

	wallet, exists := c.Get("Wallet-Address")
	if !exists {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authProcessor.GetUserByWallet(ctx, wallet.(string))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// HandleJWTMiddleware rejects requests without a valid bearer token and
// places the caller identity on the request context
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	claims, ok := h.bearerClaims(ctx, c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is missing or invalid"})
		c.Abort()
		return
	}

	setIdentity(c, claims)
	c.Next()
}

// HandleOptionalJWTMiddleware places the caller identity on the request
// context when a valid bearer token is present, and lets anonymous requests
// through untouched
func (h *Handler) HandleOptionalJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	if claims, ok := h.bearerClaims(ctx, c); ok {
		setIdentity(c, claims)
	}
	c.Next()
}

// HandleAdminMiddleware requires the admin role. It must run after
// HandleJWTMiddleware.
func (h *Handler) HandleAdminMiddleware(c *gin.Context) {
	role, exists := c.Get("User-Role")
	if !exists || role.(string) != string(store.UserRoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) bearerClaims(ctx context.Context, c *gin.Context) (processor.BaseClaims, bool) {
	tokenHeader := c.GetHeader("Authorization")
	if tokenHeader == "" || !strings.HasPrefix(tokenHeader, "Bearer ") {
		return processor.BaseClaims{}, false
	}

	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")
	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		return processor.BaseClaims{}, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims processor.BaseClaims) {
	c.Set("Wallet-Address", claims.WalletAddress)
	c.Set("User-Role", claims.Role)
	c.Set("User-Type", claims.UserType)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrInvalidWallet):
		apierrors.BadRequest(c, "INVALID_WALLET", "Wallet address is not valid")
	case errors.Is(err, processor.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		apierrors.InternalError(c, err)
	}
}
