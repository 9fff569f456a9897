package processor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fundchain-server/internal/config"
	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"
)

// AuthStore defines the database operations required by AuthProcessor
type AuthStore interface {
	GetUserByWallet(ctx context.Context, walletAddress string) (store.User, error)
	UpsertUser(ctx context.Context, walletAddress string, email *string) (store.User, error)
	UpsertCreator(ctx context.Context, params store.UpsertCreatorParams) (store.User, error)
}

var (
	ErrInvalidWallet   = errors.New("invalid wallet address")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrExpiredToken    = errors.New("token expired")
	ErrParseJWTToken   = errors.New("failed to parse jwt token")
	ErrFailedSignIn    = errors.New("failed to sign in")
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

type AuthProcessor struct {
	store      AuthStore
	authConfig config.AuthConfig
	logger     *observability.Logger
}

func New(store AuthStore, authConfig config.AuthConfig, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		store:      store,
		authConfig: authConfig,
		logger:     logger,
	}
}

// AuthenticatedUser bundles a user with a freshly minted session token
type AuthenticatedUser struct {
	User  store.User
	Token string
}

// Connect signs a wallet in, creating a donor account on first contact.
// Reconnecting never downgrades an existing role or user type.
func (p AuthProcessor) Connect(ctx context.Context, walletAddress string, email *string) (AuthenticatedUser, error) {
	wallet, err := normalizeWallet(walletAddress)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "wallet_address", Value: wallet})

	user, err := p.store.UpsertUser(ctx, wallet, email)
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("failed to connect wallet: %w", err)
	}

	token, err := p.generateJWTToken(ctx, user)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	p.logger.Info(ctx, "Wallet connected")
	return AuthenticatedUser{User: user, Token: token}, nil
}

// CreatorSignupParams represents the creator onboarding payload
type CreatorSignupParams struct {
	WalletAddress string
	Email         *string
	Details       store.CreatorDetails
}

// CreatorSignup promotes a wallet to a creator account with profile details
// and signs it in
func (p AuthProcessor) CreatorSignup(ctx context.Context, params CreatorSignupParams) (AuthenticatedUser, error) {
	wallet, err := normalizeWallet(params.WalletAddress)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "wallet_address", Value: wallet})

	user, err := p.store.UpsertCreator(ctx, store.UpsertCreatorParams{
		WalletAddress:  wallet,
		Email:          params.Email,
		CreatorDetails: params.Details,
	})
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("failed to sign up creator: %w", err)
	}

	token, err := p.generateJWTToken(ctx, user)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	p.logger.Info(ctx, "Creator signed up")
	return AuthenticatedUser{User: user, Token: token}, nil
}

// GetUserByWallet returns the account behind a wallet address
func (p AuthProcessor) GetUserByWallet(ctx context.Context, walletAddress string) (store.User, error) {
	wallet, err := normalizeWallet(walletAddress)
	if err != nil {
		return store.User{}, err
	}

	user, err := p.store.GetUserByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// normalizeWallet lowercases a wallet address so lookups are case-insensitive
func normalizeWallet(walletAddress string) (string, error) {
	wallet := strings.ToLower(strings.TrimSpace(walletAddress))
	if !walletPattern.MatchString(wallet) {
		return "", ErrInvalidWallet
	}
	return wallet, nil
}
