package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const userColumns = `id, wallet_address, email, role, user_type, creator_details, created_at, updated_at`

const sqlGetUserByWallet = `
SELECT ` + userColumns + `
FROM users
WHERE wallet_address = $1
`

// GetUserByWallet retrieves a user by their normalized wallet address
func (s *Store) GetUserByWallet(ctx context.Context, walletAddress string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByWallet, walletAddress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by wallet", err)
		return User{}, fmt.Errorf("failed to get user by wallet: %w", err)
	}
	return user, nil
}

const sqlUpsertUser = `
INSERT INTO users (wallet_address, email, role, user_type)
VALUES ($1, $2, 'user', 'donor')
ON CONFLICT (wallet_address)
DO UPDATE SET email = COALESCE(EXCLUDED.email, users.email), updated_at = NOW()
RETURNING ` + userColumns

// UpsertUser creates a donor user on first connect or refreshes an existing
// one. Role and user type are never downgraded on reconnect.
func (s *Store) UpsertUser(ctx context.Context, walletAddress string, email *string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlUpsertUser, walletAddress, email)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert user", err)
		return User{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return user, nil
}

// UpsertCreatorParams represents the creator signup payload
type UpsertCreatorParams struct {
	WalletAddress  string
	Email          *string
	CreatorDetails CreatorDetails
}

const sqlUpsertCreator = `
INSERT INTO users (wallet_address, email, role, user_type, creator_details)
VALUES ($1, $2, 'user', 'creator', $3)
ON CONFLICT (wallet_address)
DO UPDATE SET email = COALESCE(EXCLUDED.email, users.email),
              user_type = 'creator',
              creator_details = EXCLUDED.creator_details,
              updated_at = NOW()
RETURNING ` + userColumns

// UpsertCreator promotes a wallet to a creator account with profile details
func (s *Store) UpsertCreator(ctx context.Context, params UpsertCreatorParams) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlUpsertCreator,
		params.WalletAddress,
		params.Email,
		params.CreatorDetails)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert creator", err)
		return User{}, fmt.Errorf("failed to upsert creator: %w", err)
	}
	return user, nil
}

const sqlCountUsers = `
SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE user_type = 'creator') AS creators
FROM users
`

// UserCounts holds aggregate user totals for the admin dashboard
type UserCounts struct {
	Total    int `db:"total"`
	Creators int `db:"creators"`
}

// CountUsers returns aggregate user totals
func (s *Store) CountUsers(ctx context.Context) (UserCounts, error) {
	var counts UserCounts
	err := s.db.GetContext(ctx, &counts, sqlCountUsers)
	if err != nil {
		s.logger.Error(ctx, "failed to count users", err)
		return UserCounts{}, fmt.Errorf("failed to count users: %w", err)
	}
	return counts, nil
}
