package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for JSONB")
	}

	// Handle empty or null JSON
	if len(bytes) == 0 || string(bytes) == "null" {
		*j = make(JSONB)
		return nil
	}

	result := make(JSONB)
	err := json.Unmarshal(bytes, &result)
	if err != nil {
		return err
	}
	*j = result
	return nil
}

// CampaignStatus represents the campaign moderation state
type CampaignStatus string

const (
	CampaignStatusPending  CampaignStatus = "pending"
	CampaignStatusApproved CampaignStatus = "approved"
	CampaignStatusRejected CampaignStatus = "rejected"
)

// ReviewStatus represents the state of a nested edit or update record
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// UserRole represents the caller role granted at authentication
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserType distinguishes donors from campaign creators
type UserType string

const (
	UserTypeDonor   UserType = "donor"
	UserTypeCreator UserType = "creator"
)

// Analysis is the trust assessment embedded in a campaign row as JSONB.
// The JSON tags double as the wire format served to clients.
type Analysis struct {
	TrustScore      int       `json:"trustScore"`
	RiskFactors     []string  `json:"riskFactors"`
	Recommendations []string  `json:"recommendations"`
	Sentiment       string    `json:"sentiment"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
	AnalysisMethod  string    `json:"analysisMethod"`
}

// Value implements the driver.Valuer interface for Analysis
func (a Analysis) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface for Analysis
func (a *Analysis) Scan(value interface{}) error {
	if value == nil {
		*a = Analysis{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for Analysis")
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*a = Analysis{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// SocialLinks holds creator social profile references
type SocialLinks struct {
	Twitter string `json:"twitter,omitempty"`
}

// CreatorDetails is the creator profile embedded in a user row as JSONB
type CreatorDetails struct {
	Name          string      `json:"name,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	City          string      `json:"city,omitempty"`
	IDProofNumber string      `json:"idProofNumber,omitempty"`
	Bio           string      `json:"bio,omitempty"`
	Website       string      `json:"website,omitempty"`
	SocialLinks   SocialLinks `json:"socialLinks,omitempty"`
}

// Value implements the driver.Valuer interface for CreatorDetails
func (d CreatorDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for CreatorDetails
func (d *CreatorDetails) Scan(value interface{}) error {
	if value == nil {
		*d = CreatorDetails{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for CreatorDetails")
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*d = CreatorDetails{}
		return nil
	}
	return json.Unmarshal(bytes, d)
}

// Campaign is the root entity owned by the lifecycle engine
type Campaign struct {
	ID              uuid.UUID      `db:"id"`
	OnChainID       *int64         `db:"on_chain_id"`
	Owner           string         `db:"owner"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	Target          float64        `db:"target"`
	Deadline        time.Time      `db:"deadline"`
	Image           string         `db:"image"`
	Status          CampaignStatus `db:"status"`
	RejectionReason *string        `db:"rejection_reason"`
	AIAnalysis      Analysis       `db:"ai_analysis"`
	IsDeployed      bool           `db:"is_deployed"`
	DeployedAt      *time.Time     `db:"deployed_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// CampaignEdit is a pending/approved/rejected proposal to change a
// non-deployed campaign's fields
type CampaignEdit struct {
	ID              uuid.UUID    `db:"id"`
	CampaignID      uuid.UUID    `db:"campaign_id"`
	EditedBy        string       `db:"edited_by"`
	EditedAt        time.Time    `db:"edited_at"`
	Changes         JSONB        `db:"changes"`
	Status          ReviewStatus `db:"status"`
	ReviewedBy      *string      `db:"reviewed_by"`
	ReviewedAt      *time.Time   `db:"reviewed_at"`
	RejectionReason *string      `db:"rejection_reason"`
}

// CampaignUpdate is a post-publication announcement posted by the owner
type CampaignUpdate struct {
	ID              uuid.UUID    `db:"id"`
	CampaignID      uuid.UUID    `db:"campaign_id"`
	Author          string       `db:"author"`
	Title           string       `db:"title"`
	Content         string       `db:"content"`
	Image           *string      `db:"image"`
	Video           *string      `db:"video"`
	Status          ReviewStatus `db:"status"`
	ReviewedBy      *string      `db:"reviewed_by"`
	ReviewedAt      *time.Time   `db:"reviewed_at"`
	RejectionReason *string      `db:"rejection_reason"`
	CreatedAt       time.Time    `db:"created_at"`
}

// User is an authenticated wallet identity
type User struct {
	ID             uuid.UUID      `db:"id"`
	WalletAddress  string         `db:"wallet_address"`
	Email          *string        `db:"email"`
	Role           UserRole       `db:"role"`
	UserType       UserType       `db:"user_type"`
	CreatorDetails CreatorDetails `db:"creator_details"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}
