package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"
	"fundchain-server/internal/trust"

	"github.com/google/uuid"
)

// fakeStore implements CampaignStore through optional function fields. A call
// to a method whose field is unset fails the operation so tests notice
// unexpected store traffic.
type fakeStore struct {
	createCampaign           func(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error)
	getCampaignByID          func(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	listDeployedCampaigns    func(ctx context.Context) ([]store.Campaign, error)
	listCampaignsByOwner     func(ctx context.Context, owner string) ([]store.Campaign, error)
	listPendingCampaigns     func(ctx context.Context) ([]store.Campaign, error)
	listCampaigns            func(ctx context.Context, params store.ListCampaignsParams) (store.ListCampaignsResult, error)
	approveCampaign          func(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	rejectCampaign           func(ctx context.Context, campaignID uuid.UUID, reason string) (store.Campaign, error)
	publishCampaign          func(ctx context.Context, campaignID uuid.UUID, onChainID int64) (store.Campaign, error)
	updateCampaignFields     func(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignFieldsParams) (store.Campaign, error)
	updateCampaignAnalysis   func(ctx context.Context, campaignID uuid.UUID, analysis store.Analysis) error
	deleteCampaign           func(ctx context.Context, campaignID uuid.UUID) error
	deleteUnapprovedCampaign func(ctx context.Context, campaignID uuid.UUID) error

	createCampaignEdit       func(ctx context.Context, params store.CreateCampaignEditParams) (store.CampaignEdit, error)
	getCampaignEdit          func(ctx context.Context, campaignID, editID uuid.UUID) (store.CampaignEdit, error)
	listCampaignEdits        func(ctx context.Context, campaignID uuid.UUID) ([]store.CampaignEdit, error)
	listPendingCampaignEdits func(ctx context.Context) ([]store.PendingCampaignEdit, error)
	resolveCampaignEdit      func(ctx context.Context, campaignID, editID uuid.UUID, status store.ReviewStatus, reviewedBy string, reason *string) (store.CampaignEdit, error)

	createCampaignUpdate       func(ctx context.Context, params store.CreateCampaignUpdateParams) (store.CampaignUpdate, error)
	getCampaignUpdate          func(ctx context.Context, updateID uuid.UUID) (store.CampaignUpdate, error)
	listCampaignUpdates        func(ctx context.Context, campaignID uuid.UUID, includeUnapproved bool) ([]store.CampaignUpdate, error)
	listPendingCampaignUpdates func(ctx context.Context) ([]store.PendingCampaignUpdate, error)
	resolveCampaignUpdate      func(ctx context.Context, updateID uuid.UUID, status store.ReviewStatus, reviewedBy string, reason *string) (store.CampaignUpdate, error)

	getUserByWallet func(ctx context.Context, walletAddress string) (store.User, error)
}

var errUnexpectedCall = errors.New("unexpected store call")

func (f *fakeStore) CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error) {
	if f.createCampaign == nil {
		return store.Campaign{}, errUnexpectedCall
	}
	return f.createCampaign(ctx, params)
}

func (f *fakeStore) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	if f.getCampaignByID == nil {
		return store.Campaign{}, errUnexpectedCall
	}
	return f.getCampaignByID(ctx, campaignID)
}

func (f *fakeStore) ListDeployedCampaigns(ctx context.Context) ([]store.Campaign, error) {
	if f.listDeployedCampaigns == nil {
		return nil, errUnexpectedCall
	}
	return f.listDeployedCampaigns(ctx)
}

func (f *fakeStore) ListCampaignsByOwner(ctx context.Context, owner string) ([]store.Campaign, error) {
	if f.listCampaignsByOwner == nil {
		return nil, errUnexpectedCall
	}
	return f.listCampaignsByOwner(ctx, owner)
}

func (f *fakeStore) ListPendingCampaigns(ctx context.Context) ([]store.Campaign, error) {
	if f.listPendingCampaigns == nil {
		return nil, errUnexpectedCall
	}
	return f.listPendingCampaigns(ctx)
}

func (f *fakeStore) ListCampaigns(ctx context.Context, params store.ListCampaignsParams) (store.ListCampaignsResult, error) {
	if f.listCampaigns == nil {
		return store.ListCampaignsResult{}, errUnexpectedCall
	}
	return f.listCampaigns(ctx, params)
}

func (f *fakeStore) ApproveCampaign(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	if f.approveCampaign == nil {
		return store.Campaign{}, errUnexpectedCall
	}
	return f.approveCampaign(ctx, campaignID)
}

func (f *fakeStore) RejectCampaign(ctx context.Context, campaignID uuid.UUID, reason string) (store.Campaign, error) {
	if f.rejectCampaign == nil {
		return store.Campaign{}, errUnexpectedCall
	}
	return f.rejectCampaign(ctx, campaignID, reason)
}

func (f *fakeStore) PublishCampaign(ctx context.Context, campaignID uuid.UUID, onChainID int64) (store.Campaign, error) {
	if f.publishCampaign == nil {
		return store.Campaign{}, errUnexpectedCall
	}
	return f.publishCampaign(ctx, campaignID, onChainID)
}

func (f *fakeStore) UpdateCampaignFields(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignFieldsParams) (store.Campaign, error) {
	if f.updateCampaignFields == nil {
		return store.Campaign{}, errUnexpectedCall
	}
	return f.updateCampaignFields(ctx, campaignID, params)
}

func (f *fakeStore) UpdateCampaignAnalysis(ctx context.Context, campaignID uuid.UUID, analysis store.Analysis) error {
	if f.updateCampaignAnalysis == nil {
		return errUnexpectedCall
	}
	return f.updateCampaignAnalysis(ctx, campaignID, analysis)
}

func (f *fakeStore) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	if f.deleteCampaign == nil {
		return errUnexpectedCall
	}
	return f.deleteCampaign(ctx, campaignID)
}

func (f *fakeStore) DeleteUnapprovedCampaign(ctx context.Context, campaignID uuid.UUID) error {
	if f.deleteUnapprovedCampaign == nil {
		return errUnexpectedCall
	}
	return f.deleteUnapprovedCampaign(ctx, campaignID)
}

func (f *fakeStore) CreateCampaignEdit(ctx context.Context, params store.CreateCampaignEditParams) (store.CampaignEdit, error) {
	if f.createCampaignEdit == nil {
		return store.CampaignEdit{}, errUnexpectedCall
	}
	return f.createCampaignEdit(ctx, params)
}

func (f *fakeStore) GetCampaignEdit(ctx context.Context, campaignID, editID uuid.UUID) (store.CampaignEdit, error) {
	if f.getCampaignEdit == nil {
		return store.CampaignEdit{}, errUnexpectedCall
	}
	return f.getCampaignEdit(ctx, campaignID, editID)
}

func (f *fakeStore) ListCampaignEdits(ctx context.Context, campaignID uuid.UUID) ([]store.CampaignEdit, error) {
	if f.listCampaignEdits == nil {
		return nil, errUnexpectedCall
	}
	return f.listCampaignEdits(ctx, campaignID)
}

func (f *fakeStore) ListPendingCampaignEdits(ctx context.Context) ([]store.PendingCampaignEdit, error) {
	if f.listPendingCampaignEdits == nil {
		return nil, errUnexpectedCall
	}
	return f.listPendingCampaignEdits(ctx)
}

func (f *fakeStore) ResolveCampaignEdit(ctx context.Context, campaignID, editID uuid.UUID, status store.ReviewStatus, reviewedBy string, reason *string) (store.CampaignEdit, error) {
	if f.resolveCampaignEdit == nil {
		return store.CampaignEdit{}, errUnexpectedCall
	}
	return f.resolveCampaignEdit(ctx, campaignID, editID, status, reviewedBy, reason)
}

func (f *fakeStore) CreateCampaignUpdate(ctx context.Context, params store.CreateCampaignUpdateParams) (store.CampaignUpdate, error) {
	if f.createCampaignUpdate == nil {
		return store.CampaignUpdate{}, errUnexpectedCall
	}
	return f.createCampaignUpdate(ctx, params)
}

func (f *fakeStore) GetCampaignUpdate(ctx context.Context, updateID uuid.UUID) (store.CampaignUpdate, error) {
	if f.getCampaignUpdate == nil {
		return store.CampaignUpdate{}, errUnexpectedCall
	}
	return f.getCampaignUpdate(ctx, updateID)
}

func (f *fakeStore) ListCampaignUpdates(ctx context.Context, campaignID uuid.UUID, includeUnapproved bool) ([]store.CampaignUpdate, error) {
	if f.listCampaignUpdates == nil {
		return nil, errUnexpectedCall
	}
	return f.listCampaignUpdates(ctx, campaignID, includeUnapproved)
}

func (f *fakeStore) ListPendingCampaignUpdates(ctx context.Context) ([]store.PendingCampaignUpdate, error) {
	if f.listPendingCampaignUpdates == nil {
		return nil, errUnexpectedCall
	}
	return f.listPendingCampaignUpdates(ctx)
}

func (f *fakeStore) ResolveCampaignUpdate(ctx context.Context, updateID uuid.UUID, status store.ReviewStatus, reviewedBy string, reason *string) (store.CampaignUpdate, error) {
	if f.resolveCampaignUpdate == nil {
		return store.CampaignUpdate{}, errUnexpectedCall
	}
	return f.resolveCampaignUpdate(ctx, updateID, status, reviewedBy, reason)
}

func (f *fakeStore) GetUserByWallet(ctx context.Context, walletAddress string) (store.User, error) {
	if f.getUserByWallet == nil {
		return store.User{}, store.ErrNotFound
	}
	return f.getUserByWallet(ctx, walletAddress)
}

type fakeAnalyzer struct {
	assessment  trust.Assessment
	calls       int
	lastTitle   string
	lastTarget  float64
	lastProfile *trust.CreatorProfile
}

func (f *fakeAnalyzer) AnalyzeCampaign(ctx context.Context, title, description string, target float64, profile *trust.CreatorProfile) trust.Assessment {
	f.calls++
	f.lastTitle = title
	f.lastTarget = target
	f.lastProfile = profile
	return f.assessment
}

func newTestProcessor(s *fakeStore, a *fakeAnalyzer) CampaignProcessor {
	return New(s, a, observability.NewLogger())
}

const (
	ownerWallet = "0xabc0000000000000000000000000000000000001"
	adminWallet = "0xadm0000000000000000000000000000000000001"
	otherWallet = "0x0th0000000000000000000000000000000000001"
)

func creatorIdentity() Identity {
	return Identity{Wallet: ownerWallet, Role: store.UserRoleUser, UserType: store.UserTypeCreator}
}

func adminIdentity() Identity {
	return Identity{Wallet: adminWallet, Role: store.UserRoleAdmin, UserType: store.UserTypeDonor}
}

func donorIdentity() Identity {
	return Identity{Wallet: otherWallet, Role: store.UserRoleUser, UserType: store.UserTypeDonor}
}

func futureDeadline() string {
	return time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
}

func TestCreateCampaign_Success(t *testing.T) {
	campaignID := uuid.New()
	analyzer := &fakeAnalyzer{assessment: trust.Assessment{TrustScore: 65, Sentiment: "ANALYZED", AnalysisMethod: trust.MethodRuleBased}}

	var created store.CreateCampaignParams
	s := &fakeStore{
		createCampaign: func(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error) {
			created = params
			return store.Campaign{ID: campaignID, Owner: params.Owner, Title: params.Title, Status: store.CampaignStatusPending, AIAnalysis: params.AIAnalysis}, nil
		},
		getUserByWallet: func(ctx context.Context, walletAddress string) (store.User, error) {
			email := "creator@example.com"
			return store.User{
				WalletAddress:  walletAddress,
				Email:          &email,
				UserType:       store.UserTypeCreator,
				CreatorDetails: store.CreatorDetails{Name: "Alice", Bio: "Community organizer with a decade of local fundraising work behind her."},
			}, nil
		},
	}
	p := newTestProcessor(s, analyzer)

	campaign, err := p.CreateCampaign(context.Background(), creatorIdentity(), CreateCampaignParams{
		Title:       "Clean Water Initiative",
		Description: "Detailed plan for drilling wells in three districts.",
		Target:      25,
		Deadline:    futureDeadline(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if campaign.Status != store.CampaignStatusPending {
		t.Errorf("expected pending status, got %s", campaign.Status)
	}
	if created.Owner != ownerWallet {
		t.Errorf("expected owner %s, got %s", ownerWallet, created.Owner)
	}
	if created.AIAnalysis.TrustScore != 65 {
		t.Errorf("expected stored trust score 65, got %d", created.AIAnalysis.TrustScore)
	}
	if analyzer.calls != 1 {
		t.Errorf("expected one analysis, got %d", analyzer.calls)
	}
	if analyzer.lastProfile == nil {
		t.Fatal("expected creator profile passed to analyzer")
	}
	if !analyzer.lastProfile.EmailVerified {
		t.Error("expected profile marked email verified")
	}
}

func TestCreateCampaign_DonorRejected(t *testing.T) {
	p := newTestProcessor(&fakeStore{}, &fakeAnalyzer{})

	_, err := p.CreateCampaign(context.Background(), donorIdentity(), CreateCampaignParams{
		Title: "X", Description: "Y", Target: 10, Deadline: futureDeadline(),
	})
	if !errors.Is(err, ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}
}

func TestCreateCampaign_InvalidTarget(t *testing.T) {
	p := newTestProcessor(&fakeStore{}, &fakeAnalyzer{})

	_, err := p.CreateCampaign(context.Background(), creatorIdentity(), CreateCampaignParams{
		Title: "X", Description: "Y", Target: 0, Deadline: futureDeadline(),
	})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestCreateCampaign_DeadlineValidation(t *testing.T) {
	p := newTestProcessor(&fakeStore{}, &fakeAnalyzer{})
	params := CreateCampaignParams{Title: "X", Description: "Y", Target: 10}

	for _, deadline := range []string{"", "not-a-date", "2020-01-01", time.Now().Add(-time.Hour).Format(time.RFC3339)} {
		params.Deadline = deadline
		if _, err := p.CreateCampaign(context.Background(), creatorIdentity(), params); !errors.Is(err, ErrInvalidDeadline) {
			t.Errorf("deadline %q: expected ErrInvalidDeadline, got %v", deadline, err)
		}
	}
}

func TestCreateCampaign_PlainDateNormalizedToEndOfDay(t *testing.T) {
	day := time.Now().AddDate(0, 0, 30)
	raw := day.Format("2006-01-02")

	deadline, err := parseDeadline(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deadline.Hour() != 23 || deadline.Minute() != 59 || deadline.Second() != 59 {
		t.Errorf("expected end of day, got %v", deadline)
	}
	if deadline.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", deadline.Location())
	}
}

func TestApproveCampaign_Success(t *testing.T) {
	campaignID := uuid.New()
	s := &fakeStore{
		approveCampaign: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Status: store.CampaignStatusApproved}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	campaign, err := p.ApproveCampaign(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if campaign.Status != store.CampaignStatusApproved {
		t.Errorf("expected approved status, got %s", campaign.Status)
	}
}

func TestApproveCampaign_AlreadyApproved(t *testing.T) {
	s := &fakeStore{
		approveCampaign: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Status: store.CampaignStatusApproved}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	_, err := p.ApproveCampaign(context.Background(), uuid.New())
	if !errors.Is(err, ErrAlreadyApproved) {
		t.Errorf("expected ErrAlreadyApproved, got %v", err)
	}
}

func TestApproveCampaign_NotFound(t *testing.T) {
	s := &fakeStore{
		approveCampaign: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	_, err := p.ApproveCampaign(context.Background(), uuid.New())
	if !errors.Is(err, ErrCampaignNotFound) {
		t.Errorf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestApproveCampaign_Rejected(t *testing.T) {
	s := &fakeStore{
		approveCampaign: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Status: store.CampaignStatusRejected}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	_, err := p.ApproveCampaign(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending, got %v", err)
	}
}

func TestRejectCampaign_ReasonRequired(t *testing.T) {
	p := newTestProcessor(&fakeStore{}, &fakeAnalyzer{})

	_, err := p.RejectCampaign(context.Background(), uuid.New(), adminIdentity(), "   ")
	if !errors.Is(err, ErrReasonRequired) {
		t.Errorf("expected ErrReasonRequired, got %v", err)
	}
}

func TestRejectCampaign_RecordsReason(t *testing.T) {
	var gotReason string
	s := &fakeStore{
		rejectCampaign: func(ctx context.Context, id uuid.UUID, reason string) (store.Campaign, error) {
			gotReason = reason
			return store.Campaign{ID: id, Status: store.CampaignStatusRejected, RejectionReason: &reason}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	campaign, err := p.RejectCampaign(context.Background(), uuid.New(), adminIdentity(), "unverifiable claims")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotReason != "unverifiable claims" {
		t.Errorf("expected reason recorded, got %q", gotReason)
	}
	if campaign.Status != store.CampaignStatusRejected {
		t.Errorf("expected rejected status, got %s", campaign.Status)
	}
}

func TestPublishCampaign_Success(t *testing.T) {
	campaignID := uuid.New()
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusApproved}, nil
		},
		publishCampaign: func(ctx context.Context, id uuid.UUID, onChainID int64) (store.Campaign, error) {
			deployed := time.Now()
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusApproved, OnChainID: &onChainID, IsDeployed: true, DeployedAt: &deployed}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	campaign, err := p.PublishCampaign(context.Background(), campaignID, creatorIdentity(), 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !campaign.IsDeployed {
		t.Error("expected campaign marked deployed")
	}
	if campaign.OnChainID == nil || *campaign.OnChainID != 7 {
		t.Errorf("expected on-chain id 7, got %v", campaign.OnChainID)
	}
}

func TestPublishCampaign_NotOwner(t *testing.T) {
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusApproved}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	_, err := p.PublishCampaign(context.Background(), uuid.New(), donorIdentity(), 7)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestPublishCampaign_NotApproved(t *testing.T) {
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusPending}, nil
		},
		publishCampaign: func(ctx context.Context, id uuid.UUID, onChainID int64) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	_, err := p.PublishCampaign(context.Background(), uuid.New(), creatorIdentity(), 7)
	if !errors.Is(err, ErrNotApproved) {
		t.Errorf("expected ErrNotApproved, got %v", err)
	}
}

func TestPublishCampaign_AlreadyDeployed(t *testing.T) {
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusApproved, IsDeployed: true}, nil
		},
		publishCampaign: func(ctx context.Context, id uuid.UUID, onChainID int64) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	_, err := p.PublishCampaign(context.Background(), uuid.New(), creatorIdentity(), 7)
	if !errors.Is(err, ErrAlreadyDeployed) {
		t.Errorf("expected ErrAlreadyDeployed, got %v", err)
	}
}

func TestDeleteCampaign_OwnerCannotDeleteApproved(t *testing.T) {
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusApproved}, nil
		},
		deleteUnapprovedCampaign: func(ctx context.Context, id uuid.UUID) error {
			return store.ErrNotFound
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	err := p.DeleteCampaign(context.Background(), uuid.New(), creatorIdentity())
	if !errors.Is(err, ErrCannotDeleteApproved) {
		t.Errorf("expected ErrCannotDeleteApproved, got %v", err)
	}
}

func TestDeleteCampaign_OwnerDeletesPending(t *testing.T) {
	deleted := false
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusPending}, nil
		},
		deleteUnapprovedCampaign: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	if err := p.DeleteCampaign(context.Background(), uuid.New(), creatorIdentity()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted {
		t.Error("expected conditional delete to run")
	}
}

func TestDeleteCampaign_StrangerForbidden(t *testing.T) {
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusPending}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	err := p.DeleteCampaign(context.Background(), uuid.New(), donorIdentity())
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteCampaign_AdminDeletesAnyStatus(t *testing.T) {
	deleted := false
	s := &fakeStore{
		getCampaignByID: func(ctx context.Context, id uuid.UUID) (store.Campaign, error) {
			return store.Campaign{ID: id, Owner: ownerWallet, Status: store.CampaignStatusApproved, IsDeployed: true}, nil
		},
		deleteCampaign: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	if err := p.DeleteCampaign(context.Background(), uuid.New(), adminIdentity()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted {
		t.Error("expected unconditional delete to run")
	}
}

func TestListCampaigns_DefaultsPagination(t *testing.T) {
	var got store.ListCampaignsParams
	s := &fakeStore{
		listCampaigns: func(ctx context.Context, params store.ListCampaignsParams) (store.ListCampaignsResult, error) {
			got = params
			return store.ListCampaignsResult{TotalCount: 0}, nil
		},
	}
	p := newTestProcessor(s, &fakeAnalyzer{})

	if _, err := p.ListCampaigns(context.Background(), AdminListParams{Status: "all", Page: 0, Limit: 500}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != nil {
		t.Errorf("expected no status filter for 'all', got %v", *got.Status)
	}
	if got.Limit != 20 || got.Offset != 0 {
		t.Errorf("expected limit 20 offset 0, got limit %d offset %d", got.Limit, got.Offset)
	}
}
