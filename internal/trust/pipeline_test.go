package trust

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fundchain-server/internal/observability"
)

// fakeCompleter returns a canned completion or error and records calls.
type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestPipeline(ai Completer) *Pipeline {
	return NewPipeline(ai, NewMemoryCache(DefaultCacheTTL), 10*time.Second, observability.NewLogger())
}

func TestAnalyzeCampaign_EmptyContent(t *testing.T) {
	ai := &fakeCompleter{response: `{"trustScore": 90}`}
	pipeline := newTestPipeline(ai)

	result := pipeline.AnalyzeCampaign(context.Background(), "   ", " \t ", 5, nil)

	if result.TrustScore != 20 {
		t.Errorf("expected trust score 20, got %d", result.TrustScore)
	}
	if result.AnalysisMethod != MethodEmptyContent {
		t.Errorf("expected method %s, got %s", MethodEmptyContent, result.AnalysisMethod)
	}
	if len(result.RiskFactors) != 1 || len(result.Recommendations) != 1 {
		t.Errorf("expected exactly one risk factor and one recommendation, got %v and %v",
			result.RiskFactors, result.Recommendations)
	}
	if ai.calls != 0 {
		t.Errorf("expected no AI call for empty content, got %d", ai.calls)
	}
}

func TestAnalyzeCampaign_AISuccess(t *testing.T) {
	ai := &fakeCompleter{response: `{
		"trustScore": 80,
		"riskFactors": ["high target"],
		"recommendations": ["explain the budget"],
		"sentiment": "positive"
	}`}
	pipeline := newTestPipeline(ai)

	result := pipeline.AnalyzeCampaign(context.Background(), "Water Well", strings.Repeat("a", 220), 5, nil)

	if result.TrustScore != 80 {
		t.Errorf("expected trust score 80, got %d", result.TrustScore)
	}
	if result.AnalysisMethod != MethodExternalAI {
		t.Errorf("expected method %s, got %s", MethodExternalAI, result.AnalysisMethod)
	}
	if result.Sentiment != "POSITIVE" {
		t.Errorf("expected sentiment POSITIVE, got %s", result.Sentiment)
	}
}

func TestAnalyzeCampaign_AISuccessBlendsCreatorSignals(t *testing.T) {
	ai := &fakeCompleter{response: `{"trustScore": 80, "riskFactors": ["high target"], "recommendations": []}`}
	pipeline := newTestPipeline(ai)
	profile := &CreatorProfile{Name: "Asha", Bio: strings.Repeat("b", 120), EmailVerified: true}

	result := pipeline.AnalyzeCampaign(context.Background(), "Water Well", strings.Repeat("a", 220), 5, profile)

	// +5 verified contact, +5 detailed bio on top of the AI score.
	if result.TrustScore != 90 {
		t.Errorf("expected blended trust score 90, got %d", result.TrustScore)
	}
	if result.RiskFactors[0] != "high target" {
		t.Errorf("expected AI risk factors to keep priority, got %v", result.RiskFactors)
	}
}

func TestAnalyzeCampaign_AIFailureFallsBack(t *testing.T) {
	ai := &fakeCompleter{err: errors.New("connection refused")}
	pipeline := newTestPipeline(ai)

	result := pipeline.AnalyzeCampaign(context.Background(), "Water Well", strings.Repeat("a", 220), 5, nil)

	if result.AnalysisMethod != MethodRuleBased {
		t.Errorf("expected rule-based fallback, got %s", result.AnalysisMethod)
	}
	if result.TrustScore < 0 || result.TrustScore > 100 {
		t.Errorf("trust score %d out of bounds", result.TrustScore)
	}
}

func TestAnalyzeCampaign_MalformedAIPayloadFallsBack(t *testing.T) {
	ai := &fakeCompleter{response: "I cannot answer that."}
	pipeline := newTestPipeline(ai)

	result := pipeline.AnalyzeCampaign(context.Background(), "Water Well", strings.Repeat("a", 220), 5, nil)

	if result.AnalysisMethod != MethodRuleBased {
		t.Errorf("expected rule-based fallback, got %s", result.AnalysisMethod)
	}
}

func TestAnalyzeCampaign_CacheHitSkipsRecomputation(t *testing.T) {
	ai := &fakeCompleter{response: `{"trustScore": 80}`}
	pipeline := newTestPipeline(ai)
	ctx := context.Background()

	title, description := "Water Well", strings.Repeat("a", 220)
	first := pipeline.AnalyzeCampaign(ctx, title, description, 5, nil)
	second := pipeline.AnalyzeCampaign(ctx, title, description, 5, nil)

	if ai.calls != 1 {
		t.Errorf("expected a single AI call, got %d", ai.calls)
	}
	if second.TrustScore != first.TrustScore || second.AnalysisMethod != first.AnalysisMethod {
		t.Errorf("expected cached assessment reused, got %+v and %+v", first, second)
	}
	if second.AnalyzedAt.Before(first.AnalyzedAt) {
		t.Error("expected cache hit to refresh the analysis timestamp")
	}
}

func TestParseAssessment_DecodeWithDefaults(t *testing.T) {
	assessment, err := parseAssessment(`{
		"trustScore": "85",
		"riskFactors": ["a", 1, "b", null, "c", "d", "e", "f"],
		"recommendations": [true]
	}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if assessment.TrustScore != 85 {
		t.Errorf("expected coerced trust score 85, got %d", assessment.TrustScore)
	}
	if len(assessment.RiskFactors) != 5 {
		t.Errorf("expected risk factors capped at 5, got %v", assessment.RiskFactors)
	}
	if len(assessment.Recommendations) != 0 {
		t.Errorf("expected non-string recommendations dropped, got %v", assessment.Recommendations)
	}
	if assessment.Sentiment != "NEUTRAL" {
		t.Errorf("expected default sentiment NEUTRAL, got %s", assessment.Sentiment)
	}
}

func TestParseAssessment_BadScoreDefaultsToNeutral(t *testing.T) {
	assessment, err := parseAssessment(`{"trustScore": "not a number"}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if assessment.TrustScore != 50 {
		t.Errorf("expected default trust score 50, got %d", assessment.TrustScore)
	}
}
