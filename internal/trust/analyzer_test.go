package trust

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeRuleBased_BriefDescriptionSmallTarget(t *testing.T) {
	title := "Community Garden"
	description := strings.Repeat("a", 40)

	result := AnalyzeRuleBased(title, description, 5, nil)

	// Base 50, +10 small target, -20 very brief description.
	if result.TrustScore != 40 {
		t.Errorf("expected trust score 40, got %d", result.TrustScore)
	}
	if !containsEntry(result.RiskFactors, "Description is very brief (less than 50 characters)") {
		t.Errorf("expected very-brief risk factor, got %v", result.RiskFactors)
	}
	if result.AnalysisMethod != MethodRuleBased {
		t.Errorf("expected method %s, got %s", MethodRuleBased, result.AnalysisMethod)
	}
}

func TestAnalyzeRuleBased_GuaranteePenalty(t *testing.T) {
	title := "Water Well"
	baseline := AnalyzeRuleBased(title, strings.Repeat("a", 220), 5, nil)
	penalized := AnalyzeRuleBased(title, "guaranteed "+strings.Repeat("a", 209), 5, nil)

	if penalized.TrustScore != baseline.TrustScore-20 {
		t.Errorf("expected guarantee penalty of 20: baseline %d, penalized %d",
			baseline.TrustScore, penalized.TrustScore)
	}
	if !containsEntry(penalized.RiskFactors, "Uses absolute guarantees or unrealistic promises") {
		t.Errorf("expected guarantee risk factor, got %v", penalized.RiskFactors)
	}
}

func TestAnalyzeRuleBased_Idempotent(t *testing.T) {
	title := "Solar Panels for the School"
	description := "Our registered organization plans each phase with a clear timeline and budget."

	first := AnalyzeRuleBased(title, description, 25, nil)
	second := AnalyzeRuleBased(title, description, 25, nil)

	first.AnalyzedAt = second.AnalyzedAt
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical assessments, got %+v and %+v", first, second)
	}
}

func TestAnalyzeRuleBased_ScoreStaysInBounds(t *testing.T) {
	cases := []struct {
		name        string
		title       string
		description string
		target      float64
	}{
		{
			name:        "every penalty at once",
			title:       "x",
			description: "GUARANTEED!! ACT NOW!! crypto investment profit returns!!",
			target:      5000,
		},
		{
			name:  "every bonus at once",
			title: "Registered Community Project",
			description: strings.Repeat(
				"Our registered team follows the project plan with a goal, objective and strategy for each milestone phase on a timeline. ", 8),
			target: 5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := AnalyzeRuleBased(tc.title, tc.description, tc.target, nil)
			if result.TrustScore < 0 || result.TrustScore > 100 {
				t.Errorf("trust score %d out of bounds", result.TrustScore)
			}
			if len(result.RiskFactors) > 5 {
				t.Errorf("expected at most 5 risk factors, got %d", len(result.RiskFactors))
			}
			if len(result.Recommendations) > 5 {
				t.Errorf("expected at most 5 recommendations, got %d", len(result.Recommendations))
			}
		})
	}
}

func TestAnalyzeRuleBased_CreatorProfileBonus(t *testing.T) {
	title := "Water Well"
	description := strings.Repeat("a", 220)
	profile := &CreatorProfile{
		Name:          "Asha",
		Bio:           strings.Repeat("b", 120),
		EmailVerified: true,
	}

	without := AnalyzeRuleBased(title, description, 5, nil)
	with := AnalyzeRuleBased(title, description, 5, profile)

	// +5 verified contact, +5 detailed bio.
	if with.TrustScore != without.TrustScore+10 {
		t.Errorf("expected creator bonus of 10: without %d, with %d", without.TrustScore, with.TrustScore)
	}
}

func TestAnalyzeRuleBased_UnverifiedCreatorAddsRiskFactor(t *testing.T) {
	profile := &CreatorProfile{Name: "Asha", Bio: "", EmailVerified: false}

	result := AnalyzeRuleBased("Water Well", strings.Repeat("a", 220), 5, profile)

	if !containsEntry(result.RiskFactors, "Creator email not verified") {
		t.Errorf("expected unverified-email risk factor, got %v", result.RiskFactors)
	}
	if !containsEntry(result.RiskFactors, "Creator profile lacks detailed bio") {
		t.Errorf("expected missing-bio risk factor, got %v", result.RiskFactors)
	}
}

func TestAnalyzeRuleBased_LowScoreAddsRevisionNote(t *testing.T) {
	result := AnalyzeRuleBased("Project Alpha", "guaranteed", 500, nil)

	if result.TrustScore >= 30 {
		t.Fatalf("expected a low score for this input, got %d", result.TrustScore)
	}
	if !containsEntry(result.Recommendations, "Consider revising your campaign to address the identified concerns") {
		t.Errorf("expected revision recommendation, got %v", result.Recommendations)
	}
}

func containsEntry(list []string, entry string) bool {
	for _, item := range list {
		if item == entry {
			return true
		}
	}
	return false
}
