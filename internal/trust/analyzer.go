package trust

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Analysis method provenance tags.
const (
	MethodExternalAI   = "external-ai"
	MethodRuleBased    = "rule-based"
	MethodEmptyContent = "empty-content"
)

const maxListEntries = 5

// Assessment is the trust bundle attached to a campaign. It is replaced
// wholesale on re-analysis, never patched field by field.
type Assessment struct {
	TrustScore      int       `json:"trustScore"`
	RiskFactors     []string  `json:"riskFactors"`
	Recommendations []string  `json:"recommendations"`
	Sentiment       string    `json:"sentiment"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
	AnalysisMethod  string    `json:"analysisMethod"`
}

// CreatorProfile carries the creator signals used to adjust a score.
// A nil profile means no adjustment.
type CreatorProfile struct {
	Name          string
	Bio           string
	EmailVerified bool
}

var (
	milestoneKeywords    = []string{"milestone", "phase", "step", "stage", "timeline", "deadline", "schedule"}
	professionalKeywords = []string{"project", "plan", "organization", "team", "goal", "objective", "strategy"}
	evidenceKeywords     = []string{"registered", "certified", "licensed", "experience", "track record", "previous", "successful"}
	vagueKeywords        = []string{"help", "support", "money", "fund", "donate", "need"}

	guaranteePattern   = regexp.MustCompile(`(?i)(guaranteed|100%|guarantee|promise.*return|risk.free)`)
	urgencyPattern     = regexp.MustCompile(`(?i)(urgent|act now|limited time|don't miss|hurry|immediate|asap)`)
	investmentPattern  = regexp.MustCompile(`(?i)(crypto|bitcoin|ethereum|investment|trading|profit|returns)`)
	charitablePattern  = regexp.MustCompile(`(?i)(charity|non-profit|donation|cause|help|support)`)
	punctuationPattern = regexp.MustCompile(`[!?]{2,}`)
	uppercasePattern   = regexp.MustCompile(`[A-Z]`)
)

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roundScore(score float64) int {
	return clampScore(int(math.Round(score)))
}

// AnalyzeRuleBased scores campaign content without any external calls. It is
// deterministic and never fails, which makes it the safety net when the AI
// provider is down or unconfigured.
func AnalyzeRuleBased(title, description string, target float64, profile *CreatorProfile) Assessment {
	score, riskFactors, recommendations := contentSignals(title, description, target)

	creatorDelta, creatorRisks, creatorRecs := creatorSignals(profile)
	score += creatorDelta
	riskFactors = append(riskFactors, creatorRisks...)
	recommendations = append(recommendations, creatorRecs...)

	// Clamp once, after all adjustments, so a deeply negative raw score is not
	// flattened before the creator delta applies.
	finalScore := clampScore(score)

	if finalScore < 30 {
		recommendations = append(recommendations, "Consider revising your campaign to address the identified concerns")
	}

	return Assessment{
		TrustScore:      finalScore,
		RiskFactors:     truncateList(riskFactors),
		Recommendations: truncateList(recommendations),
		Sentiment:       "ANALYZED",
		AnalyzedAt:      time.Now(),
		AnalysisMethod:  MethodRuleBased,
	}
}

// contentSignals scores title/description/target. The returned score is raw
// (not clamped) so the caller can combine it with creator signals first.
func contentSignals(title, description string, target float64) (int, []string, []string) {
	score := 50
	var riskFactors []string
	var recommendations []string

	text := strings.ToLower(title + " " + description)
	rawText := title + " " + description
	descLength := len(description)

	// Detailed descriptions, in mutually exclusive bands.
	switch {
	case descLength >= 750:
		score += 15
	case descLength >= 500:
		score += 10
	case descLength >= 250:
		score += 5
	}

	// Realistic target amount.
	switch {
	case target > 0 && target < 10:
		score += 10
	case target >= 10 && target < 50:
		score += 8
	case target >= 50 && target < 100:
		score += 5
	}

	if containsAny(text, milestoneKeywords) {
		score += 10
	}

	professionalCount := countMatches(text, professionalKeywords)
	if professionalCount >= 3 {
		score += 10
	} else if professionalCount >= 2 {
		score += 5
	}

	if containsAny(text, evidenceKeywords) {
		score += 10
	}

	if guaranteePattern.MatchString(text) {
		score -= 20
		riskFactors = append(riskFactors, "Uses absolute guarantees or unrealistic promises")
		recommendations = append(recommendations, "Avoid promising guaranteed returns; set realistic expectations")
	}

	if urgencyPattern.MatchString(text) {
		score -= 15
		riskFactors = append(riskFactors, "Uses high-pressure language or urgency tactics")
		recommendations = append(recommendations, "Clarify timelines without resorting to urgency triggers")
	}

	if target > 100 {
		score -= 15
		riskFactors = append(riskFactors, "Funding target exceeds 100 ETH")
		recommendations = append(recommendations, "Consider lowering the goal or explaining why a high target is needed")
	} else if target > 50 {
		score -= 5
	}

	switch {
	case descLength < 50:
		score -= 20
		riskFactors = append(riskFactors, "Description is very brief (less than 50 characters)")
		recommendations = append(recommendations, "Add detailed project information to increase transparency")
	case descLength < 100:
		score -= 15
		riskFactors = append(riskFactors, "Description is brief (less than 100 characters)")
		recommendations = append(recommendations, "Add more project details to increase transparency")
	case descLength < 200:
		score -= 10
		riskFactors = append(riskFactors, "Description could be more detailed")
		recommendations = append(recommendations, "Add more specific project details")
	}

	capsCount := len(uppercasePattern.FindAllString(rawText, -1))
	capsRatio := float64(capsCount) / math.Max(float64(len(rawText)), 1)
	excessivePunctuation := len(punctuationPattern.FindAllString(rawText, -1))
	if capsRatio > 0.3 || excessivePunctuation >= 2 {
		score -= 10
		riskFactors = append(riskFactors, "Uses excessive capitalization or punctuation")
		recommendations = append(recommendations, "Use professional, clear language")
	}

	vagueCount := countMatches(text, vagueKeywords)
	if vagueCount >= 4 && descLength < 300 {
		score -= 10
		riskFactors = append(riskFactors, "Description is vague or generic")
		recommendations = append(recommendations, "Add specific project details, goals, and use cases")
	}

	if investmentPattern.MatchString(text) && !charitablePattern.MatchString(text) {
		score -= 15
		riskFactors = append(riskFactors, "May be promoting investment rather than a cause")
		recommendations = append(recommendations, "Clarify that this is a donation-based campaign, not an investment")
	}

	if len(strings.TrimSpace(title)) < 3 {
		score -= 10
		riskFactors = append(riskFactors, "Campaign title is missing or too short")
		recommendations = append(recommendations, "Add a clear, descriptive title")
	}

	return score, riskFactors, recommendations
}

// creatorSignals derives a score delta plus risk factors and recommendations
// from the creator profile. It is the single adjustment routine shared by the
// rule-based analyzer and the post-AI blend, so both paths agree on what a
// profile is worth.
func creatorSignals(profile *CreatorProfile) (int, []string, []string) {
	if profile == nil {
		return 0, nil, nil
	}

	delta := 0
	var riskFactors []string
	var recommendations []string

	if profile.EmailVerified {
		delta += 5
	} else {
		riskFactors = append(riskFactors, "Creator email not verified")
		recommendations = append(recommendations, "Verify your email address to increase trust")
	}

	bioLength := len(profile.Bio)
	switch {
	case bioLength >= 100:
		delta += 5
	case bioLength >= 50:
		delta += 3
	case bioLength < 20:
		riskFactors = append(riskFactors, "Creator profile lacks detailed bio")
		recommendations = append(recommendations, "Add a comprehensive bio to your creator profile")
	}

	if profile.Name != "" && len(profile.Name) < 2 {
		riskFactors = append(riskFactors, "Creator name appears incomplete")
	}

	return delta, riskFactors, recommendations
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}

func truncateList(list []string) []string {
	if len(list) > maxListEntries {
		return list[:maxListEntries]
	}
	return list
}
