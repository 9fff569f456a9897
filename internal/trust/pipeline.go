package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fundchain-server/internal/observability"
)

// Completer is the external AI completion contract. Implementations send a
// system instruction plus a user prompt and return the raw completion text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const completionSystemPrompt = "You are an expert at analyzing crowdfunding campaigns for trustworthiness. " +
	"Always respond with valid JSON only."

const completionPromptTemplate = `Analyze this crowdfunding campaign and provide a trust assessment.

Title: %s
Description: %s
Target Amount: %s ETH

Provide a JSON response with this exact structure:
{
  "trustScore": <number 0-100>,
  "riskFactors": [<array of strings>],
  "recommendations": [<array of strings>],
  "sentiment": "<POSITIVE|NEGATIVE|NEUTRAL>"
}

Guidelines:
- trustScore: 0-100 (50 is neutral, 70+ is good, 30- is suspicious)
- riskFactors: List specific concerns (max 5 items)
- recommendations: List actionable improvements (max 5 items)
- sentiment: Overall tone assessment

Focus on:
- Content quality and detail
- Realistic goals
- Professional tone
- Red flags (guarantees, pressure tactics, vague promises)
- Positive signals (specifics, milestones, evidence)`

// Pipeline is the sole analysis entry point used by campaign create and edit
// flows. It never returns an error: every failure mode collapses into the
// rule-based fallback so a third-party outage cannot block a submission.
type Pipeline struct {
	ai      Completer
	cache   Cache
	timeout time.Duration
	logger  *observability.Logger
}

// NewPipeline creates an analysis pipeline. A nil Completer disables the
// external path entirely and every analysis is rule-based.
func NewPipeline(ai Completer, cache Cache, timeout time.Duration, logger *observability.Logger) *Pipeline {
	return &Pipeline{
		ai:      ai,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}
}

// AnalyzeCampaign produces a trust assessment for the given content and
// optional creator profile.
func (p *Pipeline) AnalyzeCampaign(ctx context.Context, title, description string, target float64, profile *CreatorProfile) Assessment {
	// No content means nothing to score or cache.
	textToAnalyze := description
	if strings.TrimSpace(textToAnalyze) == "" {
		textToAnalyze = title
	}
	if strings.TrimSpace(textToAnalyze) == "" {
		return Assessment{
			TrustScore:      20,
			RiskFactors:     []string{"Campaign description is empty"},
			Recommendations: []string{"Add a detailed description of your campaign"},
			Sentiment:       "UNKNOWN",
			AnalyzedAt:      time.Now(),
			AnalysisMethod:  MethodEmptyContent,
		}
	}

	key := Fingerprint(title, description, target)
	if cached, ok := p.cache.Get(ctx, key); ok {
		p.logger.Info(ctx, "using cached analysis result")
		cached.AnalyzedAt = time.Now()
		return cached
	}

	if p.ai != nil {
		if assessment, ok := p.analyzeWithAI(ctx, title, description, target); ok {
			p.cache.Put(ctx, key, assessment)
			return applyCreatorAdjustment(assessment, profile)
		}
	}

	p.logger.Info(ctx, "using rule-based analysis")
	assessment := AnalyzeRuleBased(title, description, target, profile)
	p.cache.Put(ctx, key, assessment)
	return assessment
}

// analyzeWithAI runs the bounded external completion call. The second return
// value reports success; all failures are soft.
func (p *Pipeline) analyzeWithAI(ctx context.Context, title, description string, target float64) (Assessment, bool) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := fmt.Sprintf(completionPromptTemplate,
		orDefault(title, "N/A"),
		orDefault(description, "N/A"),
		strconv.FormatFloat(target, 'f', -1, 64),
	)

	content, err := p.ai.Complete(callCtx, completionSystemPrompt, prompt)
	if err != nil {
		p.logger.InfoWithError(ctx, "AI analysis unavailable, falling back to rules", err)
		return Assessment{}, false
	}

	assessment, err := parseAssessment(content)
	if err != nil {
		p.logger.InfoWithError(ctx, "AI response unparsable, falling back to rules", err)
		return Assessment{}, false
	}
	return assessment, true
}

// applyCreatorAdjustment blends creator signals into an AI assessment. The
// AI's own factors keep priority; creator-derived ones fill remaining slots.
func applyCreatorAdjustment(assessment Assessment, profile *CreatorProfile) Assessment {
	delta, riskFactors, recommendations := creatorSignals(profile)
	if profile == nil {
		return assessment
	}
	assessment.TrustScore = clampScore(assessment.TrustScore + delta)
	assessment.RiskFactors = truncateList(append(assessment.RiskFactors, riskFactors...))
	assessment.Recommendations = truncateList(append(assessment.Recommendations, recommendations...))
	return assessment
}

// parseAssessment decodes the AI payload with defaults: a bad score falls back
// to neutral, non-string list entries are dropped, missing sentiment reads
// NEUTRAL. Only undecodable JSON is an error.
func parseAssessment(content string) (Assessment, error) {
	var payload struct {
		TrustScore      interface{}   `json:"trustScore"`
		RiskFactors     []interface{} `json:"riskFactors"`
		Recommendations []interface{} `json:"recommendations"`
		Sentiment       string        `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return Assessment{}, fmt.Errorf("failed to decode AI payload: %w", err)
	}

	score := 50
	switch v := payload.TrustScore.(type) {
	case float64:
		score = roundScore(v)
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			score = roundScore(parsed)
		}
	}

	sentiment := payload.Sentiment
	if sentiment == "" {
		sentiment = "NEUTRAL"
	}

	return Assessment{
		TrustScore:      score,
		RiskFactors:     stringEntries(payload.RiskFactors),
		Recommendations: stringEntries(payload.Recommendations),
		Sentiment:       strings.ToUpper(sentiment),
		AnalyzedAt:      time.Now(),
		AnalysisMethod:  MethodExternalAI,
	}, nil
}

func stringEntries(values []interface{}) []string {
	var entries []string
	for _, value := range values {
		if s, ok := value.(string); ok {
			entries = append(entries, s)
			if len(entries) == maxListEntries {
				break
			}
		}
	}
	return entries
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
