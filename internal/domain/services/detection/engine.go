package detection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"suraksha-api/internal/domain/models"
	"suraksha-api/pkg/logger"
)

// SafeContentMessage is attached to LOW verdicts instead of invoking the
// generative analysis step.
const SafeContentMessage = "Content appears safe. No further analysis required."

// Classifier ranks candidate labels for a text by probability. Implemented
// by the remote zero-shot classifier client; replaced with a fake in tests.
type Classifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string) (models.ClassifierResult, error)
}

// Explainer produces a natural-language rationale for a verdict. Failures
// are recovered by the engine; implementations need no retry logic.
type Explainer interface {
	Explain(ctx context.Context, text string, label models.Label, level models.RiskLevel) (string, error)
}

// VerdictCache caches verdicts keyed by content hash. Lookup and store are
// both best-effort; implementations swallow their own transport errors.
type VerdictCache interface {
	GetVerdict(ctx context.Context, key string) (*models.Verdict, bool)
	SetVerdict(ctx context.Context, key string, v *models.Verdict)
}

// Config holds the fusion thresholds
type Config struct {
	RuleConfidenceFloor float64 // confidence floor applied on any rule hit
	HighThreshold       float64 // confidence >= this is HIGH
	MediumThreshold     float64 // confidence >= this (and < high) is MEDIUM
}

// DefaultConfig returns the standard fusion thresholds
func DefaultConfig() Config {
	return Config{
		RuleConfidenceFloor: 0.9,
		HighThreshold:       0.7,
		MediumThreshold:     0.4,
	}
}

// Engine fuses the deterministic rule signal with the probabilistic
// classifier signal into a single risk verdict. All collaborators are
// injected at construction and the engine holds no mutable state, so one
// instance serves concurrent requests.
type Engine struct {
	rules      *RuleMatcher
	classifier Classifier
	explainer  Explainer
	cache      VerdictCache // nil when caching is disabled
	config     Config
	logger     *logger.Logger
}

// NewEngine creates a fusion engine. cache may be nil.
func NewEngine(rules *RuleMatcher, classifier Classifier, explainer Explainer, cache VerdictCache, cfg Config, log *logger.Logger) *Engine {
	if cfg.RuleConfidenceFloor == 0 {
		cfg.RuleConfidenceFloor = 0.9
	}
	if cfg.HighThreshold == 0 {
		cfg.HighThreshold = 0.7
	}
	if cfg.MediumThreshold == 0 {
		cfg.MediumThreshold = 0.4
	}
	return &Engine{
		rules:      rules,
		classifier: classifier,
		explainer:  explainer,
		cache:      cache,
		config:     cfg,
		logger:     log.WithComponent("fusion-engine"),
	}
}

// Decide runs the full fusion pipeline over a piece of text. A classifier
// failure is fatal for the request and propagates; an explainer failure is
// recovered with a fallback message and never aborts the verdict.
func (e *Engine) Decide(ctx context.Context, text string) (*models.Verdict, error) {
	key := contentKey(text)
	if e.cache != nil {
		if v, ok := e.cache.GetVerdict(ctx, key); ok {
			e.logger.Debug().Str("key", key).Msg("verdict served from cache")
			return v, nil
		}
	}

	ruleHits := e.rules.Match(text)

	result, err := e.classifier.Classify(ctx, text, models.TaxonomyStrings())
	if err != nil {
		return nil, fmt.Errorf("zero-shot classification: %w", err)
	}
	topLabel, topScore := result.Top()
	if topLabel == "" {
		return nil, fmt.Errorf("classifier returned no labels")
	}

	// Fusion: a rule hit is a high-precision signal and dominates the label
	// choice; its confidence floor can be exceeded, never undercut, by the
	// classifier score.
	var (
		finalLabel models.Label
		confidence float64
		source     models.DecisionSource
	)
	if len(ruleHits) > 0 {
		finalLabel = ruleHits[0]
		confidence = math.Max(topScore, e.config.RuleConfidenceFloor)
		source = models.DecisionSourceRuleAndML
	} else {
		finalLabel = models.Label(topLabel)
		confidence = topScore
		source = models.DecisionSourceML
	}

	// Tier on the unrounded value so rounding cannot flip a boundary case
	level := e.riskLevel(confidence)

	verdict := &models.Verdict{
		PatternDetected: finalLabel,
		RiskLevel:       level,
		Confidence:      round3(confidence),
		RulesTriggered:  ruleHits,
		DecisionSource:  source,
	}

	if level == models.RiskLevelLow {
		verdict.Analysis = SafeContentMessage
	} else {
		analysis, err := e.explainer.Explain(ctx, text, finalLabel, level)
		if err != nil {
			e.logger.Warn().Err(err).Str("label", string(finalLabel)).Msg("risk analysis failed, using fallback")
			analysis = fmt.Sprintf("Automated analysis failed, but risk level is %s.", level)
		}
		verdict.Analysis = analysis
	}

	if e.cache != nil {
		e.cache.SetVerdict(ctx, key, verdict)
	}

	e.logger.Info().
		Str("label", string(finalLabel)).
		Str("risk_level", string(level)).
		Float64("confidence", verdict.Confidence).
		Str("source", string(source)).
		Int("rule_hits", len(ruleHits)).
		Msg("verdict computed")

	return verdict, nil
}

// riskLevel maps a confidence score to its tier. Lower bounds are inclusive.
func (e *Engine) riskLevel(confidence float64) models.RiskLevel {
	switch {
	case confidence >= e.config.HighThreshold:
		return models.RiskLevelHigh
	case confidence >= e.config.MediumThreshold:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// contentKey derives the cache key for a text. Hashing the normalized text
// keeps raw user content out of Redis keys.
func contentKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(text)))
	return hex.EncodeToString(sum[:])
}
