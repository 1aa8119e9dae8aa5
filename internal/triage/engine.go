package triage

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"recon-engine/internal/config"
	"recon-engine/internal/domain"
	"recon-engine/internal/taxonomy"
)

// RoutingSource supplies the learned routing preference consulted when the
// business rules leave the route undetermined, and records the chosen action
// for later reward.
type RoutingSource interface {
	RoutePreference(exc domain.ExceptionCase) (domain.RoutingDestination, bool)
	RecordEpisode(exc domain.ExceptionCase, action domain.RoutingDestination)
}

// Engine combines classification, severity, and reason codes into a routing
// decision with priority and SLA.
type Engine struct {
	classifier *ExceptionClassifier
	severity   *SeverityScorer
	router     RoutingSource
	tax        *taxonomy.Registry
	cfg        config.Triage
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine creates a triage engine. router may be nil, in which case the
// severity-based defaults decide the fallback arm.
func NewEngine(classifier *ExceptionClassifier, severity *SeverityScorer, router RoutingSource, tax *taxonomy.Registry, cfg config.Triage, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		classifier: classifier,
		severity:   severity,
		router:     router,
		tax:        tax,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Triage produces the outcome for one exception and records the chosen route
// with the learner.
func (e *Engine) Triage(exc domain.ExceptionCase) domain.TriageOutcome {
	class := e.classifier.Classify(exc)
	sev := e.severity.Score(exc)

	route := e.route(exc, class, sev.Tier)
	priority := e.priority(class, sev.Tier, route)
	sla := e.slaHours(sev.Tier, route)

	outcome := domain.TriageOutcome{
		ExceptionID:       exc.ID,
		TradeID:           exc.TradeID,
		Severity:          sev.Tier,
		SeverityScore:     sev.Score,
		Route:             route,
		Priority:          priority,
		SLAHours:          sla,
		Classification:    class,
		RecommendedAction: e.recommendedAction(exc, class, route),
		TriagedAt:         e.now(),
	}
	assertOutcomeInvariants(outcome)

	if e.router != nil {
		e.router.RecordEpisode(exc, route)
	}
	e.logger.Info("exception triaged",
		zap.String("exception_id", exc.ID),
		zap.String("classification", string(class)),
		zap.String("severity", string(sev.Tier)),
		zap.String("route", string(route)),
		zap.Int("priority", priority))
	return outcome
}

// route is the deterministic rule ladder; first match wins. The learner is
// consulted only once every explicit rule has passed.
func (e *Engine) route(exc domain.ExceptionCase, class domain.TriageClassification, tier domain.SeverityTier) domain.RoutingDestination {
	switch {
	case class == domain.TriageAutoResolvable:
		return domain.RouteAutoResolve
	case tier == domain.SeverityCritical || class == domain.TriageComplianceIssue:
		return domain.RouteSeniorOps
	case e.tax.HasAuthCode(exc.ReasonCodes):
		return domain.RouteCompliance
	case tier == domain.SeverityHigh && class == domain.TriageOperationalIssue:
		return domain.RouteOpsDesk
	case class == domain.TriageDataQualityIssue:
		return domain.RouteOpsDesk
	case class == domain.TriageSystemIssue:
		return domain.RouteEngineering
	}

	if e.router != nil {
		if preferred, ok := e.router.RoutePreference(exc); ok {
			return preferred
		}
	}

	switch tier {
	case domain.SeverityMedium:
		return domain.RouteOpsDesk
	case domain.SeverityLow:
		return domain.RouteAutoResolve
	default:
		return domain.RouteOpsDesk
	}
}

// priority maps the severity tier to 1 (highest) through 5 (lowest), with
// the compliance and auto-resolvable overrides applied. The severity
// invariants always win over the overrides.
func (e *Engine) priority(class domain.TriageClassification, tier domain.SeverityTier, route domain.RoutingDestination) int {
	priority := map[domain.SeverityTier]int{
		domain.SeverityCritical: 1,
		domain.SeverityHigh:     2,
		domain.SeverityMedium:   3,
		domain.SeverityLow:      4,
	}[tier]

	if route == domain.RouteCompliance {
		priority = 1
	}
	if class == domain.TriageAutoResolvable {
		priority = 5
	}

	switch tier {
	case domain.SeverityCritical:
		priority = 1
	case domain.SeverityHigh:
		if priority > 2 {
			priority = 2
		}
	}
	return priority
}

// slaHours applies the base SLA table with the route-specific adjustments.
func (e *Engine) slaHours(tier domain.SeverityTier, route domain.RoutingDestination) int {
	base, ok := e.cfg.SLAHours[tier]
	if !ok {
		panic(fmt.Sprintf("triage: no SLA configured for severity tier %q", tier))
	}
	switch route {
	case domain.RouteAutoResolve:
		if base > e.cfg.AutoResolveSLACapHours {
			return e.cfg.AutoResolveSLACapHours
		}
		return base
	case domain.RouteCompliance:
		return e.cfg.ComplianceSLAHours
	case domain.RouteEngineering:
		return base * 2
	case domain.RouteOpsDesk, domain.RouteSeniorOps:
		return base
	default:
		panic(fmt.Sprintf("triage: unrecognized routing destination %q", route))
	}
}

// recommendedAction builds the free-text guidance from the dominant reason
// code's description.
func (e *Engine) recommendedAction(exc domain.ExceptionCase, class domain.TriageClassification, route domain.RoutingDestination) string {
	if class == domain.TriageAutoResolvable {
		return "Retry automatically; no manual action expected."
	}
	if code, ok := e.dominantReasonCode(exc.ReasonCodes); ok {
		return fmt.Sprintf("Investigate %s (%s) and work from the %s queue.",
			code, e.tax.Lookup(code).Description, route)
	}
	return fmt.Sprintf("Investigate %s reported by %s and work from the %s queue.",
		exc.Kind, exc.Component, route)
}

// dominantReasonCode is the code carrying the highest base severity weight,
// the same code that anchored the severity score.
func (e *Engine) dominantReasonCode(codes []domain.ReasonCode) (domain.ReasonCode, bool) {
	var best domain.ReasonCode
	bestWeight := -1.0
	for _, code := range codes {
		if w := e.tax.Lookup(code).BaseWeight; w > bestWeight {
			best = code
			bestWeight = w
		}
	}
	return best, bestWeight >= 0
}

// assertOutcomeInvariants fails loudly on contract violations: a tier that
// disagrees with its score band or a priority outside the tier's range means
// broken code, not a business condition.
func assertOutcomeInvariants(out domain.TriageOutcome) {
	if TierForScore(out.SeverityScore) != out.Severity {
		panic(fmt.Sprintf("triage: severity tier %s disagrees with score %.2f", out.Severity, out.SeverityScore))
	}
	if out.Severity == domain.SeverityCritical && out.Priority != 1 {
		panic(fmt.Sprintf("triage: CRITICAL outcome with priority %d", out.Priority))
	}
	if out.Severity == domain.SeverityHigh && out.Priority > 2 {
		panic(fmt.Sprintf("triage: HIGH outcome with priority %d", out.Priority))
	}
}
