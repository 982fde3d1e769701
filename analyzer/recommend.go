package analyzer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/domain"
)

var (
	fairnessConcernThreshold = decimal.NewFromInt(40)
	denyRiskRatioThreshold   = decimal.NewFromFloat(0.5)
)

// synthesizeRecommendation implements §4.5's first-match-wins recommendation
// rule.
func synthesizeRecommendation(coverage domain.CoverageImpact, fairness domain.FairnessAssessment, conflicts []domain.ScheduleConflict, policy domain.PolicyCompliance) (domain.Recommendation, string) {
	if c, ok := hasHighSeverity(conflicts); ok {
		return domain.RecommendDeny, fmt.Sprintf("%s conflict on %s: %s", c.Type, c.Date, c.Description)
	}

	if len(policy.Violations) >= 2 {
		return domain.RecommendDeny, fmt.Sprintf("multiple policy violations: %v", policy.Violations)
	}

	if coverage.RiskLevel == domain.RiskHigh && coverage.Ratio.LessThan(denyRiskRatioThreshold) {
		return domain.RecommendDeny, fmt.Sprintf("coverage risk High with ratio %s", coverage.Ratio)
	}

	concerns := 0
	if coverage.RiskLevel == domain.RiskMedium {
		concerns++
	}
	if fairness.Score.LessThan(fairnessConcernThreshold) {
		concerns++
	}
	if len(conflicts) > 0 {
		concerns++
	}
	if !policy.Compliant() {
		concerns++
	}

	if concerns >= 1 {
		return domain.RecommendFlagged, fmt.Sprintf("%d concern(s) flagged for review", concerns)
	}

	return domain.RecommendApprove, "no conflicts, coverage, fairness, or policy concerns"
}
