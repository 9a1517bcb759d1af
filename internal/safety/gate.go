// Package safety implements the deterministic risk-rule engine that runs
// before any plan generation. It is pure rule-based logic, never AI, and is
// conservative by default: rules may only escalate clearance, never relax it.
package safety

import (
	"strings"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// highRiskMedications are matched as case-insensitive substrings against the
// user's medication list. Any hit suggests a GP referral.
var highRiskMedications = []string{
	"warfarin", "insulin", "lithium", "methotrexate", "digoxin",
	"prednisone", "chemotherapy", "beta-blockers", "ssri", "snri",
}

// effect is the partial result one rule contributes. Effects are merged into
// the accumulator in rule order; clearance merging is escalation-only.
type effect struct {
	escalateTo          domain.SafetyLevel // zero value means no escalation
	blockedFeatures     []domain.BlockedFeature
	warnings            []domain.SafetyWarning
	modifications       []domain.PlanModification
	gpReferralSuggested bool
	gpReferralReason    string
}

// rule pairs a predicate over an immutable UCO with the effect applied when
// it fires. Rules are independent: no rule inspects another rule's output.
type rule struct {
	id     string
	fires  func(uco *domain.UserContextObject) bool
	effect func(uco *domain.UserContextObject) effect
}

func hasActiveInjury(uco *domain.UserContextObject, bodyParts ...string) bool {
	for _, inj := range uco.Health.Injuries {
		if !inj.IsActive {
			continue
		}
		for _, bp := range bodyParts {
			if inj.BodyPart == bp {
				return true
			}
		}
	}
	return false
}

// rules is the ordered rule list. Order matters only for output stability;
// every rule sees the same input snapshot.
var rules = []rule{
	{
		id: "eating_disorder_risk",
		fires: func(uco *domain.UserContextObject) bool {
			return uco.Health.EatingDisorderRisk
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				escalateTo: domain.ClearanceModified,
				blockedFeatures: []domain.BlockedFeature{
					{Feature: "caloric_deficit", Reason: "Eating disorder risk detected"},
				},
				modifications: []domain.PlanModification{
					{Type: domain.ModChangeFraming, Description: "Reframe from \"weight loss\" to \"health & energy\""},
					{Type: domain.ModBlockFeature, Description: "Hide target weight field"},
				},
				warnings: []domain.SafetyWarning{
					{Code: "ED_RISK", Message: "Support resources will be shown", Severity: domain.SeverityCritical},
				},
			}
		},
	},
	{
		id: "severely_underweight",
		fires: func(uco *domain.UserContextObject) bool {
			return uco.Physical.BMI < 16
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				escalateTo:          domain.ClearanceModified,
				gpReferralSuggested: true,
				gpReferralReason:    "BMI below 16 — medical evaluation recommended",
				blockedFeatures: []domain.BlockedFeature{
					{Feature: "weight_loss_goal", Reason: "BMI critically low"},
				},
				modifications: []domain.PlanModification{
					{Type: domain.ModChangeFraming, Description: "Redirect to maintenance/health program only"},
				},
			}
		},
	},
	{
		id: "active_spine_injury",
		fires: func(uco *domain.UserContextObject) bool {
			return hasActiveInjury(uco, "spine")
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				escalateTo: domain.ClearanceModified,
				modifications: []domain.PlanModification{
					{
						Type:        domain.ModRestrictExercises,
						Description: "Spine injury — high-load spinal exercises excluded",
						ExcludeTags: []string{"spinal_load", "deadlift", "squat_barbell", "overhead_press"},
					},
				},
			}
		},
	},
	{
		id: "active_knee_injury",
		fires: func(uco *domain.UserContextObject) bool {
			return hasActiveInjury(uco, "knee", "knees")
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				escalateTo: domain.ClearanceModified,
				modifications: []domain.PlanModification{
					{
						Type:        domain.ModRestrictExercises,
						Description: "Knee injury — impact and heavy leg exercises excluded",
						ExcludeTags: []string{"high_impact", "jump", "deep_squat", "lunge_heavy"},
					},
				},
			}
		},
	},
	{
		id: "high_risk_medication",
		fires: func(uco *domain.UserContextObject) bool {
			for _, med := range uco.Health.Medications {
				lower := strings.ToLower(med)
				for _, risk := range highRiskMedications {
					if strings.Contains(lower, risk) {
						return true
					}
				}
			}
			return false
		},
		effect: func(*domain.UserContextObject) effect {
			// Does not alone force modified clearance.
			return effect{
				gpReferralSuggested: true,
				gpReferralReason:    "On high-risk medication — consult doctor before starting",
				warnings: []domain.SafetyWarning{
					{Code: "MED_FLAG", Message: "Consult doctor before starting program", Severity: domain.SeverityWarning},
				},
			}
		},
	},
	{
		id: "severe_obesity",
		fires: func(uco *domain.UserContextObject) bool {
			return uco.Physical.BMI > 40
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				escalateTo: domain.ClearanceModified,
				modifications: []domain.PlanModification{
					{
						Type:        domain.ModRestrictExercises,
						Description: "High-impact exercises modified for joint safety",
						ExcludeTags: []string{"high_impact", "jump", "run"},
					},
				},
				warnings: []domain.SafetyWarning{
					{Code: "OBESITY_MODIFIED", Message: "Plan adjusted for joint safety — low-impact exercises prioritized", Severity: domain.SeverityInfo},
				},
			}
		},
	},
	{
		id: "extreme_stress",
		fires: func(uco *domain.UserContextObject) bool {
			return uco.Lifestyle.StressLevel >= 5
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				warnings: []domain.SafetyWarning{
					{Code: "HIGH_STRESS", Message: "High stress detected — plan intensity reduced, recovery exercises added", Severity: domain.SeverityWarning},
				},
				modifications: []domain.PlanModification{
					{Type: domain.ModReduceIntensity, Description: "Reduce overall volume by 30%, prioritize yoga/walking"},
				},
			}
		},
	},
	{
		id: "very_low_sleep",
		fires: func(uco *domain.UserContextObject) bool {
			return uco.Lifestyle.SleepHours < 5
		},
		effect: func(*domain.UserContextObject) effect {
			return effect{
				warnings: []domain.SafetyWarning{
					{Code: "LOW_SLEEP", Message: "Sleep below 5 hours — intensity reduced to prevent overtraining", Severity: domain.SeverityWarning},
				},
				modifications: []domain.PlanModification{
					{Type: domain.ModReduceIntensity, Description: "Cap workout intensity at moderate until sleep improves"},
				},
			}
		},
	},
}

// Evaluate runs the full rule list against a UCO snapshot and returns the
// merged result. Evaluation is total: it never fails and performs no I/O.
func Evaluate(uco *domain.UserContextObject) domain.SafetyGateResult {
	result := domain.SafetyGateResult{
		Clearance:             domain.ClearanceFull,
		BlockedFeatures:       []domain.BlockedFeature{},
		Warnings:              []domain.SafetyWarning{},
		RequiredModifications: []domain.PlanModification{},
	}

	for _, r := range rules {
		if !r.fires(uco) {
			continue
		}
		e := r.effect(uco)

		// Escalation-only: a rule can raise clearance but never lower what an
		// earlier rule already set.
		if e.escalateTo != "" && e.escalateTo.Rank() > result.Clearance.Rank() {
			result.Clearance = e.escalateTo
		}
		result.BlockedFeatures = append(result.BlockedFeatures, e.blockedFeatures...)
		result.Warnings = append(result.Warnings, e.warnings...)
		result.RequiredModifications = append(result.RequiredModifications, e.modifications...)
		if e.gpReferralSuggested {
			result.GPReferralSuggested = true
			result.GPReferralReason = e.gpReferralReason
		}
	}

	// Display message depends only on the final clearance.
	switch result.Clearance {
	case domain.ClearanceBlocked:
		result.DisplayMessage = "Your plan generation is paused for safety. Please consult a healthcare professional."
	case domain.ClearanceModified:
		result.DisplayMessage = "Your plan has been adjusted for your safety. See details below."
	}

	return result
}
