// internal/domain/safety.go
package domain

// SafetyLevel is the Safety Gate's ordinal clearance classification. Levels
// are totally ordered; within one evaluation clearance may only escalate.
type SafetyLevel string

const (
	ClearanceFull        SafetyLevel = "full"
	ClearanceModified    SafetyLevel = "modified"
	ClearanceMedicalOnly SafetyLevel = "medical_only"
	ClearanceBlocked     SafetyLevel = "blocked"
)

// clearanceRank orders clearance levels for escalation-only merging.
var clearanceRank = map[SafetyLevel]int{
	ClearanceFull:        0,
	ClearanceModified:    1,
	ClearanceMedicalOnly: 2,
	ClearanceBlocked:     3,
}

// Rank returns the escalation rank of a level (full=0 … blocked=3).
func (l SafetyLevel) Rank() int {
	return clearanceRank[l]
}

// AtLeast reports whether l is at or above other in the escalation order.
func (l SafetyLevel) AtLeast(other SafetyLevel) bool {
	return l.Rank() >= other.Rank()
}

// WarningSeverity grades safety warnings.
type WarningSeverity string

const (
	SeverityInfo     WarningSeverity = "info"
	SeverityWarning  WarningSeverity = "warning"
	SeverityCritical WarningSeverity = "critical"
)

// ModificationType is the kind of mandated plan modification.
type ModificationType string

const (
	ModRestrictExercises ModificationType = "restrict_exercises"
	ModReduceIntensity   ModificationType = "reduce_intensity"
	ModChangeFraming     ModificationType = "change_framing"
	ModBlockFeature      ModificationType = "block_feature"
)

// BlockedFeature names a plan feature the gate forbids, with the reason.
type BlockedFeature struct {
	Feature string `json:"feature"`
	Reason  string `json:"reason"`
}

// SafetyWarning is one warning emitted by a safety rule.
type SafetyWarning struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Severity WarningSeverity `json:"severity"`
}

// PlanModification is a typed action the downstream pipeline must apply.
type PlanModification struct {
	Type        ModificationType `json:"type"`
	Description string           `json:"description"`
	ExcludeTags []string         `json:"excludeTags,omitempty"`
}

// SafetyGateResult is produced fresh per evaluation from a UCO snapshot.
// It is never persisted as mutable state.
type SafetyGateResult struct {
	Clearance             SafetyLevel        `json:"clearance"`
	BlockedFeatures       []BlockedFeature   `json:"blockedFeatures"`
	Warnings              []SafetyWarning    `json:"warnings"`
	RequiredModifications []PlanModification `json:"requiredModifications"`
	GPReferralSuggested   bool               `json:"gpReferralSuggested"`
	GPReferralReason      string             `json:"gpReferralReason,omitempty"`
	DisplayMessage        string             `json:"displayMessage,omitempty"`
}

// ExcludedExerciseTags flattens the exclude-tag lists of every
// restrict_exercises modification in the result.
func (r *SafetyGateResult) ExcludedExerciseTags() []string {
	var tags []string
	for _, mod := range r.RequiredModifications {
		if mod.Type == ModRestrictExercises {
			tags = append(tags, mod.ExcludeTags...)
		}
	}
	return tags
}

// FeatureBlocked reports whether the named feature was blocked.
func (r *SafetyGateResult) FeatureBlocked(feature string) bool {
	for _, bf := range r.BlockedFeatures {
		if bf.Feature == feature {
			return true
		}
	}
	return false
}
