// Package adaptation evaluates recent check-in history and emits advisory
// triggers that an existing plan should be overridden. Triggers are additive
// and independent; evaluation is total and never fails, since insufficient
// history simply yields zero triggers.
package adaptation

import (
	"github.com/Divyansh-9/Urja/internal/domain"
)

// Evaluate runs over the current check-in plus the trailing history window
// (newest first, typically the last 2–7 entries) and returns every trigger
// that fires. No precedence ordering: each trigger is advisory.
func Evaluate(current domain.CheckIn, history []domain.CheckIn) []domain.AdaptationTrigger {
	triggers := []domain.AdaptationTrigger{}

	// 3 consecutive days of energy ≤ 2 → suggest deload
	if consecutive(history, 3, func(c domain.CheckIn) bool { return c.EnergyLevel <= 2 }) {
		triggers = append(triggers, domain.AdaptationTrigger{
			Type:     domain.TriggerDeload,
			Reason:   "Energy has been very low for 3 days. Suggesting a deload week to recover.",
			Severity: domain.TriggerModerate,
		})
	}

	// Sleep under 5 hours for 2 days → reduce intensity
	if consecutive(history, 2, func(c domain.CheckIn) bool { return c.SleepHours < 5 }) {
		triggers = append(triggers, domain.AdaptationTrigger{
			Type:     domain.TriggerReduceIntensity,
			Reason:   "Sleep has been under 5 hours for 2 days. Reducing workout intensity today.",
			Severity: domain.TriggerModerate,
		})
	}

	// Exam week flagged on the current check-in → switch to exam mode
	if current.ExamWeek {
		triggers = append(triggers, domain.AdaptationTrigger{
			Type:     domain.TriggerExamMode,
			Reason:   "Exam week detected. Switching to a lighter 2-day plan to prioritize rest and focus.",
			Severity: domain.TriggerMild,
		})
	}

	// Stress ≥ 4 for 3 days → add recovery sessions
	if consecutive(history, 3, func(c domain.CheckIn) bool { return c.StressLevel >= 4 }) {
		triggers = append(triggers, domain.AdaptationTrigger{
			Type:     domain.TriggerAddRecovery,
			Reason:   "High stress detected for 3 consecutive days. Adding yoga/walking as recovery sessions.",
			Severity: domain.TriggerModerate,
		})
	}

	return triggers
}

// consecutive reports whether the newest n history entries all satisfy pred.
// Fewer than n entries never fires.
func consecutive(history []domain.CheckIn, n int, pred func(domain.CheckIn) bool) bool {
	if len(history) < n {
		return false
	}
	for _, c := range history[:n] {
		if !pred(c) {
			return false
		}
	}
	return true
}
