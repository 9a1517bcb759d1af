package progression

import (
	"github.com/Divyansh-9/Urja/internal/domain"
)

// DeloadDecision reports whether a deload week is due and exactly one reason
// when it is.
type DeloadDecision struct {
	Deload bool
	Reason string
}

// Deload detection reasons, in evaluation order.
const (
	deloadReasonEnergy    = "Average energy below 2.5 for 3 weeks — recovery needed."
	deloadReasonAdherence = "Adherence below 50% for 3 weeks — plan may be too demanding."
	deloadReasonScheduled = "Scheduled deload week for recovery and adaptation."
)

// ShouldDeload checks the rolling weekly history for deload conditions:
// 3-week average energy under 2.5, 3-week adherence under 50%, or the hard
// schedule rule every 4th week regardless of performance. The first matching
// condition wins; exactly one reason is reported.
func ShouldDeload(history domain.WorkoutHistory) DeloadDecision {
	week := len(history.WeeklyLogs)

	if week >= 3 {
		recent := history.WeeklyLogs[week-3:]

		var energySum, adherenceSum float64
		for _, w := range recent {
			energySum += w.AvgEnergyLevel
			if w.PlannedSessions > 0 {
				adherenceSum += float64(w.CompletedSessions) / float64(w.PlannedSessions)
			}
		}

		if energySum/3 < 2.5 {
			return DeloadDecision{Deload: true, Reason: deloadReasonEnergy}
		}
		if adherenceSum/3 < 0.5 {
			return DeloadDecision{Deload: true, Reason: deloadReasonAdherence}
		}
	}

	// Hard schedule rule fires every 4th week independent of performance.
	if week > 0 && week%4 == 0 {
		return DeloadDecision{Deload: true, Reason: deloadReasonScheduled}
	}

	return DeloadDecision{}
}
