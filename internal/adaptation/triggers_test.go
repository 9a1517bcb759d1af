package adaptation

import (
	"testing"

	"github.com/Divyansh-9/Urja/internal/domain"
)

func checkIn(energy int, sleep float64, stress int) domain.CheckIn {
	return domain.CheckIn{EnergyLevel: energy, SleepHours: sleep, StressLevel: stress}
}

func hasTrigger(triggers []domain.AdaptationTrigger, typ domain.TriggerType) bool {
	for _, tr := range triggers {
		if tr.Type == typ {
			return true
		}
	}
	return false
}

func TestEvaluate_EmptyHistoryYieldsNoTriggers(t *testing.T) {
	got := Evaluate(checkIn(3, 7, 2), nil)
	if len(got) != 0 {
		t.Fatalf("want no triggers, got %+v", got)
	}
}

func TestEvaluate_ThreeLowEnergyDaysSuggestDeload(t *testing.T) {
	history := []domain.CheckIn{checkIn(2, 7, 2), checkIn(1, 7, 2), checkIn(2, 7, 2)}

	got := Evaluate(checkIn(2, 7, 2), history)
	if !hasTrigger(got, domain.TriggerDeload) {
		t.Fatalf("want deload trigger, got %+v", got)
	}
	for _, tr := range got {
		if tr.Type == domain.TriggerDeload && tr.Severity != domain.TriggerModerate {
			t.Fatalf("deload severity = %q, want moderate", tr.Severity)
		}
	}
}

func TestEvaluate_TwoLowEnergyDaysDoNot(t *testing.T) {
	history := []domain.CheckIn{checkIn(2, 7, 2), checkIn(1, 7, 2), checkIn(4, 7, 2)}
	if got := Evaluate(checkIn(2, 7, 2), history); hasTrigger(got, domain.TriggerDeload) {
		t.Fatalf("only 2 consecutive low-energy days, deload must not fire")
	}
}

func TestEvaluate_TwoShortSleepNightsReduceIntensity(t *testing.T) {
	history := []domain.CheckIn{checkIn(3, 4.5, 2), checkIn(3, 4, 2)}

	got := Evaluate(checkIn(3, 6, 2), history)
	if !hasTrigger(got, domain.TriggerReduceIntensity) {
		t.Fatalf("want reduce_intensity trigger, got %+v", got)
	}
}

func TestEvaluate_ExamWeekFlagOnCurrentCheckIn(t *testing.T) {
	current := checkIn(4, 8, 2)
	current.ExamWeek = true

	got := Evaluate(current, nil)
	if !hasTrigger(got, domain.TriggerExamMode) {
		t.Fatalf("want exam_mode trigger, got %+v", got)
	}
	for _, tr := range got {
		if tr.Type == domain.TriggerExamMode && tr.Severity != domain.TriggerMild {
			t.Fatalf("exam_mode severity = %q, want mild", tr.Severity)
		}
	}
}

func TestEvaluate_ThreeHighStressDaysAddRecovery(t *testing.T) {
	history := []domain.CheckIn{checkIn(3, 7, 4), checkIn(3, 7, 5), checkIn(3, 7, 4)}

	got := Evaluate(checkIn(3, 7, 4), history)
	if !hasTrigger(got, domain.TriggerAddRecovery) {
		t.Fatalf("want add_recovery trigger, got %+v", got)
	}
}

func TestEvaluate_TriggersCoOccur(t *testing.T) {
	current := checkIn(1, 4, 5)
	current.ExamWeek = true
	history := []domain.CheckIn{checkIn(1, 4, 5), checkIn(2, 4.5, 4), checkIn(1, 4, 4)}

	got := Evaluate(current, history)
	for _, want := range []domain.TriggerType{domain.TriggerDeload, domain.TriggerReduceIntensity, domain.TriggerExamMode, domain.TriggerAddRecovery} {
		if !hasTrigger(got, want) {
			t.Fatalf("missing co-occurring trigger %q in %+v", want, got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("want exactly 4 triggers, got %d", len(got))
	}
}
