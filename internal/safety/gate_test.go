package safety

import (
	"testing"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// baselineUCO returns a UCO that fires no safety rules.
func baselineUCO() *domain.UserContextObject {
	return &domain.UserContextObject{
		Physical: domain.Physical{Age: 22, Sex: domain.SexMale, HeightCm: 175, WeightKg: 70, BMI: 22.9},
		Lifestyle: domain.Lifestyle{
			SleepHours:  7,
			StressLevel: 2,
		},
	}
}

func TestEvaluate_CleanProfileIsFullClearance(t *testing.T) {
	res := Evaluate(baselineUCO())
	if res.Clearance != domain.ClearanceFull {
		t.Fatalf("clearance = %q, want full", res.Clearance)
	}
	if len(res.Warnings) != 0 || len(res.RequiredModifications) != 0 {
		t.Fatalf("expected no warnings/modifications, got %d/%d", len(res.Warnings), len(res.RequiredModifications))
	}
	if res.DisplayMessage != "" {
		t.Fatalf("expected no display message for full clearance, got %q", res.DisplayMessage)
	}
}

func TestEvaluate_EatingDisorderRisk(t *testing.T) {
	uco := baselineUCO()
	uco.Health.EatingDisorderRisk = true

	res := Evaluate(uco)
	if !res.Clearance.AtLeast(domain.ClearanceModified) {
		t.Fatalf("clearance = %q, want at least modified", res.Clearance)
	}
	if !res.FeatureBlocked("caloric_deficit") {
		t.Fatalf("caloric_deficit feature not blocked")
	}
	var critical bool
	for _, w := range res.Warnings {
		if w.Code == "ED_RISK" && w.Severity == domain.SeverityCritical {
			critical = true
		}
	}
	if !critical {
		t.Fatalf("missing critical ED_RISK warning: %+v", res.Warnings)
	}
}

func TestEvaluate_UnderweightSuggestsGPReferral(t *testing.T) {
	uco := baselineUCO()
	uco.Physical.BMI = 15.5

	res := Evaluate(uco)
	if res.Clearance != domain.ClearanceModified {
		t.Fatalf("clearance = %q, want modified", res.Clearance)
	}
	if !res.GPReferralSuggested {
		t.Fatalf("expected GP referral suggestion")
	}
	if res.GPReferralReason != "BMI below 16 — medical evaluation recommended" {
		t.Fatalf("unexpected referral reason: %q", res.GPReferralReason)
	}
	if !res.FeatureBlocked("weight_loss_goal") {
		t.Fatalf("weight_loss_goal not blocked")
	}
}

func TestEvaluate_SpineInjuryRestrictsTags(t *testing.T) {
	uco := baselineUCO()
	uco.Health.Injuries = []domain.Injury{{BodyPart: "spine", Severity: "moderate", IsActive: true}}

	res := Evaluate(uco)
	if res.Clearance != domain.ClearanceModified {
		t.Fatalf("clearance = %q, want modified", res.Clearance)
	}
	tags := res.ExcludedExerciseTags()
	for _, want := range []string{"spinal_load", "deadlift", "squat_barbell", "overhead_press"} {
		found := false
		for _, tag := range tags {
			if tag == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("excluded tags missing %q: %v", want, tags)
		}
	}
}

func TestEvaluate_InactiveInjuryDoesNotFire(t *testing.T) {
	uco := baselineUCO()
	uco.Health.Injuries = []domain.Injury{{BodyPart: "knee", Severity: "mild", IsActive: false}}

	res := Evaluate(uco)
	if res.Clearance != domain.ClearanceFull {
		t.Fatalf("clearance = %q, want full for inactive injury", res.Clearance)
	}
}

func TestEvaluate_MedicationMatchIsCaseInsensitiveSubstring(t *testing.T) {
	uco := baselineUCO()
	uco.Health.Medications = []string{"Metoprolol (Beta-Blockers)"}

	res := Evaluate(uco)
	if !res.GPReferralSuggested {
		t.Fatalf("expected GP referral for beta-blocker match")
	}
	// Medication alone never escalates clearance.
	if res.Clearance != domain.ClearanceFull {
		t.Fatalf("clearance = %q, want full", res.Clearance)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Severity != domain.SeverityWarning {
		t.Fatalf("want single warning-severity MED_FLAG, got %+v", res.Warnings)
	}
}

func TestEvaluate_StressAndSleepReduceIntensityWithoutEscalation(t *testing.T) {
	uco := baselineUCO()
	uco.Lifestyle.StressLevel = 5
	uco.Lifestyle.SleepHours = 4

	res := Evaluate(uco)
	if res.Clearance != domain.ClearanceFull {
		t.Fatalf("clearance = %q, want full (stress/sleep never escalate)", res.Clearance)
	}
	var reduceCount int
	for _, mod := range res.RequiredModifications {
		if mod.Type == domain.ModReduceIntensity {
			reduceCount++
		}
	}
	if reduceCount != 2 {
		t.Fatalf("want 2 reduce_intensity modifications, got %d", reduceCount)
	}
}

func TestEvaluate_ObesityRestrictsImpact(t *testing.T) {
	uco := baselineUCO()
	uco.Physical.BMI = 41.2

	res := Evaluate(uco)
	if res.Clearance != domain.ClearanceModified {
		t.Fatalf("clearance = %q, want modified", res.Clearance)
	}
	tags := res.ExcludedExerciseTags()
	if len(tags) != 3 {
		t.Fatalf("want 3 excluded tags, got %v", tags)
	}
	if res.DisplayMessage == "" {
		t.Fatalf("modified clearance must carry a display message")
	}
}

// Adding risk flags must never lower clearance relative to a subset of the
// same flags.
func TestEvaluate_EscalationIsMonotone(t *testing.T) {
	base := baselineUCO()
	base.Health.EatingDisorderRisk = true
	baseRes := Evaluate(base)

	more := baselineUCO()
	more.Health.EatingDisorderRisk = true
	more.Physical.BMI = 15.0
	more.Lifestyle.StressLevel = 5
	more.Lifestyle.SleepHours = 3
	more.Health.Medications = []string{"warfarin"}
	more.Health.Injuries = []domain.Injury{{BodyPart: "spine", IsActive: true}}
	moreRes := Evaluate(more)

	if moreRes.Clearance.Rank() < baseRes.Clearance.Rank() {
		t.Fatalf("adding risk flags lowered clearance: %q -> %q", baseRes.Clearance, moreRes.Clearance)
	}
	if len(moreRes.Warnings) < len(baseRes.Warnings) {
		t.Fatalf("adding risk flags dropped warnings")
	}
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	uco := baselineUCO()
	uco.Health.EatingDisorderRisk = true
	uco.Physical.BMI = 15.0
	uco.Health.Injuries = []domain.Injury{{BodyPart: "knee", IsActive: true}}

	first := Evaluate(uco)
	for i := 0; i < 5; i++ {
		again := Evaluate(uco)
		if again.Clearance != first.Clearance ||
			len(again.Warnings) != len(first.Warnings) ||
			len(again.RequiredModifications) != len(first.RequiredModifications) {
			t.Fatalf("evaluation not deterministic: %+v vs %+v", first, again)
		}
	}
}
