// Package eligibility narrows the read-only exercise and food pools to the
// candidates that are safe and feasible for one user. Filters are pure,
// order-independent and deterministic: identical inputs yield an identical,
// order-stable output (input order is preserved).
package eligibility

import (
	"github.com/Divyansh-9/Urja/internal/domain"
)

func containsEquipment(haystack []domain.Equipment, needle domain.Equipment) bool {
	for _, eq := range haystack {
		if eq == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// noiseCompatible checks the exercise noise class against the requested
// ceiling. A silent ceiling allows only silent exercises; a low ceiling
// excludes normal-noise exercises.
func noiseCompatible(ceiling, level domain.NoiseLevel) bool {
	switch ceiling {
	case domain.NoiseSilent:
		return level == domain.NoiseSilent
	case domain.NoiseLow:
		return level != domain.NoiseNormal
	default:
		return true
	}
}

// spaceCompatible checks the exercise space class against the requested
// ceiling. Minimal and medium ceilings both exclude full-space exercises.
func spaceCompatible(ceiling, required domain.SpaceRequired) bool {
	switch ceiling {
	case domain.SpaceMinimal, domain.SpaceMedium:
		return required != domain.SpaceFull
	default:
		return true
	}
}

// eligible reports whether one exercise passes every constraint.
func eligible(ex domain.Exercise, c domain.ExerciseConstraints) bool {
	// Equipment: the user must have ALL required equipment. No required
	// equipment trivially passes.
	for _, eq := range ex.EquipmentRequired {
		if !containsEquipment(c.EquipmentAvailable, eq) {
			return false
		}
	}

	// Tag exclusion (safety gate output plus track overrides)
	if intersects(ex.Tags, c.ExcludedTags) {
		return false
	}

	// Body-part exclusion (active injuries)
	if intersects(ex.MuscleGroups, c.ExcludedBodyParts) {
		return false
	}

	if ex.Difficulty < c.DifficultyMin || ex.Difficulty > c.DifficultyMax {
		return false
	}

	if !noiseCompatible(c.NoiseLevel, ex.NoiseLevel) {
		return false
	}
	if !spaceCompatible(c.SpaceRequired, ex.SpaceRequired) {
		return false
	}

	// Optional target-muscle filter: at least one group must match.
	if len(c.TargetMuscleGroups) > 0 && !intersects(ex.MuscleGroups, c.TargetMuscleGroups) {
		return false
	}

	return true
}

// FilterExercises returns the subset of the pool passing every constraint,
// preserving pool order.
func FilterExercises(pool []domain.Exercise, c domain.ExerciseConstraints) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(pool))
	for _, ex := range pool {
		if eligible(ex, c) {
			out = append(out, ex)
		}
	}
	return out
}

// Alternatives ranks eligible substitutes for an exercise by muscle-group
// overlap, best matches first, capped at limit. The target exercise itself is
// never returned. Ties keep pool order so output stays deterministic.
func Alternatives(exerciseSlug string, pool []domain.Exercise, c domain.ExerciseConstraints, limit int) []domain.Exercise {
	var target *domain.Exercise
	for i := range pool {
		if pool[i].Slug == exerciseSlug {
			target = &pool[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	type scored struct {
		ex    domain.Exercise
		score int
	}
	var candidates []scored
	for _, ex := range FilterExercises(pool, c) {
		if ex.Slug == exerciseSlug {
			continue
		}
		score := 0
		for _, mg := range ex.MuscleGroups {
			for _, tmg := range target.MuscleGroups {
				if mg == tmg {
					score++
				}
			}
		}
		candidates = append(candidates, scored{ex: ex, score: score})
	}

	// Stable insertion sort by descending score; pools are small.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	if limit <= 0 {
		limit = 5
	}
	out := make([]domain.Exercise, 0, limit)
	for _, cand := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, cand.ex)
	}
	return out
}

// HostelConstraints returns the environment-driven constraint preset for a
// hostel room. Shared rooms and dorms force silence and exclude noisy
// floor-work tags on top of the space restriction.
func HostelConstraints(roomType domain.RoomType) domain.ExerciseConstraints {
	c := domain.ExerciseConstraints{
		SpaceRequired: domain.SpaceMinimal,
		ExcludedTags:  []string{"high_impact", "jump", "run"},
	}
	if roomType == domain.RoomShared || roomType == domain.RoomDorm {
		c.NoiseLevel = domain.NoiseSilent
		c.ExcludedTags = append(c.ExcludedTags, "clapping", "stomping")
	} else {
		c.NoiseLevel = domain.NoiseLow
	}
	return c
}
