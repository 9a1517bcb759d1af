// internal/domain/exercise.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Equipment is a piece of training equipment an exercise may require.
type Equipment string

const (
	EquipmentNone            Equipment = "none"
	EquipmentResistanceBands Equipment = "resistance_bands"
	EquipmentDumbbells       Equipment = "dumbbells"
	EquipmentBarbell         Equipment = "barbell"
	EquipmentPullUpBar       Equipment = "pull_up_bar"
	EquipmentBench           Equipment = "bench"
	EquipmentKettlebell      Equipment = "kettlebell"
	EquipmentYogaMat         Equipment = "yoga_mat"
	EquipmentJumpRope        Equipment = "jump_rope"
)

// NoiseLevel classifies how loud an exercise is (hostel-room concern).
type NoiseLevel string

const (
	NoiseSilent NoiseLevel = "silent"
	NoiseLow    NoiseLevel = "low"
	NoiseNormal NoiseLevel = "normal"
)

// SpaceRequired classifies how much floor space an exercise needs.
type SpaceRequired string

const (
	SpaceMinimal SpaceRequired = "minimal"
	SpaceMedium  SpaceRequired = "medium"
	SpaceFull    SpaceRequired = "full"
)

// Exercise is one entry in the read-only exercise library. Reference data;
// the engine never mutates it.
type Exercise struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug              string             `bson:"slug" json:"slug"` // stable id used in plans and prompts
	Name              string             `bson:"name" json:"name"`
	MuscleGroups      []string           `bson:"muscleGroups" json:"muscleGroups"`
	EquipmentRequired []Equipment        `bson:"equipmentRequired" json:"equipmentRequired"`
	Difficulty        int                `bson:"difficulty" json:"difficulty"` // 1–5
	NoiseLevel        NoiseLevel         `bson:"noiseLevel" json:"noiseLevel"`
	SpaceRequired     SpaceRequired      `bson:"spaceRequired" json:"spaceRequired"`
	Tags              []string           `bson:"tags" json:"tags"`
	Contraindications []string           `bson:"contraindications,omitempty" json:"contraindications,omitempty"`
	Instructions      string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoURL          string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
}

// ExerciseConstraints is a value object fed into the eligibility filter.
// Built fresh per request from the UCO, the Safety Gate output and any track
// overrides; it has no identity or lifecycle of its own.
type ExerciseConstraints struct {
	EquipmentAvailable []Equipment
	ExcludedTags       []string
	ExcludedBodyParts  []string
	NoiseLevel         NoiseLevel
	SpaceRequired      SpaceRequired
	DifficultyMin      int
	DifficultyMax      int
	TargetMuscleGroups []string // optional: empty means no target filter
}

// RoomType refines hostel constraints: shared rooms force silence.
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomShared RoomType = "shared"
	RoomDorm   RoomType = "dorm"
)
