package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// defaultMaxRetries is the number of retries after the first attempt, so the
// orchestrator issues at most defaultMaxRetries+1 generation calls.
const defaultMaxRetries = 2

// ExhaustedError is the terminal failure after every attempt failed, whether
// the call itself errored or the response was unparseable or invalid.
// LastDetail carries the final attempt's error or validator feedback for the
// caller's logs.
type ExhaustedError struct {
	Attempts   int
	LastDetail string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("plan generation failed after %d attempts: %s", e.Attempts, e.LastDetail)
}

// Orchestrator drives the generate -> parse -> validate -> retry loop around
// a Generator. It never widens the constraint envelope on retry; failures
// feed back as corrective text appended to the same prompt.
type Orchestrator struct {
	generator  Generator
	maxRetries int
	now        func() time.Time
	newID      func() string
}

// OrchestratorOption adjusts retry and clock behavior, mostly for tests.
type OrchestratorOption func(*Orchestrator)

// WithMaxRetries overrides the retry budget (retries after the first attempt).
func WithMaxRetries(n int) OrchestratorOption {
	return func(o *Orchestrator) { o.maxRetries = n }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(g Generator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		generator:  g,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateWorkoutPlan runs the full workout generation loop for one user and
// week. The returned plan has passed the exercise-id and duration validators.
func (o *Orchestrator) GenerateWorkoutPlan(ctx context.Context, userID string, pc *domain.PlanContext) (*domain.WorkoutPlan, error) {
	system, user := BuildWorkoutPrompt(pc)
	budget := tokenBudgets[domain.PlanTypeWorkout]

	var plan domain.WorkoutPlan
	err := o.run(ctx, system, user, budget.Output, func(raw string) ValidationResult {
		plan = domain.WorkoutPlan{}
		if perr := parseJSON(raw, &plan); perr != nil {
			return invalid(ValidationError{Field: "response", Message: perr.Error(), Code: "PARSE_ERROR"})
		}
		return ValidateWorkoutPlan(&plan, pc.Constraints.AllowedExerciseIDs, pc.Constraints.SessionLengthMins)
	})
	if err != nil {
		return nil, err
	}

	plan.ID = o.newID()
	plan.UserID = userID
	plan.WeekNumber = pc.Goals.WeekNumber
	plan.GeneratedAt = o.now()
	return &plan, nil
}

// GenerateNutritionPlan runs the full nutrition generation loop for one user
// and week. The returned plan has passed the food-id and calorie validators.
func (o *Orchestrator) GenerateNutritionPlan(ctx context.Context, userID string, pc *domain.PlanContext) (*domain.NutritionPlan, error) {
	system, user := BuildNutritionPrompt(pc)
	budget := tokenBudgets[domain.PlanTypeNutrition]

	var plan domain.NutritionPlan
	err := o.run(ctx, system, user, budget.Output, func(raw string) ValidationResult {
		plan = domain.NutritionPlan{}
		if perr := parseJSON(raw, &plan); perr != nil {
			return invalid(ValidationError{Field: "response", Message: perr.Error(), Code: "PARSE_ERROR"})
		}
		return ValidateNutritionPlan(&plan, pc.Constraints.AllowedFoodIDs, pc.Goals.CaloricTarget)
	})
	if err != nil {
		return nil, err
	}

	plan.ID = o.newID()
	plan.UserID = userID
	plan.WeekNumber = pc.Goals.WeekNumber
	plan.GeneratedAt = o.now()
	return &plan, nil
}

// run executes the bounded attempt loop. check parses and validates one raw
// response; its feedback is appended to the user prompt on the next attempt.
func (o *Orchestrator) run(ctx context.Context, system, user string, maxTokens int, check func(raw string) ValidationResult) error {
	prompt := user
	attempts := o.maxRetries + 1
	lastDetail := ""

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := o.generator.Generate(ctx, system, prompt, maxTokens)
		if err != nil {
			// A failed call burns an attempt like a validation failure.
			// The prompt is left unchanged: there is nothing to correct.
			lastDetail = fmt.Sprintf("generation attempt %d: %v", attempt, err)
			continue
		}

		result := check(raw)
		if result.Valid {
			return nil
		}

		lastDetail = result.Feedback()
		prompt = user + "\n\nPREVIOUS ATTEMPT HAD ERRORS:\n" + lastDetail + "\nFix these errors in your response."
	}

	return &ExhaustedError{Attempts: attempts, LastDetail: lastDetail}
}

var errNoJSON = errors.New("response contains no JSON object")

// parseJSON extracts the JSON payload from a model response. Models wrap
// output in ```json fences often enough that we strip them before falling
// back to the outermost brace pair.
func parseJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)

	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return errNoJSON
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("invalid JSON in response: %w", err)
	}
	return nil
}
