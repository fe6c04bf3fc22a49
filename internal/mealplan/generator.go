// Package mealplan turns user attributes into a structured one-day meal plan
// by prompting a hosted generative model and parsing its JSON reply.
//
// Calls are independent and stateless: no caching, deduplication or retries
// happen here. Deadlines come from the caller's context.
package mealplan

import (
	"context"
	"errors"

	"nutriai/nutrition-app/internal/domain"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TextModel is a single-shot text completion biased toward raw JSON output.
type TextModel interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Options tune how model output is interpreted.
type Options struct {
	Extraction       string
	StrictValidation bool
	LogRawResponse   bool
}

// Generator implements the plan generation contract.
type Generator struct {
	model    TextModel
	extract  Extractor
	validate *validator.Validate
	strict   bool
	logRaw   bool
	log      *zap.SugaredLogger
}

// NewGenerator validates opts and wires the model client.
func NewGenerator(model TextModel, opts Options, log *zap.SugaredLogger) (*Generator, error) {
	if model == nil {
		return nil, errors.New("mealplan: model client is required")
	}
	extract, err := ExtractorFor(opts.Extraction)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{
		model:    model,
		extract:  extract,
		validate: validator.New(),
		strict:   opts.StrictValidation,
		logRaw:   opts.LogRawResponse,
		log:      log,
	}, nil
}

// Generate builds the prompt, calls the model once and parses the reply.
// Any failure is a *GenerationError matching ErrPlanCreation; no partial
// plan is ever returned.
func (g *Generator) Generate(ctx context.Context, attrs domain.UserAttributes) (*domain.MealPlan, error) {
	raw, err := g.model.GenerateJSON(ctx, BuildPrompt(attrs))
	if err != nil {
		return nil, g.report(fail(KindUpstream, err), "")
	}
	if g.logRaw {
		g.log.Debugw("raw model response", "response", raw)
	}

	plan, err := g.Parse(raw)
	if err != nil {
		return nil, g.report(err, raw)
	}

	if n := len(plan.Meals); n < 5 || n > 6 {
		g.log.Warnw("meal plan has unexpected number of meals", "meals", n)
	}
	return plan, nil
}

// Parse runs extraction, decoding and (if enabled) schema validation on raw
// model text.
func (g *Generator) Parse(raw string) (*domain.MealPlan, error) {
	payload, err := g.extract(raw)
	if err != nil {
		return nil, fail(KindShape, err)
	}
	return decodePlan(payload, g.validate, g.strict)
}

func (g *Generator) report(err error, raw string) error {
	var ge *GenerationError
	if !errors.As(err, &ge) {
		return err
	}
	fields := []interface{}{"kind", ge.Kind, "cause", ge.Err}
	if raw != "" {
		if g.logRaw {
			fields = append(fields, "response", raw)
		} else {
			fields = append(fields, "responseBytes", len(raw))
		}
	}
	g.log.Errorw("meal plan generation failed", fields...)
	return err
}
