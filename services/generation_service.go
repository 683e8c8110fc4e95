package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pmitra96/recipe-backend/llm"
	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/metrics"
	"github.com/pmitra96/recipe-backend/models"
	"github.com/pmitra96/recipe-backend/normalize"
)

// HistoryRecorder persists finished generations. Optional.
type HistoryRecorder interface {
	Create(ctx context.Context, g *models.Generation) error
}

// GenerationService prompts the completion API and normalizes its reply.
type GenerationService struct {
	llm      llm.Completer
	model    string
	recorder HistoryRecorder
}

// NewGenerationService wires a shared completer. recorder may be nil.
func NewGenerationService(completer llm.Completer, model string, recorder HistoryRecorder) *GenerationService {
	return &GenerationService{
		llm:      completer,
		model:    model,
		recorder: recorder,
	}
}

// GenerateRecipe asks for a recipe built from ingredients and diet.
// Only an upstream failure returns an error; unparseable replies resolve to the recipe fallback.
func (s *GenerationService) GenerateRecipe(ctx context.Context, ingredients, diet string, strict bool) (normalize.Result, error) {
	rec := &models.Generation{Kind: models.KindRecipe, Ingredients: ingredients, Diet: diet}
	return s.generate(ctx, normalize.Recipe, []llm.Message{
		{Role: "system", Content: recipeSystemPrompt},
		{Role: "user", Content: recipePrompt(ingredients, diet)},
	}, strict, rec)
}

// GenerateGroceryList asks for a shopping list covering ingredients.
func (s *GenerationService) GenerateGroceryList(ctx context.Context, ingredients string, strict bool) (normalize.Result, error) {
	rec := &models.Generation{Kind: models.KindGrocery, Ingredients: ingredients}
	return s.generate(ctx, normalize.Grocery, []llm.Message{
		{Role: "system", Content: grocerySystemPrompt},
		{Role: "user", Content: groceryPrompt(ingredients)},
	}, strict, rec)
}

func (s *GenerationService) generate(ctx context.Context, kind normalize.Kind, messages []llm.Message, strict bool, rec *models.Generation) (normalize.Result, error) {
	start := time.Now()
	reply, err := s.llm.Chat(ctx, messages)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveGeneration(string(kind), metrics.OutcomeUpstreamError, elapsed)
		return normalize.Result{}, fmt.Errorf("completion request for %s: %w", kind, err)
	}

	var result normalize.Result
	if strict {
		result = normalize.NormalizeStrict(reply, kind)
	} else {
		result = normalize.Normalize(reply, kind)
	}

	outcome := metrics.OutcomeParsed
	if result.Fallback {
		outcome = metrics.OutcomeFallback
	}
	metrics.ObserveGeneration(string(kind), outcome, elapsed)
	logger.Info("Generation completed", "kind", string(kind), "outcome", outcome, "strict", strict, "latency_ms", elapsed.Milliseconds())

	s.record(ctx, rec, result, strict, elapsed)
	return result, nil
}

// record never fails the request; history is best effort.
func (s *GenerationService) record(ctx context.Context, rec *models.Generation, result normalize.Result, strict bool, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}

	rec.Model = s.model
	rec.Response = string(result.Body)
	rec.Fallback = result.Fallback
	rec.Strict = strict
	rec.LatencyMs = elapsed.Milliseconds()
	if result.Reason != nil {
		rec.FallbackReason = result.Reason.Error()
	}

	if err := s.recorder.Create(context.WithoutCancel(ctx), rec); err != nil {
		logger.Error("Failed to record generation", "kind", rec.Kind, "error", err)
	}
}
