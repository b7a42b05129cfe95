/*
Package planner implements the plan-generation proxy: validate the request,
render the prompt, call the configured model provider and apply the deployment's
fallback policy. It is the only place that decides whether upstream failures
surface to the caller or are masked by the mock generator.
*/
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/Brilu-22/FCalApp3/internal/llm"
	"github.com/Brilu-22/FCalApp3/internal/plan"
)

const defaultCacheSize = 128

// Service is the plan-generation proxy.
type Service struct {
	provider llm.TextGenerator

	// fallback, when true, masks every upstream failure with a mock plan so
	// the request always succeeds. Configured per deployment, never per call.
	fallback bool

	// cache holds recent real generations keyed by the canonical request, so
	// identical parameter sets do not re-bill the upstream API.
	cache *lru.Cache[string, string]
}

// New builds a Service. cacheSize <= 0 selects the default.
func New(provider llm.TextGenerator, fallbackToMock bool, cacheSize int) *Service {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		// Only reachable with a non-positive size, which we just excluded.
		panic(fmt.Sprintf("planner: bad cache size: %v", err))
	}
	return &Service{provider: provider, fallback: fallbackToMock, cache: cache}
}

// Generate validates req and returns the raw day-delimited plan text.
// Validation failures return a *plan.ValidationError before any upstream work.
// Upstream failures return the llm taxonomy errors, or a mock plan when the
// fallback policy is enabled.
func (s *Service) Generate(ctx context.Context, req plan.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	norm := req.Normalized()

	key := cacheKey(norm)
	if text, ok := s.cache.Get(key); ok {
		log.Info().Msg("Serving plan from generation cache")
		return text, nil
	}

	text, err := s.provider.GenerateText(ctx, plan.BuildPrompt(norm))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		if s.fallback {
			log.Warn().Err(err).Msg("Upstream generation failed, falling back to mock plan")
			return plan.MockPlan(norm), nil
		}
		return "", err
	}

	s.cache.Add(key, text)
	return text, nil
}

// cacheKey canonicalizes the normalized request. Field order in the JSON
// encoding is fixed by the struct definition, so equal requests collide.
func cacheKey(req plan.Request) string {
	b, err := json.Marshal(req)
	if err != nil {
		return fmt.Sprintf("%+v", req)
	}
	return string(b)
}
