package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Brilu-22/FCalApp3/internal/plan"
)

// ErrNoCachedPlan means no plan has been cached yet.
var ErrNoCachedPlan = errors.New("client: no cached plan")

// CachedPlan is the single durable artifact kept on disk: the latest
// generated plan text plus the parameters that produced it.
type CachedPlan struct {
	Text        string       `json:"text"`
	Params      plan.Request `json:"params"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// PlanCache stores exactly one plan in a JSON file, overwritten wholesale on
// every generation.
type PlanCache struct {
	path string
}

func NewPlanCache(path string) *PlanCache {
	return &PlanCache{path: path}
}

// Save replaces the cached plan.
func (c *PlanCache) Save(text string, params plan.Request) error {
	entry := CachedPlan{
		Text:        text,
		Params:      params,
		GeneratedAt: time.Now().UTC(),
	}
	payload, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cached plan: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Load returns the cached plan or ErrNoCachedPlan.
func (c *PlanCache) Load() (CachedPlan, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return CachedPlan{}, ErrNoCachedPlan
	}
	if err != nil {
		return CachedPlan{}, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry CachedPlan
	if err := json.Unmarshal(raw, &entry); err != nil {
		return CachedPlan{}, fmt.Errorf("failed to decode cache file: %w", err)
	}
	return entry, nil
}

// Clear removes the cache file if present.
func (c *PlanCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}
