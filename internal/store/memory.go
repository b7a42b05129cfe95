package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Brilu-22/FCalApp3/internal/plan"
)

// Memory is the in-process Repository. A single mutex serializes access;
// racing saves for the same user resolve last-write-wins, which is acceptable
// for a non-durable store.
type Memory struct {
	mu    sync.Mutex
	plans map[string]plan.GeneratedPlan
	dash  map[string]dashboardDoc

	// now is swappable so tests can steer calendar-day behaviour.
	now func() time.Time
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		plans: make(map[string]plan.GeneratedPlan),
		dash:  make(map[string]dashboardDoc),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) SavePlan(_ context.Context, userID string, p plan.GeneratedPlan) (plan.GeneratedPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p.UserID = userID
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = now
	}
	p.WeightProgress = 0
	p.CompletedWorkouts = 0
	p.TotalWorkouts = p.DaysPerWeek

	m.plans[userID] = p
	m.dash[userID] = seedDashboard(p, now)
	return p, nil
}

func (m *Memory) Plans(_ context.Context, userID string) ([]plan.GeneratedPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return []plan.GeneratedPlan{p}, nil
}

func (m *Memory) LatestPlan(_ context.Context, userID string) (plan.GeneratedPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans[userID]
	if !ok {
		return plan.GeneratedPlan{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) Dashboard(_ context.Context, userID string) (plan.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans[userID]
	if !ok {
		return plan.Dashboard{}, ErrNotFound
	}
	return assembleDashboard(userID, p, m.dash[userID]), nil
}

func (m *Memory) UpdateProgress(_ context.Context, userID string, delta float64) (plan.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans[userID]
	if !ok {
		return plan.Dashboard{}, ErrNotFound
	}
	doc := m.dash[userID]

	applyProgress(&p, &doc, delta, m.now())

	m.plans[userID] = p
	m.dash[userID] = doc
	return assembleDashboard(userID, p, doc), nil
}

func (m *Memory) MarkWorkoutComplete(_ context.Context, userID string) (plan.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans[userID]
	if !ok {
		return plan.Dashboard{}, ErrNotFound
	}
	doc := m.dash[userID]

	applyCompletion(&p, &doc, m.now())

	m.plans[userID] = p
	m.dash[userID] = doc
	return assembleDashboard(userID, p, doc), nil
}

func (m *Memory) Counts(_ context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plans), len(m.dash), nil
}
