package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Brilu-22/FCalApp3/internal/plan"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS user_plans (
	user_id    TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS user_dashboards (
	user_id    TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Postgres is the durable Repository, holding the same JSON documents the
// memory backing keeps, one plan row and one dashboard row per user.
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres connects, verifies the connection and ensures the schema.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ensure schema: %w", err)
	}

	log.Info().Msg("Connected to Postgres plan store")
	return &Postgres{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) SavePlan(ctx context.Context, userID string, p plan.GeneratedPlan) (plan.GeneratedPlan, error) {
	now := s.now()
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

	planDoc, err := json.Marshal(p)
	if err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to marshal plan: %w", err)
	}
	dashDoc, err := json.Marshal(seedDashboard(p, now))
	if err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to marshal dashboard: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsert = `INSERT INTO %s (user_id, doc, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
	if _, err := tx.Exec(ctx, fmt.Sprintf(upsert, "user_plans"), userID, planDoc, now); err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(upsert, "user_dashboards"), userID, dashDoc, now); err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to save dashboard: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to commit: %w", err)
	}
	return p, nil
}

func (s *Postgres) Plans(ctx context.Context, userID string) ([]plan.GeneratedPlan, error) {
	p, err := s.loadPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []plan.GeneratedPlan{p}, nil
}

func (s *Postgres) LatestPlan(ctx context.Context, userID string) (plan.GeneratedPlan, error) {
	return s.loadPlan(ctx, userID)
}

func (s *Postgres) Dashboard(ctx context.Context, userID string) (plan.Dashboard, error) {
	// The plan and dashboard rows are independent reads; fetch them
	// concurrently.
	var (
		p   plan.GeneratedPlan
		doc dashboardDoc
	)
	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.loadPlan(grpCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		doc, err = s.loadDashboard(grpCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return plan.Dashboard{}, err
	}
	return assembleDashboard(userID, p, doc), nil
}

func (s *Postgres) UpdateProgress(ctx context.Context, userID string, delta float64) (plan.Dashboard, error) {
	return s.mutate(ctx, userID, func(p *plan.GeneratedPlan, doc *dashboardDoc) {
		applyProgress(p, doc, delta, s.now())
	})
}

func (s *Postgres) MarkWorkoutComplete(ctx context.Context, userID string) (plan.Dashboard, error) {
	return s.mutate(ctx, userID, func(p *plan.GeneratedPlan, doc *dashboardDoc) {
		applyCompletion(p, doc, s.now())
	})
}

func (s *Postgres) Counts(ctx context.Context) (int, int, error) {
	var plans, dashboards int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM user_plans`).Scan(&plans); err != nil {
		return 0, 0, fmt.Errorf("failed to count plans: %w", err)
	}
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM user_dashboards`).Scan(&dashboards); err != nil {
		return 0, 0, fmt.Errorf("failed to count dashboards: %w", err)
	}
	return plans, dashboards, nil
}

// mutate runs a read-modify-write cycle over both rows inside one
// transaction, serializing concurrent updates per user via row locks.
func (s *Postgres) mutate(ctx context.Context, userID string, apply func(*plan.GeneratedPlan, *dashboardDoc)) (plan.Dashboard, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var planRaw, dashRaw []byte
	err = tx.QueryRow(ctx, `SELECT doc FROM user_plans WHERE user_id = $1 FOR UPDATE`, userID).Scan(&planRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return plan.Dashboard{}, ErrNotFound
	}
	if err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to load plan: %w", err)
	}
	err = tx.QueryRow(ctx, `SELECT doc FROM user_dashboards WHERE user_id = $1 FOR UPDATE`, userID).Scan(&dashRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return plan.Dashboard{}, ErrNotFound
	}
	if err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to load dashboard: %w", err)
	}

	var (
		p   plan.GeneratedPlan
		doc dashboardDoc
	)
	if err := json.Unmarshal(planRaw, &p); err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to decode plan doc: %w", err)
	}
	if err := json.Unmarshal(dashRaw, &doc); err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to decode dashboard doc: %w", err)
	}

	apply(&p, &doc)

	planOut, err := json.Marshal(p)
	if err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to marshal plan: %w", err)
	}
	dashOut, err := json.Marshal(doc)
	if err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to marshal dashboard: %w", err)
	}

	now := s.now()
	if _, err := tx.Exec(ctx, `UPDATE user_plans SET doc = $2, updated_at = $3 WHERE user_id = $1`, userID, planOut, now); err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to update plan: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE user_dashboards SET doc = $2, updated_at = $3 WHERE user_id = $1`, userID, dashOut, now); err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to update dashboard: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return plan.Dashboard{}, fmt.Errorf("failed to commit: %w", err)
	}
	return assembleDashboard(userID, p, doc), nil
}

func (s *Postgres) loadPlan(ctx context.Context, userID string) (plan.GeneratedPlan, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM user_plans WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return plan.GeneratedPlan{}, ErrNotFound
	}
	if err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to load plan: %w", err)
	}
	var p plan.GeneratedPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return plan.GeneratedPlan{}, fmt.Errorf("failed to decode plan doc: %w", err)
	}
	return p, nil
}

func (s *Postgres) loadDashboard(ctx context.Context, userID string) (dashboardDoc, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM user_dashboards WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return dashboardDoc{}, ErrNotFound
	}
	if err != nil {
		return dashboardDoc{}, fmt.Errorf("failed to load dashboard: %w", err)
	}
	var doc dashboardDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dashboardDoc{}, fmt.Errorf("failed to decode dashboard doc: %w", err)
	}
	return doc, nil
}
