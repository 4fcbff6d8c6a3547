// Package journal owns the append-only impulse log: it assigns IDs and
// timestamps, enriches new impulses and persists them through a store.Store.
package journal

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"impuls/internal/impulse"
	"impuls/internal/store"
)

// Observer is notified after an impulse has been persisted.
type Observer interface {
	ObserveImpulse(imp impulse.Enriched)
}

type Journal struct {
	mu        sync.Mutex
	store     store.Store
	namespace string
	impulses  []impulse.Enriched

	now       func() time.Time
	entropy   io.Reader
	logger    *zap.Logger
	observers []Observer
}

type Option func(*Journal)

func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

func WithEntropy(r io.Reader) Option {
	return func(j *Journal) { j.entropy = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(j *Journal) {
		if logger != nil {
			j.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(j *Journal) { j.observers = append(j.observers, o) }
}

func New(s store.Store, namespace string, opts ...Option) *Journal {
	if namespace == "" {
		namespace = store.DefaultNamespace
	}
	j := &Journal{
		store:     s,
		namespace: namespace,
		now:       time.Now,
		entropy:   ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Load replaces the in-memory log with the store's contents.
func (j *Journal) Load(ctx context.Context) error {
	records, err := j.store.LoadAll(ctx, j.namespace)
	if err != nil {
		return fmt.Errorf("loading impulses: %w", err)
	}
	enriched, err := impulse.NormalizeAll(records)
	if err != nil {
		return fmt.Errorf("loading impulses: %w", err)
	}

	j.mu.Lock()
	j.impulses = enriched
	j.mu.Unlock()

	j.logger.Debug("journal loaded", zap.String("namespace", j.namespace), zap.Int("impulses", len(enriched)))
	return nil
}

// Register creates, enriches and persists an impulse for room. When the store
// rejects it the in-memory log is left unchanged.
func (j *Journal) Register(ctx context.Context, room impulse.Room, note string) (impulse.Enriched, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ts := j.nextTimestamp(j.now())
	id, err := j.newID(ts)
	if err != nil {
		return impulse.Enriched{}, err
	}
	enriched, err := impulse.Enrich(impulse.Impulse{
		ID:        id,
		Timestamp: ts,
		Room:      room,
		Note:      note,
	})
	if err != nil {
		return impulse.Enriched{}, err
	}

	if err := j.persist(ctx, enriched); err != nil {
		return impulse.Enriched{}, err
	}
	return enriched, nil
}

// Import appends stored records, typically from an export file. Records whose
// ID is already present are skipped. Missing IDs and timestamps are assigned,
// and a timestamp older than the log's last one is raised to it.
func (j *Journal) Import(ctx context.Context, records []impulse.Record) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	known := make(map[string]bool, len(j.impulses))
	for _, imp := range j.impulses {
		known[imp.ID] = true
	}

	imported := 0
	for i, r := range records {
		if r.ID != "" && known[r.ID] {
			continue
		}
		if r.Timestamp.IsZero() {
			r.Timestamp = j.now()
		}
		r.Timestamp = j.nextTimestamp(r.Timestamp)
		if r.ID == "" {
			id, err := j.newID(r.Timestamp)
			if err != nil {
				return imported, fmt.Errorf("record %d: %w", i, err)
			}
			r.ID = id
		}

		enriched, err := impulse.Normalize(r)
		if err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
		if err := j.persist(ctx, enriched); err != nil {
			return imported, err
		}
		known[enriched.ID] = true
		imported++
	}
	return imported, nil
}

func (j *Journal) persist(ctx context.Context, imp impulse.Enriched) error {
	if err := j.store.Append(ctx, j.namespace, imp); err != nil {
		j.logger.Warn("persisting impulse failed", zap.String("id", imp.ID), zap.Error(err))
		return fmt.Errorf("persisting impulse: %w", err)
	}
	j.impulses = append(j.impulses, imp)
	for _, o := range j.observers {
		o.ObserveImpulse(imp)
	}
	j.logger.Debug("impulse registered",
		zap.String("id", imp.ID),
		zap.String("room", string(imp.Room)),
		zap.Float64("deltaF", imp.Meta.DeltaF),
		zap.String("archivRoom", string(imp.Meta.ArchivRoom)),
	)
	return nil
}

// Snapshot returns a copy of the log, oldest first.
func (j *Journal) Snapshot() []impulse.Enriched {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]impulse.Enriched, len(j.impulses))
	copy(out, j.impulses)
	return out
}

// Current is the position of the most recent impulse, or nil for an empty log.
func (j *Journal) Current() *impulse.Position {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.impulses) == 0 {
		return nil
	}
	last := j.impulses[len(j.impulses)-1]
	return &impulse.Position{Room: last.Room, Zone: last.Zone}
}

func (j *Journal) Namespace() string {
	return j.namespace
}

func (j *Journal) nextTimestamp(t time.Time) time.Time {
	t = t.UTC()
	if n := len(j.impulses); n > 0 {
		if last := j.impulses[n-1].Timestamp; t.Before(last) {
			return last
		}
	}
	return t
}

// newID fails for timestamps outside the ULID range, which starts at the
// Unix epoch.
func (j *Journal) newID(ts time.Time) (string, error) {
	if ts.Before(time.Unix(0, 0)) {
		return "", fmt.Errorf("assigning impulse ID for %s: %w", ts.Format(time.RFC3339), ulid.ErrBigTime)
	}
	id, err := ulid.New(ulid.Timestamp(ts), j.entropy)
	if err != nil {
		return "", fmt.Errorf("assigning impulse ID for %s: %w", ts.Format(time.RFC3339), err)
	}
	return id.String(), nil
}
