package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// Sources names the input files of the disaster dashboard.
type Sources struct {
	EventsPath   string
	DeadlyPath   string // optional
	SeverityPath string // optional
	KeyColumn    string // optional explicit join key
	Workers      int
}

// Snapshot is the immutable, merged event table every request reads from.
type Snapshot struct {
	Events         []models.Event
	Columns        []string
	ExtraColumns   []string
	HasDamage      bool
	HasCoordinates bool
	HasMagnitude   bool
	HasDeadly      bool
	HasSeverity    bool
	LoadedAt       time.Time
}

// Provider hands out the snapshot for one interaction.
type Provider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// LoadObserver is notified after every successful load.
type LoadObserver func(took time.Duration, s *Snapshot)

// Build loads and merges every configured file.
func Build(ctx context.Context, src Sources, clock clockwork.Clock) (*Snapshot, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	paths := []string{src.EventsPath}
	if src.DeadlyPath != "" {
		paths = append(paths, src.DeadlyPath)
	}
	if src.SeverityPath != "" {
		paths = append(paths, src.SeverityPath)
	}

	tables, err := LoadTables(ctx, paths, src.Workers)
	if err != nil {
		return nil, fmt.Errorf("error loading tables: %w", err)
	}

	base, err := LoadEvents(tables[src.EventsPath], LoadOptions{KeyColumn: src.KeyColumn})
	if err != nil {
		return nil, fmt.Errorf("error loading events: %w", err)
	}

	preds := Predictions{KeyColumn: src.KeyColumn}
	if src.DeadlyPath != "" {
		preds.Deadly = tables[src.DeadlyPath]
	}
	if src.SeverityPath != "" {
		preds.Severity = tables[src.SeverityPath]
	}

	events, err := MergePredictions(base.Events, preds)
	if err != nil {
		return nil, fmt.Errorf("error merging predictions: %w", err)
	}

	return &Snapshot{
		Events:         events,
		Columns:        base.Columns,
		ExtraColumns:   base.ExtraColumns,
		HasDamage:      base.HasDamage,
		HasCoordinates: base.HasCoordinates,
		HasMagnitude:   base.HasMagnitude,
		HasDeadly:      preds.Deadly != nil,
		HasSeverity:    preds.Severity != nil,
		LoadedAt:       clock.Now(),
	}, nil
}

// StaticProvider serves one snapshot loaded at startup.
type StaticProvider struct {
	snapshot *Snapshot
}

func NewStaticProvider(s *Snapshot) *StaticProvider {
	return &StaticProvider{snapshot: s}
}

func (p *StaticProvider) Snapshot(context.Context) (*Snapshot, error) {
	return p.snapshot, nil
}

// ReloadingProvider rebuilds the snapshot from the files on every call.
type ReloadingProvider struct {
	src      Sources
	clock    clockwork.Clock
	observer LoadObserver
}

func NewReloadingProvider(src Sources, clock clockwork.Clock, observer LoadObserver) *ReloadingProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReloadingProvider{src: src, clock: clock, observer: observer}
}

func (p *ReloadingProvider) Snapshot(ctx context.Context) (*Snapshot, error) {
	start := p.clock.Now()
	s, err := Build(ctx, p.src, p.clock)
	if err != nil {
		return nil, err
	}
	took := p.clock.Since(start)
	slog.Debug("snapshot reloaded", "events", len(s.Events), "took", took)
	if p.observer != nil {
		p.observer(took, s)
	}
	return s, nil
}
