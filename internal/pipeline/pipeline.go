// Package pipeline orchestrates one batch build: fetch the ranking, resolve
// the zone universe into buckets, allocate codes, and flatten the result into
// a snapshot. Per-item problems degrade to safe defaults; only absent
// collaborator input (no ranking, no locations) aborts a run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aliceisjustplaying/tidface/internal/allocate"
	"github.com/aliceisjustplaying/tidface/internal/bucket"
	"github.com/aliceisjustplaying/tidface/internal/domain"
	"github.com/aliceisjustplaying/tidface/internal/observability"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

// RankingSource supplies the priority-ordered location list. Records may
// carry only code and display name; the pipeline enriches them from the
// directory.
type RankingSource interface {
	Fetch(ctx context.Context) ([]domain.LocationRecord, error)
}

// Directory is the read-only location metadata lookup.
type Directory interface {
	Records() []domain.LocationRecord
	Lookup(code string) (domain.LocationRecord, bool)
	DisplayName(code string) string
}

// Builder runs the airport table build.
type Builder struct {
	resolver     *tzrule.Resolver
	ranking      RankingSource
	directory    Directory
	logger       *slog.Logger
	metrics      *observability.Metrics
	clock        clockwork.Clock
	perBucketCap int
	perGroupSeed int
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock replaces the time source, used by tests to freeze the target
// year and snapshot timestamp.
func WithClock(c clockwork.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

// NewBuilder creates a Builder with the given stages and observability.
func NewBuilder(resolver *tzrule.Resolver, ranking RankingSource, directory Directory,
	logger *slog.Logger, metrics *observability.Metrics,
	perBucketCap, perGroupSeed int, opts ...Option,
) *Builder {
	b := &Builder{
		resolver:     resolver,
		ranking:      ranking,
		directory:    directory,
		logger:       logger,
		metrics:      metrics,
		clock:        clockwork.NewRealClock(),
		perBucketCap: perBucketCap,
		perGroupSeed: perGroupSeed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run executes one complete build for the given year (0 means the current
// year) and returns the frozen snapshot.
func (b *Builder) Run(ctx context.Context, year int) (domain.Snapshot, error) {
	start := time.Now()
	// Snapshot the resolver counters so a Builder reused across runs
	// reports only this run's resolutions, not the cumulative memo size.
	resolvedBefore := b.resolver.Resolved()
	failuresBefore := b.resolver.Failures()
	if year == 0 {
		year = b.clock.Now().UTC().Year()
	}
	b.logger.Info("build started", "year", year,
		"per_bucket_cap", b.perBucketCap, "per_group_seed", b.perGroupSeed)

	ranked, err := b.ranking.Fetch(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch ranking: %w", err)
	}
	ranked = b.enrich(ranked)

	universe := zoneUniverse(b.directory.Records())
	if len(universe) == 0 {
		return domain.Snapshot{}, fmt.Errorf("location directory yields no zone universe")
	}

	table := bucket.NewBuilder(b.resolver).Build(universe, year)

	stats := allocate.New(b.resolver, b.directory, b.logger).
		Allocate(table, ranked, b.perBucketCap, b.perGroupSeed)

	buckets := table.Buckets()
	snap := domain.NewSnapshot(year, b.clock.Now().UTC(), buckets, b.directory.DisplayName)

	resolved := b.resolver.Resolved() - resolvedBefore
	fallbacks := b.resolver.Failures() - failuresBefore
	b.observe(table, stats, snap, resolved, fallbacks, time.Since(start))
	return snap, nil
}

// enrich merges directory metadata into ranking records, which carry only
// code and display name. Codes missing from the directory keep the page
// name and degrade to unknown classification, zero traffic, no zone.
func (b *Builder) enrich(ranked []domain.LocationRecord) []domain.LocationRecord {
	out := make([]domain.LocationRecord, 0, len(ranked))
	for _, r := range ranked {
		rec, known := b.directory.Lookup(r.Code)
		if !known {
			b.logger.Debug("ranked location missing from directory", "code", r.Code)
			rec.Code = r.Code
			rec.DisplayName = r.DisplayName
		}
		out = append(out, rec)
	}
	return out
}

func (b *Builder) observe(table *bucket.Table, stats allocate.Stats, snap domain.Snapshot, resolved, fallbacks int, elapsed time.Duration) {
	b.metrics.ZonesResolved.Add(float64(resolved))
	b.metrics.ResolveFallbacks.Add(float64(fallbacks))
	b.metrics.BucketsCreated.Set(float64(table.Len()))
	b.metrics.CodesAllocated.Set(float64(len(snap.CodePool)))
	b.metrics.GroupsBackfilled.Add(float64(stats.BackfilledGroups))
	b.metrics.EmptyGroups.Add(float64(stats.EmptyGroups))
	b.metrics.BuildDuration.Observe(elapsed.Seconds())
	b.metrics.SnapshotsBuilt.Inc()

	b.logger.Info("build complete",
		"year", snap.Year,
		"buckets", table.Len(),
		"codes", len(snap.CodePool),
		"seeded", stats.SeededCodes,
		"placed", stats.PlacedCodes,
		"backfilled_groups", stats.BackfilledGroups,
		"empty_groups", stats.EmptyGroups,
		"zones_resolved", resolved,
		"resolve_fallbacks", fallbacks,
		"duration", elapsed,
	)
}

// zoneUniverse extracts the distinct, sorted zone ids referenced by the
// directory.
func zoneUniverse(records []domain.LocationRecord) []string {
	seen := make(map[string]bool)
	var zones []string
	for _, rec := range records {
		if rec.TimezoneID == "" || seen[rec.TimezoneID] {
			continue
		}
		seen[rec.TimezoneID] = true
		zones = append(zones, rec.TimezoneID)
	}
	sort.Strings(zones)
	return zones
}
