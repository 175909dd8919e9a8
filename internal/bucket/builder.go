// Package bucket folds resolved zone profiles into the deduplicated,
// deterministically ordered bucket table that allocation and emission consume.
package bucket

import (
	"sort"

	"github.com/aliceisjustplaying/tidface/internal/domain"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

// Table holds every distinct bucket produced from a zone universe, plus the
// standard-offset group index the allocator's fallback logic needs. Buckets
// are created first-writer-wins: the first zone to exhibit a profile creates
// the bucket, later zones with the same profile are no-ops.
type Table struct {
	year    int
	buckets map[domain.ZoneProfile]*domain.Bucket
	groups  map[int32][]domain.ZoneProfile
	stds    []int32
}

// Builder constructs bucket tables from zone universes.
type Builder struct {
	resolver *tzrule.Resolver
}

// NewBuilder creates a Builder over the given resolver.
func NewBuilder(resolver *tzrule.Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build resolves every distinct zone in the universe for the given year and
// returns the resulting table. The universe is iterated in sorted order so
// bucket creation and group-internal key order are reproducible across runs.
func (b *Builder) Build(zones []string, year int) *Table {
	sorted := make([]string, len(zones))
	copy(sorted, zones)
	sort.Strings(sorted)

	t := &Table{
		year:    year,
		buckets: make(map[domain.ZoneProfile]*domain.Bucket),
		groups:  make(map[int32][]domain.ZoneProfile),
	}

	var prevZone string
	for _, zone := range sorted {
		if zone == "" || zone == prevZone {
			continue
		}
		prevZone = zone

		profile := b.resolver.Resolve(zone, year)
		if _, ok := t.buckets[profile]; ok {
			continue
		}
		t.buckets[profile] = &domain.Bucket{Profile: profile}
		t.groups[profile.StdOffset] = append(t.groups[profile.StdOffset], profile)
	}

	for std := range t.groups {
		t.stds = append(t.stds, std)
	}
	sort.Slice(t.stds, func(i, j int) bool { return t.stds[i] < t.stds[j] })

	return t
}

// Year returns the calendar year the table was built for.
func (t *Table) Year() int {
	return t.year
}

// Lookup returns the bucket for an exact profile, or nil if no zone in the
// universe exhibited it.
func (t *Table) Lookup(profile domain.ZoneProfile) *domain.Bucket {
	return t.buckets[profile]
}

// StdOffsets returns every standard offset present, ascending.
func (t *Table) StdOffsets() []int32 {
	return t.stds
}

// GroupKeys returns the profiles sharing a standard offset, in the order
// their buckets were created.
func (t *Table) GroupKeys(std int32) []domain.ZoneProfile {
	return t.groups[std]
}

// Buckets returns all buckets ordered ascending by
// (StdOffset, DstOffset, DSTStartUTC). The order is a stable presentation
// contract; it has no effect on lookups.
func (t *Table) Buckets() []*domain.Bucket {
	out := make([]*domain.Bucket, 0, len(t.buckets))
	for _, b := range t.buckets {
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Profile, out[j].Profile
		if pi.StdOffset != pj.StdOffset {
			return pi.StdOffset < pj.StdOffset
		}
		if pi.DstOffset != pj.DstOffset {
			return pi.DstOffset < pj.DstOffset
		}
		return pi.DSTStartUTC < pj.DSTStartUTC
	})
	return out
}

// Len returns the number of distinct buckets.
func (t *Table) Len() int {
	return len(t.buckets)
}
