// Package allocate assigns bounded, ranked location code lists to buckets.
//
// Allocation runs in three passes: seeding from the externally ranked list,
// placement of each seed into the bucket matching its zone's exact DST
// behavior, and a classification/traffic fallback that guarantees minimal
// coverage for standard-offset groups the ranking never touched. The fallback
// deliberately fills only the first still-empty bucket of a group; sibling
// buckets sharing the offset stay empty.
package allocate

import (
	"log/slog"
	"sort"

	"github.com/aliceisjustplaying/tidface/internal/bucket"
	"github.com/aliceisjustplaying/tidface/internal/domain"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

// Fallback tier quotas: how many regional and minor locations may top up a
// group's fallback list after the major tier.
const (
	fallbackRegionalQuota = 2
	fallbackMinorQuota    = 1
)

// Directory supplies the full set of known locations for fallback selection.
type Directory interface {
	Records() []domain.LocationRecord
}

// Stats summarizes one allocation pass.
type Stats struct {
	SeededCodes      int // distinct ranked codes that entered a seed list
	PlacedCodes      int // seeds that landed in an existing bucket
	BackfilledGroups int // standard-offset groups covered by fallback
	EmptyGroups      int // groups left with no codes in any bucket
}

// Allocator populates bucket code lists from a ranked location sequence plus
// directory metadata. It shares the build run's resolver so zone lookups hit
// the memo table.
type Allocator struct {
	resolver  *tzrule.Resolver
	directory Directory
	logger    *slog.Logger
}

// New creates an Allocator.
func New(resolver *tzrule.Resolver, directory Directory, logger *slog.Logger) *Allocator {
	return &Allocator{
		resolver:  resolver,
		directory: directory,
		logger:    logger,
	}
}

// Allocate fills the table's buckets. ranked must be in priority order;
// perBucketCap bounds every bucket's final code list; perGroupSeed bounds how
// many ranked codes seed each standard-offset group before placement.
func (a *Allocator) Allocate(table *bucket.Table, ranked []domain.LocationRecord, perBucketCap, perGroupSeed int) Stats {
	year := table.Year()
	var stats Stats

	// Seeding: dedupe the ranked list by code, then collect up to
	// perGroupSeed records per standard-offset group in rank order.
	seen := make(map[string]bool, len(ranked))
	seeds := make(map[int32][]domain.LocationRecord)
	for _, rec := range ranked {
		if rec.Code == "" || seen[rec.Code] {
			continue
		}
		seen[rec.Code] = true
		if rec.TimezoneID == "" {
			a.logger.Debug("ranked location has no zone, skipping", "code", rec.Code)
			continue
		}
		std := a.resolver.Resolve(rec.TimezoneID, year).StdOffset
		if len(seeds[std]) < perGroupSeed {
			seeds[std] = append(seeds[std], rec)
			stats.SeededCodes++
		}
	}

	// Placement: a seed goes into the bucket matching its zone's full
	// profile, not merely its standard offset, so a group fans out across
	// its DST-variant buckets.
	placed := make(map[string]bool)
	for _, std := range sortedKeys(seeds) {
		for _, rec := range seeds[std] {
			profile := a.resolver.Resolve(rec.TimezoneID, year)
			bkt := table.Lookup(profile)
			if bkt == nil {
				a.logger.Warn("seed zone not in universe, dropping",
					"code", rec.Code, "zone", rec.TimezoneID)
				continue
			}
			if containsCode(bkt.Codes, rec.Code) {
				continue
			}
			bkt.Codes = append(bkt.Codes, rec.Code)
			placed[rec.Code] = true
			stats.PlacedCodes++
		}
	}

	// Coverage fallback, single-shot per group: groups the ranking never
	// seeded get a classification/traffic fallback list injected into the
	// first bucket that is still empty. Remaining empty siblings stay empty.
	for _, std := range table.StdOffsets() {
		if len(seeds[std]) > 0 {
			continue
		}
		candidates := a.fallbackCodes(std, year, perBucketCap)
		candidates = excludeCodes(candidates, placed)

		injected := false
		for _, key := range table.GroupKeys(std) {
			bkt := table.Lookup(key)
			if len(bkt.Codes) == 0 && !injected && len(candidates) > 0 {
				bkt.Codes = append(bkt.Codes, candidates...)
				injected = true
			}
		}
		if injected {
			stats.BackfilledGroups++
		} else {
			stats.EmptyGroups++
			a.logger.Warn("no eligible locations for standard offset", "std_offset_seconds", std)
		}
	}

	// Capping, as a final invariant regardless of how a bucket was filled.
	for _, std := range table.StdOffsets() {
		for _, key := range table.GroupKeys(std) {
			bkt := table.Lookup(key)
			if len(bkt.Codes) > perBucketCap {
				bkt.Codes = bkt.Codes[:perBucketCap]
			}
		}
	}

	return stats
}

// fallbackCodes builds the ranked fallback list for one standard offset:
// up to limit majors, then up to 2 regionals, then 1 minor, and if all tiers
// come up empty the single highest-traffic location of any classification.
func (a *Allocator) fallbackCodes(std int32, year, limit int) []string {
	var segment []domain.LocationRecord
	for _, rec := range a.directory.Records() {
		if rec.Code == "" || rec.TimezoneID == "" {
			continue
		}
		if a.resolver.Resolve(rec.TimezoneID, year).StdOffset != std {
			continue
		}
		segment = append(segment, rec)
	}
	if len(segment) == 0 {
		return nil
	}

	sort.SliceStable(segment, func(i, j int) bool {
		if segment[i].TrafficRank != segment[j].TrafficRank {
			return segment[i].TrafficRank > segment[j].TrafficRank
		}
		return segment[i].Code < segment[j].Code
	})

	result := takeClass(segment, domain.ClassMajor, limit, nil)
	if remain := limit - len(result); remain > 0 {
		result = takeClass(segment, domain.ClassRegional, min(remain, fallbackRegionalQuota), result)
	}
	if remain := limit - len(result); remain > 0 {
		result = takeClass(segment, domain.ClassMinor, min(remain, fallbackMinorQuota), result)
	}
	if len(result) == 0 {
		result = []string{segment[0].Code}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// takeClass appends up to n codes of the given classification from the
// traffic-sorted segment, skipping codes already in acc.
func takeClass(segment []domain.LocationRecord, class domain.Classification, n int, acc []string) []string {
	taken := 0
	for _, rec := range segment {
		if taken >= n {
			break
		}
		if rec.Class != class || containsCode(acc, rec.Code) {
			continue
		}
		acc = append(acc, rec.Code)
		taken++
	}
	return acc
}

func excludeCodes(codes []string, exclude map[string]bool) []string {
	out := codes[:0]
	for _, c := range codes {
		if !exclude[c] {
			out = append(out, c)
		}
	}
	return out
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func sortedKeys(m map[int32][]domain.LocationRecord) []int32 {
	keys := make([]int32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
