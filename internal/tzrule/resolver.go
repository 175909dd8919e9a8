// Package tzrule extracts a zone's yearly offset/DST profile by brute-force
// hourly sampling. The scan is deliberate: 8,787 cheap in-process lookups per
// zone catch every transition shape the IANA database can express without
// depending on database internals, and results are memoized per run.
package tzrule

import (
	"log/slog"
	"time"

	"github.com/aliceisjustplaying/tidface/internal/domain"
)

const (
	// hourlySteps covers a leap year plus a few hours of slack so a
	// transition landing right at the year boundary is still observed.
	hourlySteps = 366*24 + 3

	// degenerateDSTThreshold is the minimum std/dst offset difference, in
	// seconds, for a zone to count as observing DST. Below it the daylight
	// offset is forced equal to standard and transitions are cleared.
	degenerateDSTThreshold = 60
)

// Resolver computes and memoizes yearly zone profiles. It never returns an
// error: zones that cannot be sampled at all degrade to the zero profile.
//
// A Resolver is owned by exactly one build run and is not safe for concurrent
// use. Call Reset between runs to drop the memo table.
type Resolver struct {
	sampler  Sampler
	logger   *slog.Logger
	memo     map[memoKey]domain.ZoneProfile
	failures int
}

type memoKey struct {
	zone string
	year int
}

// NewResolver creates a Resolver over the given sampler.
func NewResolver(sampler Sampler, logger *slog.Logger) *Resolver {
	return &Resolver{
		sampler: sampler,
		logger:  logger,
		memo:    make(map[memoKey]domain.ZoneProfile),
	}
}

// Reset clears the memo table and failure count. Profiles never persist
// across runs; a new tzdata vintage or target year invalidates everything.
func (r *Resolver) Reset() {
	r.memo = make(map[memoKey]domain.ZoneProfile)
	r.failures = 0
}

// Failures returns how many distinct (zone, year) resolutions fell back to
// the zero profile because no sample succeeded.
func (r *Resolver) Failures() int {
	return r.failures
}

// Resolved returns the number of distinct (zone, year) pairs resolved so far.
func (r *Resolver) Resolved() int {
	return len(r.memo)
}

// Resolve returns the zone's profile for the given year. Repeated calls with
// the same arguments return the memoized profile without re-sampling.
func (r *Resolver) Resolve(zone string, year int) domain.ZoneProfile {
	key := memoKey{zone: zone, year: year}
	if p, ok := r.memo[key]; ok {
		return p
	}
	p := r.scanYear(zone, year)
	r.memo[key] = p
	return p
}

// scanYear walks the year hour by hour and derives the profile from the
// observed offset and DST-activity sequence.
func (r *Resolver) scanYear(zone string, year int) domain.ZoneProfile {
	cursor := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Hour)

	prev, err := r.sampler.Sample(zone, cursor)
	if err != nil {
		// Noon avoids any oddity at the exact year boundary; if that fails
		// too the zone is unusable for this year.
		cursor = time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)
		prev, err = r.sampler.Sample(zone, cursor)
		if err != nil {
			r.failures++
			r.logger.Warn("zone unresolvable, using zero profile", "zone", zone, "year", year, "error", err)
			return domain.ZoneProfile{}
		}
	}

	firstOffset := prev.Offset
	var (
		stdOffset, dstOffset int32
		stdSeen, dstSeen     bool
		startUTC, endUTC     int64
	)

	for i := 0; i < hourlySteps; i++ {
		cursor = cursor.Add(time.Hour)
		cur, err := r.sampler.Sample(zone, cursor)
		if err != nil {
			continue
		}

		if cur.DST {
			dstOffset, dstSeen = cur.Offset, true
		} else {
			stdOffset, stdSeen = cur.Offset, true
		}

		// A DST toggle between consecutive successful samples marks a
		// transition at the cursor instant. Only in-year transitions count,
		// and a later transition of the same polarity overwrites an earlier
		// one, so zones with several entries per year keep the last.
		if cur.DST != prev.DST && cursor.Year() == year {
			if cur.DST {
				startUTC = cursor.Unix()
			} else {
				endUTC = cursor.Unix()
			}
		}
		prev = cur
	}

	if !stdSeen {
		stdOffset = firstOffset
	}
	if !dstSeen {
		dstOffset = stdOffset
	}

	if diff := stdOffset - dstOffset; diff > -degenerateDSTThreshold && diff < degenerateDSTThreshold {
		dstOffset = stdOffset
		startUTC, endUTC = 0, 0
	}

	return domain.ZoneProfile{
		StdOffset:   stdOffset,
		DstOffset:   dstOffset,
		DSTStartUTC: startUTC,
		DSTEndUTC:   endUTC,
	}
}
