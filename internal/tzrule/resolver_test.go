package tzrule

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// scriptedZone describes a synthetic zone: fixed standard and daylight
// offsets plus half-open [start, end) windows where DST is active.
type scriptedZone struct {
	std, dst  int32
	dstRanges [][2]time.Time
	err       error
	failAt    func(at time.Time) bool
}

type scriptedSampler struct {
	zones map[string]scriptedZone
	calls int
}

func (s *scriptedSampler) Sample(zone string, at time.Time) (Sample, error) {
	s.calls++
	z, ok := s.zones[zone]
	if !ok {
		return Sample{}, fmt.Errorf("unknown zone %q", zone)
	}
	if z.err != nil {
		return Sample{}, z.err
	}
	if z.failAt != nil && z.failAt(at) {
		return Sample{}, errors.New("transient failure")
	}
	for _, r := range z.dstRanges {
		if !at.Before(r[0]) && at.Before(r[1]) {
			return Sample{Offset: z.dst, DST: true}, nil
		}
	}
	return Sample{Offset: z.std, DST: false}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- real tzdata ---

func TestResolve_RealZones(t *testing.T) {
	r := NewResolver(NewLocationSampler(), discardLogger())

	t.Run("UTC has the zero profile", func(t *testing.T) {
		p := r.Resolve("UTC", 2024)
		assert.True(t, p.IsZero())
		assert.False(t, p.HasDST())
	})

	t.Run("New York 2024", func(t *testing.T) {
		p := r.Resolve("America/New_York", 2024)
		assert.Equal(t, int32(-18000), p.StdOffset)
		assert.Equal(t, int32(-14400), p.DstOffset)
		assert.Equal(t, time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC).Unix(), p.DSTStartUTC)
		assert.Equal(t, time.Date(2024, time.November, 3, 6, 0, 0, 0, time.UTC).Unix(), p.DSTEndUTC)
	})

	t.Run("Sydney 2024 southern hemisphere", func(t *testing.T) {
		p := r.Resolve("Australia/Sydney", 2024)
		assert.Equal(t, int32(36000), p.StdOffset)
		assert.Equal(t, int32(39600), p.DstOffset)
		// The year opens inside DST, so the end transition precedes the start.
		assert.Equal(t, time.Date(2024, time.April, 6, 16, 0, 0, 0, time.UTC).Unix(), p.DSTEndUTC)
		assert.Equal(t, time.Date(2024, time.October, 5, 16, 0, 0, 0, time.UTC).Unix(), p.DSTStartUTC)
		assert.Less(t, p.DSTEndUTC, p.DSTStartUTC)
	})

	t.Run("Phoenix observes no DST", func(t *testing.T) {
		p := r.Resolve("America/Phoenix", 2024)
		assert.Equal(t, int32(-25200), p.StdOffset)
		assert.Equal(t, p.StdOffset, p.DstOffset)
		assert.Zero(t, p.DSTStartUTC)
		assert.Zero(t, p.DSTEndUTC)
	})

	t.Run("zones resolving identically share a profile", func(t *testing.T) {
		assert.Equal(t, r.Resolve("America/New_York", 2024), r.Resolve("America/Toronto", 2024))
	})
}

// --- scripted sampler ---

func TestResolve_NorthernHemisphereWindow(t *testing.T) {
	start := time.Date(2024, time.April, 1, 2, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.October, 1, 1, 0, 0, 0, time.UTC)
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/zone": {std: 3600, dst: 7200, dstRanges: [][2]time.Time{{start, end}}},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/zone", 2024)
	assert.Equal(t, int32(3600), p.StdOffset)
	assert.Equal(t, int32(7200), p.DstOffset)
	assert.Equal(t, start.Unix(), p.DSTStartUTC)
	assert.Equal(t, end.Unix(), p.DSTEndUTC)
}

func TestResolve_Memoization(t *testing.T) {
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/zone": {std: 3600},
	}}
	r := NewResolver(s, discardLogger())

	first := r.Resolve("test/zone", 2024)
	callsAfterFirst := s.calls
	require.Positive(t, callsAfterFirst)

	second := r.Resolve("test/zone", 2024)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, s.calls, "second resolve must not re-sample")
	assert.Equal(t, 1, r.Resolved())

	// A different year is a different memo entry.
	r.Resolve("test/zone", 2025)
	assert.Greater(t, s.calls, callsAfterFirst)
	assert.Equal(t, 2, r.Resolved())
}

func TestResolve_ResetDropsMemo(t *testing.T) {
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/zone": {std: 3600},
	}}
	r := NewResolver(s, discardLogger())

	r.Resolve("test/zone", 2024)
	callsBefore := s.calls
	r.Reset()
	assert.Zero(t, r.Resolved())

	r.Resolve("test/zone", 2024)
	assert.Greater(t, s.calls, callsBefore)
}

func TestResolve_UnresolvableZoneFallsBackToZeroProfile(t *testing.T) {
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/broken": {err: errors.New("no such zone")},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/broken", 2024)
	assert.True(t, p.IsZero())
	assert.Equal(t, 1, r.Failures())

	// The failure is memoized like any other profile.
	r.Resolve("test/broken", 2024)
	assert.Equal(t, 1, r.Failures())
}

func TestResolve_NoonFallbackForBoundaryFailure(t *testing.T) {
	boundary := time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/zone": {
			std:    -18000,
			failAt: func(at time.Time) bool { return at.Equal(boundary) },
		},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/zone", 2024)
	assert.Equal(t, int32(-18000), p.StdOffset)
	assert.Zero(t, r.Failures())
}

func TestResolve_TransientSampleFailuresAreSkipped(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	flaky := time.Date(2024, time.July, 4, 12, 0, 0, 0, time.UTC)
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/zone": {
			std: 0, dst: 3600,
			dstRanges: [][2]time.Time{{start, end}},
			failAt:    func(at time.Time) bool { return at.Equal(flaky) },
		},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/zone", 2024)
	assert.Equal(t, int32(3600), p.DstOffset)
	assert.Equal(t, start.Unix(), p.DSTStartUTC)
	assert.Equal(t, end.Unix(), p.DSTEndUTC)
}

func TestResolve_LastTransitionWins(t *testing.T) {
	first := [2]time.Time{
		time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	second := [2]time.Time{
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
	}
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/doubledst": {std: 0, dst: 3600, dstRanges: [][2]time.Time{first, second}},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/doubledst", 2024)
	assert.Equal(t, second[0].Unix(), p.DSTStartUTC)
	assert.Equal(t, second[1].Unix(), p.DSTEndUTC)
}

func TestResolve_OutOfYearTransitionsIgnored(t *testing.T) {
	// DST window entirely inside the scan's trailing slack: the toggles fall
	// in January of the following year and must not be recorded.
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/zone": {
			std: 0, dst: 3600,
			dstRanges: [][2]time.Time{{start, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)}},
		},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/zone", 2024)
	assert.Equal(t, start.Unix(), p.DSTStartUTC)
	assert.Zero(t, p.DSTEndUTC, "end transition is outside the year")
}

func TestResolve_DegenerateDSTCollapses(t *testing.T) {
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	s := &scriptedSampler{zones: map[string]scriptedZone{
		"test/sliver": {std: 3600, dst: 3630, dstRanges: [][2]time.Time{{start, end}}},
	}}
	r := NewResolver(s, discardLogger())

	p := r.Resolve("test/sliver", 2024)
	assert.Equal(t, int32(3600), p.StdOffset)
	assert.Equal(t, int32(3600), p.DstOffset, "sub-minute DST shift collapses to standard")
	assert.Zero(t, p.DSTStartUTC)
	assert.Zero(t, p.DSTEndUTC)
	assert.False(t, p.HasDST())
}

func TestLocationSampler_EmptyZoneName(t *testing.T) {
	s := NewLocationSampler()
	_, err := s.Sample("", time.Now())
	assert.Error(t, err)
}

func TestLocationSampler_CachesLoadFailures(t *testing.T) {
	s := NewLocationSampler()
	_, err1 := s.Sample("Not/AZone", time.Now())
	require.Error(t, err1)
	_, err2 := s.Sample("Not/AZone", time.Now())
	assert.Equal(t, err1, err2)
}
