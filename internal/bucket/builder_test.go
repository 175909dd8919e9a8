package bucket_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliceisjustplaying/tidface/internal/bucket"
	"github.com/aliceisjustplaying/tidface/internal/domain"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

func newResolver() *tzrule.Resolver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return tzrule.NewResolver(tzrule.NewLocationSampler(), logger)
}

func TestBuild_DedupesIdenticalProfiles(t *testing.T) {
	r := newResolver()
	table := bucket.NewBuilder(r).Build([]string{
		"America/New_York",
		"America/Toronto",
		"America/Denver",
		"America/Phoenix",
		"Australia/Sydney",
		"America/New_York", // duplicate
		"",                 // empty entries are skipped
	}, 2024)

	// Toronto shares New York's profile, so five zones yield four buckets.
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, 2024, table.Year())

	ny := r.Resolve("America/New_York", 2024)
	toronto := r.Resolve("America/Toronto", 2024)
	require.Equal(t, ny, toronto)
	assert.Same(t, table.Lookup(ny), table.Lookup(toronto))
}

func TestBuild_GroupsByStandardOffset(t *testing.T) {
	r := newResolver()
	table := bucket.NewBuilder(r).Build([]string{
		"America/Phoenix", // -25200, no DST
		"America/Denver",  // -25200, with DST
		"America/New_York",
	}, 2024)

	assert.Equal(t, []int32{-25200, -18000}, table.StdOffsets())

	// Group keys follow bucket creation order over the sorted universe:
	// Denver sorts before Phoenix.
	keys := table.GroupKeys(-25200)
	require.Len(t, keys, 2)
	assert.True(t, keys[0].HasDST())
	assert.False(t, keys[1].HasDST())

	assert.Empty(t, table.GroupKeys(3600))
}

func TestBuild_BucketOrdering(t *testing.T) {
	r := newResolver()
	table := bucket.NewBuilder(r).Build([]string{
		"Australia/Sydney",
		"America/New_York",
		"America/Denver",
		"America/Phoenix",
	}, 2024)

	buckets := table.Buckets()
	require.Len(t, buckets, 4)

	// Ascending by standard offset, then daylight offset: Phoenix's
	// DST-less bucket precedes Denver's within the -25200 group.
	assert.Equal(t, int32(-25200), buckets[0].Profile.StdOffset)
	assert.False(t, buckets[0].Profile.HasDST())
	assert.Equal(t, int32(-25200), buckets[1].Profile.StdOffset)
	assert.True(t, buckets[1].Profile.HasDST())
	assert.Equal(t, int32(-18000), buckets[2].Profile.StdOffset)
	assert.Equal(t, int32(36000), buckets[3].Profile.StdOffset)
}

func TestLookup_UnknownProfile(t *testing.T) {
	table := bucket.NewBuilder(newResolver()).Build([]string{"America/New_York"}, 2024)
	assert.Nil(t, table.Lookup(domain.ZoneProfile{StdOffset: 12345}))
}

func TestBuild_EmptyUniverse(t *testing.T) {
	table := bucket.NewBuilder(newResolver()).Build(nil, 2024)
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Buckets())
	assert.Empty(t, table.StdOffsets())
}
