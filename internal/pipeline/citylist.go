package pipeline

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/aliceisjustplaying/tidface/internal/bucket"
	"github.com/aliceisjustplaying/tidface/internal/domain"
	"github.com/aliceisjustplaying/tidface/internal/observability"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

// genericCityNames are zone path segments that are regions or legacy labels
// rather than cities; they would mislead on the watch face and are excluded
// from the city table. Keys are lowercase.
var genericCityNames = map[string]bool{
	"samoa": true, "hawaii": true, "aleutian": true, "alaska": true,
	"pacific": true, "arizona": true, "yukon": true, "mountain": true,
	"general": true, "saskatchewan": true, "central": true, "knox in": true,
	"easterisland": true, "acre": true, "jamaica": true, "michigan": true,
	"eastern": true, "east-indiana": true, "atlantic": true,
	"continental": true, "newfoundland": true, "east": true, "bahia": true,
	"noronha": true, "south georgia": true, "canary": true, "faeroe": true,
	"faroe": true, "guernsey": true, "isle of man": true, "jersey": true,
	"madeira": true, "jan mayen": true, "west": true, "north": true,
	"south": true, "act": true, "nsw": true, "tasmania": true,
	"victoria": true, "queensland": true, "yap": true, "south pole": true,
	"kanton": true,
}

// CityName derives the display name for a zone: the last path segment with
// underscores replaced by spaces ("America/New_York" -> "New York").
func CityName(zone string) string {
	idx := strings.LastIndexByte(zone, '/')
	if idx < 0 || idx == len(zone)-1 {
		return ""
	}
	return strings.ReplaceAll(zone[idx+1:], "_", " ")
}

// BuildCityTable buckets the presentable zone universe and fills each bucket
// with its zones' city names, deduplicated and sorted. Generic region names
// and names not starting with an uppercase letter are filtered before
// bucketing, so a profile exhibited only by such zones creates no bucket at
// all. Unlike airport allocation there is no cap and no fallback; every
// presentable name is kept.
func BuildCityTable(resolver *tzrule.Resolver, zones []string, year int,
	logger *slog.Logger, metrics *observability.Metrics,
) []*domain.Bucket {
	sorted := make([]string, len(zones))
	copy(sorted, zones)
	sort.Strings(sorted)

	resolvedBefore := resolver.Resolved()
	failuresBefore := resolver.Failures()

	kept := sorted[:0]
	skipped := 0
	for _, zone := range sorted {
		if presentableCityName(CityName(zone)) {
			kept = append(kept, zone)
		} else {
			skipped++
		}
	}

	table := bucket.NewBuilder(resolver).Build(kept, year)

	for _, zone := range kept {
		name := CityName(zone)
		bkt := table.Lookup(resolver.Resolve(zone, year))
		if !containsName(bkt.Codes, name) {
			bkt.Codes = append(bkt.Codes, name)
		}
	}

	buckets := table.Buckets()
	names := 0
	for _, b := range buckets {
		sort.Strings(b.Codes)
		names += len(b.Codes)
	}

	metrics.ZonesResolved.Add(float64(resolver.Resolved() - resolvedBefore))
	metrics.ResolveFallbacks.Add(float64(resolver.Failures() - failuresBefore))
	metrics.BucketsCreated.Set(float64(table.Len()))
	metrics.CodesAllocated.Set(float64(names))

	logger.Info("city table built",
		"year", year,
		"zones", len(zones),
		"buckets", table.Len(),
		"names", names,
		"skipped", skipped,
	)
	return buckets
}

func presentableCityName(name string) bool {
	if name == "" || genericCityNames[strings.ToLower(name)] {
		return false
	}
	first := []rune(name)[0]
	return unicode.IsUpper(first)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
