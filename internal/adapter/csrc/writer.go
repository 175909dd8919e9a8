// Package csrc emits the generated tables as C source for the watch
// firmware. Two layouts exist: the airport table pools all codes and names
// into flat arrays indexed by (offset, count) pairs, and the city table
// keeps a name array per bucket. Both store offsets as hours and transition
// instants as int64 UTC timestamps.
package csrc

import (
	"fmt"
	"io"

	"github.com/aliceisjustplaying/tidface/internal/domain"
)

// WriteAirportTable writes the pooled airport table for a snapshot.
func WriteAirportTable(w io.Writer, snap domain.Snapshot) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("// Auto-generated airport timezone table\n")
	p("// Year-specific DST data for %d\n\n", snap.Year)
	p("#include <stdint.h>\n\n")

	p("static const char* airport_code_pool[] = {\n")
	for _, code := range snap.CodePool {
		p("    %q,\n", code)
	}
	p("};\n\n")

	p("static const char* airport_name_pool[] = {\n")
	for _, name := range snap.NamePool {
		p("    %q,\n", name)
	}
	p("};\n\n")

	p("typedef struct {\n")
	p("    float std_offset_hours;\n")
	p("    float dst_offset_hours;\n")
	p("    int64_t dst_start_utc;\n")
	p("    int64_t dst_end_utc;\n")
	p("    int name_offset;\n")
	p("    int name_count;\n")
	p("} TzInfo;\n\n")

	p("static const TzInfo airport_tz_list[] = {\n")
	for _, b := range snap.Buckets {
		p("    { %.2ff, %.2ff, %dLL, %dLL, %d, %d },\n",
			hours(b.StdOffset), hours(b.DstOffset),
			b.DSTStartUTC, b.DSTEndUTC,
			b.PoolOffset, b.PoolCount)
	}
	p("};\n\n")
	p("#define AIRPORT_TZ_LIST_COUNT (sizeof(airport_tz_list)/sizeof(airport_tz_list[0]))\n")
	p("#define AIRPORT_CODE_POOL_COUNT (sizeof(airport_code_pool)/sizeof(airport_code_pool[0]))\n")
	p("#define AIRPORT_NAME_POOL_COUNT (sizeof(airport_name_pool)/sizeof(airport_name_pool[0]))\n")

	return err
}

// WriteCityTable writes the per-bucket city-name table. Bucket codes are the
// city display names themselves, already deduplicated and sorted. Buckets
// with no names are omitted: an empty initializer list is not valid C.
func WriteCityTable(w io.Writer, year int, buckets []*domain.Bucket) error {
	kept := make([]*domain.Bucket, 0, len(buckets))
	for _, b := range buckets {
		if len(b.Codes) > 0 {
			kept = append(kept, b)
		}
	}
	buckets = kept

	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("// Auto-generated city timezone table\n")
	p("// Includes Standard & DST offsets and UTC transition timestamps for %d.\n", year)
	p("// WARNING: DST rules accurate only for the generated year.\n\n")
	p("#include <stdint.h>\n\n")
	p("typedef struct {\n")
	p("    const char* name;\n")
	p("} TzCityName;\n\n")
	p("typedef struct {\n")
	p("    float std_offset_hours;\n")
	p("    float dst_offset_hours;\n")
	p("    int64_t dst_start_utc;\n")
	p("    int64_t dst_end_utc;\n")
	p("    const TzCityName* names;\n")
	p("    int name_count;\n")
	p("} TzInfo;\n\n")

	for i, b := range buckets {
		p("static const TzCityName tz_names_%d[] = {\n", i)
		for _, name := range b.Codes {
			p("    { %q },\n", name)
		}
		p("};\n\n")
	}

	p("static const TzInfo tz_list[] = {\n")
	for i, b := range buckets {
		p("    { %.2ff, %.2ff, %dLL, %dLL, tz_names_%d, %d },\n",
			hours(b.Profile.StdOffset), hours(b.Profile.DstOffset),
			b.Profile.DSTStartUTC, b.Profile.DSTEndUTC,
			i, len(b.Codes))
	}
	p("};\n\n")
	p("#define TZ_LIST_COUNT %d\n", len(buckets))

	return err
}

func hours(seconds int32) float64 {
	return float64(seconds) / 3600.0
}
