package domain

// ZoneProfile describes one timezone's offset behavior for a single calendar
// year. Zones that behave identically share the same profile, which is why the
// struct is comparable and doubles as the bucket key.
//
// Invariants:
//   - StdOffset == DstOffset implies DSTStartUTC == DSTEndUTC == 0.
//   - Non-zero transition timestamps fall within the profiled year.
type ZoneProfile struct {
	StdOffset   int32 `json:"std_offset_seconds"`
	DstOffset   int32 `json:"dst_offset_seconds"`
	DSTStartUTC int64 `json:"dst_start_utc"`
	DSTEndUTC   int64 `json:"dst_end_utc"`
}

// HasDST reports whether the zone observes daylight saving time in the
// profiled year.
func (p ZoneProfile) HasDST() bool {
	return p.StdOffset != p.DstOffset
}

// IsZero reports whether the profile is the all-zero fallback returned for
// unresolvable zones. Note that UTC itself legitimately resolves to the zero
// profile.
func (p ZoneProfile) IsZero() bool {
	return p == ZoneProfile{}
}

// Bucket groups every location whose zone shares one ZoneProfile. Buckets are
// created once per distinct profile and never merged or split; Codes is
// append-only during allocation.
type Bucket struct {
	Profile ZoneProfile
	Codes   []string
}

// Classification is the coarse importance tier of a location, derived from
// the OurAirports type and scheduled-service columns.
type Classification int

const (
	ClassUnknown Classification = iota
	ClassMinor
	ClassRegional
	ClassMajor
)

// String returns the lowercase label used in logs and serialized output.
func (c Classification) String() string {
	switch c {
	case ClassMajor:
		return "major"
	case ClassRegional:
		return "regional"
	case ClassMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// ClassifyAirport maps an OurAirports airport type plus its scheduled-service
// flag to a Classification. Airports without scheduled service are treated as
// unknown regardless of size, matching the fallback hierarchy's requirements.
func ClassifyAirport(airportType string, scheduledService bool) Classification {
	if !scheduledService {
		return ClassUnknown
	}
	switch airportType {
	case "large_airport":
		return ClassMajor
	case "medium_airport":
		return ClassRegional
	case "small_airport":
		return ClassMinor
	default:
		return ClassUnknown
	}
}

// LocationRecord is the externally supplied metadata for one location code.
// Records with missing metadata carry ClassUnknown and a zero TrafficRank;
// they are still eligible for allocation.
type LocationRecord struct {
	Code        string
	DisplayName string
	TimezoneID  string
	TrafficRank uint
	Class       Classification
}
