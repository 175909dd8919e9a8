package tzrule

import (
	"fmt"
	"time"
	// Embed the IANA database so builds behave identically on hosts without
	// /usr/share/zoneinfo. The output table depends on tzdata contents, so an
	// OS-provided database of a different vintage would silently change it.
	_ "time/tzdata"
)

// Sample is one instantaneous observation of a zone: its total UTC offset in
// seconds and whether daylight saving time is in effect.
type Sample struct {
	Offset int32
	DST    bool
}

// Sampler answers point-in-time zone queries. Implementations must be
// deterministic for a given (zone, instant) pair.
type Sampler interface {
	Sample(zone string, at time.Time) (Sample, error)
}

// LocationSampler samples zones through the Go timezone database. Location
// handles are cached per zone name, as are load failures, so an unknown zone
// costs one lookup rather than one per sampled hour.
//
// Not safe for concurrent use; each build run owns its sampler.
type LocationSampler struct {
	locs map[string]*time.Location
	errs map[string]error
}

// NewLocationSampler creates a LocationSampler with empty caches.
func NewLocationSampler() *LocationSampler {
	return &LocationSampler{
		locs: make(map[string]*time.Location),
		errs: make(map[string]error),
	}
}

// Sample reports the zone's total UTC offset and DST activity at the given
// instant.
func (s *LocationSampler) Sample(zone string, at time.Time) (Sample, error) {
	loc, err := s.load(zone)
	if err != nil {
		return Sample{}, err
	}
	local := at.In(loc)
	_, offset := local.Zone()
	return Sample{Offset: int32(offset), DST: local.IsDST()}, nil
}

func (s *LocationSampler) load(zone string) (*time.Location, error) {
	if zone == "" {
		// time.LoadLocation("") means UTC; an empty zone id here is missing
		// data, not a UTC reference.
		return nil, fmt.Errorf("empty zone name")
	}
	if loc, ok := s.locs[zone]; ok {
		return loc, nil
	}
	if err, ok := s.errs[zone]; ok {
		return nil, err
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		s.errs[zone] = err
		return nil, err
	}
	s.locs[zone] = loc
	return loc, nil
}
