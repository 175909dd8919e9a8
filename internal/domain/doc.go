// Package domain models the static timezone tables built for the tidface
// watch application.
//
// # Why static tables
//
// The watch firmware cannot carry the IANA timezone database or perform rule
// evaluation at runtime. Instead, a build-time batch run samples every zone's
// behavior for one calendar year and freezes the result into a compact table.
// The table is regenerated (and reflashed) once per year; DST rules in it are
// accurate only for that year.
//
// # Profiles and buckets
//
// A [ZoneProfile] captures everything the watch needs about a zone for one
// year: the standard UTC offset, the daylight UTC offset, and the UTC instants
// of the last daylight entry and exit within the year. Zones with identical
// profiles are indistinguishable to the watch, so they collapse into a single
// [Bucket]. A few hundred IANA zones typically fold into well under a hundred
// buckets.
//
// Offsets are seconds east of UTC. Transition timestamps are Unix seconds;
// zero means "no transition" and appears whenever the standard and daylight
// offsets are equal. Zones whose standard and daylight offsets differ by less
// than a minute are treated as not observing DST at all.
//
// # Location codes
//
// Buckets carry short stable location codes (airport IATA codes, or city
// names for the city table). Because the watch table is tiny, each bucket
// holds only a bounded, ranked selection of codes; the [Snapshot] flattens
// them into a single pool and records a (pool_offset, pool_count) pair per
// bucket.
//
// Location metadata comes from three public datasets: an airports database
// (code, name, IANA zone), the OurAirports catalog (airport type and
// scheduled-service flag, folded into [Classification]), and the OpenFlights
// route list (traffic counts used for ranking).
package domain
