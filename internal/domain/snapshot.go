package domain

import (
	"strings"
	"time"
)

// BucketRecord is one bucket flattened for emission. PoolOffset and PoolCount
// index into the snapshot's parallel code/name pools; the downstream table
// format stores only these two integers per bucket.
type BucketRecord struct {
	StdOffset   int32 `json:"std_offset_seconds"`
	DstOffset   int32 `json:"dst_offset_seconds"`
	DSTStartUTC int64 `json:"dst_start_utc"`
	DSTEndUTC   int64 `json:"dst_end_utc"`
	PoolOffset  int   `json:"pool_offset"`
	PoolCount   int   `json:"pool_count"`
}

// Snapshot is the frozen output of one build run: the ordered bucket table
// plus the flattened code and display-name pools. Valid for exactly one
// calendar year.
type Snapshot struct {
	Year        int            `json:"year"`
	GeneratedAt time.Time      `json:"generated_at"`
	Buckets     []BucketRecord `json:"buckets"`
	CodePool    []string       `json:"code_pool"`
	NamePool    []string       `json:"name_pool"`
}

// NewSnapshot flattens allocated buckets into a Snapshot. Buckets must already
// be in their final presentation order; pool layout follows that order, so
// each bucket's codes occupy a contiguous pool range. displayName maps a
// location code to its pool display name and may be nil, in which case the
// code itself is used.
func NewSnapshot(year int, generatedAt time.Time, buckets []*Bucket, displayName func(code string) string) Snapshot {
	snap := Snapshot{
		Year:        year,
		GeneratedAt: generatedAt,
		Buckets:     make([]BucketRecord, 0, len(buckets)),
	}

	for _, b := range buckets {
		rec := BucketRecord{
			StdOffset:   b.Profile.StdOffset,
			DstOffset:   b.Profile.DstOffset,
			DSTStartUTC: b.Profile.DSTStartUTC,
			DSTEndUTC:   b.Profile.DSTEndUTC,
			PoolOffset:  len(snap.CodePool),
			PoolCount:   len(b.Codes),
		}
		for _, code := range b.Codes {
			name := code
			if displayName != nil {
				name = displayName(code)
			}
			snap.CodePool = append(snap.CodePool, code)
			snap.NamePool = append(snap.NamePool, PoolName(name))
		}
		snap.Buckets = append(snap.Buckets, rec)
	}

	return snap
}

// PoolName shortens a display name for the fixed-width name pool by dropping
// the trailing " International Airport" or " Airport" suffix.
func PoolName(name string) string {
	if s, ok := strings.CutSuffix(name, " International Airport"); ok {
		return strings.TrimRight(s, " ")
	}
	if s, ok := strings.CutSuffix(name, " Airport"); ok {
		return strings.TrimRight(s, " ")
	}
	return name
}
