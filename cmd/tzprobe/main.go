// Command tzprobe resolves a single zone's yearly profile and prints it as
// JSON, for spot-checking table contents against known transition dates.
//
// Usage:
//
//	go run ./cmd/tzprobe -zone America/New_York -year 2024
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/aliceisjustplaying/tidface/internal/domain"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

func main() {
	zone := flag.String("zone", "", "IANA zone name (required)")
	year := flag.Int("year", 0, "target year (0 = current year)")
	flag.Parse()

	if *zone == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *year == 0 {
		*year = clockwork.NewRealClock().Now().UTC().Year()
	}

	// Probe output goes to stdout; keep resolver warnings off it.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	resolver := tzrule.NewResolver(tzrule.NewLocationSampler(), logger)

	result := struct {
		Zone string `json:"zone"`
		Year int    `json:"year"`
		domain.ZoneProfile
	}{*zone, *year, resolver.Resolve(*zone, *year)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
