// Command citytz builds the static city timezone table: every named IANA
// zone on the build host is profiled for the target year, identical profiles
// collapse into buckets, and each bucket lists its cities alphabetically.
//
// Usage:
//
//	go run ./cmd/citytz -out src/c/tz_list.c
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/aliceisjustplaying/tidface/internal/adapter/csrc"
	"github.com/aliceisjustplaying/tidface/internal/adapter/zonedir"
	"github.com/aliceisjustplaying/tidface/internal/config"
	"github.com/aliceisjustplaying/tidface/internal/observability"
	"github.com/aliceisjustplaying/tidface/internal/pipeline"
	"github.com/aliceisjustplaying/tidface/internal/tzrule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	outPath := flag.String("out", "src/c/tz_list.c", "C output file path")
	year := flag.Int("year", cfg.TargetYear, "target year (0 = current year)")
	zoneDir := flag.String("zoneinfo", cfg.ZoneinfoDir, "zoneinfo directory override")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	targetYear := *year
	if targetYear == 0 {
		targetYear = clockwork.NewRealClock().Now().UTC().Year()
	}

	zones := zonedir.Zones(*zoneDir, logger)
	if len(zones) == 0 {
		logger.Error("no timezone universe available")
		os.Exit(1)
	}

	resolver := tzrule.NewResolver(tzrule.NewLocationSampler(), logger)
	buckets := pipeline.BuildCityTable(resolver, zones, targetYear, logger, metrics)

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Error("cannot create output file", "path", *outPath, "error", err)
		os.Exit(1)
	}
	if err := csrc.WriteCityTable(out, targetYear, buckets); err != nil {
		logger.Error("write city table failed", "path", *outPath, "error", err)
		out.Close()
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		logger.Error("close output file failed", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("city table written", "path", *outPath, "buckets", len(buckets))
}
