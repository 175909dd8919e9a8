// Command airporttz builds the static airport timezone table for the watch
// firmware. It fetches the top-airports ranking and the location datasets,
// resolves every referenced zone's DST profile for the target year, groups
// identical profiles into buckets, allocates a bounded ranked set of IATA
// codes per bucket, and emits the pooled C table.
//
// Usage:
//
//	go run ./cmd/airporttz \
//	  -html top1000.html \
//	  -out src/c/airport_tz_list.c \
//	  -top 10 -max-bucket 3
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aliceisjustplaying/tidface/internal/adapter/airports"
	"github.com/aliceisjustplaying/tidface/internal/adapter/csrc"
	kafkaadapter "github.com/aliceisjustplaying/tidface/internal/adapter/kafka"
	"github.com/aliceisjustplaying/tidface/internal/adapter/ranking"
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

	htmlSrc := flag.String("html", cfg.RankingURL, "ranking page URL or local file")
	outPath := flag.String("out", "src/c/airport_tz_list.c", "C output file path")
	top := flag.Int("top", cfg.PerGroupSeed, "ranked codes seeded per standard-offset group")
	maxBucket := flag.Int("max-bucket", cfg.PerBucketCap, "maximum codes per bucket")
	year := flag.Int("year", cfg.TargetYear, "target year (0 = current year)")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if *htmlSrc == "" {
		logger.Error("no ranking source: set -html or RANKING_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	directory, err := airports.NewLoader(
		cfg.AirportsURL, cfg.OurAirportsURL, cfg.RoutesURL,
		cfg.HTTPTimeout, logger,
	).Load(ctx)
	if err != nil {
		logger.Error("failed to load location directory", "error", err)
		os.Exit(1)
	}

	resolver := tzrule.NewResolver(tzrule.NewLocationSampler(), logger)
	rankingClient := ranking.NewClient(*htmlSrc, cfg.HTTPTimeout, logger)

	builder := pipeline.NewBuilder(resolver, rankingClient, directory,
		logger, metrics, *maxBucket, *top)

	snap, err := builder.Run(ctx, *year)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Error("cannot create output file", "path", *outPath, "error", err)
		os.Exit(1)
	}
	if err := csrc.WriteAirportTable(out, snap); err != nil {
		logger.Error("write airport table failed", "path", *outPath, "error", err)
		out.Close()
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		logger.Error("close output file failed", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("airport table written", "path", *outPath,
		"buckets", len(snap.Buckets), "codes", len(snap.CodePool))

	if cfg.SnapshotEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		if err := publisher.Publish(ctx, snap); err != nil {
			metrics.PublishErrors.Inc()
			logger.Error("snapshot publish failed", "error", err)
		} else {
			metrics.SnapshotsPublished.Inc()
		}
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
}
