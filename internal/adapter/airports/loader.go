package airports

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aliceisjustplaying/tidface/internal/domain"
)

// Loader fetches the three source datasets and assembles a Directory.
// Sources may be URLs or local file paths.
type Loader struct {
	airportsSrc    string
	ourAirportsSrc string
	routesSrc      string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewLoader creates a Loader for the given dataset sources.
func NewLoader(airportsSrc, ourAirportsSrc, routesSrc string, timeout time.Duration, logger *slog.Logger) *Loader {
	return &Loader{
		airportsSrc:    airportsSrc,
		ourAirportsSrc: ourAirportsSrc,
		routesSrc:      routesSrc,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Load fetches and merges the datasets. The airports dataset is mandatory —
// without it there are no locations at all — while classification and route
// data degrade to unknown/zero when unavailable.
func (l *Loader) Load(ctx context.Context) (*Directory, error) {
	rows, err := l.loadAirports(ctx)
	if err != nil {
		return nil, err
	}

	classes, err := l.loadClassifications(ctx)
	if err != nil {
		l.logger.Warn("classification dataset unavailable, all locations unclassified", "error", err)
		classes = map[string]domain.Classification{}
	}

	traffic, err := l.loadRouteCounts(ctx)
	if err != nil {
		l.logger.Warn("route dataset unavailable, all traffic counts zero", "error", err)
		traffic = map[string]uint{}
	}

	dir := NewDirectory(merge(rows, classes, traffic))
	l.logger.Info("location directory loaded",
		"locations", dir.Len(),
		"classified", len(classes),
		"with_traffic", len(traffic),
	)
	return dir, nil
}

func (l *Loader) loadAirports(ctx context.Context) ([]airportRow, error) {
	body, err := l.open(ctx, l.airportsSrc)
	if err != nil {
		return nil, fmt.Errorf("airports dataset: %w", err)
	}
	defer body.Close()
	return parseAirports(body)
}

func (l *Loader) loadClassifications(ctx context.Context) (map[string]domain.Classification, error) {
	body, err := l.open(ctx, l.ourAirportsSrc)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return parseClassifications(body)
}

func (l *Loader) loadRouteCounts(ctx context.Context) (map[string]uint, error) {
	body, err := l.open(ctx, l.routesSrc)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return parseRouteCounts(body)
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, fmt.Errorf("no source configured")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", source, err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
	}
	return resp.Body, nil
}
