package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aliceisjustplaying/tidface/internal/domain"
)

// Client fetches the ranking page from an HTTP endpoint or a local file.
type Client struct {
	source     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a ranking client. source is a URL or a local file path.
func NewClient(source string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		source: source,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch retrieves and parses the ranking page into priority-ordered location
// records (code and display name only; the pipeline fills in the rest from
// the directory). An empty result is an error: a ranking with no rows means
// the page changed shape or the download was truncated, and the build must
// not proceed on it.
func (c *Client) Fetch(ctx context.Context) ([]domain.LocationRecord, error) {
	if c.source == "" {
		return nil, fmt.Errorf("no ranking source configured")
	}

	var entries []Entry
	var err error
	if isURL(c.source) {
		entries, err = c.fetchHTTP(ctx)
	} else {
		entries, err = c.readFile()
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("ranking source %s contains no entries", c.source)
	}

	c.logger.Info("ranking loaded", "source", c.source, "entries", len(entries))

	records := make([]domain.LocationRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, domain.LocationRecord{Code: e.Code, DisplayName: e.Name})
	}
	return records, nil
}

func (c *Client) fetchHTTP(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source, nil)
	if err != nil {
		return nil, fmt.Errorf("create ranking request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ranking: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ranking: status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

func (c *Client) readFile() ([]Entry, error) {
	f, err := os.Open(c.source)
	if err != nil {
		return nil, fmt.Errorf("open ranking file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
