package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vendorahq/vendora-backend/pkg/config"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

// Fetcher downloads supplier feed documents over HTTP with a hard size cap.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logg     *logger.Logger
}

func NewFetcher(cfg config.ImportConfig, logg *logger.Logger) (*Fetcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.MaxFeedBytes <= 0 {
		return nil, fmt.Errorf("max feed bytes must be positive")
	}
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		maxBytes: cfg.MaxFeedBytes,
		logg:     logg,
	}, nil
}

// ValidateURL rejects feed locations before a job is ever enqueued.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "feed url is malformed")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.New(apperrors.CodeValidation, "feed url must use http or https")
	}
	if parsed.Host == "" {
		return apperrors.New(apperrors.CodeValidation, "feed url is missing a host")
	}
	return nil
}

// Fetch downloads and parses the feed at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*Feed, error) {
	if err := ValidateURL(feedURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "building feed request")
	}
	req.Header.Set("Accept", "application/x-yaml, text/yaml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransport, err, "fetching feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.CodeTransport,
			fmt.Sprintf("feed endpoint returned status %d", resp.StatusCode))
	}

	// Read one byte past the cap so an exactly-at-limit feed still passes.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransport, err, "reading feed body")
	}
	if int64(len(body)) > f.maxBytes {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("feed exceeds the %d byte limit", f.maxBytes))
	}

	f.logg.Debug(f.logg.WithField(ctx, "feed_bytes", len(body)), "feed downloaded")
	return Parse(body)
}
