// Package cratesio lists published crate versions from the crates.io sparse index.
package cratesio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/bounds/internal/adapters/cas"
	"go.trai.ch/bounds/internal/build"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

const (
	httpClientTimeout = 30 * time.Second
	maxIndexLine      = 1 << 20
)

// Client implements ports.Registry.
type Client struct {
	indexURL      string
	ttl           time.Duration
	includeYanked bool

	cache      *cas.Store
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     ports.Logger
	now        func() time.Time
}

// indexRecord is the subset of a sparse index line bounds needs.
type indexRecord struct {
	Vers   string `json:"vers"`
	Yanked bool   `json:"yanked"`
}

type cacheEntry struct {
	Crate     string        `json:"crate"`
	IndexURL  string        `json:"index_url"`
	FetchedAt time.Time     `json:"fetched_at"`
	Records   []indexRecord `json:"records"`
}

// NewClient creates a Client from the registry configuration.
func NewClient(cfg domain.RegistryConfig, logger ports.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Every(cfg.RateLimit)
	}

	indexURL := cfg.IndexURL
	if indexURL == "" {
		indexURL = domain.DefaultIndexURL
	}

	return &Client{
		indexURL:      strings.TrimSuffix(indexURL, "/"),
		ttl:           cfg.CacheTTL,
		includeYanked: cfg.IncludeYanked,
		cache:         cas.NewStore(cfg.CacheDir),
		httpClient:    &http.Client{Timeout: httpClientTimeout},
		limiter:       rate.NewLimiter(limit, 1),
		logger:        logger,
		now:           time.Now,
	}
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// ListVersions returns the published, non-prerelease versions of the crate in
// ascending order. Yanked releases are dropped unless configured otherwise.
//
// A fresh cache entry is used without contacting the registry. When the
// registry cannot be reached, a stale entry is used instead.
func (c *Client) ListVersions(ctx context.Context, name string) ([]domain.Version, error) {
	crate := strings.ToLower(name)

	entry, cached := c.loadFromCache(crate)
	if cached && c.fresh(entry) {
		return c.versions(entry.Records), nil
	}

	records, err := c.fetch(ctx, crate)
	if err != nil {
		if cached && !errors.Is(err, domain.ErrCrateNotFound) && ctx.Err() == nil {
			c.logger.Warn(fmt.Sprintf("using cached versions of %s: registry unavailable", crate))
			return c.versions(entry.Records), nil
		}
		return nil, err
	}

	if err := c.saveToCache(crate, records); err != nil {
		c.logger.Warn(fmt.Sprintf("could not cache versions of %s: %v", crate, err))
	}

	return c.versions(records), nil
}

func (c *Client) fresh(entry *cacheEntry) bool {
	return entry.IndexURL == c.indexURL && c.now().Sub(entry.FetchedAt) < c.ttl
}

func (c *Client) versions(records []indexRecord) []domain.Version {
	out := make([]domain.Version, 0, len(records))
	for _, r := range records {
		if r.Yanked && !c.includeYanked {
			continue
		}
		v, err := domain.ParseVersion(r.Vers)
		if err != nil || v.IsPrerelease() {
			continue
		}
		out = append(out, v)
	}
	return domain.SortVersions(out)
}

func (c *Client) fetch(ctx context.Context, crate string) ([]indexRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.indexURL + "/" + indexPath(crate)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", url)
	}
	req.Header.Set("User-Agent", "bounds/"+build.Version+" (https://go.trai.ch/bounds)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone, http.StatusForbidden:
		// The sparse index answers 403 for unknown paths on some mirrors.
		return nil, errors.Join(domain.ErrCrateNotFound, zerr.With(zerr.New("unknown crate"), "crate", crate))
	default:
		err := domain.Tag(domain.ErrRegistryRequestFailed, "url", url)
		return nil, zerr.With(err, "status", resp.StatusCode)
	}

	records, err := parseIndex(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryParseFailed.Error()), "crate", crate)
	}
	return records, nil
}

// parseIndex reads newline-delimited JSON index records.
func parseIndex(r io.Reader) ([]indexRecord, error) {
	var records []indexRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxIndexLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec indexRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// indexPath returns the sparse index path of a lowercase crate name.
func indexPath(crate string) string {
	switch len(crate) {
	case 1:
		return "1/" + crate
	case 2:
		return "2/" + crate
	case 3:
		return "3/" + crate[:1] + "/" + crate
	default:
		return crate[:2] + "/" + crate[2:4] + "/" + crate
	}
}

func (c *Client) loadFromCache(crate string) (*cacheEntry, bool) {
	var entry cacheEntry
	ok, err := c.cache.Get(cas.Key(c.indexURL, crate), &entry)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("ignoring registry cache of %s: %v", crate, err))
		return nil, false
	}
	return &entry, ok
}

func (c *Client) saveToCache(crate string, records []indexRecord) error {
	entry := cacheEntry{
		Crate:     crate,
		IndexURL:  c.indexURL,
		FetchedAt: c.now(),
		Records:   records,
	}

	if err := c.cache.Put(cas.Key(c.indexURL, crate), entry); err != nil {
		return errors.Join(domain.ErrRegistryCacheWriteFailed, err)
	}
	return nil
}
