package cratesio_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bounds/internal/adapters/cas"
	"go.trai.ch/bounds/internal/adapters/cratesio"
	"go.trai.ch/bounds/internal/core/domain"
	"go.trai.ch/bounds/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// MockRoundTripper is a helper to mock http.Client behavior.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) *http.Response
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req), nil
}

func newMockClient(handler func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{
		Transport: &MockRoundTripper{RoundTripFunc: handler},
	}
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const randIndex = `{"name":"rand","vers":"0.8.0","deps":[],"cksum":"a","features":{},"yanked":false}
{"name":"rand","vers":"0.8.5","deps":[],"cksum":"b","features":{},"yanked":false}
{"name":"rand","vers":"0.8.4","deps":[],"cksum":"c","features":{},"yanked":true}
{"name":"rand","vers":"0.9.0-alpha.1","deps":[],"cksum":"d","features":{},"yanked":false}

{"name":"rand","vers":"0.7.3","deps":[],"cksum":"e","features":{},"yanked":false}
`

func testConfig(t *testing.T) domain.RegistryConfig {
	t.Helper()
	return domain.RegistryConfig{
		IndexURL: "https://index.example",
		CacheTTL: time.Hour,
		CacheDir: t.TempDir(),
	}
}

func newClient(t *testing.T, cfg domain.RegistryConfig, handler func(*http.Request) *http.Response) *cratesio.Client {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return cratesio.NewClient(cfg, log).WithHTTPClient(newMockClient(handler))
}

func strs(vs []domain.Version) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}

func TestIndexPath(t *testing.T) {
	tests := map[string]string{
		"a":         "1/a",
		"ab":        "2/ab",
		"abc":       "3/a/abc",
		"rand":      "ra/nd/rand",
		"toml_edit": "to/ml/toml_edit",
	}
	for crate, want := range tests {
		assert.Equal(t, want, cratesio.IndexPath(crate), crate)
	}
}

func TestListVersions(t *testing.T) {
	var gotURL string
	client := newClient(t, testConfig(t), func(req *http.Request) *http.Response {
		gotURL = req.URL.String()
		return respond(http.StatusOK, randIndex)
	})

	versions, err := client.ListVersions(context.Background(), "Rand")
	require.NoError(t, err)

	assert.Equal(t, "https://index.example/ra/nd/rand", gotURL)
	assert.Equal(t, []string{"0.7.3", "0.8.0", "0.8.5"}, strs(versions))
}

func TestListVersions_IncludeYanked(t *testing.T) {
	cfg := testConfig(t)
	cfg.IncludeYanked = true
	client := newClient(t, cfg, func(*http.Request) *http.Response {
		return respond(http.StatusOK, randIndex)
	})

	versions, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.7.3", "0.8.0", "0.8.4", "0.8.5"}, strs(versions))
}

func TestListVersions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: domain.ErrCrateNotFound},
		{name: "server error", status: http.StatusInternalServerError, want: domain.ErrRegistryRequestFailed},
		{name: "malformed body", status: http.StatusOK, body: "{not json", want: domain.ErrRegistryParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, testConfig(t), func(*http.Request) *http.Response {
				return respond(tt.status, tt.body)
			})

			_, err := client.ListVersions(context.Background(), "rand")
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestListVersions_NotFoundMatchesSentinel(t *testing.T) {
	client := newClient(t, testConfig(t), func(*http.Request) *http.Response {
		return respond(http.StatusNotFound, "")
	})

	_, err := client.ListVersions(context.Background(), "missing-crate")
	assert.ErrorIs(t, err, domain.ErrCrateNotFound)
}

func TestListVersions_UsesFreshCache(t *testing.T) {
	var requests atomic.Int32
	cfg := testConfig(t)
	client := newClient(t, cfg, func(*http.Request) *http.Response {
		requests.Add(1)
		return respond(http.StatusOK, randIndex)
	})

	first, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)
	second, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, strs(first), strs(second))
}

func TestListVersions_RefetchesStaleCache(t *testing.T) {
	var requests atomic.Int32
	cfg := testConfig(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	client := newClient(t, cfg, func(*http.Request) *http.Response {
		requests.Add(1)
		return respond(http.StatusOK, randIndex)
	}).WithClock(func() time.Time { return now })

	_, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	assert.Equal(t, int32(2), requests.Load())
}

func TestListVersions_FallsBackToStaleCache(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	online := true

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("using cached versions of rand: registry unavailable")

	client := cratesio.NewClient(cfg, log).
		WithHTTPClient(newMockClient(func(*http.Request) *http.Response {
			if online {
				return respond(http.StatusOK, randIndex)
			}
			return respond(http.StatusBadGateway, "")
		})).
		WithClock(func() time.Time { return now })

	_, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	online = false
	now = now.Add(48 * time.Hour)
	versions, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.7.3", "0.8.0", "0.8.5"}, strs(versions))
}

func TestListVersions_CacheIsPerIndex(t *testing.T) {
	var requests atomic.Int32
	handler := func(*http.Request) *http.Response {
		requests.Add(1)
		return respond(http.StatusOK, randIndex)
	}

	cfg := testConfig(t)
	_, err := newClient(t, cfg, handler).ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	cfg.IndexURL = "https://mirror.example"
	_, err = newClient(t, cfg, handler).ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	assert.Equal(t, int32(2), requests.Load())
}

func TestListVersions_RateLimited(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RateLimit = time.Second

		client := newClient(t, cfg, func(*http.Request) *http.Response {
			return respond(http.StatusOK, randIndex)
		})

		start := time.Now()
		for _, crate := range []string{"rand", "serde", "itoa"} {
			_, err := client.ListVersions(context.Background(), crate)
			require.NoError(t, err)
		}

		assert.GreaterOrEqual(t, time.Since(start), 2*time.Second)
	})
}

func TestListVersions_ContextCanceled(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = time.Hour

	client := newClient(t, cfg, func(*http.Request) *http.Response {
		return respond(http.StatusOK, randIndex)
	})

	_, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.ListVersions(ctx, "serde")
	require.Error(t, err)
}

func TestListVersions_CorruptCacheIsRefetched(t *testing.T) {
	cfg := testConfig(t)
	store := cas.NewStore(cfg.CacheDir)
	require.NoError(t, os.WriteFile(store.Path(cas.Key(cfg.IndexURL, "rand")), []byte("{broken"), 0o600))

	var requests atomic.Int32
	client := newClient(t, cfg, func(*http.Request) *http.Response {
		requests.Add(1)
		return respond(http.StatusOK, randIndex)
	})

	versions, err := client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.7.3", "0.8.0", "0.8.5"}, strs(versions))
	assert.Equal(t, int32(1), requests.Load())

	_, err = client.ListVersions(context.Background(), "rand")
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
}
