package insights

import (
	"context"
	"strings"
	"sync"
	"time"

	"igboard/pkg/errors"
	"igboard/pkg/logger"
	"igboard/pkg/models"
	"igboard/pkg/retry"
)

const (
	// DefaultRetryCount is the number of retries after the first attempt
	DefaultRetryCount = 3
	// DefaultRetryDelay is the fixed pause between attempts
	DefaultRetryDelay = time.Second
)

// API is the slice of the backend client the insight layer consumes
type API interface {
	GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error)
}

// Options configures a Fetcher
type Options struct {
	// AutoFetch makes EnsureFetched trigger a fetch on first use
	AutoFetch bool
	// CacheTime is how long a completed fetch satisfies EnsureFetched;
	// zero disables caching
	CacheTime time.Duration
	// RetryCount is the number of retries after the first attempt
	RetryCount int
	// RetryDelay is the fixed pause between attempts
	RetryDelay time.Duration
	// Wait blocks between retry attempts; injectable so tests run
	// without real time
	Wait retry.WaitFunc
}

// DefaultOptions returns the fetch controller defaults
func DefaultOptions() Options {
	return Options{
		AutoFetch:  true,
		CacheTime:  5 * time.Minute,
		RetryCount: DefaultRetryCount,
		RetryDelay: DefaultRetryDelay,
	}
}

// Fetcher owns one consumer's post-insight state: the last response, loading
// and error flags, and the parameter set it fetches with. Each consumer gets
// its own Fetcher; instances share nothing. The post list is replaced whole
// on every successful fetch.
type Fetcher struct {
	mu          sync.Mutex
	data        *models.PostInsightResponse
	loading     bool
	errMsg      string
	lastFetched time.Time
	params      models.PostInsightParams

	// hasFetched marks that a fetch ran for the current params; reset
	// whenever the params change so EnsureFetched fires exactly once
	// per parameter set
	hasFetched bool
	// fetchedParams are the params data was fetched with; the cache
	// window only applies while they match the current params
	fetchedParams models.PostInsightParams
	// seq increments per fetch; completions carrying an older value are
	// stale and get logged, but still land (last write wins)
	seq uint64

	api    API
	opts   Options
	logger logger.Logger
}

// NewFetcher creates a fetcher for the given parameter set
func NewFetcher(api API, params models.PostInsightParams, opts Options, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.RetryCount < 0 {
		opts.RetryCount = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Fetcher{
		api:    api,
		params: params,
		opts:   opts,
		logger: log,
	}
}

// FetchData fetches post insights for the fetcher's params, overlaid with any
// non-zero fields of override. A blank or all-whitespace account id fails
// immediately with no network call. Every failure is retried with a fixed
// delay until the budget runs out; the final attempt's error message becomes
// the fetcher error. On success the previous response is replaced whole.
func (f *Fetcher) FetchData(ctx context.Context, override *models.PostInsightParams) error {
	f.mu.Lock()
	params := f.params.Merge(override)
	if strings.TrimSpace(params.AccountID) == "" {
		f.errMsg = "no account selected"
		f.loading = false
		f.mu.Unlock()
		f.logger.Warn("insight fetch skipped, no account selected")
		return errors.NewValidationError("no account selected")
	}
	f.loading = true
	f.errMsg = ""
	f.hasFetched = true
	f.seq++
	seq := f.seq
	f.mu.Unlock()

	resp, err := retry.DoWithResult(func() (*models.PostInsightResponse, error) {
		return f.api.GetPostInsights(ctx, params)
	}, f.retryConfig(ctx))

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		f.logger.WarnWithFields("stale insight fetch completed", map[string]interface{}{
			"account_id": params.AccountID,
			"fetch_seq":  seq,
			"latest_seq": f.seq,
		})
	}
	f.loading = false

	if err != nil {
		f.errMsg = err.Error()
		f.logger.ErrorWithFields("insight fetch failed", map[string]interface{}{
			"account_id": params.AccountID,
			"error":      err.Error(),
		})
		return err
	}

	f.data = resp
	f.fetchedParams = params
	f.lastFetched = time.Now()
	f.logger.DebugWithFields("insights fetched", map[string]interface{}{
		"account_id": params.AccountID,
		"post_count": len(resp.Posts),
	})
	return nil
}

// EnsureFetched triggers a fetch the first time it is called for the current
// parameter set, when auto-fetch is enabled and an account id is present.
// Subsequent calls are no-ops until the params change or Refresh resets the
// marker. A still-fresh cached response for the same parameter set also
// satisfies it. With a blank account id nothing fires and no error state is
// entered.
func (f *Fetcher) EnsureFetched(ctx context.Context) error {
	f.mu.Lock()
	if !f.opts.AutoFetch || f.hasFetched {
		f.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(f.params.AccountID) == "" {
		f.mu.Unlock()
		return nil
	}
	if f.opts.CacheTime > 0 && f.data != nil && f.fetchedParams == f.params &&
		time.Since(f.lastFetched) < f.opts.CacheTime {
		f.hasFetched = true
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()
	return f.FetchData(ctx, nil)
}

// Refresh resets the fetched marker and refetches with the current params
func (f *Fetcher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.hasFetched = false
	f.mu.Unlock()
	return f.FetchData(ctx, nil)
}

// SetParams replaces the parameter set and resets the fetched marker so the
// next EnsureFetched fires again
func (f *Fetcher) SetParams(params models.PostInsightParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if params == f.params {
		return
	}
	f.params = params
	f.hasFetched = false
}

// Params returns the current parameter set
func (f *Fetcher) Params() models.PostInsightParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params
}

// FilterPosts returns the held posts matching mediaType, order preserved
func (f *Fetcher) FilterPosts(mediaType string) []models.PostInsight {
	return models.FilterByMediaType(f.Posts(), mediaType)
}

// Data returns the last response, nil before the first successful fetch
func (f *Fetcher) Data() *models.PostInsightResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Posts returns the held post list, empty before the first successful fetch
func (f *Fetcher) Posts() []models.PostInsight {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data == nil {
		return []models.PostInsight{}
	}
	out := make([]models.PostInsight, len(f.data.Posts))
	copy(out, f.data.Posts)
	return out
}

// Loading reports whether a fetch is in flight
func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// SetLoading forces the loading flag; used by callers that stage their own
// work around a fetch
func (f *Fetcher) SetLoading(loading bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = loading
}

// Err returns the current error message, empty when none
func (f *Fetcher) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// ClearError resets the fetcher error; idempotent
func (f *Fetcher) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errMsg = ""
}

// LastFetched returns when the last successful fetch completed
func (f *Fetcher) LastFetched() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFetched
}

func (f *Fetcher) retryConfig(ctx context.Context) *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = f.opts.RetryCount + 1
	// Every failure consumes retry budget; the controller does not
	// classify errors, only the attempt count bounds it
	cfg.RetryIf = nil
	cfg.Backoff = &retry.ConstantBackoff{Delay: f.opts.RetryDelay}
	cfg.Context = ctx
	cfg.Logger = f.logger
	if f.opts.Wait != nil {
		cfg.Wait = f.opts.Wait
	}
	return cfg
}
