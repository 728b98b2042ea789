package insights

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igboard/pkg/errors"
	"igboard/pkg/logger"
	"igboard/pkg/models"
)

type stubInsightAPI struct {
	mu        sync.Mutex
	responses []stubResult
	calls     int
	params    []models.PostInsightParams
}

type stubResult struct {
	resp *models.PostInsightResponse
	err  error
}

func (s *stubInsightAPI) GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = append(s.params, params)
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	return r.resp, r.err
}

func (s *stubInsightAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func networkErr(msg string) error {
	return &errors.Error{Type: errors.ErrorTypeNetwork, Message: msg}
}

func insightResponse(postIDs ...string) *models.PostInsightResponse {
	posts := make([]models.PostInsight, 0, len(postIDs))
	for _, id := range postIDs {
		posts = append(posts, models.PostInsight{ID: id, Type: models.MediaTypeImage})
	}
	return &models.PostInsightResponse{
		Posts:   posts,
		Summary: models.SummarizePosts(posts),
	}
}

// recordingWait captures retry delays instead of sleeping
type recordingWait struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (w *recordingWait) wait(ctx context.Context, delay time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delays = append(w.delays, delay)
	return nil
}

func testOptions(wait *recordingWait) Options {
	opts := DefaultOptions()
	opts.RetryDelay = 250 * time.Millisecond
	opts.Wait = wait.wait
	return opts
}

func TestFetchDataSuccess(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1", "p2")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.NoError(t, f.FetchData(context.Background(), nil))

	assert.Len(t, f.Posts(), 2)
	assert.False(t, f.Loading())
	assert.Empty(t, f.Err())
	assert.False(t, f.LastFetched().IsZero())
}

func TestFetchDataBlankAccountID(t *testing.T) {
	for _, accountID := range []string{"", "   ", " \t "} {
		api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
		f := NewFetcher(api, models.PostInsightParams{AccountID: accountID}, testOptions(&recordingWait{}), logger.NewTestLogger())

		err := f.FetchData(context.Background(), nil)

		require.Error(t, err, "account id %q", accountID)
		assert.Equal(t, "no account selected", f.Err())
		assert.Equal(t, 0, api.callCount(), "no request may leave the process without an account id (%q)", accountID)
		assert.False(t, f.Loading())
	}
}

func TestFetchDataRetriesThenSucceeds(t *testing.T) {
	wait := &recordingWait{}
	api := &stubInsightAPI{responses: []stubResult{
		{err: networkErr("connection refused")},
		{err: networkErr("connection refused")},
		{resp: insightResponse("p1")},
	}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(wait), logger.NewTestLogger())

	require.NoError(t, f.FetchData(context.Background(), nil))

	assert.Equal(t, 3, api.callCount())
	require.Len(t, wait.delays, 2)
	assert.Equal(t, 250*time.Millisecond, wait.delays[0])
	assert.Equal(t, 250*time.Millisecond, wait.delays[1])
	assert.Len(t, f.Posts(), 1)
	assert.Empty(t, f.Err())
}

func TestFetchDataRetryBudgetExhausted(t *testing.T) {
	wait := &recordingWait{}
	api := &stubInsightAPI{responses: []stubResult{
		{err: networkErr("attempt 1 failed")},
		{err: networkErr("attempt 2 failed")},
		{err: networkErr("attempt 3 failed")},
		{err: networkErr("attempt 4 failed")},
	}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(wait), logger.NewTestLogger())

	err := f.FetchData(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, 4, api.callCount(), "one initial attempt plus three retries")
	assert.Len(t, wait.delays, 3)
	assert.Equal(t, "attempt 4 failed", f.Err(), "final attempt's message surfaces")
	assert.Empty(t, f.Posts(), "failure leaves no partial data")
}

func TestFetchDataRetriesRegardlessOfErrorType(t *testing.T) {
	// The controller spends its whole budget on any failing backend; it
	// does not classify errors the way lower-level callers might.
	for _, failure := range []error{
		&errors.Error{Type: errors.ErrorTypeNotFound, Message: "account not found"},
		&errors.Error{Type: errors.ErrorTypeAuth, Message: "token expired"},
		errors.NewValidationError("invalid date range"),
	} {
		wait := &recordingWait{}
		api := &stubInsightAPI{responses: []stubResult{{err: failure}}}
		f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(wait), logger.NewTestLogger())

		err := f.FetchData(context.Background(), nil)

		require.Error(t, err)
		assert.Equal(t, 4, api.callCount(), "one initial attempt plus three retries for %v", failure)
		assert.Len(t, wait.delays, 3)
	}
}

func TestFetchDataOverrideParams(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1", Limit: 50}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.NoError(t, f.FetchData(context.Background(), &models.PostInsightParams{MediaType: "VIDEO"}))

	require.Len(t, api.params, 1)
	assert.Equal(t, "acc-1", api.params[0].AccountID)
	assert.Equal(t, "VIDEO", api.params[0].MediaType)
	assert.Equal(t, 50, api.params[0].Limit)

	// the override is per-call, not sticky
	assert.Equal(t, "", f.Params().MediaType)
}

func TestEnsureFetchedFiresOncePerParams(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.NoError(t, f.EnsureFetched(context.Background()))
	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 1, api.callCount())

	f.SetParams(models.PostInsightParams{AccountID: "acc-2"})
	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 2, api.callCount(), "changed params rearm the auto-fetch")

	// setting identical params does not rearm
	f.SetParams(models.PostInsightParams{AccountID: "acc-2"})
	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 2, api.callCount())
}

func TestEnsureFetchedDisabledAutoFetch(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
	opts := testOptions(&recordingWait{})
	opts.AutoFetch = false
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, opts, logger.NewTestLogger())

	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 0, api.callCount())
}

func TestEnsureFetchedBlankAccountIDNoOp(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "   "}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 0, api.callCount())
	assert.Empty(t, f.Err(), "a missing account is not an error until a fetch is asked for")

	// an account arriving rearms the auto-fetch
	f.SetParams(models.PostInsightParams{AccountID: "acc-1"})
	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 1, api.callCount())
}

func TestEnsureFetchedCacheScopedToParams(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.NoError(t, f.EnsureFetched(context.Background()))
	require.Equal(t, 1, api.callCount())

	// a fresh cache holds data for acc-1; it must not satisfy acc-2
	f.SetParams(models.PostInsightParams{AccountID: "acc-2"})
	require.NoError(t, f.EnsureFetched(context.Background()))
	assert.Equal(t, 2, api.callCount(), "cached data for other params does not satisfy the fetch")
}

func TestRefreshRearmsAndRefetches(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{resp: insightResponse("p1")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.NoError(t, f.EnsureFetched(context.Background()))
	require.NoError(t, f.Refresh(context.Background()))
	assert.Equal(t, 2, api.callCount(), "Refresh refetches even while the cache window is still fresh")
}

func TestFilterPosts(t *testing.T) {
	resp := &models.PostInsightResponse{Posts: []models.PostInsight{
		{ID: "p1", Type: models.MediaTypeImage},
		{ID: "p2", Type: models.MediaTypeVideo},
		{ID: "p3", Type: models.MediaTypeImage},
	}}
	api := &stubInsightAPI{responses: []stubResult{{resp: resp}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), logger.NewTestLogger())
	require.NoError(t, f.FetchData(context.Background(), nil))

	images := f.FilterPosts("IMAGE")
	require.Len(t, images, 2)
	assert.Equal(t, "p1", images[0].ID)
	assert.Equal(t, "p3", images[1].ID)

	all := f.FilterPosts(models.MediaTypeAll)
	assert.Len(t, all, 3)

	assert.Empty(t, f.FilterPosts("STORY"))
}

func TestClearErrorIdempotent(t *testing.T) {
	api := &stubInsightAPI{responses: []stubResult{{err: errors.NewValidationError("bad request")}}}
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), logger.NewTestLogger())

	require.Error(t, f.FetchData(context.Background(), nil))
	require.NotEmpty(t, f.Err())

	f.ClearError()
	assert.Empty(t, f.Err())
	f.ClearError()
	assert.Empty(t, f.Err())
}

type gatedInsightAPI struct {
	started chan chan *models.PostInsightResponse
}

func (g *gatedInsightAPI) GetPostInsights(ctx context.Context, params models.PostInsightParams) (*models.PostInsightResponse, error) {
	reply := make(chan *models.PostInsightResponse)
	g.started <- reply
	return <-reply, nil
}

func TestOverlappingFetchesLastWriteWins(t *testing.T) {
	api := &gatedInsightAPI{
		started: make(chan chan *models.PostInsightResponse),
	}
	log := logger.NewTestLogger()
	f := NewFetcher(api, models.PostInsightParams{AccountID: "acc-1"}, testOptions(&recordingWait{}), log)

	firstDone := make(chan struct{})
	go func() {
		_ = f.FetchData(context.Background(), nil)
		close(firstDone)
	}()
	firstReply := <-api.started

	secondDone := make(chan struct{})
	go func() {
		_ = f.FetchData(context.Background(), nil)
		close(secondDone)
	}()
	secondReply := <-api.started

	// the second fetch lands first, then the first trickles in late
	secondReply <- insightResponse("from-second")
	<-secondDone
	firstReply <- insightResponse("from-first")
	<-firstDone

	posts := f.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "from-first", posts[0].ID, "whichever completion lands last wins")
	assert.True(t, log.HasMessage("WARN", "stale insight fetch completed"))
	assert.False(t, f.Loading())
}
