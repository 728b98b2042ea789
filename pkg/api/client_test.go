package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igboard/pkg/errors"
	"igboard/pkg/logger"
	"igboard/pkg/models"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newMockHTTPClient(handler func(req *http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{
		Transport: &mockRoundTripper{handler: handler},
		Timeout:   30 * time.Second,
	}
}

func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func jsonResponse(statusCode int, v interface{}) *http.Response {
	body, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(handler func(req *http.Request) (*http.Response, error)) *Client {
	return NewClient(
		"http://backend:8000",
		30*time.Second,
		logger.NewTestLogger(),
		WithHTTPClient(newMockHTTPClient(handler)),
	)
}

func boolPtr(b bool) *bool { return &b }

func TestGetAccountsBuildsQuery(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(200, models.AccountListResponse{
			Accounts:    []models.Account{{ID: "a1", Username: "shop1"}},
			Total:       1,
			ActiveCount: 1,
		}), nil
	})

	resp, err := client.GetAccounts(context.Background(), models.GetAccountsParams{
		ActiveOnly:     boolPtr(true),
		IncludeMetrics: boolPtr(false),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "/api/v1/accounts", captured.URL.Path)
	assert.Equal(t, "true", captured.URL.Query().Get("active_only"))
	assert.Equal(t, "false", captured.URL.Query().Get("include_metrics"))
	assert.Len(t, resp.Accounts, 1)
	assert.Equal(t, "shop1", resp.Accounts[0].Username)
}

func TestGetAccountsOmitsUnsetParams(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(200, models.AccountListResponse{}), nil
	})

	_, err := client.GetAccounts(context.Background(), models.GetAccountsParams{})
	require.NoError(t, err)
	assert.Empty(t, captured.URL.RawQuery, "unset optional params must not be serialized")
}

func TestGetPostInsightsQuerySerialization(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(200, models.PostInsightResponse{}), nil
	})

	_, err := client.GetPostInsights(context.Background(), models.PostInsightParams{
		AccountID: "a1",
		FromDate:  "2024-01-01",
		MediaType: "VIDEO",
		Limit:     25,
	})
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "a1", q.Get("account_id"))
	assert.Equal(t, "2024-01-01", q.Get("from_date"))
	assert.Equal(t, "VIDEO", q.Get("media_type"))
	assert.Equal(t, "25", q.Get("limit"))
	assert.False(t, q.Has("to_date"), "empty to_date must not be serialized")
}

func TestErrorBodyDetailWins(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return newResponse(404, `{"detail":"Account not found: nope","message":"other"}`), nil
	})

	_, err := client.GetAccountDetails(context.Background(), "nope")
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Account not found: nope", apiErr.Message)
	assert.Equal(t, errors.ErrorTypeNotFound, apiErr.Type)
	assert.Equal(t, 404, apiErr.Code)
}

func TestErrorBodyFallbackToStatusLine(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return newResponse(503, "<html>unavailable</html>"), nil
	})

	_, err := client.GetAccounts(context.Background(), models.GetAccountsParams{})
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP 503: Service Unavailable", apiErr.Message)
	assert.Equal(t, errors.ErrorTypeServerError, apiErr.Type)
}

func TestNetworkErrorIsTyped(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	_, err := client.GetAccounts(context.Background(), models.GetAccountsParams{})
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeNetwork, apiErr.Type)
	assert.Equal(t, 0, apiErr.Code)
}

func TestMalformedSuccessBodyIsParsingError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return newResponse(200, `{"accounts": [not json`), nil
	})

	_, err := client.GetAccounts(context.Background(), models.GetAccountsParams{})
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeParsing, apiErr.Type)
}

func TestValidateTokenUsesPost(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(200, models.TokenValidationResponse{
			AccountID:    "a1",
			IsValid:      true,
			WarningLevel: models.TokenWarningNone,
		}), nil
	})

	result, err := client.ValidateToken(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/v1/accounts/a1/validate-token", captured.URL.Path)
	assert.True(t, result.IsValid)
}

func TestSetupAccountsValidatesBeforeSending(t *testing.T) {
	sent := false
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		sent = true
		return jsonResponse(200, models.SetupResponse{}), nil
	})

	_, err := client.SetupAccounts(context.Background(), models.SetupRequest{AppID: "not numeric"})
	require.Error(t, err)
	assert.False(t, sent, "invalid setup request must not reach the network")
}

func TestSetupAccountsPostsBody(t *testing.T) {
	var captured models.SetupRequest
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		return jsonResponse(200, models.SetupResponse{Success: true, AccountsCreated: 2}), nil
	})

	req := models.SetupRequest{
		AppID:      "123456789",
		AppSecret:  "0123456789abcdef0123456789abcdef",
		ShortToken: "EAAshorttoken",
	}
	resp, err := client.SetupAccounts(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req, captured)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.AccountsCreated)
}

func TestGetAccountStatus(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v1/accounts/a1/status", req.URL.Path)
		return jsonResponse(200, models.AccountStatus{
			AccountID:        "a1",
			Username:         "shop1",
			ConnectionStatus: "connected",
		}), nil
	})

	status, err := client.GetAccountStatus(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "connected", status.ConnectionStatus)
}
