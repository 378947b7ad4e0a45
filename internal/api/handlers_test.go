package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emailverifier "github.com/sanketagarwal/email-verifier"
	"github.com/sanketagarwal/email-verifier/internal/api"
	"github.com/sanketagarwal/email-verifier/types"
)

// countingResolver gives every domain an MX record and counts lookups.
type countingResolver struct{ calls atomic.Int64 }

func (r *countingResolver) LookupMX(_ context.Context, domain string) ([]string, error) {
	r.calls.Add(1)
	return []string{"mx." + domain}, nil
}

func (r *countingResolver) LookupA(context.Context, string) ([]string, error) { return nil, nil }

func newServer(t *testing.T, maxBatch int) (*httptest.Server, *countingResolver) {
	t.Helper()
	res := &countingResolver{}
	v := emailverifier.New().WithResolver(res)
	h := api.NewHandlers(v, maxBatch, emailverifier.BatchOptions{GroupSize: 10}, nil)
	srv := httptest.NewServer(api.NewRouter(h, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, res
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/verify", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestVerify_Success(t *testing.T) {
	srv, res := newServer(t, 100)

	resp, err := http.Post(srv.URL+"/api/verify", "application/json",
		strings.NewReader(`{"emails": ["Alice@Example.com", "not-an-email", "user@gmial.com", 42]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	var body struct {
		BatchID string                `json:"batchId"`
		Results []types.Outcome       `json:"results"`
		Summary emailverifier.Summary `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.NotEmpty(t, body.BatchID)
	require.Len(t, body.Results, 4)
	assert.Equal(t, types.Outcome{Email: "alice@example.com", Status: types.StatusValid, Reason: emailverifier.ReasonAllPassed}, body.Results[0])
	assert.Equal(t, types.StatusInvalid, body.Results[1].Status)
	assert.Equal(t, "user@gmail.com", body.Results[2].Suggestion)
	assert.Equal(t, types.Outcome{Email: "", Status: types.StatusInvalid, Reason: "email is empty"}, body.Results[3])
	assert.Equal(t, emailverifier.Summary{Total: 4, Valid: 1, Invalid: 2, Risky: 1}, body.Summary)
	assert.Equal(t, int64(1), res.calls.Load())
}

func TestVerify_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `emails=a@b.com`, "JSON object"},
		{"top-level array", `["a@example.com"]`, "JSON object"},
		{"missing emails", `{}`, "must be a list"},
		{"emails not a list", `{"emails": "a@example.com"}`, "must be a list"},
		{"emails null", `{"emails": null}`, "must be a list"},
		{"empty list", `{"emails": []}`, "empty"},
		{"too many", `{"emails": ["a@example.com", "b@example.com", "c@example.com", "d@example.com"]}`, "batch too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, res := newServer(t, 3)
			resp, out := post(t, srv, tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, out["error"], tt.want)
			assert.Equal(t, int64(0), res.calls.Load(), "rejected before any classification")
		})
	}
}

// failingVerifier always returns an error.
type failingVerifier struct{}

func (failingVerifier) VerifyBatch(context.Context, []string, ...emailverifier.BatchOptions) (emailverifier.Report, error) {
	return emailverifier.Report{}, errors.New("database on fire")
}

func TestVerify_InternalErrorIsGeneric(t *testing.T) {
	h := api.NewHandlers(failingVerifier{}, 10, emailverifier.BatchOptions{}, nil)
	srv := httptest.NewServer(api.NewRouter(h, []string{"*"}))
	defer srv.Close()

	resp, out := post(t, srv, `{"emails": ["a@example.com"]}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", out["error"])
}

// panickingVerifier panics inside the handler.
type panickingVerifier struct{}

func (panickingVerifier) VerifyBatch(context.Context, []string, ...emailverifier.BatchOptions) (emailverifier.Report, error) {
	panic("unexpected")
}

func TestVerify_PanicIsRecovered(t *testing.T) {
	h := api.NewHandlers(panickingVerifier{}, 10, emailverifier.BatchOptions{}, nil)
	srv := httptest.NewServer(api.NewRouter(h, []string{"*"}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/verify", "application/json", strings.NewReader(`{"emails": ["a@example.com"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, 10)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newServer(t, 10)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/verify", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t, 10)

	resp, err := http.Get(srv.URL + "/api/verify")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
