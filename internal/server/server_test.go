package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scorecard/internal/assessment"
	"github.com/abhisek/scorecard/internal/auth"
	"github.com/abhisek/scorecard/internal/llm"
	"github.com/abhisek/scorecard/internal/plan"
	"github.com/abhisek/scorecard/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeHistory struct {
	events []store.PlanEvent
	err    error
	opts   store.QueryOpts
}

func (f *fakeHistory) QueryPlanEvents(_ context.Context, opts store.QueryOpts) ([]store.PlanEvent, error) {
	f.opts = opts
	return f.events, f.err
}

func do(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func demoBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(assessment.Demo())
	require.NoError(t, err)
	return b
}

func TestHealthz(t *testing.T) {
	router := New(plan.NewService(nil, plan.DefaultConfig(), nil, nil), nil, nil).Router()

	w := do(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestDemo(t *testing.T) {
	router := New(plan.NewService(nil, plan.DefaultConfig(), nil, nil), nil, nil).Router()

	w := do(t, router, http.MethodGet, "/api/demo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	snap, err := assessment.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, assessment.Demo().StudentName, snap.StudentName)
}

func TestPlan_Provided(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockPlan("a", "b", "c"))
	router := New(plan.NewService(mock, plan.DefaultConfig(), nil, nil), nil, nil).Router()

	w := do(t, router, http.MethodPost, "/api/plan", demoBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b", "c"}, resp.Plan)
	assert.Equal(t, "provided", resp.Source)
	assert.Empty(t, resp.Reason)
	assert.Equal(t, "Physics", resp.FocusSubject)
}

func TestPlan_FallbackStillReturns200(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	router := New(plan.NewService(mock, plan.DefaultConfig(), nil, nil), nil, nil).Router()

	w := do(t, router, http.MethodPost, "/api/plan", demoBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Plan, plan.StepCount)
	assert.Equal(t, "fallback", resp.Source)
	assert.Equal(t, "provider-error", resp.Reason)
	assert.Equal(t, "Read the chapter on Physics again carefully.", resp.Plan[0])
}

func TestPlan_InvalidBody(t *testing.T) {
	mock := llm.NewMockProvider()
	router := New(plan.NewService(mock, plan.DefaultConfig(), nil, nil), nil, nil).Router()

	for name, body := range map[string]string{
		"not json":       `{`,
		"no subjects":    `{"studentName":"Rahul","subjects":[]}`,
		"unknown status": `{"studentName":"Rahul","subjects":[{"name":"Physics","status":"terrible"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/plan", []byte(body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
	assert.Zero(t, mock.CallCount())
}

func TestHistory(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	hist := &fakeHistory{events: []store.PlanEvent{{
		ID:        7,
		Timestamp: ts,
		PlanEventData: store.PlanEventData{
			StudentName:  "Rahul",
			FocusSubject: "Physics",
			Source:       "fallback",
			Reason:       "provider-error",
			Steps:        []string{"a", "b", "c"},
			LatencyMs:    12,
		},
	}}}
	router := New(plan.NewService(nil, plan.DefaultConfig(), nil, nil), hist, nil).Router()

	w := do(t, router, http.MethodGet, "/api/plans?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, hist.opts.Limit)

	var got []PlanEventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ID)
	assert.Equal(t, "2026-03-01T10:00:00Z", got[0].Timestamp)
	assert.Equal(t, "provider-error", got[0].Reason)

	w = do(t, router, http.MethodGet, "/api/plans?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	hist.err = errors.New("db closed")
	w = do(t, router, http.MethodGet, "/api/plans", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHistory_NotRegisteredWithoutStore(t *testing.T) {
	router := New(plan.NewService(nil, plan.DefaultConfig(), nil, nil), nil, nil).Router()

	w := do(t, router, http.MethodGet, "/api/plans", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := New(plan.NewService(nil, plan.DefaultConfig(), nil, nil), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestAuth(t *testing.T) {
	tokens, err := auth.NewJWTService("s3cret", time.Hour)
	require.NoError(t, err)
	valid, err := tokens.GenerateToken("portal")
	require.NoError(t, err)

	router := New(plan.NewService(nil, plan.DefaultConfig(), nil, nil), nil, nil, WithAuth(tokens)).Router()

	get := func(path, header string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/healthz", ""), "health check stays open")
	assert.Equal(t, http.StatusUnauthorized, get("/api/demo", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/api/demo", valid))
	assert.Equal(t, http.StatusUnauthorized, get("/api/demo", "Bearer nope"))
	assert.Equal(t, http.StatusOK, get("/api/demo", "Bearer "+valid))
}
