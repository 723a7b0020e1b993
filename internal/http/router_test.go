package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishabhsai/linkscope/internal/analyzer"
	"github.com/rishabhsai/linkscope/internal/config"
	"github.com/rishabhsai/linkscope/internal/link"
	"github.com/rishabhsai/linkscope/internal/logger"
	"github.com/rishabhsai/linkscope/internal/workers"
)

type testEnv struct {
	router http.Handler
	repo   *link.MemoryRepository
	svc    *link.Service
}

func newTestEnv(t *testing.T, ai *analyzer.Client) *testEnv {
	t.Helper()

	repo := link.NewMemoryRepository()
	svc := link.NewService(repo)
	log := logger.New("error", false)

	if ai == nil {
		ai = analyzer.NewClient("", "", "", 0)
	}

	tracker := workers.NewAccessTracker(svc, log, 16)
	r := NewRouter(config.Config{}, svc, ai, tracker, log)

	return &testEnv{router: r, repo: repo, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-Username", user)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeRecord(t *testing.T, rec *httptest.ResponseRecorder) link.Record {
	t.Helper()
	var out link.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLinksRequireUsername(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/links", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAndListManual(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url":     "example.com/post",
		"summary": "A nice post",
		"tags":    []string{"reading"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeRecord(t, rec)
	assert.Equal(t, "https://example.com/post", created.URL)
	assert.True(t, created.IsManuallyAdded)

	list := env.do(t, http.MethodGet, "/links", "alice", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var records []link.Record
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, created.ID, records[0].ID)
}

func TestCreateManualWithoutSummaryRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrossUserVisibilityAndOwnership(t *testing.T) {
	env := newTestEnv(t, nil)

	active := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://shared.example", "summary": "shared", "status": "active",
	}))
	todo := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://private.example", "summary": "mine", "status": "todo",
	}))

	// Bob sees the shared active record but not Alice's todo.
	list := env.do(t, http.MethodGet, "/links", "bob", nil)
	var records []link.Record
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, active.ID, records[0].ID)

	todos := env.do(t, http.MethodGet, "/links?tab=todos", "bob", nil)
	require.NoError(t, json.Unmarshal(todos.Body.Bytes(), &records))
	assert.Empty(t, records)

	// Bob cannot update or delete either of Alice's records.
	upd := env.do(t, http.MethodPatch, "/links/"+todo.ID, "bob", map[string]any{"summary": "stolen"})
	assert.Equal(t, http.StatusNotFound, upd.Code)
	del := env.do(t, http.MethodDelete, "/links/"+active.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, del.Code)
}

func TestTodosTabOrdering(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://done.example", "summary": "done", "status": "completed",
	})
	todo := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://todo.example", "summary": "todo", "status": "todo",
	}))

	list := env.do(t, http.MethodGet, "/links?tab=todos", "alice", nil)
	var records []link.Record
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, todo.ID, records[0].ID)
	assert.Equal(t, link.StatusCompleted, records[1].Status)
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	match := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://gardens.example/guide", "summary": "Raised bed basics", "tags": []string{"gardening"},
	}))
	env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://other.example", "summary": "unrelated",
	})

	rec := env.do(t, http.MethodGet, "/links/search?q=garden", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []link.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, match.ID, records[0].ID)

	// Exact tag containment also matches.
	rec = env.do(t, http.MethodGet, "/links/search?q=gardening", "alice", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, match.ID, records[0].ID)
}

func TestReorderEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	a := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://a.example", "summary": "a",
	}))
	b := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://b.example", "summary": "b",
	}))

	rec := env.do(t, http.MethodPost, "/links/reorder", "alice", []map[string]any{
		{"id": a.ID, "order": 1},
		{"id": b.ID, "order": 0},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, ok := env.repo.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Position)
}

func TestAccessEndpointAlwaysAccepted(t *testing.T) {
	env := newTestEnv(t, nil)

	created := decodeRecord(t, env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://a.example", "summary": "a",
	}))

	rec := env.do(t, http.MethodPost, "/links/"+created.ID+"/access", "alice", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// Tracking an unknown id is still accepted; the failure is only logged.
	rec = env.do(t, http.MethodPost, "/links/no-such-id/access", "alice", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url": "https://a.example", "summary": "a", "tags": []string{"x", "y"},
	})

	rec := env.do(t, http.MethodGet, "/links/export?format=csv", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "URL,Title,Summary,Tags,Status,Created At,Context"))
}

func TestAnalyzeProxyContract(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"x\",\"tags\":[\"a\"]}"}}]}`))
	}))
	defer upstream.Close()

	t.Run("credential unconfigured", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, http.MethodPost, "/api/analyze-link", "", map[string]any{"url": "https://x.example"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing url", func(t *testing.T) {
		ai := analyzer.NewClient(upstream.URL, "key", "gpt-4o", time.Second)
		env := newTestEnv(t, ai)
		rec := env.do(t, http.MethodPost, "/api/analyze-link", "", map[string]any{"context": "no url"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, http.MethodGet, "/api/analyze-link", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("relays raw upstream body", func(t *testing.T) {
		ai := analyzer.NewClient(upstream.URL, "key", "gpt-4o", time.Second)
		env := newTestEnv(t, ai)
		rec := env.do(t, http.MethodPost, "/api/analyze-link", "", map[string]any{"url": "https://x.example"})
		require.Equal(t, http.StatusOK, rec.Code)

		// The caller extracts choices[0].message.content itself.
		var out struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Len(t, out.Choices, 1)
		assert.Contains(t, out.Choices[0].Message.Content, "summary")
	})

	t.Run("proxies upstream failure status", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusTeapot)
		}))
		defer failing.Close()

		ai := analyzer.NewClient(failing.URL, "key", "gpt-4o", time.Second)
		env := newTestEnv(t, ai)
		rec := env.do(t, http.MethodPost, "/api/analyze-link", "", map[string]any{"url": "https://x.example"})
		assert.Equal(t, http.StatusTeapot, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "OpenAI API error", body["error"])
	})
}

func TestCreateWithAnalyze(t *testing.T) {
	fenced := "```json\n{\"summary\":\"A cooking video\",\"tags\":[\"cooking\",\"video\"]}\n```"
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": fenced}}},
		})
	}))
	defer upstream.Close()

	ai := analyzer.NewClient(upstream.URL, "key", "gpt-4o", time.Second)
	env := newTestEnv(t, ai)

	rec := env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url":     "https://youtu.be/cook",
		"context": "dinner ideas",
		"analyze": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeRecord(t, rec)
	assert.Equal(t, "A cooking video", created.Summary)
	assert.Equal(t, []string{"cooking", "video"}, []string(created.Tags))
	assert.Equal(t, link.TypeVideo, created.Type)
	assert.Equal(t, link.PlatformYouTube, created.Platform)
	assert.False(t, created.IsManuallyAdded)
}

func TestCreateWithAnalyzeUpstreamDown(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer failing.Close()

	ai := analyzer.NewClient(failing.URL, "key", "gpt-4o", time.Second)
	env := newTestEnv(t, ai)

	rec := env.do(t, http.MethodPost, "/links", "alice", map[string]any{
		"url":     "https://example.com",
		"analyze": true,
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// Nothing was stored: the AI round trip happens before creation.
	list := env.do(t, http.MethodGet, "/links", "alice", nil)
	var records []link.Record
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &records))
	assert.Empty(t, records)
}
