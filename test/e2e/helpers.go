//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/courseloop/coursegw/internal/api/handlers"
	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/searchsvc"
	"github.com/courseloop/coursegw/internal/server"
	"github.com/courseloop/coursegw/internal/service"
)

// FakeSearchBackend is an in-memory stand-in for the document search
// backend. It stores chunks per course and ranks lexical queries by simple
// term overlap, enough to make relevance ordering observable in tests.
type FakeSearchBackend struct {
	mu       sync.Mutex
	courses  map[string][]domain.DocumentChunk
	requests atomic.Int64

	// FailWith, when non-zero, makes every retrieval respond with that
	// status and a fixed body.
	FailWith int

	Server *httptest.Server
}

var backendPathRe = regexp.MustCompile(`^/v1/courses/([^/]+)/documents:(search|ragSearch|batchCreate)$`)

func NewFakeSearchBackend() *FakeSearchBackend {
	b := &FakeSearchBackend{courses: map[string][]domain.DocumentChunk{}}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *FakeSearchBackend) Close() {
	b.Server.Close()
}

// Requests returns how many calls reached the backend.
func (b *FakeSearchBackend) Requests() int64 {
	return b.requests.Load()
}

// Seed stores chunks for a course directly, bypassing the wire API.
func (b *FakeSearchBackend) Seed(courseID string, chunks ...domain.DocumentChunk) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.courses[courseID] = append(b.courses[courseID], chunks...)
}

func (b *FakeSearchBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.requests.Add(1)

	m := backendPathRe.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.NotFound(w, r)
		return
	}
	courseID, verb := m[1], m[2]

	if verb == "batchCreate" {
		var req struct {
			Documents []domain.DocumentChunk `json:"documents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.Seed(courseID, req.Documents...)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"documents": req.Documents})
		return
	}

	if b.FailWith != 0 {
		http.Error(w, "index unavailable", b.FailWith)
		return
	}

	var req struct {
		Query    string `json:"query"`
		Mode     string `json:"mode"`
		PageSize int    `json:"page_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results := b.rank(courseID, req.Query, req.PageSize)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":   req.Query,
		"mode":    req.Mode,
		"results": results,
	})
}

func (b *FakeSearchBackend) rank(courseID, query string, pageSize int) []domain.DocumentChunk {
	b.mu.Lock()
	chunks := append([]domain.DocumentChunk(nil), b.courses[courseID]...)
	b.mu.Unlock()

	queryTerms := strings.Fields(strings.ToLower(query))

	type scored struct {
		chunk domain.DocumentChunk
		score float64
	}
	ranked := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		content := strings.ToLower(c.Content)
		score := 0.0
		for _, term := range queryTerms {
			score += float64(strings.Count(content, term))
		}
		if score == 0 {
			continue
		}
		c.Score = &score
		ranked = append(ranked, scored{chunk: c, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if pageSize > 0 && len(ranked) > pageSize {
		ranked = ranked[:pageSize]
	}
	out := make([]domain.DocumentChunk, len(ranked))
	for i, s := range ranked {
		out[i] = s.chunk
	}
	return out
}

// StubGenerator answers with a fixed reply, recording the prompt it got.
type StubGenerator struct {
	mu     sync.Mutex
	Reply  string
	Prompt string
}

func (g *StubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompt = prompt
	return g.Reply, nil
}

func (g *StubGenerator) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Prompt
}

// GatewayEnv is a running gateway wired to a fake backend and a stub
// generator.
type GatewayEnv struct {
	Backend   *FakeSearchBackend
	Generator *StubGenerator
	Gateway   *httptest.Server
}

func SetupGateway(t *testing.T) *GatewayEnv {
	t.Helper()

	backend := NewFakeSearchBackend()
	generator := &StubGenerator{Reply: "I don't know."}

	searchClient := searchsvc.NewClient(backend.Server.URL)
	answerSvc := service.NewAnswerService(searchClient, generator)

	router := server.NewRouter(server.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(searchClient, answerSvc),
		HealthHandler: handlers.NewHealthHandler(searchClient),
	})
	gateway := httptest.NewServer(router)

	t.Cleanup(func() {
		gateway.Close()
		backend.Close()
	})

	return &GatewayEnv{Backend: backend, Generator: generator, Gateway: gateway}
}

// PostJSON posts a JSON body to the gateway and decodes the response.
func (env *GatewayEnv) PostJSON(t *testing.T, path string, body any) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	resp, err := http.Post(env.Gateway.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, data
}
