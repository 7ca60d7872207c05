package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appanalysis "github.com/bryanwahyu/textlens/internal/application/analysis"
	apptagging "github.com/bryanwahyu/textlens/internal/application/tagging"
	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	domtagging "github.com/bryanwahyu/textlens/internal/domain/tagging"
	"github.com/bryanwahyu/textlens/internal/infra/keyword"
	"github.com/bryanwahyu/textlens/internal/middleware"
)

type fakeClient struct {
	fn func(prompt string) domai.Outcome
}

func (f fakeClient) Generate(_ context.Context, prompt string) domai.Outcome {
	return f.fn(prompt)
}

type fakeChecker struct{ err error }

func (f fakeChecker) HealthCheck(context.Context) error { return f.err }

type failingExtractor struct{}

func (failingExtractor) Extract(string, domtagging.Options) ([]domtagging.Keyphrase, error) {
	return nil, errors.New("boom")
}

func newTestRouter(t *testing.T, client domai.Client, mod func(*Deps)) (http.Handler, *middleware.Metrics) {
	t.Helper()
	metrics := middleware.NewMetrics()
	d := Deps{
		Analysis: appanalysis.NewService(client, appanalysis.WithOutcomeHook(metrics.RecordOutcome)),
		Tagging:  apptagging.NewService(keyword.New(), domtagging.DefaultOptions()),
		Metrics:  metrics,
		Health:   map[string]middleware.HealthChecker{"inference": fakeChecker{}},
	}
	if mod != nil {
		mod(&d)
	}
	return NewRouter(d), metrics
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func ok(string) domai.Outcome { return domai.Success("fine") }

func TestRoot(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	rec := do(h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["message"] != "Text Analysis API is running" {
		t.Fatalf("message = %q", body["message"])
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}
}

func TestAnalyzeReturnsAllAreas(t *testing.T) {
	h, metrics := newTestRouter(t, fakeClient{fn: ok}, nil)
	rec := do(h, http.MethodPost, "/analyze", `{"text":"The essay argues well."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	want := `{"weakness":"fine","strength":"fine","improvements":"fine","recommendations":"fine"}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
	if got := metrics.InferenceSuccess.Load(); got != 4 {
		t.Fatalf("inference successes = %d, want 4", got)
	}
}

func TestAnalyzeBackendDownStill200(t *testing.T) {
	down := func(string) domai.Outcome {
		return domai.Fail(domai.KindUnreachable, "Cannot connect to Ollama. Make sure it's running with 'ollama serve'")
	}
	h, metrics := newTestRouter(t, fakeClient{fn: down}, nil)
	rec := do(h, http.MethodPost, "/analyze", `{"text":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 4 {
		t.Fatalf("areas = %d, want 4", len(body))
	}
	for area, v := range body {
		if v["kind"] != "unreachable" {
			t.Errorf("%s kind = %v", area, v["kind"])
		}
		if !strings.Contains(v["error"].(string), "ollama serve") {
			t.Errorf("%s error = %v", area, v["error"])
		}
	}
	if got := metrics.InferenceFailures(domai.KindUnreachable); got != 4 {
		t.Fatalf("unreachable failures = %d, want 4", got)
	}
}

func TestAnalyzeEmptyTextAccepted(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	if rec := do(h, http.MethodPost, "/analyze", `{"text":""}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInvalidBodies(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	cases := map[string]string{
		"missing text": `{}`,
		"wrong type":   `{"text": 42}`,
		"not json":     `text=hello`,
		"empty":        ``,
	}
	for name, body := range cases {
		for _, path := range []string{"/analyze", "/get_tag", "/get_tags"} {
			rec := do(h, http.MethodPost, path, body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("%s %s: status = %d", name, path, rec.Code)
				continue
			}
			var resp map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp["detail"] == "" {
				t.Errorf("%s %s: missing detail (%v)", name, path, err)
			}
		}
	}
}

func TestBodyTooLarge(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, func(d *Deps) { d.MaxBodyBytes = 16 })
	rec := do(h, http.MethodPost, "/get_tag", `{"text":"this body is far longer than sixteen bytes"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetTag(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	rec := do(h, http.MethodPost, "/get_tag", `{"text":"AI is transforming healthcare through predictive diagnostics."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]*string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["tag"] == nil || *body["tag"] != "transforming healthcare" {
		t.Fatalf("tag = %v", body["tag"])
	}
}

func TestGetTagNull(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	for _, text := range []string{"", "the and of"} {
		rec := do(h, http.MethodPost, "/get_tag", `{"text":"`+text+`"}`)
		if got := strings.TrimSpace(rec.Body.String()); got != `{"tag":null}` {
			t.Errorf("text %q: body = %s", text, got)
		}
	}
}

func TestGetTagExtractorFailure(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, func(d *Deps) {
		d.Tagging = apptagging.NewService(failingExtractor{}, domtagging.DefaultOptions())
	})
	rec := do(h, http.MethodPost, "/get_tag", `{"text":"anything"}`)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"tag":null}` {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
}

func TestGetTags(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	rec := do(h, http.MethodPost, "/get_tags", `{"text":"Solar panels convert sunlight. Solar panels are cheap.","top_n":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Keyphrases []domtagging.Keyphrase `json:"keyphrases"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Keyphrases) == 0 || len(body.Keyphrases) > 2 {
		t.Fatalf("keyphrases = %+v", body.Keyphrases)
	}
	if body.Keyphrases[0].Score != 1 {
		t.Fatalf("top score = %v, want 1", body.Keyphrases[0].Score)
	}
}

func TestGetTagsEmptyListNotNull(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	rec := do(h, http.MethodPost, "/get_tags", `{"text":""}`)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"keyphrases":[]}` {
		t.Fatalf("body = %s", got)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	if rec := do(h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	h, _ = newTestRouter(t, fakeClient{fn: ok}, func(d *Deps) {
		d.Health = map[string]middleware.HealthChecker{"inference": fakeChecker{err: errors.New("connection refused")}}
	})
	rec := do(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, nil)
	do(h, http.MethodPost, "/analyze", `{"text":"x"}`)
	rec := do(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap["inference_success"].(float64) != 4 {
		t.Fatalf("inference_success = %v", snap["inference_success"])
	}
}

func TestAPIKeyAuth(t *testing.T) {
	h, _ := newTestRouter(t, fakeClient{fn: ok}, func(d *Deps) {
		d.APIKeys = map[string]string{"ci": "secret"}
	})
	if rec := do(h, http.MethodPost, "/get_tag", `{"text":"x"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status = %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("root should skip auth: status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/get_tag", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with key: status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	defer limiter.Close()
	h, _ := newTestRouter(t, fakeClient{fn: ok}, func(d *Deps) { d.Limiter = limiter })

	if rec := do(h, http.MethodPost, "/get_tag", `{"text":"x"}`); rec.Code != http.StatusOK {
		t.Fatalf("first: status = %d", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/get_tag", `{"text":"x"}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: status = %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health should not be limited: status = %d", rec.Code)
	}
}
