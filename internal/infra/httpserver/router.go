package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	appanalysis "github.com/bryanwahyu/textlens/internal/application/analysis"
	apptagging "github.com/bryanwahyu/textlens/internal/application/tagging"
	domtagging "github.com/bryanwahyu/textlens/internal/domain/tagging"
	"github.com/bryanwahyu/textlens/internal/logger"
	"github.com/bryanwahyu/textlens/internal/middleware"
)

// Deps carries everything the router serves. Metrics, Limiter and Health are
// optional.
type Deps struct {
	Analysis     *appanalysis.Service
	Tagging      *apptagging.Service
	Metrics      *middleware.Metrics
	Limiter      *middleware.RateLimiter
	Health       map[string]middleware.HealthChecker
	APIKeys      map[string]string
	CORSOrigins  []string
	MaxBodyBytes int64
}

type Router struct {
	analysisSvc  *appanalysis.Service
	taggingSvc   *apptagging.Service
	maxBodyBytes int64
}

func NewRouter(d Deps) http.Handler {
	r := &Router{analysisSvc: d.Analysis, taggingSvc: d.Tagging, maxBodyBytes: d.MaxBodyBytes}
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(chimw.Recoverer)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(d.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(d.Limiter))

	mux.Get("/", middleware.LivenessHandler)
	mux.Get("/health", middleware.HealthHandler(d.Health))
	if d.Metrics != nil {
		mux.Get("/metrics", d.Metrics.Handler)
	}

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Post("/get_tag", r.wrap(r.handleGetTag))
	mux.Post("/get_tags", r.wrap(r.handleGetTags))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var verr *middleware.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": verr.Error()})
				return
			}
			logger.Log.WithFields(logrus.Fields{
				"path":       req.URL.Path,
				"request_id": middleware.GetRequestID(req.Context()),
			}).Errorf("handler error: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		}
	}
}

// POST /analyze
// Body: {"text": "..."}
// Always 200 once the body validates; backend failures are reported per area.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	body, err := middleware.DecodeTextRequest(req, r.maxBodyBytes)
	if err != nil {
		return err
	}
	report := r.analysisSvc.Analyze(req.Context(), *body.Text)
	return writeJSON(w, http.StatusOK, report)
}

// POST /get_tag
// Body: {"text": "..."}
func (r *Router) handleGetTag(w http.ResponseWriter, req *http.Request) error {
	body, err := middleware.DecodeTextRequest(req, r.maxBodyBytes)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]*string{"tag": r.taggingSvc.Tag(*body.Text)})
}

// POST /get_tags
// Body: {"text": "...", "top_n": 5}
func (r *Router) handleGetTags(w http.ResponseWriter, req *http.Request) error {
	body, err := middleware.DecodeTextRequest(req, r.maxBodyBytes)
	if err != nil {
		return err
	}
	phrases, err := r.taggingSvc.Keyphrases(*body.Text, middleware.ValidateTopN(body.TopN))
	if err != nil {
		phrases = []domtagging.Keyphrase{}
	}
	return writeJSON(w, http.StatusOK, map[string][]domtagging.Keyphrase{"keyphrases": phrases})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
