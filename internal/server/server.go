// Package server exposes the article and dashboard endpoints over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/api"
	"github.com/zombiebrand/adminconsole/internal/article"
	"github.com/zombiebrand/adminconsole/internal/backend"
)

// Server routes HTTP requests to a backend and records request metrics.
type Server struct {
	backend  backend.Backend
	log      logrus.FieldLogger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func New(b backend.Backend, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		backend:  b,
		log:      log.WithField("component", "server"),
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adminconsole",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and envelope code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "adminconsole",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(s.requests, s.latency, collectors.NewGoCollector())
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/article/detail", s.getArticle)
	r.Get("/article/page", s.listArticles)
	r.Post("/article", s.createArticle)
	r.Put("/article/{id}", s.updateArticle)
	r.Get("/dashboard", s.dashboard)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, api.Success(api.Empty{}, "ok"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.Failure[api.Empty](api.CodeNotFound, "no route for "+r.URL.Path))
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		reply(w, api.Failure[article.Draft](api.CodeBadRequest, "id is required"), nil)
		return
	}
	res, err := s.backend.GetArticle(r.Context(), id)
	reply(w, res, err)
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var d article.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		reply(w, api.Failure[api.Empty](api.CodeBadRequest, "decode body: "+err.Error()), nil)
		return
	}
	res, err := s.backend.CreateArticle(r.Context(), d)
	reply(w, res, err)
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	var d article.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		reply(w, api.Failure[api.Empty](api.CodeBadRequest, "decode body: "+err.Error()), nil)
		return
	}
	res, err := s.backend.UpdateArticle(r.Context(), chi.URLParam(r, "id"), d)
	reply(w, res, err)
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := api.PageQuery{
		Page:     atoi(r.URL.Query().Get("page")),
		PageSize: atoi(r.URL.Query().Get("pageSize")),
	}
	res, err := s.backend.ListArticles(r.Context(), q)
	reply(w, res, err)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.backend.DataTrends(r.Context(), api.TrendQuery{Days: atoi(r.URL.Query().Get("days"))})
	reply(w, res, err)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func reply[T any](w http.ResponseWriter, res api.Result[T], err error) {
	if err != nil {
		res = api.Failure[T](api.CodeInternal, err.Error())
	}
	status := http.StatusOK
	if !res.OK() && res.Code >= 400 && res.Code < 600 {
		status = res.Code
	}
	w.Header().Set(codeHeader, strconv.Itoa(res.Code))
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
