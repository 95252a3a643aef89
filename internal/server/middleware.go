package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zombiebrand/adminconsole/internal/backend"
)

// codeHeader carries the envelope code so the middleware can label metrics
// without decoding the body.
const codeHeader = "X-Result-Code"

// observe tags the request id, logs the request and records metrics under
// the matched route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(backend.RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(backend.RequestIDHeader, reqID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := ww.Header().Get(codeHeader)
		if code == "" {
			code = strconv.Itoa(status)
		}
		s.requests.WithLabelValues(route, r.Method, code).Inc()
		s.latency.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		s.log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"code":       code,
			"elapsed":    elapsed.String(),
		}).Info("request")
	})
}
