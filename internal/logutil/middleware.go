package logutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
	}
)

const (
	RequestIDHeader = "X-Request-Id"
)

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(buf []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(buf)
}

// RequestLogger tags every request with an id and makes a child logger
// carrying that id available through GetOrDefault(r.Context())
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		log := GetOrDefault(r.Context()).With().Str("req.id", reqID).Logger()
		w.Header().Set(RequestIDHeader, reqID)
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(WithLogger(r.Context(), log)))
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}
