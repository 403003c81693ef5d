package trackhttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BearBump/TrackGate/internal/tracker"
)

type Service interface {
	Track(ctx context.Context, carrierID, trackingNumber string) tracker.TrackInfo
	SupportedCarriers() []tracker.CarrierInfo
	AllCarriers() []tracker.CarrierInfo
	CarrierByID(carrierID string) *tracker.CarrierInfo
	PredictCarriers(trackingNumber string) []tracker.CarrierInfo
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type Server struct {
	svc Service

	limiter        Limiter
	limitPerMinute int64
}

func New(svc Service, limiter Limiter, limitPerMinute int) *Server {
	return &Server{
		svc:            svc,
		limiter:        limiter,
		limitPerMinute: int64(limitPerMinute),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/carriers", s.handleCarriers)
		r.Get("/carriers/all", s.handleCarriersAll)
		r.Get("/carriers/predict", s.handlePredict)
		r.Get("/carriers/{carrierId}", s.handleCarrierByID)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Get("/track/{carrierId}/{trackingNumber}", s.handleTrack)
		})
	})

	return r
}

// handleTrack всегда отвечает 200: неуспех трекинга — это валидный
// результат с success=false, а не ошибка HTTP-уровня.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	carrierID := chi.URLParam(r, "carrierId")
	number := chi.URLParam(r, "trackingNumber")

	info := s.svc.Track(r.Context(), carrierID, number)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.SupportedCarriers())
}

func (s *Server) handleCarriersAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.AllCarriers())
}

func (s *Server) handleCarrierByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "carrierId")
	info := s.svc.CarrierByID(id)
	if info == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown carrier: " + id})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "number query param is required"})
		return
	}
	infos := s.svc.PredictCarriers(number)
	if infos == nil {
		infos = []tracker.CarrierInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || s.limitPerMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := "rl:track:" + clientIP(r)
		ok, _, err := s.limiter.Allow(r.Context(), key, s.limitPerMinute, time.Minute)
		if err != nil {
			// недоступный redis не должен отрезать трекинг
			slog.Warn("rate limiter unavailable", "err", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
