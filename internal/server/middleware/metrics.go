package middleware

import (
	"net/http"
	"time"

	"github.com/iudanet/notekeeper/internal/server/metrics"
)

// unmatchedRoute метка для запросов, не попавших ни в один маршрут
const unmatchedRoute = "unmatched"

// MetricsMiddleware записывает количество и длительность запросов по шаблону маршрута.
// Должен стоять непосредственно перед http.ServeMux и передавать ему тот же *http.Request:
// ServeMux заполняет r.Pattern на месте.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}

			m.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
