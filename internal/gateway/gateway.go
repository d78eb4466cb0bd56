// Package gateway is the single public entry point. It terminates nothing
// itself; every request is reverse-proxied to the owning service by path
// prefix.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Upstreams holds the base URLs of the internal services.
type Upstreams struct {
	Auth      string
	Order     string
	Payment   string
	Recommend string
}

// New builds the routing handler. Prefixes match the services' own route
// groups, so proxied paths pass through unchanged.
func New(up Upstreams) (http.Handler, error) {
	routes := []struct {
		prefix string
		target string
	}{
		{"/auth-service", up.Auth},
		{"/order-service", up.Order},
		{"/payment", up.Payment},
		{"/recommendation-service", up.Recommend},
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	for _, route := range routes {
		target, err := url.Parse(route.target)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream for %s: %w", route.prefix, err)
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"success":false,"message":"Upstream unavailable"}`))
		}
		r.Mount(route.prefix, proxy)
	}

	return otelhttp.NewHandler(r, "gateway"), nil
}

// requestIDHeader reflects chi's request id back to the caller so failures
// can be correlated across service logs.
func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if id := middleware.GetReqID(req.Context()); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, req)
	})
}
