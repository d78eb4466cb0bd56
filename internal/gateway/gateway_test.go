package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoUpstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"service": name, "path": r.URL.Path})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutesByPrefix(t *testing.T) {
	auth := newEchoUpstream(t, "auth")
	order := newEchoUpstream(t, "order")
	payment := newEchoUpstream(t, "payment")
	recommend := newEchoUpstream(t, "recommend")

	handler, err := New(Upstreams{
		Auth:      auth.URL,
		Order:     order.URL,
		Payment:   payment.URL,
		Recommend: recommend.URL,
	})
	require.NoError(t, err)

	gw := httptest.NewServer(handler)
	t.Cleanup(gw.Close)

	cases := []struct {
		path    string
		service string
	}{
		{"/auth-service/api/login", "auth"},
		{"/order-service/api/products", "order"},
		{"/payment/api/process", "payment"},
		{"/recommendation-service/api/recommendations", "recommend"},
	}

	for _, tc := range cases {
		resp, err := http.Get(gw.URL + tc.path)
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tc.service, body["service"], tc.path)
		// The prefix survives the proxy hop unchanged.
		assert.Equal(t, tc.path, body["path"], tc.path)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	}
}

func TestUpstreamDown(t *testing.T) {
	handler, err := New(Upstreams{
		Auth:      "http://127.0.0.1:1",
		Order:     "http://127.0.0.1:1",
		Payment:   "http://127.0.0.1:1",
		Recommend: "http://127.0.0.1:1",
	})
	require.NoError(t, err)

	gw := httptest.NewServer(handler)
	t.Cleanup(gw.Close)

	resp, err := http.Get(gw.URL + "/order-service/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGatewayHealth(t *testing.T) {
	handler, err := New(Upstreams{
		Auth:      "http://localhost:8081",
		Order:     "http://localhost:8082",
		Payment:   "http://localhost:8083",
		Recommend: "http://localhost:8084",
	})
	require.NoError(t, err)

	gw := httptest.NewServer(handler)
	t.Cleanup(gw.Close)

	resp, err := http.Get(gw.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
