package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
)

func redirectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_Redirects(t *testing.T) {
	srv := redirectServer(t)

	follow := New(zap.NewNop(), NewHTTPClient(HTTPConfig{FollowRedirects: true, VerifyTLS: true}), Config{}, nil)
	res := follow.ProbeOne(context.Background(), probe.Endpoint(srv.URL+"/old"), time.Second)
	assert.True(t, res.Reachable)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = follow.ProbeOne(context.Background(), probe.Endpoint(srv.URL+"/loop"), time.Second)
	assert.False(t, res.Reachable, "redirect loop is a transport failure")
	assert.Contains(t, res.Error, "redirects")

	stay := New(zap.NewNop(), NewHTTPClient(HTTPConfig{FollowRedirects: false, VerifyTLS: true}), Config{}, nil)
	res = stay.ProbeOne(context.Background(), probe.Endpoint(srv.URL+"/old"), time.Second)
	assert.True(t, res.Reachable)
	assert.Equal(t, http.StatusFound, res.StatusCode)
}

func TestHTTPClient_TLSVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	strict := New(zap.NewNop(), NewHTTPClient(HTTPConfig{FollowRedirects: true, VerifyTLS: true}), Config{}, nil)
	res := strict.ProbeOne(context.Background(), probe.Endpoint(srv.URL), 2*time.Second)
	require.False(t, res.Reachable)
	assert.Contains(t, res.Error, "certificate")

	lax := New(zap.NewNop(), NewHTTPClient(HTTPConfig{FollowRedirects: true, VerifyTLS: false}), Config{}, nil)
	res = lax.ProbeOne(context.Background(), probe.Endpoint(srv.URL), 2*time.Second)
	require.True(t, res.Reachable)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
