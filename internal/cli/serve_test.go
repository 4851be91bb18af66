package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_BuildServerAppliesOverrides(t *testing.T) {
	rt := newTestRuntime(t)

	srv := (&ServeCommand{version: "test"}).buildServer(rt, nil)
	assert.Equal(t, "127.0.0.1:8731", srv.Addr())

	srv = (&ServeCommand{Host: "0.0.0.0", Port: 9001, version: "test"}).buildServer(rt, nil)
	assert.Equal(t, "0.0.0.0:9001", srv.Addr())
	assert.Equal(t, 8731, rt.cfg.Server.Port, "overrides must not leak into the loaded config")
}

func TestServe_RoutesUseStore(t *testing.T) {
	store, _ := openTestStore(t)
	seedReport(t, store, "rep-1", "taqueria", testNow, "Order now!")

	srv := (&ServeCommand{version: "test"}).buildServer(newTestRuntime(t), store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/rep-1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	rt := newTestRuntime(t)
	rt.cfg.Server.Port = 0
	cmd := &ServeCommand{version: "test"}
	srv := cmd.buildServer(rt, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- cmd.serve(ctx, srv, rt) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
