package hammer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipchama/dhcpopt/config"
)

func serve(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := New(&config.SocketeerOptions{}, &config.DhcpV4Options{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	h.router().ServeHTTP(rec, req)

	return rec
}

func TestDecodeEndpoint(t *testing.T) {
	rec := serve(t, http.MethodPost, "/decode", `{"hex": "350102 0104ffffff00 0c04686f7374 ff"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "spaces are not hex")

	rec = serve(t, http.MethodPost, "/decode", `{"hex": "35010201:04ffffff000c04686f7374ff"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"options": [
		{"code": 53, "name": "dhcp-message-type", "value": "offer"},
		{"code": 1, "name": "subnet-mask", "value": "255.255.255.0"},
		{"code": 12, "name": "hostname", "value": "host"}
	]}`, rec.Body.String())
}

func TestDecodeEndpointRejectsBadOptions(t *testing.T) {
	rec := serve(t, http.MethodPost, "/decode", `{"hex": "c80100"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown option code: 200")

	rec = serve(t, http.MethodPost, "/decode", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEncodeEndpoint(t *testing.T) {
	rec := serve(t, http.MethodPost, "/encode", `{"options": [
		{"code": "subnet-mask", "value": "255.255.255.0"},
		{"code": "3", "value": "192.168.0.1,192.168.0.2"}
	], "end": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hex": "0104ffffff000308c0a80001c0a80002ff"}`, rec.Body.String())

	rec = serve(t, http.MethodPost, "/encode", `{"options": [{"code": "router", "value": ""}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOptionsEndpointWithoutHandler(t *testing.T) {
	rec := serve(t, http.MethodGet, "/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func newApiHammer() *Hammer {
	h := New(&config.SocketeerOptions{}, &config.DhcpV4Options{})
	h.apiAddress = "127.0.0.1:0"
	h.newApiServer()
	return h
}

func TestApiServerStopBeforeStart(t *testing.T) {
	h := newApiHammer()

	require.NoError(t, h.stopApiServer())

	done := make(chan struct{})
	go func() {
		h.startApiServer()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("API server started after stop")
	}
}

func TestApiServerStartStop(t *testing.T) {
	h := newApiHammer()

	done := make(chan struct{})
	go func() {
		h.startApiServer()
		close(done)
	}()

	require.Eventually(t, func() bool {
		h.apiLock.Lock()
		defer h.apiLock.Unlock()
		return h.apiServer.IsStarted()
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, h.stopApiServer())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("API server did not stop")
	}
}
