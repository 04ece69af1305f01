package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrdcal/geomodel/pkg/calibration"
	"github.com/xrdcal/geomodel/pkg/config"
	"github.com/xrdcal/geomodel/pkg/events"
	"github.com/xrdcal/geomodel/pkg/model"
)

func newTestDaemon(t *testing.T, raw *config.RawFileConfig) (*Daemon, http.Handler) {
	t.Helper()
	d := New(config.NewFileFromConfig(raw, ""))
	return d, d.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGetGeometryFresh(t *testing.T) {
	_, h := newTestDaemon(t, nil)

	w := do(t, h, http.MethodGet, "/geometry", "")
	require.Equal(t, http.StatusOK, w.Code)

	st := decode[calibration.Status](t, w)
	assert.False(t, st.Valid)
	assert.Equal(t, model.Fields(), st.Missing)

	w = do(t, h, http.MethodGet, "/valid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[bool](t, w))
}

func TestFieldLifecycle(t *testing.T) {
	d, h := newTestDaemon(t, nil)

	w := do(t, h, http.MethodGet, "/geometry/poni1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[*float64](t, w))

	w = do(t, h, http.MethodPut, "/geometry/poni1", "0.05")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "set poni1 to 0.05", decode[string](t, w))
	assert.Equal(t, uint64(1), d.store.changes())

	// same value, no aggregate change
	w = do(t, h, http.MethodPut, "/geometry/poni1", "0.05")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint64(1), d.store.changes())

	w = do(t, h, http.MethodGet, "/geometry/poni1", "")
	v := decode[*float64](t, w)
	require.NotNil(t, v)
	assert.Equal(t, 0.05, *v)

	w = do(t, h, http.MethodGet, "/geometry/poni2", "")
	assert.Nil(t, decode[*float64](t, w), "poni2 is independent of poni1")

	w = do(t, h, http.MethodPut, "/geometry/poni1", "null")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "unset poni1", decode[string](t, w))
	assert.Equal(t, uint64(2), d.store.changes())

	do(t, h, http.MethodPut, "/geometry/poni1", "1")
	w = do(t, h, http.MethodDelete, "/geometry/poni1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(4), d.store.changes())
}

func TestFieldErrors(t *testing.T) {
	_, h := newTestDaemon(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"get unknown", http.MethodGet, "/geometry/tilt", "", http.StatusNotFound},
		{"set unknown", http.MethodPut, "/geometry/tilt", "1", http.StatusNotFound},
		{"set unknown with bad body", http.MethodPut, "/geometry/tilt", "abc", http.StatusNotFound},
		{"set unknown with empty body", http.MethodPut, "/geometry/tilt", "", http.StatusNotFound},
		{"unset unknown", http.MethodDelete, "/geometry/tilt", "", http.StatusNotFound},
		{"empty body", http.MethodPut, "/geometry/distance", "", http.StatusBadRequest},
		{"string body", http.MethodPut, "/geometry/distance", `"abc"`, http.StatusBadRequest},
		{"garbage body", http.MethodPut, "/geometry/distance", "abc", http.StatusBadRequest},
		{"unknown bulk key", http.MethodPut, "/geometry", `{"distanse": 1}`, http.StatusBadRequest},
		{"bulk not an object", http.MethodPut, "/geometry", `[1]`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestUnknownBulkKeyRejectedWithoutRouterSetup(t *testing.T) {
	d := New(config.NewFileFromConfig(nil, ""))
	// Decoding is strict from package load, not from building a router.
	router := gin.New()
	router.PUT("/geometry", d.setGeometry)

	w := do(t, router, http.MethodPut, "/geometry", `{"distanse": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoRangeValidation(t *testing.T) {
	_, h := newTestDaemon(t, nil)

	w := do(t, h, http.MethodPut, "/geometry/distance", "-12.5")
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestBulkSetAndClear(t *testing.T) {
	d, h := newTestDaemon(t, nil)

	body := `{"distance": 0.1, "wavelength": 1e-10, "poni1": 0.05, "poni2": 0.06,
		"rotation1": 0, "rotation2": 0.01, "rotation3": -0.02}`
	w := do(t, h, http.MethodPut, "/geometry", body)
	require.Equal(t, http.StatusCreated, w.Code)

	st := decode[calibration.Status](t, w)
	assert.True(t, st.Valid)
	assert.Empty(t, st.Missing)
	assert.Equal(t, uint64(1), d.store.changes(), "one aggregate change per batch")

	w = do(t, h, http.MethodGet, "/valid", "")
	assert.True(t, decode[bool](t, w))

	w = do(t, h, http.MethodDelete, "/geometry/rotation1", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodGet, "/valid", "")
	assert.False(t, decode[bool](t, w))

	w = do(t, h, http.MethodDelete, "/geometry", "")
	require.Equal(t, http.StatusOK, w.Code)
	st = decode[calibration.Status](t, w)
	assert.Equal(t, model.Fields(), st.Missing)
	assert.Equal(t, uint64(3), d.store.changes())
}

func TestDefaultsApplied(t *testing.T) {
	d, h := newTestDaemon(t, &config.RawFileConfig{
		Defaults: map[string]float64{
			"wavelength": 1.54e-10,
			"rotation3":  0,
			"bogus":      7,
		},
	})

	st := d.store.status()
	require.NotNil(t, st.Geometry.Wavelength)
	assert.Equal(t, 1.54e-10, *st.Geometry.Wavelength)
	require.NotNil(t, st.Geometry.Rotation3)
	assert.Equal(t, uint64(1), d.store.changes())

	w := do(t, h, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	raw := decode[config.RawFileConfig](t, w)
	assert.Equal(t, 16, *raw.EventBuffer)
	assert.Len(t, raw.Defaults, 3)
}

func TestGetVersion(t *testing.T) {
	_, h := newTestDaemon(t, nil)
	w := do(t, h, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[string](t, w))
}

func TestShutdownWithOpenEventStream(t *testing.T) {
	d, h := newTestDaemon(t, nil)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: h}
	srv.RegisterOnShutdown(d.Close)
	go func() { _ = srv.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return d.hub.SubscriberCount() == 1 },
		time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, d.hub.SubscriberCount())
}

func TestEventStream(t *testing.T) {
	d, h := newTestDaemon(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return d.hub.SubscriberCount() == 1 },
		time.Second, 10*time.Millisecond)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/geometry/distance", strings.NewReader("0.25"))
	require.NoError(t, err)
	put, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	put.Body.Close()

	var name, data string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
		if name != "" && data != "" {
			break
		}
	}
	require.Equal(t, events.GeometryChanged, name)

	payload, err := events.DecodeAs[events.GeometryChangedEvent](events.Event{Name: name, Data: []byte(data)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), payload.Seq)
	assert.False(t, payload.Valid)
	assert.NotEmpty(t, payload.ID)
	require.NotNil(t, payload.Geometry.Distance)
	assert.Equal(t, 0.25, *payload.Geometry.Distance)
}
