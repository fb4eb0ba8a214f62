package device

import (
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jypelle/adcmon/apimodel"
	"github.com/jypelle/adcmon/internal/srv/config"
	"github.com/jypelle/adcmon/internal/srv/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApiKey = "0123456789abcdef"

type staticStatus apimodel.Status

func (s staticStatus) Status() apimodel.Status {
	return apimodel.Status(s)
}

func newTestApi(t *testing.T, frames FrameProvider) *Api {
	t.Helper()
	serverConfig := &config.ServerConfig{
		ConfigDir: t.TempDir(),
		ServerParam: &config.ServerParam{
			ApiParam: config.ApiParam{Enabled: true, SslPort: 8443, ApiKey: testApiKey},
		},
	}
	status := staticStatus{Version: "1.0.0", Policy: "decoupled", Mode: "waveform", LatestSample: 1234, Samples: 10}
	return NewApi(serverConfig, status, frames)
}

func serve(api *Api, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	rec := httptest.NewRecorder()
	api.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestApiRejectsWrongKey(t *testing.T) {
	api := newTestApi(t, NewDisplay(128, 64, true))

	for _, key := range []string{"", "nope"} {
		rec := serve(api, http.MethodGet, "/api/status", key)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var msg apimodel.ErrorMessage
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
		assert.Equal(t, http.StatusForbidden, msg.ErrStatusCode)
	}
}

func TestApiIsAlive(t *testing.T) {
	api := newTestApi(t, NewDisplay(128, 64, true))

	rec := serve(api, http.MethodGet, "/api/is_alive", testApiKey)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApiStatus(t *testing.T) {
	api := newTestApi(t, NewDisplay(128, 64, true))

	rec := serve(api, http.MethodGet, "/api/status", testApiKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status apimodel.Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "decoupled", status.Policy)
	assert.Equal(t, uint16(1234), status.LatestSample)
	assert.Equal(t, uint64(10), status.Samples)
}

func TestApiFrame(t *testing.T) {
	display := NewDisplay(128, 64, true)
	display.SetPixel(7, 9, plot.On)
	require.NoError(t, display.Flush())
	api := newTestApi(t, display)

	rec := serve(api, http.MethodGet, "/api/frame.png", testApiKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 64), img.Bounds())

	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), gray.GrayAt(7, 9).Y)
	assert.Equal(t, uint8(0), gray.GrayAt(8, 9).Y)
}

func TestApiUnknownRoute(t *testing.T) {
	api := newTestApi(t, NewDisplay(128, 64, true))

	assert.Equal(t, http.StatusNotFound, serve(api, http.MethodGet, "/api/nothing", testApiKey).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(api, http.MethodPost, "/api/status", testApiKey).Code)
}
