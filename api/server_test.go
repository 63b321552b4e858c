package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/imageslider/api/models"
	"github.com/aouyang1/imageslider/carousel"
	"github.com/aouyang1/imageslider/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type countingSource struct {
	mu      sync.Mutex
	images  []carousel.ImageRecord
	err     error
	calls   int
	perPage int
}

func (s *countingSource) ListImages(_ context.Context, perPage int) ([]carousel.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.perPage = perPage
	return s.images, s.err
}

func (s *countingSource) stats() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, s.perPage
}

func threeImages() []carousel.ImageRecord {
	return []carousel.ImageRecord{
		{ID: "a", DisplayURL: "https://img.example/a", Caption: "first", AuthorName: "Ana"},
		{ID: "b", DisplayURL: "https://img.example/b", Caption: "second", AuthorName: "Ben"},
		{ID: "c", DisplayURL: "https://img.example/c", Caption: "third", AuthorName: "Cy"},
	}
}

func newTestServer(t *testing.T, source carousel.Source) (*WebServer, *clock.Mock) {
	t.Helper()
	db, err := store.NewDatabase(filepath.Join(t.TempDir(), "slider.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock := clock.NewMock()
	ws := NewWebServer(db, source, mock)
	require.NoError(t, ws.Mount())
	t.Cleanup(ws.Close)
	return ws, mock
}

func do(t *testing.T, ws *WebServer, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)
	return rec
}

func state(t *testing.T, ws *WebServer) models.CarouselStateResponse {
	t.Helper()
	rec := do(t, ws, http.MethodGet, "/carousel/state", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CarouselStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func waitForPhase(t *testing.T, ws *WebServer, phase string) models.CarouselStateResponse {
	t.Helper()
	require.Eventually(t, func() bool {
		return state(t, ws).Phase == phase
	}, 2*time.Second, time.Millisecond)
	return state(t, ws)
}

func TestCarouselStateAfterMount(t *testing.T) {
	ws, _ := newTestServer(t, &countingSource{images: threeImages()})

	resp := waitForPhase(t, ws, "playing")
	assert.Len(t, resp.Images, 3)
	assert.Equal(t, 0, resp.CurrentIndex)
	assert.True(t, resp.IsPlaying)
	assert.Equal(t, 1, resp.ActiveTimers)
}

func TestCarouselFetchFailureStaysLoading(t *testing.T) {
	src := &countingSource{err: errors.New("network down")}
	ws, _ := newTestServer(t, src)

	require.Eventually(t, func() bool {
		calls, _ := src.stats()
		return calls == 1
	}, 2*time.Second, time.Millisecond)

	resp := state(t, ws)
	assert.Equal(t, "idle", resp.Phase)
	assert.Empty(t, resp.Images)
	assert.Equal(t, 0, resp.ActiveTimers)

	rec := do(t, ws, http.MethodGet, "/carousel", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loading images...")
}

func TestIndexPage(t *testing.T) {
	ws, _ := newTestServer(t, &countingSource{images: threeImages()})
	waitForPhase(t, ws, "playing")

	rec := do(t, ws, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>Image Slider</h1>")
	assert.Contains(t, rec.Body.String(), "https://img.example/a")
}

func TestToggleJSONAndHTMX(t *testing.T) {
	ws, mock := newTestServer(t, &countingSource{images: threeImages()})
	waitForPhase(t, ws, "playing")

	rec := do(t, ws, http.MethodPost, "/carousel/toggle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CarouselStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "paused", resp.Phase)
	assert.False(t, resp.IsPlaying)
	assert.Equal(t, 0, resp.ActiveTimers)

	mock.Add(3 * carousel.DefaultInterval)
	assert.Equal(t, 0, state(t, ws).CurrentIndex)

	rec = do(t, ws, http.MethodPost, "/carousel/toggle", "", map[string]string{"HX-Request": "true"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="sr-only">Pause</span>`)
	assert.Equal(t, "playing", state(t, ws).Phase)

	mock.Add(carousel.DefaultInterval)
	require.Eventually(t, func() bool {
		return state(t, ws).CurrentIndex == 1
	}, 2*time.Second, time.Millisecond)
}

func TestReloadFetchesAgain(t *testing.T) {
	src := &countingSource{images: threeImages()}
	ws, _ := newTestServer(t, src)
	waitForPhase(t, ws, "playing")

	rec := do(t, ws, http.MethodPost, "/carousel/reload", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	waitForPhase(t, ws, "playing")
	calls, _ := src.stats()
	assert.Equal(t, 2, calls)
}

func TestSettings(t *testing.T) {
	src := &countingSource{images: threeImages()}
	ws, _ := newTestServer(t, src)
	waitForPhase(t, ws, "playing")

	rec := do(t, ws, http.MethodGet, "/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings store.AppSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, store.DefaultSlideshowIntervalSeconds, settings.SlideshowIntervalSeconds)
	assert.Equal(t, store.DefaultPerPage, settings.PerPage)

	rec = do(t, ws, http.MethodPut, "/settings", `{"slideshow_interval_seconds":0,"per_page":10}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, ws, http.MethodPut, "/settings", `{"slideshow_interval_seconds":5,"per_page":31}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, ws, http.MethodPut, "/settings", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, ws, http.MethodPut, "/settings", `{"slideshow_interval_seconds":7,"per_page":3}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		calls, perPage := src.stats()
		return calls == 2 && perPage == 3
	}, 2*time.Second, time.Millisecond)
}

func TestPhotoImageLocalSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lake.jpg"), []byte("jpeg bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("nope"), 0o644))

	src, err := NewLocalSource(dir)
	require.NoError(t, err)
	ws, _ := newTestServer(t, src)

	rec := do(t, ws, http.MethodGet, "/photos/lake.jpg/image", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg bytes", rec.Body.String())

	rec = do(t, ws, http.MethodGet, "/photos/missing.jpg/image", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, ws, http.MethodGet, "/photos/secret.txt/image", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, ws, http.MethodGet, "/photos/..%252Fslider.jpg/image", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhotoImageDisabledForRemoteSources(t *testing.T) {
	ws, _ := newTestServer(t, &countingSource{})

	rec := do(t, ws, http.MethodGet, "/photos/lake.jpg/image", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	ws, _ := newTestServer(t, &countingSource{})

	rec := do(t, ws, http.MethodGet, "/static/images/fallback-image.svg", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(t, ws, http.MethodGet, "/favicon.ico", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
}

func TestClosedServerIsUnavailable(t *testing.T) {
	ws, _ := newTestServer(t, &countingSource{})
	ws.Close()

	rec := do(t, ws, http.MethodGet, "/carousel/state", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, ws, http.MethodPost, "/carousel/toggle", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
