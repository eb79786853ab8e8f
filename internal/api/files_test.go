package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"jarch/internal/client/clienttest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore(t *testing.T) {
	bs := &LocalBlobStore{Root: t.TempDir()}

	key, n, sum, err := bs.Put("", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)
	assert.Regexp(t, `^\d{4}/\d{2}/[0-9a-f-]{36}$`, key)

	p, err := bs.Path(key)
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	require.NoError(t, bs.Delete(key))
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	_, err = bs.Path("../etc/passwd")
	assert.Error(t, err)
}

// Поток через реальный сервер: gin.Stream требует CloseNotifier.
func serve(t *testing.T, s *Storage) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(s))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func loggedIn(t *testing.T, s *Storage) *clienttest.Platform {
	t.Helper()
	p := withPlatform(t, s)
	_, err := s.Platform.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	return p
}

func TestGenerateStream_RelaysAndStoresArchive(t *testing.T) {
	s := newTestStorage(t)
	p := loggedIn(t, s)
	p.SetFrames(
		clienttest.Frame{Event: "log", Data: gin.H{"level": "info", "message": "Генерация pom.xml"}},
		clienttest.Frame{Event: "zipReady", Data: "ok"},
	)
	srv := serve(t, s)

	resp, body := get(t, srv.URL+"/api/generate/5/stream")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	corr := resp.Header.Get("X-Correlation-ID")
	require.NotEmpty(t, corr)

	assert.Contains(t, body, "event:log")
	assert.Contains(t, body, "Генерация pom.xml")
	assert.Contains(t, body, "event:zipReady")
	assert.Contains(t, body, "/api/archives/"+corr)
	assert.Contains(t, p.Seen(), "POST /jarch/generate-project/from-saving/5")

	a, ok := s.GetArchive(corr)
	require.True(t, ok)
	assert.Equal(t, int64(5), a.SaveID)
	assert.Equal(t, "job-5", a.JobID)
	assert.Equal(t, int64(len(p.Archive)), a.Size)

	resp, zip := get(t, srv.URL+"/api/archives/"+corr)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(p.Archive), zip)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "project-5.zip")

	resp, list := get(t, srv.URL+"/api/archives")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, list, corr)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/archives/"+corr, nil)
	require.NoError(t, err)
	dresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	dresp.Body.Close()
	assert.Equal(t, http.StatusNoContent, dresp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/archives/"+corr)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateStream_ErrorEnds(t *testing.T) {
	s := newTestStorage(t)
	p := loggedIn(t, s)
	p.SetFrames(
		clienttest.Frame{Event: "log", Data: gin.H{"level": "info", "message": "start"}},
		clienttest.Frame{Event: "error", Data: "compilation failed"},
		clienttest.Frame{Event: "zipReady", Data: "ok"},
	)
	srv := serve(t, s)

	_, body := get(t, srv.URL+"/api/generate/5/stream")
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "Ошибка подключения к потоку логов")
	assert.Contains(t, body, "compilation failed")
	assert.NotContains(t, body, "event:zipReady")
	assert.Empty(t, s.Archives)
}

func TestGenerateStream_Unauthenticated(t *testing.T) {
	s := newTestStorage(t)
	withPlatform(t, s)
	srv := serve(t, s)

	resp, _ := get(t, srv.URL+"/api/generate/5/stream")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/api/generate/abc/stream")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
