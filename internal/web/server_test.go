package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/config"
	"github.com/JonMunkholm/keydrift/internal/core"
	"github.com/JonMunkholm/keydrift/internal/prefs"
)

const (
	keysJSON   = `{"greeting": "Hello", "farewell": "Bye", "orphan": "?"}`
	tableCSV   = "SPA.key;Tag;en;fr;pt BR\ngreeting;ui;Hello;Bonjour;Olá\nfarewell;ui;Bye;;\n"
	testAPIKey = "test-key"
)

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	vars := map[string]string{
		"PREFS_BACKEND":      "memory",
		"RATE_LIMIT_ENABLED": "false",
	}
	for k, v := range env {
		vars[k] = v
	}
	cfg, err := config.LoadFrom(func(k string) string { return vars[k] })
	require.NoError(t, err)
	return cfg
}

type testClient struct {
	t      *testing.T
	base   string
	http   *http.Client
	header http.Header
}

func newTestServer(t *testing.T, env map[string]string) *testClient {
	t.Helper()
	cfg := testConfig(t, env)
	svc := core.NewService(prefs.NewRepository(prefs.NewMemoryStore()), core.Options{
		KeyColumn:   cfg.Table.KeyColumn,
		Structural:  cfg.Table.Structural(),
		MaxFileSize: cfg.Upload.MaxFileSize,
	})
	srv := NewServer(svc, cfg)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, base: ts.URL, http: &http.Client{Jar: jar}, header: http.Header{}}
}

func (c *testClient) do(method, path string, body io.Reader, contentType string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	for k, v := range c.header {
		req.Header[k] = v
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *testClient) upload(path, name, content string, fields map[string]string) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(c.t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())
	return c.do(http.MethodPost, path, &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_FullFlow(t *testing.T) {
	c := newTestServer(t, nil)

	resp := c.upload("/api/keys", "en.json", keysJSON, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	up := decode[uploadResponse](t, resp)
	assert.Equal(t, 3, up.Count)
	assert.False(t, up.Status.Ready())

	resp = c.upload("/api/table", "export.csv", tableCSV, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	up = decode[uploadResponse](t, resp)
	assert.Equal(t, 2, up.Count)
	assert.True(t, up.Status.Ready())

	resp = c.do(http.MethodGet, "/api/languages", nil, "")
	view := decode[core.LanguageView](t, resp)
	assert.Equal(t, []string{"en", "fr", "pt BR"}, view.Active)

	resp = c.do(http.MethodPost, "/api/ignore/pt%20BR", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[core.LanguageView](t, resp)
	assert.Equal(t, []string{"en", "fr"}, view.Active)
	assert.Equal(t, []string{"pt BR"}, view.Ignored)

	resp = c.do(http.MethodPost, "/api/compare", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[compare.AnnotatedReport](t, resp)
	assert.Equal(t, []compare.KeyEntry{{Key: "orphan"}}, report.MissingKeys)
	require.Len(t, report.TranslationIssues, 1)
	assert.Equal(t, []string{"fr"}, report.TranslationIssues[0].MissingLanguages)

	resp = c.do(http.MethodPost, "/api/ack/missing/orphan", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ack := decode[ackResponse](t, resp)
	assert.True(t, ack.Acknowledged)

	resp = c.do(http.MethodGet, "/api/report", nil, "")
	report = decode[compare.AnnotatedReport](t, resp)
	assert.True(t, report.MissingKeys[0].Acknowledged)
	assert.Equal(t, 1, report.AckedMissing)

	resp = c.do(http.MethodGet, "/api/report/export", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "track,key,missing_languages,acknowledged\nmissing,orphan,,true\nissues,farewell,fr,false\n", string(body))

	resp = c.do(http.MethodDelete, "/api/ack", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodDelete, "/api/report", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/report", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "CMP002", decode[ErrorResponse](t, resp).Code)
}

func TestServer_CompareWithoutInputs(t *testing.T) {
	c := newTestServer(t, nil)

	resp := c.do(http.MethodPost, "/api/compare", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CMP001", decode[ErrorResponse](t, resp).Code)
}

func TestServer_UploadErrors(t *testing.T) {
	c := newTestServer(t, map[string]string{"UPLOAD_MAX_FILE_SIZE": "64"})

	resp := c.upload("/api/keys", "keys.json", `[1, 2, 3]`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "SRC001", decode[ErrorResponse](t, resp).Code)

	resp = c.upload("/api/keys", "keys.json", `{"a": "`+strings.Repeat("x", 100)+`"}`, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "FILE001", decode[ErrorResponse](t, resp).Code)

	resp = c.do(http.MethodPost, "/api/table", strings.NewReader("x"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "FILE004", decode[ErrorResponse](t, resp).Code)
}

func TestServer_UnknownTrack(t *testing.T) {
	c := newTestServer(t, nil)

	resp := c.do(http.MethodPost, "/api/ack/other/key", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ACK001", decode[ErrorResponse](t, resp).Code)
}

func TestServer_HTMXPartials(t *testing.T) {
	c := newTestServer(t, nil)
	c.header.Set("HX-Request", "true")

	resp := c.upload("/api/keys", "en.json", keysJSON, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `id="status"`)

	resp = c.do(http.MethodPost, "/api/compare", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "#errors", resp.Header.Get("HX-Retarget"))
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Code: CMP001")

	c.upload("/api/table", "export.csv", tableCSV, nil)
	resp = c.do(http.MethodPost, "/api/compare", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `data-key="orphan"`)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	a := newTestServer(t, nil)
	a.upload("/api/keys", "en.json", keysJSON, nil)

	b := &testClient{t: t, base: a.base, http: &http.Client{}, header: http.Header{}}
	resp := b.do(http.MethodGet, "/api/status", nil, "")
	st := decode[core.Status](t, resp)
	assert.False(t, st.KeysLoaded)

	resp = a.do(http.MethodGet, "/api/status", nil, "")
	st = decode[core.Status](t, resp)
	assert.True(t, st.KeysLoaded)
}

func TestServer_IndexPage(t *testing.T) {
	c := newTestServer(t, nil)

	resp := c.do(http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Translation key drift")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	c := newTestServer(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": testAPIKey})

	resp := c.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "keydrift_http_requests_total")
}

func TestServer_APIKeyRequired(t *testing.T) {
	c := newTestServer(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": testAPIKey})

	resp := c.do(http.MethodGet, "/api/status", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.header.Set("X-API-Key", testAPIKey)
	resp = c.do(http.MethodGet, "/api/status", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RateLimit(t *testing.T) {
	c := newTestServer(t, map[string]string{
		"RATE_LIMIT_ENABLED":             "true",
		"RATE_LIMIT_REQUESTS_PER_MINUTE": "1",
		"RATE_LIMIT_BURST":               "2",
	})

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, "").StatusCode)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, "").StatusCode)

	resp := c.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}
