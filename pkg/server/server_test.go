package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicanaksel/Cineseek/pkg/catalog"
	"github.com/alicanaksel/Cineseek/pkg/config"
	"github.com/alicanaksel/Cineseek/pkg/omdb"
)

// stubFetcher serves canned payloads for the handlers under test.
type stubFetcher struct {
	searches map[string]string
	titles   map[string]string
	calls    int
}

func (f *stubFetcher) Fetch(_ context.Context, params url.Values) ([]byte, error) {
	f.calls++
	if q := params.Get("s"); q != "" {
		if body, ok := f.searches[strings.ToLower(q)]; ok {
			return []byte(body), nil
		}
		return nil, &omdb.APIError{Message: "Movie not found!"}
	}
	if id := params.Get("i"); id != "" {
		if body, ok := f.titles[id]; ok {
			return []byte(body), nil
		}
		return nil, &omdb.APIError{Message: "Incorrect IMDb ID."}
	}
	return nil, &omdb.APIError{Message: "Something went wrong."}
}

type zeroRand struct{}

func (zeroRand) Intn(int) int                { return 0 }
func (zeroRand) Shuffle(int, func(i, j int)) {}

func newTestServer(t *testing.T, f *stubFetcher) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Web.Templates = "" // API-only under test
	cfg.Web.Static = ""
	svc := catalog.New(f, nil, nil, zeroRand{})
	return New(cfg, svc)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestAPISearchEmptyQuery(t *testing.T) {
	f := &stubFetcher{}
	s := newTestServer(t, f)

	w := get(t, s, "/api/search?q=")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Results) != 0 {
		t.Errorf("expected zero results, got %d", len(body.Results))
	}
	if f.calls != 0 {
		t.Errorf("empty query must not reach upstream, got %d calls", f.calls)
	}
}

func TestAPISearchShapesPoster(t *testing.T) {
	f := &stubFetcher{searches: map[string]string{
		"batman": `{"Response":"True","Search":[{"Title":"Batman Begins","Year":"2005","Type":"movie","imdbID":"tt0372784","Poster":"N/A"}],"totalResults":"1"}`,
	}}
	s := newTestServer(t, f)

	w := get(t, s, "/api/search?q=batman")
	var body struct {
		Results []struct {
			ID     string  `json:"id"`
			Poster *string `json:"poster"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Results) != 1 || body.Results[0].ID != "tt0372784" {
		t.Fatalf("unexpected results: %s", w.Body.String())
	}
	if body.Results[0].Poster != nil {
		t.Error(`"N/A" poster must serialize as null`)
	}
}

func TestAPITitleMinUnknown(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	w := get(t, s, "/api/title_min/tt9999999")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 (unavailable, not error), got %d", w.Code)
	}
	var body struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.OK || body.ID != "tt9999999" {
		t.Errorf("expected ok:false with id, got %s", w.Body.String())
	}
}

func TestAPISpotlightNone(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	w := get(t, s, "/api/spotlight")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if id, present := body["id"]; !present || id != nil {
		t.Errorf("expected explicit id:null marker, got %s", w.Body.String())
	}
}

func TestDownload(t *testing.T) {
	f := &stubFetcher{titles: map[string]string{
		"tt0372784": `{"Response":"True","Title":"Batman Begins"}`,
	}}
	s := newTestServer(t, f)

	w := get(t, s, "/download/tt0372784.json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "tt0372784.json") {
		t.Errorf("unexpected content disposition: %q", cd)
	}
	if !strings.Contains(w.Body.String(), "\n  \"Title\"") {
		t.Error("expected indented JSON document")
	}
}

func TestDownloadRequiresJSONSuffix(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	if w := get(t, s, "/download/tt0372784"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without .json suffix, got %d", w.Code)
	}
}

func TestDownloadUnknownID(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	if w := get(t, s, "/download/tt9999999.json"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	w := get(t, s, "/healthz")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("unexpected healthz response: %d %q", w.Code, w.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	w := get(t, s, "/healthz")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "caller-id" {
		t.Errorf("caller-supplied request id must be echoed, got %q", got)
	}
}

// newPagesServer mounts the page routes over minimal template fixtures.
func newPagesServer(t *testing.T, f *stubFetcher) *Server {
	t.Helper()
	dir := t.TempDir()
	fixtures := map[string]string{
		"index.html":  `<html>home</html>`,
		"detail.html": `<html>{{ .M.Title }}</html>`,
	}
	for name, body := range fixtures {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Web.Templates = filepath.Join(dir, "*.html")
	cfg.Web.Static = ""
	svc := catalog.New(f, nil, nil, zeroRand{})
	return New(cfg, svc)
}

func TestTitlePageUnknownID(t *testing.T) {
	s := newPagesServer(t, &stubFetcher{})

	if w := get(t, s, "/title/tt9999999"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown title, got %d", w.Code)
	}
}

func TestTitlePageRenders(t *testing.T) {
	f := &stubFetcher{titles: map[string]string{
		"tt0372784": `{"Response":"True","Title":"Batman Begins"}`,
	}}
	s := newPagesServer(t, f)

	w := get(t, s, "/title/tt0372784")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Batman Begins") {
		t.Errorf("expected rendered title, got %s", w.Body.String())
	}
}

func TestAPIOnlyModeHasNoPages(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	if w := get(t, s, "/"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for pages in API-only mode, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})

	w := get(t, s, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected prometheus exposition output")
	}
}
