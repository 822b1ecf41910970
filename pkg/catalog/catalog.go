// Package catalog orchestrates every logical operation of the proxy:
// derive a cache key, try the disk cache, call upstream on a miss,
// cache the result, and shape it for the caller. Upstream failures die
// here — each operation degrades to its own empty or fallback shape and
// never propagates a raw error to the serving surface.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alicanaksel/Cineseek/pkg/cache/disk"
	"github.com/alicanaksel/Cineseek/pkg/metrics"
	"github.com/alicanaksel/Cineseek/pkg/models"
	"github.com/alicanaksel/Cineseek/pkg/omdb"
	"github.com/alicanaksel/Cineseek/pkg/tracker"
)

const (
	pageSize          = 10
	autocompleteLimit = 6
	discoverLimit     = 18
	spotlightAttempts = 4
)

// ErrNotFound signals an unknown or unavailable record to page-style
// surfaces. It covers every failure mode of a lookup: the surfaces make
// no distinction between "no such id" and "upstream down".
var ErrNotFound = errors.New("catalog: title not found")

// Fetcher issues one authenticated upstream query. *omdb.Client
// implements it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, params url.Values) ([]byte, error)
}

// Rand is the random source used by discover and spotlight. Tests
// substitute a fixed sequence. Implementations must be safe for
// concurrent use: one Service serves many request goroutines.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// lockedRand serializes a *rand.Rand so the default source can be
// shared across request goroutines.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Shuffle(n, swap)
}

// Service resolves logical queries against the cache and upstream.
type Service struct {
	client Fetcher
	cache  *disk.Cache
	trk    tracker.Tracker
	rng    Rand
}

// New creates a Service. cache and trk may be nil (caching and request
// logging disabled); a nil rng gets a time-seeded, mutex-guarded source.
func New(client Fetcher, cache *disk.Cache, trk tracker.Tracker, rng Rand) *Service {
	if rng == nil {
		rng = &lockedRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	return &Service{client: client, cache: cache, trk: trk, rng: rng}
}

// Filter is the post-fetch search filter; zero values mean "no filter".
type Filter struct {
	Type    string
	YearMin int
	YearMax int
}

// Autocomplete returns up to 6 shaped results for a typed query. An
// empty query yields zero items without touching upstream.
func (s *Service) Autocomplete(ctx context.Context, q string) []models.Item {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Item{}
	}

	data, err := s.resolve(ctx, "autocomplete", searchKey(q, 1), searchQuery(q, 1))
	if err != nil {
		return []models.Item{}
	}
	payload, err := omdb.DecodeSearch(data)
	if err != nil {
		return []models.Item{}
	}

	items := shapeItems(payload.Search)
	if len(items) > autocompleteLimit {
		items = items[:autocompleteLimit]
	}
	return items
}

// Search returns one filtered, shaped page of results with pagination
// derived from the upstream total. On upstream failure the result is an
// empty page, never an error.
func (s *Service) Search(ctx context.Context, q string, page int, f Filter) models.SearchResult {
	q = strings.TrimSpace(q)
	if page < 1 {
		page = 1
	}
	res := models.SearchResult{Query: q, Items: []models.Item{}, Page: page, Pages: 1}
	if q == "" {
		res.Page = 1
		return res
	}

	data, err := s.resolve(ctx, "search", searchKey(q, page), searchQuery(q, page))
	if err != nil {
		return res
	}
	payload, err := omdb.DecodeSearch(data)
	if err != nil {
		return res
	}

	total, _ := strconv.Atoi(payload.TotalResults)
	res.Total = total
	res.Pages = pageCount(total)
	for _, it := range payload.Search {
		if passFilter(it, f) {
			res.Items = append(res.Items, shapeItem(it))
		}
	}
	return res
}

// Title returns the decoded detail record for an id, or ErrNotFound.
func (s *Service) Title(ctx context.Context, id string) (*models.Title, error) {
	raw, err := s.titleRaw(ctx, "title", id)
	if err != nil {
		return nil, ErrNotFound
	}
	t, err := omdb.DecodeTitle(raw)
	if err != nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// Export returns the raw detail record as an indented JSON document
// suitable for download, or ErrNotFound.
func (s *Service) Export(ctx context.Context, id string) ([]byte, error) {
	raw, err := s.titleRaw(ctx, "export", id)
	if err != nil {
		return nil, ErrNotFound
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, ErrNotFound
	}
	return buf.Bytes(), nil
}

// TitleMin returns the compact lookup shape with an explicit ok flag;
// any failure yields ok:false carrying the requested id.
func (s *Service) TitleMin(ctx context.Context, id string) models.MinTitle {
	raw, err := s.titleRaw(ctx, "title_min", id)
	if err != nil {
		return models.MinTitle{ID: id}
	}
	t, err := omdb.DecodeTitle(raw)
	if err != nil {
		return models.MinTitle{ID: id}
	}
	return models.MinTitle{
		OK:     true,
		ID:     id,
		Title:  t.Title,
		Year:   t.Year,
		Poster: cleanPoster(t.Poster),
		Type:   t.Type,
		Genre:  t.Genre,
	}
}

// Discover returns up to 18 shuffled cards for a bias keyword, or for a
// random curated keyword when none is given. Items without an imdb id
// are dropped. Failure yields an empty list.
func (s *Service) Discover(ctx context.Context, seed string) []models.Item {
	seed = strings.ToLower(strings.TrimSpace(seed))
	if seed == "" {
		seed = discoverSeeds[s.rng.Intn(len(discoverSeeds))]
	}

	data, err := s.resolve(ctx, "discover", "discover_"+seed, searchQuery(seed, 1))
	if err != nil {
		return []models.Item{}
	}
	payload, err := omdb.DecodeSearch(data)
	if err != nil {
		return []models.Item{}
	}

	items := []models.Item{}
	for _, it := range payload.Search {
		if it.ImdbID == "" {
			continue
		}
		items = append(items, shapeItem(it))
	}
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	if len(items) > discoverLimit {
		items = items[:discoverLimit]
	}
	return items
}

// Spotlight picks one poster-bearing item with its full detail record,
// trying up to 4 random curated keywords. Nil means none available.
func (s *Service) Spotlight(ctx context.Context) *models.Spotlight {
	for attempt := 0; attempt < spotlightAttempts; attempt++ {
		seed := spotlightSeeds[s.rng.Intn(len(spotlightSeeds))]

		data, err := s.resolve(ctx, "spotlight", searchKey(seed, 1), searchQuery(seed, 1))
		if err != nil {
			continue
		}
		payload, err := omdb.DecodeSearch(data)
		if err != nil {
			continue
		}

		var candidates []models.SearchItem
		for _, it := range payload.Search {
			if hasPoster(it.Poster) {
				candidates = append(candidates, it)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		pick := candidates[s.rng.Intn(len(candidates))]
		raw, err := s.titleRaw(ctx, "spotlight", pick.ImdbID)
		if err != nil {
			continue
		}
		full, err := omdb.DecodeTitle(raw)
		if err != nil {
			continue
		}

		return &models.Spotlight{
			ID:     full.ImdbID,
			Title:  full.Title,
			Year:   full.Year,
			Type:   full.Type,
			Poster: cleanPoster(full.Poster),
			Genre:  full.Genre,
			Plot:   full.Plot,
		}
	}
	return nil
}

// titleRaw resolves the cached detail record for an id. The cache key
// is shared across every surface that reads the same record.
func (s *Service) titleRaw(ctx context.Context, op, id string) ([]byte, error) {
	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", "short")
	return s.resolve(ctx, op, "title_"+id, params)
}

// resolve runs the cache-then-fetch pattern for one logical key and
// records the resolution in the request log.
func (s *Service) resolve(ctx context.Context, op, key string, params url.Values) ([]byte, error) {
	start := time.Now()

	cacheStatus := models.CacheBypassed
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues(op).Inc()
			s.record(ctx, op, key, models.CacheHit, models.OutcomeOK, start)
			return data, nil
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
		cacheStatus = models.CacheMiss
	}

	data, err := s.client.Fetch(ctx, params)
	if err != nil {
		outcome := models.OutcomeError
		var apiErr *omdb.APIError
		if errors.As(err, &apiErr) {
			outcome = models.OutcomeNotFound
		}
		s.record(ctx, op, key, cacheStatus, outcome, start)
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, data)
	}
	s.record(ctx, op, key, cacheStatus, models.OutcomeOK, start)
	return data, nil
}

func (s *Service) record(ctx context.Context, op, query, cacheStatus, outcome string, start time.Time) {
	if s.trk == nil {
		return
	}
	_ = s.trk.Record(ctx, models.RequestRecord{
		Operation:   op,
		Query:       query,
		CacheStatus: cacheStatus,
		Outcome:     outcome,
		LatencyMs:   time.Since(start).Milliseconds(),
		RequestID:   RequestIDFrom(ctx),
		CreatedAt:   time.Now().UTC(),
	})
}

func searchQuery(q string, page int) url.Values {
	params := url.Values{}
	params.Set("s", q)
	params.Set("page", strconv.Itoa(page))
	return params
}

func searchKey(q string, page int) string {
	return "s_" + strings.ToLower(q) + "_p" + strconv.Itoa(page)
}

func pageCount(total int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
