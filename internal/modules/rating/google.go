package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultPlacesURL = "https://maps.googleapis.com/maps/api/place/details/json"

type GoogleConfig struct {
	APIKey         string
	PlaceID        string
	MapsLink       string
	CacheFile      string
	CacheTTL       time.Duration
	Timeout        time.Duration
	FailureBackoff time.Duration
	// BaseURL overrides the Place Details endpoint.
	BaseURL string
}

// GooglePlaces reads rating and review count from the Places Details API.
type GooglePlaces struct {
	cfg    GoogleConfig
	client *http.Client
	cache  *FileCache
	group  singleflight.Group
	log    *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	failedUntil time.Time
}

func NewGooglePlaces(cfg GoogleConfig, log *zap.Logger) *GooglePlaces {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPlacesURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GooglePlaces{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  NewFileCache(cfg.CacheFile, cfg.CacheTTL),
		log:    log,
		now:    time.Now,
	}
}

type placeDetails struct {
	Result struct {
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
	} `json:"result"`
	Status string `json:"status"`
}

func (g *GooglePlaces) Fetch(ctx context.Context) *Rating {
	if g.cfg.APIKey == "" {
		return g.linkOnly()
	}

	now := g.now()
	if cached, ok := g.cache.Get(now); ok {
		if cached.Link == "" {
			cached.Link = g.cfg.MapsLink
		}
		return cached
	}

	g.mu.Lock()
	backingOff := now.Before(g.failedUntil)
	g.mu.Unlock()
	if backingOff {
		return g.linkOnly()
	}

	// the shared fetch is detached from the first caller's request
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan("details", func() (any, error) {
		r, err := g.fetchLive(shared)
		if err != nil {
			g.log.Warn("google rating fetch failed", zap.Error(err))
			if !errors.Is(err, context.Canceled) {
				g.mu.Lock()
				g.failedUntil = g.now().Add(g.cfg.FailureBackoff)
				g.mu.Unlock()
			}
			return nil, nil
		}
		g.cache.Put(*r, g.now())
		return r, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return g.linkOnly()
	}

	r, _ := res.Val.(*Rating)
	if r == nil {
		return g.linkOnly()
	}
	out := *r
	return &out
}

func (g *GooglePlaces) fetchLive(ctx context.Context) (*Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("place_id", g.cfg.PlaceID)
	q.Set("fields", "rating,user_ratings_total")
	q.Set("key", g.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api status %d", resp.StatusCode)
	}

	var body placeDetails
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	return &Rating{
		Rating: body.Result.Rating,
		Count:  body.Result.UserRatingsTotal,
		Link:   g.cfg.MapsLink,
	}, nil
}

func (g *GooglePlaces) linkOnly() *Rating {
	if g.cfg.MapsLink == "" {
		return nil
	}
	return &Rating{Link: g.cfg.MapsLink}
}
