package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"vibemint/api/internal/config"
	"vibemint/api/internal/feed"
	"vibemint/api/internal/vibes"
)

// Card is one feed entry. Cards load independently: a failed read marks the
// card, never the page.
type Card struct {
	ID     uint64      `json:"id"`
	Vibe   *vibes.Vibe `json:"vibe,omitempty"`
	Failed bool        `json:"failed,omitempty"`
}

// Page is a rendered feed window.
type Page struct {
	View      vibes.View `json:"view"`
	Page      int        `json:"page"`
	PageCount int        `json:"pageCount"`
	PageSize  int        `json:"pageSize"`
	Total     int        `json:"total"`
	Cards     []Card     `json:"cards"`
}

// FeedService paginates the contract's id lists and loads the visible cards.
// Id lists are cached briefly in redis; vibe likes counts are always read
// fresh from the contract.
type FeedService struct {
	contract  vibes.Contract
	cache     *redis.Client
	cfg       config.FeedConfig
	log       zerolog.Logger
	listGroup singleflight.Group
}

func NewFeedService(contract vibes.Contract, cache *redis.Client, cfg config.FeedConfig, log zerolog.Logger) *FeedService {
	if cfg.PageSize < 1 {
		cfg.PageSize = 12
	}
	if cfg.MaxLimit < cfg.PageSize {
		cfg.MaxLimit = cfg.PageSize * 10
	}
	return &FeedService{
		contract: contract,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// PageSize returns the configured page size.
func (s *FeedService) PageSize() int { return s.cfg.PageSize }

// LoadPage fetches the id list wholesale at limit page*size and loads the
// visible window. A size below 1 means the configured default; out-of-range
// pages clamp rather than fail.
func (s *FeedService) LoadPage(ctx context.Context, view vibes.View, page, size int) (Page, error) {
	if size < 1 {
		size = s.cfg.PageSize
	}
	if size > s.cfg.MaxLimit {
		size = s.cfg.MaxLimit
	}
	if page < 1 {
		page = 1
	}

	limit := page * size
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	ids, err := s.listIDs(ctx, view, limit)
	if err != nil {
		// Degrade to an empty page; the caller surfaces the retry affordance.
		return Page{View: view, Page: 1, PageCount: 1, PageSize: size}, err
	}

	pageCount := feed.PageCount(len(ids), size)
	page = feed.ClampPage(page, pageCount)
	window := feed.Window(ids, page, size)

	return Page{
		View:      view,
		Page:      page,
		PageCount: pageCount,
		PageSize:  size,
		Total:     len(ids),
		Cards:     s.loadCards(ctx, window),
	}, nil
}

// WarmCache refreshes the first-page id lists so cold loads hit warm cache.
func (s *FeedService) WarmCache(ctx context.Context) error {
	for _, view := range []vibes.View{vibes.ViewLatest, vibes.ViewPopular} {
		ids, err := s.fetchIDs(ctx, view, s.cfg.PageSize)
		if err != nil {
			return err
		}
		s.storeIDs(ctx, view, s.cfg.PageSize, ids)
	}
	return nil
}

func (s *FeedService) listIDs(ctx context.Context, view vibes.View, limit int) ([]uint64, error) {
	key := listKey(view, limit)

	if cached, ok := s.cachedIDs(ctx, key); ok {
		return cached, nil
	}

	// Concurrent requests for the same view and limit share one fetch.
	result, err, _ := s.listGroup.Do(key, func() (any, error) {
		ids, err := s.fetchIDs(ctx, view, limit)
		if err != nil {
			return nil, err
		}
		s.storeIDs(ctx, view, limit, ids)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]uint64), nil
}

func (s *FeedService) fetchIDs(ctx context.Context, view vibes.View, limit int) ([]uint64, error) {
	if view == vibes.ViewPopular {
		return s.contract.ListPopular(ctx, limit)
	}
	return s.contract.ListLatest(ctx, limit)
}

func (s *FeedService) cachedIDs(ctx context.Context, key string) ([]uint64, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var ids []uint64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (s *FeedService) storeIDs(ctx context.Context, view vibes.View, limit int, ids []uint64) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, listKey(view, limit), raw, s.cfg.CacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("view", string(view)).Msg("feed cache store failed")
	}
}

// loadCards fetches each card's vibe independently and concurrently. Cards
// populate in their window order regardless of completion order.
func (s *FeedService) loadCards(ctx context.Context, ids []uint64) []Card {
	cards := make([]Card, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint64) {
			defer wg.Done()

			vibe, err := s.contract.Get(ctx, id)
			if err != nil {
				s.log.Warn().Err(err).Uint64("vibe_id", id).Msg("card load failed")
				cards[i] = Card{ID: id, Failed: true}
				return
			}
			cards[i] = Card{ID: id, Vibe: &vibe}
		}(i, id)
	}
	wg.Wait()

	return cards
}

func listKey(view vibes.View, limit int) string {
	return fmt.Sprintf("feed:%s:%d", view, limit)
}
