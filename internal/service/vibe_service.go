package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"vibemint/api/internal/vibes"
)

// VibeService fronts the contract's single-vibe operations. It adds the
// client-side like guard and the monotonic liked cache; the contract stays
// the authority on final state, and no local copy is ever incremented.
type VibeService struct {
	contract  vibes.Contract
	cache     *redis.Client
	log       zerolog.Logger
	likeGroup singleflight.Group
}

func NewVibeService(contract vibes.Contract, cache *redis.Client, log zerolog.Logger) *VibeService {
	return &VibeService{
		contract: contract,
		cache:    cache,
		log:      log,
	}
}

// Get reads one vibe fresh from the contract.
func (s *VibeService) Get(ctx context.Context, id uint64) (vibes.Vibe, error) {
	return s.contract.Get(ctx, id)
}

// Create mints a vibe for creator. Validation happens in the binding before
// any RPC; a failed create leaves the caller's draft untouched.
func (s *VibeService) Create(ctx context.Context, creator string, nv vibes.NewVibe) (vibes.TxHandle, error) {
	handle, err := s.contract.Create(ctx, creator, nv)
	if err != nil {
		return vibes.TxHandle{}, err
	}

	s.log.Info().Str("creator", creator).Str("tx", handle.Hash).Msg("vibe minted")
	return handle, nil
}

// Like submits a like from liker on vibe id. The hasLiked pre-check and the
// singleflight key give at-most-one-in-flight per (liker, id) from this
// process; duplicates racing past both still revert on-chain.
func (s *VibeService) Like(ctx context.Context, liker string, id uint64) (vibes.TxHandle, error) {
	liked, err := s.HasLiked(ctx, id, liker)
	if err == nil && liked {
		return vibes.TxHandle{}, vibes.ErrAlreadyLiked
	}

	result, err, _ := s.likeGroup.Do(likeKey(liker, id), func() (any, error) {
		handle, err := s.contract.Like(ctx, liker, id)
		if err != nil {
			return nil, err
		}
		s.markLiked(ctx, liker, id)
		return handle, nil
	})
	if err != nil {
		return vibes.TxHandle{}, err
	}
	return result.(vibes.TxHandle), nil
}

// HasLiked reports whether address liked vibe id. Positive answers are
// cached without expiry: a like never un-happens.
func (s *VibeService) HasLiked(ctx context.Context, id uint64, address string) (bool, error) {
	if s.cache != nil {
		hit, err := s.cache.SIsMember(ctx, likedSetKey(address), id).Result()
		if err == nil && hit {
			return true, nil
		}
	}

	liked, err := s.contract.HasLiked(ctx, id, address)
	if err != nil {
		return false, err
	}
	if liked {
		s.markLiked(ctx, address, id)
	}
	return liked, nil
}

// Streak reads the contract's posting streak for an address.
func (s *VibeService) Streak(ctx context.Context, address string) (uint64, error) {
	return s.contract.Streak(ctx, address)
}

func (s *VibeService) markLiked(ctx context.Context, address string, id uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SAdd(ctx, likedSetKey(address), id).Err(); err != nil {
		s.log.Warn().Err(err).Str("address", address).Msg("liked cache update failed")
	}
}

func likeKey(address string, id uint64) string {
	return fmt.Sprintf("like:%s:%d", address, id)
}

func likedSetKey(address string) string {
	return fmt.Sprintf("liked:%s", address)
}
