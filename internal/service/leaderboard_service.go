package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/observability"
	"github.com/noah-isme/pydays-api/internal/repository"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	leaderboardCacheKey     = "leaderboard:v1:top"
)

// LeaderboardService ranks users by total score.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) (dto.LeaderboardResponse, error)
	Invalidate(ctx context.Context)
}

type leaderboardService struct {
	repo   repository.ProgressRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewLeaderboardService builds the leaderboard service. A nil cache disables
// caching.
func NewLeaderboardService(repo repository.ProgressRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &leaderboardService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

// Top returns at most limit users. The full top list is cached once and
// sliced per request.
func (s *leaderboardService) Top(ctx context.Context, limit int) (dto.LeaderboardResponse, error) {
	limit = clampLeaderboardLimit(limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
			var entries []dto.LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				observability.LeaderboardRequests().WithLabelValues("hit").Inc()
				return dto.LeaderboardResponse{Items: headEntries(entries, limit), CacheHit: true}, nil
			}
		}
	}

	stats, err := s.repo.TopStats(ctx, maxLeaderboardLimit)
	if err != nil {
		observability.LeaderboardRequests().WithLabelValues("error").Inc()
		return dto.LeaderboardResponse{}, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(stats))
	for i, item := range stats {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:             i + 1,
			UserID:           item.UserID,
			TotalScore:       item.TotalScore,
			LessonsCompleted: item.LessonsCompleted,
			ChallengesPassed: item.ChallengesPassed,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write leaderboard cache")
			}
		}
	}

	observability.LeaderboardRequests().WithLabelValues("miss").Inc()
	return dto.LeaderboardResponse{Items: headEntries(entries, limit), CacheHit: false}, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
	}
}

func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}

func headEntries(entries []dto.LeaderboardEntry, limit int) []dto.LeaderboardEntry {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		return []dto.LeaderboardEntry{}
	}
	return entries
}
