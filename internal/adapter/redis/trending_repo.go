package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const trendingKey = "trending:searches"

// TrendingSearches aggregates search queries in a sorted set, one score
// increment per search.
type TrendingSearches struct {
	client *redis.Client
}

func NewTrendingSearches(client *redis.Client) *TrendingSearches {
	return &TrendingSearches{client: client}
}

func (t *TrendingSearches) Record(ctx context.Context, query string) error {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}
	return t.client.ZIncrBy(ctx, trendingKey, 1, normalized).Err()
}

type TrendingEntry struct {
	Query string  `json:"query"`
	Count float64 `json:"count"`
}

func (t *TrendingSearches) Top(ctx context.Context, n int64) ([]TrendingEntry, error) {
	if n <= 0 {
		n = 10
	}
	results, err := t.client.ZRevRangeWithScores(ctx, trendingKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trending searches: %w", err)
	}

	entries := make([]TrendingEntry, 0, len(results))
	for _, z := range results {
		query, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, TrendingEntry{Query: query, Count: z.Score})
	}
	return entries, nil
}
