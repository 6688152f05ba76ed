package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/predict"
)

// Prediction results stay valid until new games land; window stats turn
// over faster since they feed intermediate displays.
const (
	PredictionTTL = 6 * time.Hour
	FormTTL       = 1 * time.Hour
)

// RedisCache handles caching of prediction results and rolling form.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func predictionKey(homeAbbr, visitorAbbr string, gameDate time.Time) string {
	return fmt.Sprintf("augur:prediction:%s:%s:%s", homeAbbr, visitorAbbr, gameDate.Format("2006-01-02"))
}

func formKey(teamAbbr string, asOf time.Time) string {
	return fmt.Sprintf("augur:form:%s:%s", teamAbbr, asOf.Format("2006-01-02"))
}

// SetPrediction caches a matchup result.
func (rc *RedisCache) SetPrediction(ctx context.Context, homeAbbr, visitorAbbr string, gameDate time.Time, result *predict.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling prediction: %w", err)
	}
	return rc.client.Set(ctx, predictionKey(homeAbbr, visitorAbbr, gameDate), data, PredictionTTL).Err()
}

// GetPrediction returns a cached matchup result, or nil on a miss.
func (rc *RedisCache) GetPrediction(ctx context.Context, homeAbbr, visitorAbbr string, gameDate time.Time) (*predict.Result, error) {
	data, err := rc.client.Get(ctx, predictionKey(homeAbbr, visitorAbbr, gameDate)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result predict.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling cached prediction: %w", err)
	}
	return &result, nil
}

// SetForm caches a team's rolling-window stats.
func (rc *RedisCache) SetForm(ctx context.Context, asOf time.Time, stats feature.TeamWindowStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshaling form: %w", err)
	}
	return rc.client.Set(ctx, formKey(stats.Team, asOf), data, FormTTL).Err()
}

// GetForm returns cached rolling-window stats, or nil on a miss.
func (rc *RedisCache) GetForm(ctx context.Context, teamAbbr string, asOf time.Time) (*feature.TeamWindowStats, error) {
	data, err := rc.client.Get(ctx, formKey(teamAbbr, asOf)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats feature.TeamWindowStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshaling cached form: %w", err)
	}
	return &stats, nil
}

// InvalidateTeam drops every cached entry touching a team, called after new
// games for it are ingested.
func (rc *RedisCache) InvalidateTeam(ctx context.Context, teamAbbr string) error {
	patterns := []string{
		fmt.Sprintf("augur:prediction:%s:*", teamAbbr),
		fmt.Sprintf("augur:prediction:*:%s:*", teamAbbr),
		fmt.Sprintf("augur:form:%s:*", teamAbbr),
	}

	for _, pattern := range patterns {
		iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := rc.client.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}
